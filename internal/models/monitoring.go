package models

import "time"

// MonitoringResponse respuesta completa del sistema de monitoring
type MonitoringResponse struct {
	Runs      RunMetrics      `json:"runs"`
	Cache     CacheMetrics    `json:"cache"`
	Database  DatabaseMetrics `json:"database"`
	Redis     RedisMetrics    `json:"redis"`
	Timestamp string          `json:"timestamp"`
	Version   string          `json:"version"`
}

// RunMetrics métricas de corridas del plan
type RunMetrics struct {
	TotalRuns        int    `json:"total_runs"`
	FailedRuns       int    `json:"failed_runs"`
	LastRunMaterials int    `json:"last_run_materials"`
	LastRunWeeks     int    `json:"last_run_weeks"`
	LastRunOrders    int    `json:"last_run_orders"`
	LastAdjustments  int    `json:"last_adjustments"`
	AvgDurationMs    string `json:"avg_duration_ms"`
	LastDurationMs   string `json:"last_duration_ms"`
}

// CacheMetrics métricas del caché de maestro de materiales
type CacheMetrics struct {
	Connected         bool   `json:"connected"`
	TotalKeys         int    `json:"total_keys"`
	HitRatePercentage string `json:"hit_rate_percentage"`
	TotalHits         int64  `json:"total_hits"`
	TotalMisses       int64  `json:"total_misses"`
	Status            string `json:"status"`
}

// DatabaseMetrics métricas de base de datos
type DatabaseMetrics struct {
	ActiveConnections int    `json:"active_connections"`
	Status            string `json:"status"`
}

// RedisMetrics métricas de Redis
type RedisMetrics struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
}

// RunData datos de una corrida individual, registrada por el servicio de plan
type RunData struct {
	Duration    time.Duration
	Materials   int
	Weeks       int
	Orders      int
	Adjustments int
	Failed      bool
	Timestamp   time.Time
}
