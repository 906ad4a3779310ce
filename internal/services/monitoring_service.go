package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"mrp-service/internal/cache"
	"mrp-service/internal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type MonitoringService interface {
	GetMetrics(ctx context.Context) *models.MonitoringResponse
	RecordRun(data models.RunData)
	GetCacheStats() models.CacheMetrics
	GetDatabaseStats(ctx context.Context) models.DatabaseMetrics
	GetRedisStats(ctx context.Context) models.RedisMetrics
}

type monitoringService struct {
	logger         *zap.Logger
	redisClient    *redis.Client
	dbPool         *sql.DB
	referenceCache *cache.ReferenceCache

	// Métricas de corridas
	runsMutex     sync.RWMutex
	totalRuns     int
	failedRuns    int
	totalDuration time.Duration
	lastRun       models.RunData
}

// NewMonitoringService crea el servicio de monitoring. redisClient y dbPool
// pueden ser nil cuando el servicio arranca en modo degradado.
func NewMonitoringService(
	logger *zap.Logger,
	redisClient *redis.Client,
	dbPool *sql.DB,
	referenceCache *cache.ReferenceCache,
) MonitoringService {
	return &monitoringService{
		logger:         logger,
		redisClient:    redisClient,
		dbPool:         dbPool,
		referenceCache: referenceCache,
	}
}

func (s *monitoringService) RecordRun(data models.RunData) {
	s.runsMutex.Lock()
	defer s.runsMutex.Unlock()

	s.totalRuns++
	if data.Failed {
		s.failedRuns++
	}
	s.totalDuration += data.Duration
	s.lastRun = data
}

func (s *monitoringService) GetMetrics(ctx context.Context) *models.MonitoringResponse {
	return &models.MonitoringResponse{
		Runs:      s.calculateRunMetrics(),
		Cache:     s.GetCacheStats(),
		Database:  s.GetDatabaseStats(ctx),
		Redis:     s.GetRedisStats(ctx),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0",
	}
}

func (s *monitoringService) calculateRunMetrics() models.RunMetrics {
	s.runsMutex.RLock()
	defer s.runsMutex.RUnlock()

	var avgMs float64
	if s.totalRuns > 0 {
		avgMs = float64(s.totalDuration.Milliseconds()) / float64(s.totalRuns)
	}

	return models.RunMetrics{
		TotalRuns:        s.totalRuns,
		FailedRuns:       s.failedRuns,
		LastRunMaterials: s.lastRun.Materials,
		LastRunWeeks:     s.lastRun.Weeks,
		LastRunOrders:    s.lastRun.Orders,
		LastAdjustments:  s.lastRun.Adjustments,
		AvgDurationMs:    fmt.Sprintf("%.2fms", avgMs),
		LastDurationMs:   fmt.Sprintf("%dms", s.lastRun.Duration.Milliseconds()),
	}
}

func (s *monitoringService) GetCacheStats() models.CacheMetrics {
	if s.referenceCache == nil {
		return models.CacheMetrics{Status: "offline"}
	}

	stats := s.referenceCache.GetStats()

	var hitRate float64
	if stats.TotalRequests > 0 {
		hitRate = float64(stats.Hits) / float64(stats.TotalRequests)
	}

	return models.CacheMetrics{
		Connected:         true,
		TotalKeys:         stats.TotalKeys,
		HitRatePercentage: fmt.Sprintf("%.2f%%", hitRate*100),
		TotalHits:         stats.Hits,
		TotalMisses:       stats.Misses,
		Status:            "online",
	}
}

func (s *monitoringService) GetDatabaseStats(ctx context.Context) models.DatabaseMetrics {
	if s.dbPool == nil {
		return models.DatabaseMetrics{Status: "offline"}
	}

	stats := s.dbPool.Stats()
	return models.DatabaseMetrics{
		ActiveConnections: stats.OpenConnections,
		Status:            "online",
	}
}

func (s *monitoringService) GetRedisStats(ctx context.Context) models.RedisMetrics {
	if s.redisClient == nil {
		return models.RedisMetrics{Status: "offline"}
	}

	_, err := s.redisClient.Ping(ctx).Result()
	connected := err == nil

	status := "offline"
	if connected {
		status = "online"
	}

	return models.RedisMetrics{
		Connected: connected,
		Status:    status,
	}
}
