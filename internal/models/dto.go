package models

// ===== REQUEST DTOs =====

// PlanRequest parámetros del formulario multipart de POST /api/v1/mrp/plan.
// Los tres archivos (consumos, stock, compras) viajan como partes del mismo
// formulario.
type PlanRequest struct {
	FechaStock string   `form:"fecha_stock" validate:"required,datetime=2006-01-02"`
	Clusters   []string `form:"clusters" validate:"omitempty,dive,min=1"`
}

// ===== RESPONSE DTOs =====

// PlanResponse respuesta de una corrida del plan
type PlanResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		RunID       int64              `json:"run_id,omitempty"`
		Orders      []RecommendedOrder `json:"orders"`
		Diagnostics DiagnosticsResult  `json:"diagnostics"`
		Summary     PlanSummary        `json:"summary"`
		Warnings    []string           `json:"warnings,omitempty"`
		Timestamp   string             `json:"timestamp"`
	} `json:"data"`
}

// PlanSummary resumen de una corrida
type PlanSummary struct {
	YearWeek    int    `json:"year_week"`
	Materials   int    `json:"materials"`
	Weeks       int    `json:"weeks"`
	Adjustments int    `json:"adjustments"`
	TotalOrders int    `json:"total_orders"`
	Elapsed     string `json:"elapsed"`
}

// RunsResponse respuesta para el histórico de corridas
type RunsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		TotalRuns int        `json:"total_runs"`
		Runs      []*PlanRun `json:"runs"`
		Timestamp string     `json:"timestamp"`
	} `json:"data"`
}

// RunDetailResponse respuesta para una corrida puntual con sus órdenes
type RunDetailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Run       *PlanRun           `json:"run"`
		Orders    []RecommendedOrder `json:"orders"`
		Timestamp string             `json:"timestamp"`
	} `json:"data"`
}
