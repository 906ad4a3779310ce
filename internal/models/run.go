package models

import (
	"time"

	"mrp-service/internal/isoweek"
)

// PlanRun es el encabezado persistido de una corrida del plan de
// requerimientos (histórico en PostgreSQL).
type PlanRun struct {
	ID          int64            `json:"id" db:"id"`
	ClosingDate time.Time        `json:"closing_date" db:"closing_date"`
	YearWeek    isoweek.YearWeek `json:"year_week" db:"year_week"`
	Clusters    string           `json:"clusters" db:"clusters"`
	Materials   int              `json:"materials" db:"materials"`
	Weeks       int              `json:"weeks" db:"weeks"`
	Adjustments int              `json:"adjustments" db:"adjustments"`
	TotalOrders int              `json:"total_orders" db:"total_orders"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// DiagnosticsResult agrupa las advertencias de calidad de datos detectadas
// sobre el listado final. Son de solo lectura: no mutan el resultado.
type DiagnosticsResult struct {
	MissingMaterials    []string `json:"missing_materials"`
	MissingSupplierInfo []string `json:"missing_supplier_info"`
}

// Clean indica que no hay advertencias pendientes.
func (d DiagnosticsResult) Clean() bool {
	return len(d.MissingMaterials) == 0 && len(d.MissingSupplierInfo) == 0
}
