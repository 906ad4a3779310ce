package models

import (
	"time"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
)

// StoreStock representa una fila del archivo de stock por depósito,
// enriquecida con el agrupador de depósitos del auxiliar.
type StoreStock struct {
	Material         string          `json:"material"`
	Store            string          `json:"store"`
	Stock            decimal.Decimal `json:"stock"`
	ClusterStore     string          `json:"cluster_store"`
	NameClusterStore string          `json:"name_cluster_store"`
}

// StockSnapshot es la foto de stock consolidada: una cifra por material,
// atribuida a la semana ISO de la fecha de cierre elegida. Solo se soporta
// una foto por corrida.
type StockSnapshot struct {
	Material    string           `json:"material"`
	Stock       decimal.Decimal  `json:"stock"`
	ClosingDate time.Time        `json:"closing_date"`
	YearWeek    isoweek.YearWeek `json:"year_week"`
}
