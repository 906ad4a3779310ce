package models

import (
	"time"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
)

// DemandRecord representa una línea del archivo de consumos ya filtrada
// (categoría "IN"). Es entrada inmutable del normalizador.
type DemandRecord struct {
	Material    string           `json:"material"`
	Category    string           `json:"category"`
	Need        decimal.Decimal  `json:"material_need"`
	ReleaseDate time.Time        `json:"release_date"`
	SKU         string           `json:"sku"`
	YearWeek    isoweek.YearWeek `json:"year_week"`
}

// WeeklyMaterialRow es una fila de la serie semanal densa por material.
//
// Invariante: para un material fijo las semanas forman una secuencia semanal
// contigua sobre [semana mínima global, semana máxima global], y NeedAccum es
// la suma corrida de -MaterialNeed en orden de semana.
type WeeklyMaterialRow struct {
	Material     string           `json:"material"`
	YearWeek     isoweek.YearWeek `json:"year_week"`
	SKU          string           `json:"sku"`
	Category     string           `json:"category"`
	MaterialNeed decimal.Decimal  `json:"material_need"`
	NeedAccum    decimal.Decimal  `json:"need_accum"`
}
