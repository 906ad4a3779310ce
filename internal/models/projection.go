package models

import (
	"time"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
)

// ProjectedRow es una fila (material, semana) de la proyección de stock,
// resultado del cruce de consumos, stock y compras más los datos del maestro.
//
// El motor de ajuste es dueño exclusivo de Quantity, QuantityAccum,
// StockFinal, Notes y Date durante la corrida; el resto son entradas de solo
// lectura. Invariante permanente:
//
//	StockFinal = NeedAccum + Stock + QuantityAccum
type ProjectedRow struct {
	Material     string           `json:"material"`
	YearWeek     isoweek.YearWeek `json:"year_week"`
	SKU          string           `json:"sku"`
	Category     string           `json:"category"`
	MaterialNeed decimal.Decimal  `json:"material_need"`
	NeedAccum    decimal.Decimal  `json:"need_accum"`

	Stock       decimal.Decimal `json:"stock"`
	ClosingDate *time.Time      `json:"closing_date,omitempty"`

	Order        string          `json:"order"`
	Status       string          `json:"status"`
	Registration string          `json:"registration"`
	Quantity     decimal.Decimal `json:"quantity"`

	QuantityAccum decimal.Decimal `json:"quantity_accum"`
	StockFinal    decimal.Decimal `json:"stock_final"`

	Notes string     `json:"notes"`
	Date  *time.Time `json:"date,omitempty"`

	// Datos del maestro de materiales; vacíos cuando el material no existe
	// en el auxiliar (los diagnósticos lo reportan, la fila no se descarta).
	Description         string           `json:"description"`
	Unit                string           `json:"um"`
	Supplier            string           `json:"supplier"`
	SupplierName        string           `json:"supplier_name"`
	SupplierCurrency    string           `json:"supplier_currency"`
	SupplierPrice       *decimal.Decimal `json:"supplier_price,omitempty"`
	SupplierMinLot      *decimal.Decimal `json:"supplier_min_lot,omitempty"`
	SupplierLeadTime    *int             `json:"supplier_lead_time,omitempty"`
	SupplierPaymentTerm string           `json:"supplier_payment_term"`
	SupplierNotes       string           `json:"supplier_notes"`
}

// Master retorna la vista de maestro de la fila, para los diagnósticos.
func (r *ProjectedRow) Master() MaterialMaster {
	return MaterialMaster{
		Material:            r.Material,
		Description:         r.Description,
		Unit:                r.Unit,
		Supplier:            r.Supplier,
		SupplierName:        r.SupplierName,
		SupplierCurrency:    r.SupplierCurrency,
		SupplierPrice:       r.SupplierPrice,
		SupplierMinLot:      r.SupplierMinLot,
		SupplierLeadTime:    r.SupplierLeadTime,
		SupplierPaymentTerm: r.SupplierPaymentTerm,
		SupplierNotes:       r.SupplierNotes,
	}
}

// RecommendedOrder es una fila del listado final de compras sugeridas: toda
// fila de la proyección que terminó con cantidad > 0.
type RecommendedOrder struct {
	Material            string           `json:"material"`
	Description         string           `json:"description"`
	Unit                string           `json:"um"`
	Date                *time.Time       `json:"date,omitempty"`
	YearWeek            isoweek.YearWeek `json:"year_week"`
	Quantity            decimal.Decimal  `json:"quantity"`
	SupplierCurrency    string           `json:"supplier_currency"`
	SupplierPrice       *decimal.Decimal `json:"supplier_price,omitempty"`
	SupplierNotes       string           `json:"supplier_notes"`
	Notes               string           `json:"notes"`
	Status              string           `json:"status"`
	Registration        string           `json:"registration"`
	Supplier            string           `json:"supplier"`
	SupplierName        string           `json:"supplier_name"`
	SupplierPaymentTerm string           `json:"supplier_payment_term"`
}
