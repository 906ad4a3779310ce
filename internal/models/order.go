package models

import (
	"time"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
)

// PurchaseOrderRow representa una orden de compra abierta (estado PEDIDO),
// agregada por (material, semana). Notes nunca es nulo: ausente se vuelve "".
type PurchaseOrderRow struct {
	Material     string           `json:"material"`
	YearWeek     isoweek.YearWeek `json:"year_week"`
	Order        string           `json:"order"`
	Status       string           `json:"status"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Registration string           `json:"registration"`
	Notes        string           `json:"notes"`
	Date         *time.Time       `json:"date,omitempty"`
}
