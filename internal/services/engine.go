package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mrp-service/internal/models"
)

// Notas que el motor agrega a las filas ajustadas.
const (
	noteNoMinLot        = "No se tiene lote mínimo. Ajuste basado en stock final. "
	noteUnknownLeadTime = "Lead time desconocido. No se puede calcular la fecha de pedido. "
)

// EngineService define la interfaz del motor de ajuste de órdenes
type EngineService interface {
	// Adjust recorre la proyección material por material y corrige todo
	// stock final negativo insertando o aumentando cantidades de compra.
	// Las filas deben venir ordenadas por (material, semana). Retorna la
	// cantidad de ajustes aplicados.
	Adjust(rows []models.ProjectedRow) int

	// Recompute recalcula quantity_accum y stock_final de toda la
	// proyección. Restablece el invariante
	// stock_final = need_accum + stock + quantity_accum.
	Recompute(rows []models.ProjectedRow)
}

// engineService implementa EngineService
type engineService struct {
	logger *zap.Logger
}

// NewEngineService crea una nueva instancia del motor
func NewEngineService(logger *zap.Logger) EngineService {
	return &engineService{logger: logger}
}

func (e *engineService) Adjust(rows []models.ProjectedRow) int {
	adjustments := 0
	// Cada material se procesa de forma independiente: un cambio en un
	// material nunca afecta a otro.
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].Material == rows[start].Material {
			end++
		}
		adjustments += e.adjustMaterial(rows[start:end])
		start = end
	}
	return adjustments
}

// adjustMaterial aplica el lazo de punto fijo sobre la serie de un material:
// busca la primera semana con stock final negativo, sube su cantidad,
// recalcula los acumulados y repite hasta que no queden negativos.
//
// Termina siempre: cada pasada sube la cantidad de la primera fila negativa
// en un monto positivo (lote mínimo o el déficit exacto), así que la cantidad
// de filas negativas decrece estrictamente entre pasadas.
func (e *engineService) adjustMaterial(group []models.ProjectedRow) int {
	adjustments := 0
	for {
		idx := firstNegative(group)
		if idx < 0 {
			return adjustments
		}

		row := &group[idx]
		deficit := row.StockFinal

		// Un lote mínimo no positivo en el maestro se trata como
		// desconocido para garantizar el avance del lazo.
		if row.SupplierMinLot != nil && row.SupplierMinLot.IsPositive() {
			row.Quantity = row.Quantity.Add(*row.SupplierMinLot)
		} else {
			row.Quantity = row.Quantity.Sub(deficit)
			row.Notes += noteNoMinLot
		}

		// Si ya hay órdenes en semanas posteriores, sugerir adelantarlas.
		// Es solo informativo: la orden no se mueve.
		futureTotal := decimal.Zero
		for j := idx + 1; j < len(group); j++ {
			if group[j].Quantity.IsPositive() {
				futureTotal = futureTotal.Add(group[j].Quantity)
			}
		}
		if futureTotal.IsPositive() {
			row.Notes += fmt.Sprintf("Sugerencia: Adelantar pedido de %s. Total de órdenes futuras: %s. ",
				row.Material, futureTotal)
		}

		// Fecha de pedido: lunes de la semana ISO más el lead time del
		// proveedor. Sin lead time la cantidad igual se corrige, pero la
		// fecha queda sin calcular.
		if row.SupplierLeadTime != nil {
			orderDate := row.YearWeek.Monday().AddDate(0, 0, *row.SupplierLeadTime)
			row.Date = &orderDate
		} else {
			row.Notes += noteUnknownLeadTime
		}

		e.Recompute(group)
		adjustments++

		e.logger.Debug("Ajuste aplicado",
			zap.String("material", row.Material),
			zap.Int("year_week", int(row.YearWeek)),
			zap.String("deficit", deficit.String()),
			zap.String("quantity", row.Quantity.String()),
		)
	}
}

func (e *engineService) Recompute(rows []models.ProjectedRow) {
	accum := decimal.Zero
	for i := range rows {
		if i == 0 || rows[i].Material != rows[i-1].Material {
			accum = decimal.Zero
		}
		accum = accum.Add(rows[i].Quantity)
		rows[i].QuantityAccum = accum
		rows[i].StockFinal = rows[i].NeedAccum.Add(rows[i].Stock).Add(rows[i].QuantityAccum)
	}
}

func firstNegative(group []models.ProjectedRow) int {
	for i := range group {
		if group[i].StockFinal.IsNegative() {
			return i
		}
	}
	return -1
}
