package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"mrp-service/internal/ingest"
	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

func newTestPlanService() PlanService {
	logger := zap.NewNop()
	return NewPlanService(
		NewNormalizerService(logger),
		NewEngineService(logger),
		NewDiagnosticsService(logger),
		nil,
		nil,
		nil,
		nil,
		logger,
	)
}

func TestBuildProjectionForwardFillsStock(t *testing.T) {
	planner := newTestPlanService()

	weekly := []models.WeeklyMaterialRow{
		{Material: "MAT-A", YearWeek: 202510, NeedAccum: dec(0)},
		{Material: "MAT-A", YearWeek: 202511, NeedAccum: dec(-3)},
		{Material: "MAT-A", YearWeek: 202512, NeedAccum: dec(-3)},
	}
	closing := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StockSnapshot{
		{Material: "MAT-A", Stock: dec(5), ClosingDate: closing, YearWeek: 202511},
	}

	rows := planner.BuildProjection(weekly, snapshots, nil, nil)
	require.Len(t, rows, 3)

	// Antes de la semana de la foto no hay stock
	assert.True(t, rows[0].Stock.IsZero())
	assert.Nil(t, rows[0].ClosingDate)

	// Desde la semana de la foto el stock se arrastra hacia adelante
	for _, row := range rows[1:] {
		assert.True(t, row.Stock.Equal(dec(5)))
		require.NotNil(t, row.ClosingDate)
		assert.Equal(t, closing, *row.ClosingDate)
	}

	// stock_final = need_accum + stock + quantity_accum
	assert.True(t, rows[0].StockFinal.IsZero())
	assert.True(t, rows[1].StockFinal.Equal(dec(2)))
	assert.True(t, rows[2].StockFinal.Equal(dec(2)))
}

func TestBuildProjectionJoinsOrdersAndMaster(t *testing.T) {
	planner := newTestPlanService()

	weekly := []models.WeeklyMaterialRow{
		{Material: "MAT-A", YearWeek: 202510, NeedAccum: dec(0)},
		{Material: "MAT-A", YearWeek: 202511, NeedAccum: dec(0)},
	}
	date := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	orders := []models.PurchaseOrderRow{
		{
			Material:     "MAT-A",
			YearWeek:     202511,
			Order:        "OC-9",
			Status:       "PEDIDO",
			Quantity:     dec(4),
			Registration: "REG-1",
			Notes:        "urgente",
			Date:         &date,
		},
	}
	masters := map[string]models.MaterialMaster{
		"MAT-A": {
			Material:       "MAT-A",
			Description:    "Materia prima",
			Unit:           "KG",
			Supplier:       "PRV-01",
			SupplierMinLot: decPtr(8),
		},
	}

	rows := planner.BuildProjection(weekly, nil, orders, masters)
	require.Len(t, rows, 2)

	// Semana sin compra: celdas de compra en cero
	assert.True(t, rows[0].Quantity.IsZero())
	assert.Empty(t, rows[0].Order)

	assert.Equal(t, "OC-9", rows[1].Order)
	assert.Equal(t, "PEDIDO", rows[1].Status)
	assert.Equal(t, "urgente", rows[1].Notes)
	assert.True(t, rows[1].Quantity.Equal(dec(4)))
	require.NotNil(t, rows[1].Date)

	// Enriquecimiento con el maestro en todas las semanas
	for _, row := range rows {
		assert.Equal(t, "Materia prima", row.Description)
		assert.Equal(t, "KG", row.Unit)
		require.NotNil(t, row.SupplierMinLot)
	}

	// El acumulado de compras arrastra la cantidad de la orden
	assert.True(t, rows[1].QuantityAccum.Equal(dec(4)))
	assert.True(t, rows[1].StockFinal.Equal(dec(4)))
}

func TestBuildProjectionUnknownMaterialStaysEmpty(t *testing.T) {
	planner := newTestPlanService()

	weekly := []models.WeeklyMaterialRow{
		{Material: "MAT-Z", YearWeek: 202510, NeedAccum: dec(-2)},
	}

	rows := planner.BuildProjection(weekly, nil, nil, map[string]models.MaterialMaster{})
	require.Len(t, rows, 1)

	// Sin maestro la fila no se descarta; los diagnósticos la reportan
	assert.Empty(t, rows[0].Description)
	assert.Nil(t, rows[0].SupplierMinLot)
	assert.True(t, rows[0].StockFinal.Equal(dec(-2)))
}

func TestEarlyOrdersDetection(t *testing.T) {
	orders := []models.PurchaseOrderRow{
		{Material: "MAT-A", YearWeek: 202508},
		{Material: "MAT-B", YearWeek: 202511},
	}

	early := earlyOrders(orders, isoweek.YearWeek(202510))

	require.Len(t, early, 1)
	assert.Equal(t, "MAT-A", early[0].Material)
}

func TestWithQuantityFiltersZeroRows(t *testing.T) {
	rows := []models.ProjectedRow{
		{Material: "A", Quantity: dec(0)},
		{Material: "B", Quantity: dec(4)},
		{Material: "C", Quantity: dec(-1)},
	}

	filtered := withQuantity(rows)

	require.Len(t, filtered, 1)
	assert.Equal(t, "B", filtered[0].Material)
}

// staticReference entrega un auxiliar fijo, sin tocar disco ni Redis.
type staticReference struct {
	ref *ingest.Reference
}

func (s staticReference) Reference(ctx context.Context) (*ingest.Reference, error) {
	return s.ref, nil
}

func testReference() *ingest.Reference {
	return &ingest.Reference{
		Materials: map[string]models.MaterialMaster{
			"MAT-001": {
				Material:            "MAT-001",
				Description:         "Materia prima",
				Unit:                "KG",
				Supplier:            "PRV-01",
				SupplierName:        "Proveedor SA",
				SupplierCurrency:    "ARS",
				SupplierPrice:       decPtr(100),
				SupplierMinLot:      decPtr(6),
				SupplierLeadTime:    intPtr(2),
				SupplierPaymentTerm: "30 días",
			},
		},
		Clusters: []models.StoreCluster{
			{Cluster: "C1", Name: "Principal insumos", Stores: []string{"DEP-01"}},
		},
	}
}

func newRunPlanService() PlanService {
	logger := zap.NewNop()
	return NewPlanService(
		NewNormalizerService(logger),
		NewEngineService(logger),
		NewDiagnosticsService(logger),
		staticReference{ref: testReference()},
		nil,
		nil,
		[]string{"Principal insumos"},
		logger,
	)
}

// buildWorkbook arma un libro en memoria con los encabezados y filas dados.
func buildWorkbook(t *testing.T, header []string, rows [][]interface{}) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	for col, h := range header {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cellName, h))
	}
	for r, row := range rows {
		for col, value := range row {
			cellName, err := excelize.CoordinatesToCellName(col+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

// padHeader completa un encabezado con columnas de relleno hasta el ancho
// esperado por el esquema.
func padHeader(fixed []string, width int) []string {
	header := append([]string{}, fixed...)
	for i := len(header); i < width; i++ {
		header = append(header, fmt.Sprintf("extra_%d", i+1))
	}
	return header
}

func demandWorkbook(t *testing.T) io.Reader {
	header := padHeader([]string{
		"N_RENGLON", "ACTIVO", "COD_ARTICU", "CAT", "DESCRIPCIO",
		"NECESIDAD", "FECHA_ENTR", "N_COMP",
	}, 20)
	return buildWorkbook(t, header, [][]interface{}{
		{"1", "S", "MAT-001", "IN", "Materia prima", "10", "2025-03-17", "OC 100"},
		{"2", "S", "MAT-001", "IN", "Materia prima", "5", "2025-03-24", "OC101"},
	})
}

func stockWorkbook(t *testing.T) io.Reader {
	header := padHeader([]string{
		"COD_ART", "DES_ART", "UNIDAD", "DEPÓSITO", "EN_STOCK",
	}, 8)
	return buildWorkbook(t, header, [][]interface{}{
		{"MAT-001", "Materia prima", "KG", "DEP-01", "4"},
	})
}

func ordersWorkbook(t *testing.T, rows [][]interface{}) io.Reader {
	header := padHeader([]string{
		"process_date", "order", "material", "description", "um",
		"status", "quantity", "year_week", "registration", "notes", "date",
	}, 20)
	return buildWorkbook(t, header, rows)
}

func TestRunProducesRecommendedOrders(t *testing.T) {
	planner := newRunPlanService()

	result, err := planner.Run(context.Background(), PlanInput{
		Demand: demandWorkbook(t),
		Stock:  stockWorkbook(t),
		Orders: ordersWorkbook(t, [][]interface{}{
			{"2025-03-01", "OC-7", "MAT-001", "Materia prima", "KG", "PEDIDO", "2", "202512", "REG-1", "", "2025-03-12"},
			{"2025-03-01", "OC-8", "MAT-001", "Materia prima", "KG", "RECIBIDO", "9", "202511", "REG-2", "", ""},
		}),
		ClosingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	assert.Equal(t, 202511, result.Summary.YearWeek)
	assert.Equal(t, 1, result.Summary.Materials)
	assert.Equal(t, 2, result.Summary.Weeks)
	assert.Equal(t, 2, result.Summary.Adjustments)
	assert.Equal(t, 2, result.Summary.TotalOrders)

	// Semana 202512: la compra abierta de 2 se amplía con el lote mínimo
	require.Len(t, result.Orders, 2)
	first := result.Orders[0]
	assert.Equal(t, isoweek.YearWeek(202512), first.YearWeek)
	assert.True(t, first.Quantity.Equal(dec(8)), "quantity %s", first.Quantity)
	require.NotNil(t, first.Date)
	assert.Equal(t, time.Date(2025, 3, 19, 0, 0, 0, 0, time.UTC), *first.Date)
	assert.Equal(t, "Materia prima", first.Description)
	assert.Equal(t, "PRV-01", first.Supplier)

	second := result.Orders[1]
	assert.Equal(t, isoweek.YearWeek(202513), second.YearWeek)
	assert.True(t, second.Quantity.Equal(dec(6)), "quantity %s", second.Quantity)

	// Maestro completo: sin advertencias de datos
	assert.True(t, result.Diagnostics.Clean())

	// Sin repository la corrida no se persiste
	assert.Nil(t, result.Run)
}

func TestRunAbortsWhenOrdersPredateAnalysisWeek(t *testing.T) {
	planner := newRunPlanService()

	result, err := planner.Run(context.Background(), PlanInput{
		Demand: demandWorkbook(t),
		Stock:  stockWorkbook(t),
		Orders: ordersWorkbook(t, [][]interface{}{
			{"2025-02-01", "OC-5", "MAT-001", "Materia prima", "KG", "PEDIDO", "3", "202509", "REG-1", "", ""},
		}),
		ClosingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// Una compra pendiente anterior a la semana de análisis corta la corrida
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, warnEarlyOrders, result.Warnings[0])
	assert.Empty(t, result.Orders)
	assert.Equal(t, 202511, result.Summary.YearWeek)
}

func TestRunRejectsInvalidDemandFile(t *testing.T) {
	planner := newRunPlanService()

	// Encabezado de otro archivo: el esquema de consumos no coincide
	result, err := planner.Run(context.Background(), PlanInput{
		Demand:      stockWorkbook(t),
		Stock:       stockWorkbook(t),
		Orders:      ordersWorkbook(t, nil),
		ClosingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "archivo de consumos")
}
