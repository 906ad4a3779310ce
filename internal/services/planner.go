package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"mrp-service/internal/ingest"
	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
	"mrp-service/internal/repository"
)

// Compras en estado PEDIDO anteriores a la semana de análisis indican un
// archivo desactualizado: la proyección las contaría como stock que nunca
// llegó, así que la corrida se invalida en lugar de proyectar sobre eso.
const warnEarlyOrders = "Existen registros de requerimientos anteriores a la semana de análisis."

// PlanInput reúne los tres archivos subidos y los parámetros de la corrida.
type PlanInput struct {
	Demand      io.Reader
	Stock       io.Reader
	Orders      io.Reader
	ClosingDate time.Time
	Clusters    []string
}

// PlanResult es el resultado completo de una corrida.
type PlanResult struct {
	Run         *models.PlanRun
	Orders      []models.RecommendedOrder
	Diagnostics models.DiagnosticsResult
	Summary     models.PlanSummary
	Warnings    []string
}

// ReferenceProvider entrega el contenido del archivo auxiliar. La
// implementación con caché vive en internal/cache.
type ReferenceProvider interface {
	Reference(ctx context.Context) (*ingest.Reference, error)
}

// PlanService define la interfaz de la corrida del plan de requerimientos
type PlanService interface {
	// Run ejecuta el pipeline completo: ingesta → serie semanal → cruce →
	// motor de ajuste → diagnósticos → listado de compras sugeridas.
	Run(ctx context.Context, input PlanInput) (*PlanResult, error)

	// BuildProjection cruza la serie semanal con la foto de stock y las
	// compras agregadas, enriquece con el maestro y calcula los acumulados.
	BuildProjection(weekly []models.WeeklyMaterialRow, snapshots []models.StockSnapshot,
		orders []models.PurchaseOrderRow, masters map[string]models.MaterialMaster) []models.ProjectedRow
}

// planService implementa PlanService
type planService struct {
	normalizer      NormalizerService
	engine          EngineService
	diagnostics     DiagnosticsService
	reference       ReferenceProvider
	repo            repository.RunRepository
	monitoring      MonitoringService
	defaultClusters []string
	logger          *zap.Logger
}

// NewPlanService crea una nueva instancia del servicio. repo puede ser nil:
// la corrida funciona igual, sin histórico.
func NewPlanService(
	normalizer NormalizerService,
	engine EngineService,
	diagnostics DiagnosticsService,
	reference ReferenceProvider,
	repo repository.RunRepository,
	monitoring MonitoringService,
	defaultClusters []string,
	logger *zap.Logger,
) PlanService {
	return &planService{
		normalizer:      normalizer,
		engine:          engine,
		diagnostics:     diagnostics,
		reference:       reference,
		repo:            repo,
		monitoring:      monitoring,
		defaultClusters: defaultClusters,
		logger:          logger,
	}
}

func (s *planService) Run(ctx context.Context, input PlanInput) (*PlanResult, error) {
	start := time.Now()
	logger := s.logger.With(
		zap.String("operation", "plan_run"),
		zap.Time("closing_date", input.ClosingDate),
	)

	reference, err := s.reference.Reference(ctx)
	if err != nil {
		s.recordRun(start, true)
		return nil, fmt.Errorf("error cargando el archivo auxiliar: %w", err)
	}

	records, err := ingest.ParseDemand(input.Demand)
	if err != nil {
		s.recordRun(start, true)
		return nil, fmt.Errorf("error en el archivo de consumos: %w", err)
	}
	stocks, err := ingest.ParseStock(input.Stock, reference.Clusters)
	if err != nil {
		s.recordRun(start, true)
		return nil, fmt.Errorf("error en el archivo de stock: %w", err)
	}
	orders, err := ingest.ParseOrders(input.Orders)
	if err != nil {
		s.recordRun(start, true)
		return nil, fmt.Errorf("error en el archivo de compras: %w", err)
	}

	clusters := input.Clusters
	if len(clusters) == 0 {
		clusters = s.defaultClusters
	}
	snapshots := ingest.AggregateSnapshots(stocks, clusters, input.ClosingDate)
	analysisWeek := isoweek.FromTime(input.ClosingDate)

	logger.Info("ℹ️ Archivos cargados",
		zap.Int("registros_demanda", len(records)),
		zap.Int("filas_stock", len(stocks)),
		zap.Int("ordenes_abiertas", len(orders)),
		zap.Int("year_week", int(analysisWeek)),
		zap.Strings("clusters", clusters),
	)

	// Compras en estado PEDIDO anteriores a la semana de análisis: el plan
	// no es confiable hasta que se regularicen. La corrida se corta acá.
	if early := earlyOrders(orders, analysisWeek); len(early) > 0 {
		logger.Warn("⚠️ Requerimientos anteriores a la semana de análisis",
			zap.Int("cantidad", len(early)))
		result := &PlanResult{
			Warnings: []string{warnEarlyOrders},
			Summary: models.PlanSummary{
				YearWeek: int(analysisWeek),
				Elapsed:  time.Since(start).String(),
			},
		}
		s.recordRun(start, false)
		return result, nil
	}

	weekly := s.normalizer.NormalizeWeekly(records)
	projection := s.BuildProjection(weekly, snapshots, ingest.AggregateOrders(orders), reference.Materials)
	adjustments := s.engine.Adjust(projection)

	final := withQuantity(projection)
	diagnostics := s.diagnostics.Check(final)
	recommended := toRecommendedOrders(final)

	run := &models.PlanRun{
		ClosingDate: input.ClosingDate,
		YearWeek:    analysisWeek,
		Clusters:    strings.Join(clusters, ","),
		Materials:   countMaterials(weekly),
		Weeks:       countWeeks(weekly),
		Adjustments: adjustments,
		TotalOrders: len(recommended),
	}

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, run, recommended); err != nil {
			// El histórico es secundario: la corrida vale igual.
			logger.Error("❌ Error guardando el histórico de la corrida", zap.Error(err))
			run = nil
		}
	} else {
		run = nil
	}

	elapsed := time.Since(start)
	summary := models.PlanSummary{
		YearWeek:    int(analysisWeek),
		Materials:   countMaterials(weekly),
		Weeks:       countWeeks(weekly),
		Adjustments: adjustments,
		TotalOrders: len(recommended),
		Elapsed:     elapsed.String(),
	}

	logger.Info("✅ Corrida del plan completada",
		zap.Int("materiales", summary.Materials),
		zap.Int("semanas", summary.Weeks),
		zap.Int("ajustes", adjustments),
		zap.Int("ordenes_sugeridas", len(recommended)),
		zap.Duration("latency", elapsed),
	)
	s.recordRunData(models.RunData{
		Duration:    elapsed,
		Materials:   summary.Materials,
		Weeks:       summary.Weeks,
		Orders:      len(recommended),
		Adjustments: adjustments,
		Timestamp:   time.Now(),
	})

	return &PlanResult{
		Run:         run,
		Orders:      recommended,
		Diagnostics: diagnostics,
		Summary:     summary,
	}, nil
}

func (s *planService) BuildProjection(weekly []models.WeeklyMaterialRow, snapshots []models.StockSnapshot,
	orders []models.PurchaseOrderRow, masters map[string]models.MaterialMaster) []models.ProjectedRow {

	snapshotByMaterial := make(map[string]models.StockSnapshot, len(snapshots))
	for _, snap := range snapshots {
		snapshotByMaterial[snap.Material] = snap
	}
	orderByCell := make(map[demandKey]models.PurchaseOrderRow, len(orders))
	for _, o := range orders {
		orderByCell[demandKey{o.Material, o.YearWeek}] = o
	}

	projection := make([]models.ProjectedRow, 0, len(weekly))
	for _, w := range weekly {
		row := models.ProjectedRow{
			Material:     w.Material,
			YearWeek:     w.YearWeek,
			SKU:          w.SKU,
			Category:     w.Category,
			MaterialNeed: w.MaterialNeed,
			NeedAccum:    w.NeedAccum,
		}

		// El stock se arrastra desde la semana de la foto hacia adelante;
		// las semanas previas proyectan sin stock.
		if snap, ok := snapshotByMaterial[w.Material]; ok && w.YearWeek >= snap.YearWeek {
			row.Stock = snap.Stock
			closing := snap.ClosingDate
			row.ClosingDate = &closing
		}

		if o, ok := orderByCell[demandKey{w.Material, w.YearWeek}]; ok {
			row.Order = o.Order
			row.Status = o.Status
			row.Registration = o.Registration
			row.Quantity = o.Quantity
			row.Notes = o.Notes
			row.Date = o.Date
		}

		if master, ok := masters[w.Material]; ok {
			row.Description = master.Description
			row.Unit = master.Unit
			row.Supplier = master.Supplier
			row.SupplierName = master.SupplierName
			row.SupplierCurrency = master.SupplierCurrency
			row.SupplierPrice = master.SupplierPrice
			row.SupplierMinLot = master.SupplierMinLot
			row.SupplierLeadTime = master.SupplierLeadTime
			row.SupplierPaymentTerm = master.SupplierPaymentTerm
			row.SupplierNotes = master.SupplierNotes
		}

		projection = append(projection, row)
	}

	// Acumulados iniciales: stock_final = need_accum + stock + quantity_accum
	s.engine.Recompute(projection)
	return projection
}

// recordRun registra corridas que no llegaron a producir proyección.
func (s *planService) recordRun(start time.Time, failed bool) {
	s.recordRunData(models.RunData{
		Duration:  time.Since(start),
		Failed:    failed,
		Timestamp: time.Now(),
	})
}

func (s *planService) recordRunData(data models.RunData) {
	if s.monitoring != nil {
		s.monitoring.RecordRun(data)
	}
}

func earlyOrders(orders []models.PurchaseOrderRow, analysisWeek isoweek.YearWeek) []models.PurchaseOrderRow {
	var early []models.PurchaseOrderRow
	for _, o := range orders {
		if o.YearWeek < analysisWeek {
			early = append(early, o)
		}
	}
	return early
}

func withQuantity(rows []models.ProjectedRow) []models.ProjectedRow {
	var filtered []models.ProjectedRow
	for i := range rows {
		if rows[i].Quantity.IsPositive() {
			filtered = append(filtered, rows[i])
		}
	}
	return filtered
}

func toRecommendedOrders(rows []models.ProjectedRow) []models.RecommendedOrder {
	recommended := make([]models.RecommendedOrder, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		recommended = append(recommended, models.RecommendedOrder{
			Material:            r.Material,
			Description:         r.Description,
			Unit:                r.Unit,
			Date:                r.Date,
			YearWeek:            r.YearWeek,
			Quantity:            r.Quantity,
			SupplierCurrency:    r.SupplierCurrency,
			SupplierPrice:       r.SupplierPrice,
			SupplierNotes:       r.SupplierNotes,
			Notes:               r.Notes,
			Status:              r.Status,
			Registration:        r.Registration,
			Supplier:            r.Supplier,
			SupplierName:        r.SupplierName,
			SupplierPaymentTerm: r.SupplierPaymentTerm,
		})
	}
	return recommended
}

func countMaterials(weekly []models.WeeklyMaterialRow) int {
	seen := make(map[string]bool)
	for i := range weekly {
		seen[weekly[i].Material] = true
	}
	return len(seen)
}

func countWeeks(weekly []models.WeeklyMaterialRow) int {
	seen := make(map[isoweek.YearWeek]bool)
	for i := range weekly {
		seen[weekly[i].YearWeek] = true
	}
	return len(seen)
}
