package services

import (
	"sort"

	"go.uber.org/zap"

	"mrp-service/internal/models"
)

// DiagnosticsService define los controles de calidad de datos sobre el
// listado final de compras sugeridas
type DiagnosticsService interface {
	// Check revisa el listado final y reporta materiales sin datos
	// auxiliares y materiales con información de proveedor incompleta.
	// Es de solo lectura: no muta el resultado.
	Check(rows []models.ProjectedRow) models.DiagnosticsResult
}

// diagnosticsService implementa DiagnosticsService
type diagnosticsService struct {
	logger *zap.Logger
}

// NewDiagnosticsService crea una nueva instancia del servicio
func NewDiagnosticsService(logger *zap.Logger) DiagnosticsService {
	return &diagnosticsService{logger: logger}
}

func (d *diagnosticsService) Check(rows []models.ProjectedRow) models.DiagnosticsResult {
	result := models.DiagnosticsResult{
		MissingMaterials:    d.findMissingMaterials(rows),
		MissingSupplierInfo: d.findMissingSupplierInfo(rows),
	}

	if len(result.MissingMaterials) > 0 {
		d.logger.Warn("⚠️ Materiales sin datos auxiliares",
			zap.Strings("materiales", result.MissingMaterials))
	}
	if len(result.MissingSupplierInfo) > 0 {
		d.logger.Warn("⚠️ Materiales con información incompleta de proveedor",
			zap.Strings("materiales", result.MissingSupplierInfo))
	}
	if result.Clean() {
		d.logger.Info("✅ Todos los materiales tienen datos auxiliares completos")
	}

	return result
}

// findMissingMaterials lista los materiales cuya descripción del maestro está
// vacía o ausente.
func (d *diagnosticsService) findMissingMaterials(rows []models.ProjectedRow) []string {
	return distinctMaterials(rows, func(r *models.ProjectedRow) bool {
		return r.Description == ""
	})
}

// findMissingSupplierInfo lista los materiales a los que les falta algún
// atributo de proveedor, excluyendo supplier_notes.
func (d *diagnosticsService) findMissingSupplierInfo(rows []models.ProjectedRow) []string {
	return distinctMaterials(rows, func(r *models.ProjectedRow) bool {
		master := r.Master()
		return len(master.MissingSupplierFields()) > 0
	})
}

func distinctMaterials(rows []models.ProjectedRow, affected func(*models.ProjectedRow) bool) []string {
	seen := make(map[string]bool)
	var materials []string
	for i := range rows {
		if !affected(&rows[i]) || seen[rows[i].Material] {
			continue
		}
		seen[rows[i].Material] = true
		materials = append(materials, rows[i].Material)
	}
	sort.Strings(materials)
	return materials
}
