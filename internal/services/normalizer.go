package services

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

// NormalizerService define la interfaz del normalizador de series semanales
type NormalizerService interface {
	// NormalizeWeekly agrupa los registros de demanda por (material, semana)
	// y completa la serie de cada material con todas las semanas ISO entre la
	// fecha mínima y máxima global, sin huecos.
	NormalizeWeekly(records []models.DemandRecord) []models.WeeklyMaterialRow
}

// normalizerService implementa NormalizerService
type normalizerService struct {
	logger *zap.Logger
}

// NewNormalizerService crea una nueva instancia del servicio
func NewNormalizerService(logger *zap.Logger) NormalizerService {
	return &normalizerService{logger: logger}
}

type demandKey struct {
	material string
	yearWeek isoweek.YearWeek
}

// aggregatedDemand es una celda (material, semana) ya agregada: necesidad
// sumada, categoría del primer registro y comprobantes únicos concatenados.
type aggregatedDemand struct {
	need     decimal.Decimal
	category string
	skus     []string
	skuSeen  map[string]bool
}

func (a *aggregatedDemand) addSKU(sku string) {
	if sku == "" || a.skuSeen[sku] {
		return
	}
	a.skuSeen[sku] = true
	a.skus = append(a.skus, sku)
}

func (a *aggregatedDemand) joinedSKUs() string {
	return strings.Join(a.skus, ", ")
}

func (s *normalizerService) NormalizeWeekly(records []models.DemandRecord) []models.WeeklyMaterialRow {
	if len(records) == 0 {
		return nil
	}

	// Agrupar por (material, semana) y registrar el rango global de fechas
	cells := make(map[demandKey]*aggregatedDemand)
	materialSet := make(map[string]bool)

	minDate := records[0].ReleaseDate
	maxDate := records[0].ReleaseDate
	for _, r := range records {
		if r.ReleaseDate.Before(minDate) {
			minDate = r.ReleaseDate
		}
		if r.ReleaseDate.After(maxDate) {
			maxDate = r.ReleaseDate
		}
		materialSet[r.Material] = true

		k := demandKey{r.Material, r.YearWeek}
		cell, ok := cells[k]
		if !ok {
			cell = &aggregatedDemand{
				need:     decimal.Zero,
				category: r.Category,
				skuSeen:  make(map[string]bool),
			}
			cells[k] = cell
		}
		cell.need = cell.need.Add(r.Need)
		cell.addSKU(r.SKU)
	}

	materials := make([]string, 0, len(materialSet))
	for m := range materialSet {
		materials = append(materials, m)
	}
	sort.Strings(materials)

	weeks := isoweek.Range(minDate, maxDate)
	s.logger.Debug("Serie semanal generada",
		zap.Int("materiales", len(materials)),
		zap.Int("semanas", len(weeks)),
		zap.Time("desde", minDate),
		zap.Time("hasta", maxDate),
	)

	// Grilla densa: cada material aparece en todas las semanas del rango.
	// Las semanas sin demanda valen 0 y heredan sku/categoría de la primera
	// fila conocida del material.
	rows := make([]models.WeeklyMaterialRow, 0, len(materials)*len(weeks))
	for _, material := range materials {
		firstSKU, firstCategory := firstKnownAttributes(material, weeks, cells)

		accum := decimal.Zero
		for _, week := range weeks {
			row := models.WeeklyMaterialRow{
				Material:     material,
				YearWeek:     week,
				SKU:          firstSKU,
				Category:     firstCategory,
				MaterialNeed: decimal.Zero,
			}
			if cell, ok := cells[demandKey{material, week}]; ok {
				row.MaterialNeed = cell.need
				row.Category = cell.category
				row.SKU = cell.joinedSKUs()
			}
			accum = accum.Sub(row.MaterialNeed)
			row.NeedAccum = accum
			rows = append(rows, row)
		}
	}

	return rows
}

// firstKnownAttributes busca sku y categoría en la primera semana con datos
// del material, para rellenar las semanas sin demanda.
func firstKnownAttributes(material string, weeks []isoweek.YearWeek, cells map[demandKey]*aggregatedDemand) (string, string) {
	for _, week := range weeks {
		if cell, ok := cells[demandKey{material, week}]; ok {
			return cell.joinedSKUs(), cell.category
		}
	}
	return "", ""
}
