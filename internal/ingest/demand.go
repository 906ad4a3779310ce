package ingest

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

// Esquema del archivo de consumos: 20 columnas, las primeras cinco fijas.
var (
	demandHeader     = []string{"N_RENGLON", "ACTIVO", "COD_ARTICU", "CAT", "DESCRIPCIO"}
	demandAttributes = 20
)

var skuSpaces = regexp.MustCompile(`\s+`)

// ParseDemand carga el archivo de consumos y retorna los registros de
// demanda de la categoría "IN". El núcleo solo consume {material, categoría,
// necesidad, fecha de entrega, comprobante}.
func ParseDemand(r io.Reader) ([]models.DemandRecord, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", ErrSchemaMismatch)
	}

	header := rows[0]
	if err := validateSchema(header, demandHeader, demandAttributes); err != nil {
		return nil, err
	}

	materialIdx := columnIndex(header, "COD_ARTICU")
	categoryIdx := columnIndex(header, "CAT")
	needIdx := columnIndex(header, "NECESIDAD")
	dateIdx := columnIndex(header, "FECHA_ENTR")
	skuIdx := columnIndex(header, "N_COMP")
	if needIdx < 0 || dateIdx < 0 || skuIdx < 0 {
		return nil, fmt.Errorf("%w: faltan columnas NECESIDAD, FECHA_ENTR o N_COMP", ErrSchemaMismatch)
	}

	var records []models.DemandRecord
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		category := strings.TrimSpace(cell(row, categoryIdx))
		if category != "IN" {
			continue
		}

		need, err := parseDecimal(cell(row, needIdx))
		if err != nil {
			return nil, fmt.Errorf("fila %d: necesidad inválida: %w", i+2, err)
		}
		releaseDate, err := parseDate(cell(row, dateIdx))
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+2, err)
		}

		records = append(records, models.DemandRecord{
			Material:    cell(row, materialIdx),
			Category:    category,
			Need:        need,
			ReleaseDate: releaseDate,
			SKU:         skuSpaces.ReplaceAllString(cell(row, skuIdx), ""),
			YearWeek:    isoweek.FromTime(releaseDate),
		})
	}

	return records, nil
}
