package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrp-service/internal/isoweek"
)

func demandTestHeader() []string {
	return padHeader([]string{
		"N_RENGLON", "ACTIVO", "COD_ARTICU", "CAT", "DESCRIPCIO",
		"NECESIDAD", "FECHA_ENTR", "N_COMP",
	}, demandAttributes)
}

func TestParseDemandFiltersCategory(t *testing.T) {
	r := buildWorkbook(t, demandTestHeader(), [][]interface{}{
		{"1", "S", "MAT-001", "IN", "Insumo", "10.5", "2025-03-10", "OC 100"},
		{"2", "S", "MAT-002", "PT", "Producto terminado", "4", "2025-03-10", "OC-200"},
		{"3", "S", "MAT-003", "IN", "Insumo", "2", "2025-03-17", "OC-300"},
	})

	records, err := ParseDemand(r)
	require.NoError(t, err)

	// Solo la categoría IN entra al plan
	require.Len(t, records, 2)
	assert.Equal(t, "MAT-001", records[0].Material)
	assert.Equal(t, "MAT-003", records[1].Material)

	// El comprobante pierde los espacios internos
	assert.Equal(t, "OC100", records[0].SKU)

	assert.True(t, records[0].Need.Equal(decFromString(t, "10.5")))
	assert.Equal(t, isoweek.YearWeek(202511), records[0].YearWeek)
	assert.Equal(t, isoweek.YearWeek(202512), records[1].YearWeek)
}

func TestParseDemandRejectsWrongColumnCount(t *testing.T) {
	r := buildWorkbook(t, []string{"N_RENGLON", "ACTIVO", "COD_ARTICU"}, nil)

	_, err := ParseDemand(r)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestParseDemandRejectsWrongHeaders(t *testing.T) {
	header := demandTestHeader()
	header[2] = "CODIGO"

	r := buildWorkbook(t, header, nil)

	_, err := ParseDemand(r)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestParseDemandReportsInvalidDateWithRow(t *testing.T) {
	r := buildWorkbook(t, demandTestHeader(), [][]interface{}{
		{"1", "S", "MAT-001", "IN", "Insumo", "10", "no-es-fecha", "OC-100"},
	})

	_, err := ParseDemand(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestParseDemandToleratesCommaDecimals(t *testing.T) {
	r := buildWorkbook(t, demandTestHeader(), [][]interface{}{
		{"1", "S", "MAT-001", "IN", "Insumo", "10,25", "2025-03-10", "OC-100"},
	})

	records, err := ParseDemand(r)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Need.Equal(decFromString(t, "10.25")))
}
