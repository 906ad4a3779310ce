package ingest

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

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

func decFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
