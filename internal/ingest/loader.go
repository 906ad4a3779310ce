// Package ingest carga y valida los libros Excel de trabajo (consumos, stock,
// compras) y el archivo auxiliar de referencia. Es una capa fina de E/S: toda
// falla se reporta como mensaje para el usuario y el paso afectado devuelve un
// resultado vacío.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrSchemaMismatch indica que un archivo subido no coincide con el
	// esquema esperado (cantidad de columnas o encabezados).
	ErrSchemaMismatch = errors.New("el archivo no coincide con el esquema esperado")

	// ErrFileAccess indica que el archivo auxiliar no pudo leerse.
	ErrFileAccess = errors.New("no se pudo acceder al archivo")
)

// readSheet abre un libro y retorna las filas de la primera hoja.
func readSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el libro: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el libro no tiene hojas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// validateSchema controla la cantidad de columnas y los primeros cinco
// encabezados del archivo subido.
func validateSchema(header []string, expected []string, attributes int) error {
	if len(header) != attributes {
		return fmt.Errorf("%w: debe tener %d columnas, pero tiene %d",
			ErrSchemaMismatch, attributes, len(header))
	}

	names := make([]string, 0, len(expected))
	for i := range expected {
		names = append(names, strings.TrimSpace(header[i]))
	}
	if strings.Join(names, " ") != strings.Join(expected, " ") {
		return fmt.Errorf("%w: no coinciden los atributos", ErrSchemaMismatch)
	}
	return nil
}

// columnIndex ubica una columna por nombre de encabezado (sin distinguir
// mayúsculas). Retorna -1 si no existe.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// cell retorna el valor recortado de una columna, o "" si la fila es corta.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDecimal interpreta una celda numérica; celda vacía vale cero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	// Tolerar separador decimal con coma, común en los exportes del ERP.
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// dateLayouts formatos de fecha observados en los exportes.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-06",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate interpreta una celda de fecha probando los formatos conocidos y,
// como último recurso, el serial numérico de Excel.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	if serial, err := decimal.NewFromString(s); err == nil {
		f, _ := serial.Float64()
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", s)
}

// isEmptyRow indica que la fila no tiene contenido útil.
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
