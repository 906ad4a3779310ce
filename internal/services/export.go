package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"mrp-service/internal/models"
)

// Encabezados del listado exportado, en el orden que espera el área de
// compras al revisar el archivo.
var exportHeaders = []string{
	"material", "description", "um", "date", "year_week", "quantity",
	"supplier_currency", "supplier_price", "supplier_notes", "notes",
	"status", "registration", "supplier", "supplier_name",
	"supplier_payment_term",
}

// ExportService genera el archivo xlsx de compras sugeridas
type ExportService interface {
	ExportOrders(orders []models.RecommendedOrder) ([]byte, error)
}

// exportService implementa ExportService
type exportService struct {
	logger *zap.Logger
}

// NewExportService crea una nueva instancia del servicio de exportación
func NewExportService(logger *zap.Logger) ExportService {
	return &exportService{logger: logger}
}

func (s *exportService) ExportOrders(orders []models.RecommendedOrder) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("error generando encabezado: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("error escribiendo encabezado %s: %w", header, err)
		}
	}

	for i := range orders {
		o := &orders[i]
		values := []interface{}{
			o.Material,
			o.Description,
			o.Unit,
			formatDate(o.Date),
			int(o.YearWeek),
			o.Quantity.InexactFloat64(),
			o.SupplierCurrency,
			formatPrice(o.SupplierPrice),
			o.SupplierNotes,
			o.Notes,
			o.Status,
			o.Registration,
			o.Supplier,
			o.SupplierName,
			o.SupplierPaymentTerm,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("error generando celda: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("error escribiendo fila %d: %w", i+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error generando el archivo xlsx: %w", err)
	}

	s.logger.Debug("Listado de compras exportado",
		zap.Int("ordenes", len(orders)),
		zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func formatDate(date *time.Time) interface{} {
	if date == nil {
		return ""
	}
	return date.Format("2006-01-02")
}

func formatPrice(price *decimal.Decimal) interface{} {
	if price == nil {
		return ""
	}
	return price.InexactFloat64()
}
