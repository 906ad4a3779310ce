package ingest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

// Esquema del archivo de compras: 20 columnas, las primeras cinco fijas.
var (
	ordersHeader     = []string{"process_date", "order", "material", "description", "um"}
	ordersAttributes = 20
)

// ParseOrders carga el archivo de compras y retorna solo las órdenes en
// estado PEDIDO (pendientes de recepción).
func ParseOrders(r io.Reader) ([]models.PurchaseOrderRow, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", ErrSchemaMismatch)
	}

	header := rows[0]
	if err := validateSchema(header, ordersHeader, ordersAttributes); err != nil {
		return nil, err
	}

	orderIdx := columnIndex(header, "order")
	materialIdx := columnIndex(header, "material")
	statusIdx := columnIndex(header, "status")
	quantityIdx := columnIndex(header, "quantity")
	registrationIdx := columnIndex(header, "registration")
	notesIdx := columnIndex(header, "notes")
	dateIdx := columnIndex(header, "date")
	yearWeekIdx := columnIndex(header, "year_week")
	if statusIdx < 0 || quantityIdx < 0 || yearWeekIdx < 0 {
		return nil, fmt.Errorf("%w: faltan columnas status, quantity o year_week", ErrSchemaMismatch)
	}

	var orders []models.PurchaseOrderRow
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		status := strings.ToUpper(cell(row, statusIdx))
		if status != "PEDIDO" {
			continue
		}

		quantity, err := parseDecimal(cell(row, quantityIdx))
		if err != nil {
			return nil, fmt.Errorf("fila %d: cantidad inválida: %w", i+2, err)
		}
		yearWeek, err := parseDecimal(cell(row, yearWeekIdx))
		if err != nil {
			return nil, fmt.Errorf("fila %d: year_week inválido: %w", i+2, err)
		}

		o := models.PurchaseOrderRow{
			Material:     cell(row, materialIdx),
			YearWeek:     isoweek.YearWeek(yearWeek.IntPart()),
			Order:        cell(row, orderIdx),
			Status:       status,
			Quantity:     quantity,
			Registration: cell(row, registrationIdx),
			Notes:        cell(row, notesIdx),
		}
		if d, err := parseDate(cell(row, dateIdx)); err == nil {
			o.Date = &d
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// AggregateOrders agrega las órdenes por (material, semana): la cantidad se
// suma, el resto de los atributos toma el primer valor visto. Notes nunca
// queda nulo.
func AggregateOrders(orders []models.PurchaseOrderRow) []models.PurchaseOrderRow {
	type key struct {
		material string
		yearWeek isoweek.YearWeek
	}

	grouped := make(map[key]*models.PurchaseOrderRow)
	var order []key
	for _, o := range orders {
		k := key{o.Material, o.YearWeek}
		if existing, ok := grouped[k]; ok {
			existing.Quantity = existing.Quantity.Add(o.Quantity)
			continue
		}
		copied := o
		grouped[k] = &copied
		order = append(order, k)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].material != order[j].material {
			return order[i].material < order[j].material
		}
		return order[i].yearWeek < order[j].yearWeek
	})

	aggregated := make([]models.PurchaseOrderRow, 0, len(order))
	for _, k := range order {
		aggregated = append(aggregated, *grouped[k])
	}
	return aggregated
}
