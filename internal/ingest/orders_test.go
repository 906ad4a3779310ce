package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

func ordersTestHeader() []string {
	return padHeader([]string{
		"process_date", "order", "material", "description", "um",
		"status", "quantity", "year_week", "registration", "notes", "date",
	}, ordersAttributes)
}

func TestParseOrdersFiltersStatus(t *testing.T) {
	r := buildWorkbook(t, ordersTestHeader(), [][]interface{}{
		{"2025-03-01", "OC-1", "MAT-001", "Insumo", "KG", "pedido", "4", "202511", "REG-1", "urgente", "2025-03-12"},
		{"2025-03-01", "OC-2", "MAT-001", "Insumo", "KG", "RECIBIDO", "9", "202511", "REG-2", "", "2025-03-12"},
		{"2025-03-01", "OC-3", "MAT-002", "Insumo", "KG", "PEDIDO", "2", "202512", "REG-3", "", ""},
	})

	orders, err := ParseOrders(r)
	require.NoError(t, err)

	// Solo las órdenes en estado PEDIDO siguen abiertas
	require.Len(t, orders, 2)
	assert.Equal(t, "OC-1", orders[0].Order)
	assert.Equal(t, "PEDIDO", orders[0].Status)
	assert.Equal(t, isoweek.YearWeek(202511), orders[0].YearWeek)
	assert.Equal(t, "urgente", orders[0].Notes)
	require.NotNil(t, orders[0].Date)

	// Sin fecha la orden igual entra, con fecha nula
	assert.Nil(t, orders[1].Date)
}

func TestParseOrdersRejectsWrongSchema(t *testing.T) {
	header := ordersTestHeader()
	header[1] = "orden"

	r := buildWorkbook(t, header, nil)

	_, err := ParseOrders(r)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAggregateOrdersSumsByMaterialAndWeek(t *testing.T) {
	orders := []models.PurchaseOrderRow{
		{Material: "MAT-001", YearWeek: 202511, Order: "OC-1", Quantity: decFromString(t, "4"), Notes: "primera"},
		{Material: "MAT-001", YearWeek: 202511, Order: "OC-2", Quantity: decFromString(t, "6"), Notes: "segunda"},
		{Material: "MAT-001", YearWeek: 202512, Order: "OC-3", Quantity: decFromString(t, "1")},
	}

	aggregated := AggregateOrders(orders)

	require.Len(t, aggregated, 2)

	// La cantidad se suma; el resto de los atributos toma el primer valor
	assert.True(t, aggregated[0].Quantity.Equal(decFromString(t, "10")))
	assert.Equal(t, "OC-1", aggregated[0].Order)
	assert.Equal(t, "primera", aggregated[0].Notes)

	assert.Equal(t, isoweek.YearWeek(202512), aggregated[1].YearWeek)
	assert.True(t, aggregated[1].Quantity.Equal(decFromString(t, "1")))
}
