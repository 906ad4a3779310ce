package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

func stockTestHeader() []string {
	return padHeader([]string{
		"COD_ART", "DES_ART", "UNIDAD", "DEPÓSITO", "EN_STOCK",
	}, stockAttributes)
}

func stockTestClusters() []models.StoreCluster {
	return []models.StoreCluster{
		{Cluster: "C1", Name: "Principal insumos", Stores: []string{"DEP-01", "DEP-02"}},
		{Cluster: "C2", Name: "Producción", Stores: []string{"DEP-09"}},
	}
}

func TestParseStockSkipsEmptyStock(t *testing.T) {
	r := buildWorkbook(t, stockTestHeader(), [][]interface{}{
		{"MAT-001", "Insumo", "KG", "DEP-01", "12"},
		{"MAT-002", "Insumo", "KG", "DEP-01", "0"},
		{"MAT-003", "Insumo", "KG", "DEP-09", "3"},
	})

	stocks, err := ParseStock(r, stockTestClusters())
	require.NoError(t, err)

	require.Len(t, stocks, 2)
	assert.Equal(t, "MAT-001", stocks[0].Material)
	assert.Equal(t, "Principal insumos", stocks[0].NameClusterStore)
	assert.Equal(t, "MAT-003", stocks[1].Material)
	assert.Equal(t, "Producción", stocks[1].NameClusterStore)
}

func TestParseStockUnknownStoreStaysUnclustered(t *testing.T) {
	r := buildWorkbook(t, stockTestHeader(), [][]interface{}{
		{"MAT-001", "Insumo", "KG", "DEP-99", "4"},
	})

	stocks, err := ParseStock(r, stockTestClusters())
	require.NoError(t, err)

	require.Len(t, stocks, 1)
	assert.Empty(t, stocks[0].NameClusterStore)
}

func TestParseStockRejectsWrongSchema(t *testing.T) {
	header := stockTestHeader()
	header[0] = "ARTICULO"

	r := buildWorkbook(t, header, nil)

	_, err := ParseStock(r, nil)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestAggregateSnapshotsRollsUpSelectedClusters(t *testing.T) {
	stocks := []models.StoreStock{
		{Material: "MAT-001", Store: "DEP-01", Stock: decFromString(t, "10"), NameClusterStore: "Principal insumos"},
		{Material: "MAT-001", Store: "DEP-02", Stock: decFromString(t, "5"), NameClusterStore: "Principal insumos"},
		{Material: "MAT-001", Store: "DEP-09", Stock: decFromString(t, "7"), NameClusterStore: "Producción"},
		{Material: "MAT-002", Store: "DEP-01", Stock: decFromString(t, "3"), NameClusterStore: "Principal insumos"},
	}
	closing := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	snapshots := AggregateSnapshots(stocks, []string{"Principal insumos"}, closing)

	// El cluster Producción no está seleccionado: su stock queda afuera
	require.Len(t, snapshots, 2)
	assert.Equal(t, "MAT-001", snapshots[0].Material)
	assert.True(t, snapshots[0].Stock.Equal(decFromString(t, "15")))
	assert.Equal(t, "MAT-002", snapshots[1].Material)
	assert.True(t, snapshots[1].Stock.Equal(decFromString(t, "3")))

	for _, snap := range snapshots {
		assert.Equal(t, closing, snap.ClosingDate)
		assert.Equal(t, isoweek.YearWeek(202511), snap.YearWeek)
	}
}
