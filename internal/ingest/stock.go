package ingest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"mrp-service/internal/isoweek"
	"mrp-service/internal/models"
)

// Esquema del archivo de stock: 8 columnas, las primeras cinco fijas.
var (
	stockHeader     = []string{"COD_ART", "DES_ART", "UNIDAD", "DEPÓSITO", "EN_STOCK"}
	stockAttributes = 8
)

// ParseStock carga el archivo de stock por depósito, descarta filas sin
// existencias y anota el cluster de cada depósito según el auxiliar.
func ParseStock(r io.Reader, clusters []models.StoreCluster) ([]models.StoreStock, error) {
	rows, err := readSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo está vacío", ErrSchemaMismatch)
	}

	header := rows[0]
	if err := validateSchema(header, stockHeader, stockAttributes); err != nil {
		return nil, err
	}

	materialIdx := columnIndex(header, "COD_ART")
	storeIdx := columnIndex(header, "DEPÓSITO")
	stockIdx := columnIndex(header, "EN_STOCK")

	byStore := clusterByStore(clusters)

	var stocks []models.StoreStock
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		stock, err := parseDecimal(cell(row, stockIdx))
		if err != nil {
			return nil, fmt.Errorf("fila %d: stock inválido: %w", i+2, err)
		}
		if !stock.IsPositive() {
			continue
		}

		s := models.StoreStock{
			Material: cell(row, materialIdx),
			Store:    cell(row, storeIdx),
			Stock:    stock,
		}
		if c, ok := byStore[s.Store]; ok {
			s.ClusterStore = c.Cluster
			s.NameClusterStore = c.Name
		}
		stocks = append(stocks, s)
	}

	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].Store != stocks[j].Store {
			return stocks[i].Store < stocks[j].Store
		}
		return stocks[i].Material < stocks[j].Material
	})

	return stocks, nil
}

// AggregateSnapshots consolida el stock de los clusters seleccionados en una
// cifra por material, atribuida a la semana ISO de la fecha de cierre.
func AggregateSnapshots(stocks []models.StoreStock, selected []string, closingDate time.Time) []models.StockSnapshot {
	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}

	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, s := range stocks {
		if !selectedSet[s.NameClusterStore] {
			continue
		}
		if _, ok := totals[s.Material]; !ok {
			order = append(order, s.Material)
		}
		totals[s.Material] = totals[s.Material].Add(s.Stock)
	}
	sort.Strings(order)

	yearWeek := isoweek.FromTime(closingDate)
	snapshots := make([]models.StockSnapshot, 0, len(order))
	for _, material := range order {
		snapshots = append(snapshots, models.StockSnapshot{
			Material:    material,
			Stock:       totals[material],
			ClosingDate: closingDate,
			YearWeek:    yearWeek,
		})
	}
	return snapshots
}

func clusterByStore(clusters []models.StoreCluster) map[string]models.StoreCluster {
	byStore := make(map[string]models.StoreCluster)
	for _, c := range clusters {
		for _, store := range c.Stores {
			byStore[store] = c
		}
	}
	return byStore
}
