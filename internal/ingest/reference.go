package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mrp-service/internal/models"
)

// Reference es el contenido del archivo auxiliar: maestro de materiales y
// agrupación de depósitos.
type Reference struct {
	Materials map[string]models.MaterialMaster
	Clusters  []models.StoreCluster
}

// LoadReference carga el archivo auxiliar desde disco. Los errores de acceso
// se traducen a mensajes para el usuario; el paso que dependa del auxiliar no
// corre.
func LoadReference(path, materialSheet, storeSheet string) (*Reference, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: el archivo '%s' no se encontró", ErrFileAccess, path)
		case errors.Is(err, fs.ErrPermission):
			return nil, fmt.Errorf("%w: el archivo '%s' está abierto o no se puede acceder", ErrFileAccess, path)
		default:
			return nil, fmt.Errorf("%w: ocurrió un error inesperado: %v", ErrFileAccess, err)
		}
	}
	defer f.Close()

	materials, err := loadMaterialSheet(f, materialSheet)
	if err != nil {
		return nil, err
	}
	clusters, err := loadStoreSheet(f, storeSheet)
	if err != nil {
		return nil, err
	}

	return &Reference{Materials: materials, Clusters: clusters}, nil
}

// loadMaterialSheet lee la hoja del maestro de materiales. Los atributos de
// proveedor ausentes quedan como punteros nulos.
func loadMaterialSheet(f *excelize.File, sheet string) (map[string]models.MaterialMaster, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return map[string]models.MaterialMaster{}, nil
	}

	header := rows[0]
	materialIdx := columnIndex(header, "material")
	descriptionIdx := columnIndex(header, "description")
	unitIdx := columnIndex(header, "um")
	supplierIdx := columnIndex(header, "supplier")
	supplierNameIdx := columnIndex(header, "supplier_name")
	currencyIdx := columnIndex(header, "supplier_currency")
	priceIdx := columnIndex(header, "supplier_price")
	minLotIdx := columnIndex(header, "supplier_min_lot")
	leadTimeIdx := columnIndex(header, "supplier_lead_time")
	paymentTermIdx := columnIndex(header, "supplier_payment_term")
	notesIdx := columnIndex(header, "supplier_notes")

	materials := make(map[string]models.MaterialMaster)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		m := models.MaterialMaster{
			Material:            cell(row, materialIdx),
			Description:         cell(row, descriptionIdx),
			Unit:                cell(row, unitIdx),
			Supplier:            cell(row, supplierIdx),
			SupplierName:        cell(row, supplierNameIdx),
			SupplierCurrency:    cell(row, currencyIdx),
			SupplierPaymentTerm: cell(row, paymentTermIdx),
			SupplierNotes:       cell(row, notesIdx),
		}
		if m.Material == "" {
			continue
		}

		if price, err := parseDecimal(cell(row, priceIdx)); err == nil && cell(row, priceIdx) != "" {
			m.SupplierPrice = &price
		}
		if minLot, err := parseDecimal(cell(row, minLotIdx)); err == nil && cell(row, minLotIdx) != "" {
			m.SupplierMinLot = &minLot
		}
		if raw := cell(row, leadTimeIdx); raw != "" {
			if leadTime, err := strconv.Atoi(raw); err == nil {
				m.SupplierLeadTime = &leadTime
			}
		}

		materials[m.Material] = m
	}

	return materials, nil
}

// loadStoreSheet lee la hoja de agrupación de depósitos y explota la lista
// separada por comas de cada cluster.
func loadStoreSheet(f *excelize.File, sheet string) ([]models.StoreCluster, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer la hoja %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	clusterIdx := columnIndex(header, "cluster")
	nameIdx := columnIndex(header, "name")
	listIdx := columnIndex(header, "list")

	var clusters []models.StoreCluster
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}

		c := models.StoreCluster{
			Cluster: cell(row, clusterIdx),
			Name:    cell(row, nameIdx),
		}
		for _, store := range strings.Split(cell(row, listIdx), ",") {
			if trimmed := strings.TrimSpace(store); trimmed != "" {
				c.Stores = append(c.Stores, trimmed)
			}
		}
		clusters = append(clusters, c)
	}

	return clusters, nil
}
