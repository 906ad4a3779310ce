package models

import "github.com/shopspring/decimal"

// MaterialMaster representa una fila de la hoja "material" del archivo
// auxiliar: datos descriptivos y condiciones del proveedor. Los atributos que
// pueden faltar en el maestro son punteros.
type MaterialMaster struct {
	Material            string           `json:"material"`
	Description         string           `json:"description"`
	Unit                string           `json:"um"`
	Supplier            string           `json:"supplier"`
	SupplierName        string           `json:"supplier_name"`
	SupplierCurrency    string           `json:"supplier_currency"`
	SupplierPrice       *decimal.Decimal `json:"supplier_price,omitempty"`
	SupplierMinLot      *decimal.Decimal `json:"supplier_min_lot,omitempty"`
	SupplierLeadTime    *int             `json:"supplier_lead_time,omitempty"`
	SupplierPaymentTerm string           `json:"supplier_payment_term"`
	SupplierNotes       string           `json:"supplier_notes"`
}

// MissingSupplierFields retorna los atributos de proveedor vacíos o ausentes,
// excluyendo supplier_notes que es texto libre opcional.
func (m *MaterialMaster) MissingSupplierFields() []string {
	var missing []string
	if m.Supplier == "" {
		missing = append(missing, "supplier")
	}
	if m.SupplierName == "" {
		missing = append(missing, "supplier_name")
	}
	if m.SupplierCurrency == "" {
		missing = append(missing, "supplier_currency")
	}
	if m.SupplierPrice == nil {
		missing = append(missing, "supplier_price")
	}
	if m.SupplierMinLot == nil {
		missing = append(missing, "supplier_min_lot")
	}
	if m.SupplierLeadTime == nil {
		missing = append(missing, "supplier_lead_time")
	}
	if m.SupplierPaymentTerm == "" {
		missing = append(missing, "supplier_payment_term")
	}
	return missing
}

// StoreCluster agrupa depósitos bajo un nombre de cluster (hoja "store" del
// archivo auxiliar; la lista viene separada por comas y se explota al cargar).
type StoreCluster struct {
	Cluster string   `json:"cluster"`
	Name    string   `json:"name"`
	Stores  []string `json:"stores"`
}
