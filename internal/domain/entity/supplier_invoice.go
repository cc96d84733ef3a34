package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierInvoice representa una factura de compra a proveedor.
// El núcleo solo la usa como fuente de precio unitario por línea: al asignar
// con factura de origen, el costo se congela desde la línea correspondiente.
type SupplierInvoice struct {
	ID           string
	SupplierName string
	Number       string
	Date         time.Time
	CreatedAt    time.Time
}

// SupplierInvoiceLine línea de factura de proveedor (componente + precio unitario).
type SupplierInvoiceLine struct {
	ID          string
	InvoiceID   string
	ComponentID string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}
