package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/entity"
)

// SupplierInvoiceRepository define el puerto de lectura de facturas de proveedor.
// El núcleo solo consulta el precio unitario por línea para congelar costos.
type SupplierInvoiceRepository interface {
	GetByID(id string) (*entity.SupplierInvoice, error)
	// GetLineUnitPrice devuelve el precio unitario de la línea del componente
	// en la factura, o nil si la factura no tiene línea para ese componente.
	GetLineUnitPrice(invoiceID, componentID string) (*decimal.Decimal, error)
}
