package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

var _ repository.SupplierInvoiceRepository = (*SupplierInvoiceRepo)(nil)

// SupplierInvoiceRepo implementación de SupplierInvoiceRepository sobre PostgreSQL.
type SupplierInvoiceRepo struct {
	q Querier
}

// NewSupplierInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierInvoiceRepository(q Querier) *SupplierInvoiceRepo {
	return &SupplierInvoiceRepo{q: q}
}

// GetByID obtiene la cabecera de una factura de proveedor.
func (r *SupplierInvoiceRepo) GetByID(id string) (*entity.SupplierInvoice, error) {
	query := `SELECT id, supplier_name, number, date, created_at FROM supplier_invoices WHERE id = $1`
	var inv entity.SupplierInvoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.SupplierName, &inv.Number, &inv.Date, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier invoice: %w", err)
	}
	return &inv, nil
}

// GetLineUnitPrice devuelve el precio unitario de la línea del componente en la
// factura, o nil si no existe línea para ese componente.
func (r *SupplierInvoiceRepo) GetLineUnitPrice(invoiceID, componentID string) (*decimal.Decimal, error) {
	query := `SELECT unit_price FROM supplier_invoice_lines WHERE invoice_id = $1 AND component_id = $2 LIMIT 1`
	var price decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, invoiceID, componentID).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice line price: %w", err)
	}
	return &price, nil
}
