package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterReceiptRequest body para POST /api/inventory/receipts.
// Si el componente no existe aún (primera recepción de un part number nuevo),
// se crea con los datos de NewComponent.
type RegisterReceiptRequest struct {
	ComponentID   string           `json:"component_id,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	ReferenceType string           `json:"reference_type,omitempty"` // supplier_invoice, import_batch
	ReferenceID   string           `json:"reference_id,omitempty"`
	NewComponent  *NewComponentDTO `json:"new_component,omitempty"`
}

// CreateComponentRequest body para POST /api/components (alta de catálogo sin
// recepción: el componente nace con existencia y costo en cero).
type CreateComponentRequest struct {
	PartNumber  string `json:"part_number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Package     string `json:"package,omitempty"`
}

// NewComponentDTO datos mínimos de catálogo para alta en primera recepción.
type NewComponentDTO struct {
	PartNumber  string `json:"part_number"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Package     string `json:"package,omitempty"`
}

// MovementResponse movimiento del libro para respuestas HTTP.
type MovementResponse struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	ComponentID    string          `json:"component_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Date           time.Time       `json:"date"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// ComponentResponse componente para respuestas HTTP.
type ComponentResponse struct {
	ID          string          `json:"id"`
	PartNumber  string          `json:"part_number"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Package     string          `json:"package,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ReconciliationResponse resultado de reconciliar el ledger de un componente:
// la existencia materializada contra la suma de movimientos.
type ReconciliationResponse struct {
	ComponentID  string          `json:"component_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	LedgerSum    decimal.Decimal `json:"ledger_sum"`
	Reconciled   bool            `json:"reconciled"`
	Difference   decimal.Decimal `json:"difference"`
}
