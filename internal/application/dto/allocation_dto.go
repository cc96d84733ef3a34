package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocateRequest body para POST /api/allocations.
// SourceInvoiceID opcional: si viene, el costo unitario se congela desde la
// línea de esa factura; si no, se usa el promedio ponderado vigente.
type AllocateRequest struct {
	ProjectID       string          `json:"project_id"`
	ComponentID     string          `json:"component_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	SourceInvoiceID string          `json:"source_invoice_id,omitempty"`
	BomLineID       string          `json:"bom_line_id,omitempty"`
}

// QuantityRequest body para marcar consumo o devolver (POST /use, /return).
type QuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationResponse asignación para respuestas HTTP.
type AllocationResponse struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"project_id"`
	ComponentID  string          `json:"component_id"`
	BomLineID    *string         `json:"bom_line_id,omitempty"`
	QtyAllocated decimal.Decimal `json:"qty_allocated"`
	QtyUsed      decimal.Decimal `json:"qty_used"`
	QtyRemaining decimal.Decimal `json:"qty_remaining"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Status       string          `json:"status"`
	AllocatedAt  time.Time       `json:"allocated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
