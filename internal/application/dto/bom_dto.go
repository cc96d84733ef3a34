package dto

import "github.com/shopspring/decimal"

// Razones de salto/falla por línea al asignar un BOM.
const (
	BomLineAllocated         = "allocated"
	BomLineAlreadyAllocated  = "already_allocated"
	BomLineNoComponent       = "no_component"
	BomLineInsufficientStock = "insufficient_stock"
	BomLineError             = "error"
)

// AllocateBomRequest body para POST /api/boms/:id/allocate.
// Boards opcional: si es 0 se usa BoardsOrdered del proyecto.
type AllocateBomRequest struct {
	Boards int `json:"boards,omitempty"`
}

// BomLineShortfall detalle de una línea rechazada por stock insuficiente.
type BomLineShortfall struct {
	BomLineID   string          `json:"bom_line_id"`
	ComponentID string          `json:"component_id"`
	PartNumber  string          `json:"part_number"`
	Required    decimal.Decimal `json:"required"`
	Available   decimal.Decimal `json:"available"`
}

// BomLineFailure detalle de una línea con falla inesperada.
type BomLineFailure struct {
	BomLineID  string `json:"bom_line_id"`
	PartNumber string `json:"part_number"`
	Error      string `json:"error"`
}

// BomAllocationResult reporte completo de una corrida de asignación de BOM.
// Ninguna falla por línea aborta el lote: el resultado es un conteo, no una
// excepción.
type BomAllocationResult struct {
	BomID             string             `json:"bom_id"`
	Boards            int                `json:"boards"`
	Allocated         int                `json:"allocated"`
	AlreadyAllocated  int                `json:"already_allocated"`
	NoComponent       int                `json:"no_component"`
	InsufficientStock int                `json:"insufficient_stock"`
	Errors            int                `json:"errors"`
	Shortfalls        []BomLineShortfall `json:"shortfalls,omitempty"`
	Failures          []BomLineFailure   `json:"failures,omitempty"`
	BomStatus         string             `json:"bom_status"`
}

// BomDeallocationResult reporte de una corrida de desasignación.
type BomDeallocationResult struct {
	BomID    string           `json:"bom_id"`
	Returned int              `json:"returned"`
	Skipped  int              `json:"skipped"`
	Errors   int              `json:"errors"`
	Failures []BomLineFailure `json:"failures,omitempty"`
}
