package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIn     = "in"     // entrada (recepción de compra / importación)
	MovementTypeOut    = "out"    // salida (reserva para un proyecto)
	MovementTypeReturn = "return" // devolución al almacén desde una asignación
)

// Tipos de referencia al documento que origina un movimiento.
const (
	ReferenceAllocation  = "allocation"
	ReferenceInvoice     = "supplier_invoice"
	ReferenceImportBatch = "import_batch"
)

// InventoryMovement representa un movimiento en el libro de inventario.
// Es append-only: nunca se actualiza ni se borra; una corrección se registra
// como movimiento compensatorio. QuantityBefore/QuantityAfter son el snapshot
// de existencia del componente y forman una cadena por componente:
// QuantityAfter = QuantityBefore + Quantity.
type InventoryMovement struct {
	ID             string
	TransactionID  string
	ComponentID    string
	Type           string          // in, out, return
	Quantity       decimal.Decimal // con signo: positivo in/return, negativo out
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	ReferenceType  string // allocation, supplier_invoice, import_batch
	ReferenceID    string
	Date           time.Time
	CreatedAt      time.Time
	CreatedBy      string
}
