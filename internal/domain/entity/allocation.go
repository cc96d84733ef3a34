package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectComponentAllocation representa una reserva de componentes para un proyecto.
// Invariante en todo momento: QtyAllocated = QtyUsed + QtyRemaining, todas >= 0.
// UnitCost queda congelado al momento de asignar (factura de origen o promedio
// ponderado vigente); TotalCost = QtyAllocated * UnitCost tras cada operación.
type ProjectComponentAllocation struct {
	ID          string
	ProjectID   string
	ComponentID string
	BomLineID   *string // opcional: línea del BOM que originó la reserva
	QtyAllocated decimal.Decimal
	QtyUsed      decimal.Decimal
	QtyRemaining decimal.Decimal
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	Status       string // allocated, in_use, completed, returned
	AllocatedAt  time.Time
	CompletedAt  *time.Time
	CreatedBy    string
}
