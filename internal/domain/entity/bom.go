package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de asignación de un BOM.
const (
	BomStatusPending            = "pending"
	BomStatusPartiallyAllocated = "partially_allocated"
	BomStatusAllocated          = "allocated"
)

// Bom representa la lista de materiales de un proyecto.
type Bom struct {
	ID        string
	ProjectID string
	Name      string
	Revision  string
	Status    string // pending, partially_allocated, allocated
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BomLine representa una línea del BOM: un componente y la cantidad por tarjeta.
// ComponentID puede ser nil si la referencia aún no se resolvió contra el catálogo.
// Allocated y ActualCost los estampa el orquestador de asignación; nunca son
// fuente de verdad de cantidades (eso es del ledger).
type BomLine struct {
	ID          string
	BomID       string
	ComponentID *string
	Reference   string          // designadores (R1, C3-C7, ...)
	PartNumber  string          // referencia tal como vino en el BOM del cliente
	QtyPerBoard decimal.Decimal // cantidad por tarjeta producida
	Allocated   bool
	ActualCost  decimal.Decimal // costo real estampado al asignar
	Position    int             // orden de la línea en el BOM
}
