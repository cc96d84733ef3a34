package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Component representa un componente electrónico del almacén (master data).
// Quantity es la existencia actual y UnitCost el costo promedio ponderado;
// ambos se mutan exclusivamente a través del libro de movimientos (ledger).
type Component struct {
	ID          string
	PartNumber  string // referencia del fabricante, única
	Name        string
	Description string
	Package     string // encapsulado/footprint (0402, SOIC-8, etc.)
	Quantity    decimal.Decimal // existencia actual, nunca negativa
	UnitCost    decimal.Decimal // costo promedio ponderado (inicia en 0)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
