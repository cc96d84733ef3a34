package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el libro
// de movimientos. Solo inserta y lee: el libro es append-only.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	ListByComponent(componentID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error)
	// SumByComponent suma las cantidades con signo de todos los movimientos del
	// componente (reconciliación del ledger contra la existencia materializada).
	SumByComponent(componentID string) (decimal.Decimal, error)
}
