package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/entity"
)

// ComponentRepository define el puerto de persistencia para Component.
// Usado dentro de transacciones para garantizar consistencia del stock.
type ComponentRepository interface {
	Create(component *entity.Component) error
	GetByID(id string) (*entity.Component, error)
	GetByPartNumber(partNumber string) (*entity.Component, error)
	List(limit, offset int) ([]*entity.Component, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Component, error)
	// UpdateStockAndCost actualiza existencia y costo promedio (solo dentro de tx).
	UpdateStockAndCost(id string, quantity, unitCost decimal.Decimal) error
}
