package allocation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/repository"
)

// AllocationTxRunner ejecuta callbacks dentro de una transacción con los
// repositorios del núcleo de asignación atados a esa tx. La verificación de
// stock y su mutación ocurren siempre dentro del mismo Run.
type AllocationTxRunner interface {
	RunAllocation(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		componentRepo repository.ComponentRepository,
		allocRepo repository.AllocationRepository,
	) error) error
}

// StockSnapshot resumen de existencia publicado tras confirmar una mutación.
type StockSnapshot struct {
	ComponentID string          `json:"component_id"`
	PartNumber  string          `json:"part_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	At          time.Time       `json:"at"`
}

// SnapshotPublisher publica snapshots de stock como notificación post-commit
// de mejor esfuerzo: su falla jamás revierte ni bloquea la mutación del ledger.
type SnapshotPublisher interface {
	Publish(snapshot StockSnapshot) error
}
