package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and allocation.AllocationTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ allocation.AllocationTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Unidad atómica de las recepciones: movimiento IN + existencia + costo promedio.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	componentRepo repository.ComponentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewInventoryMovementRepository(tx)
	componentRepo := NewComponentRepository(tx)

	if err := fn(movRepo, componentRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAllocation inicia una transacción con los repos del núcleo de asignación.
// Unidad atómica de asignar/consumir/devolver: el chequeo de stock, el
// movimiento del libro y la asignación confirman o revierten juntos.
func (r *TxRunner) RunAllocation(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	componentRepo repository.ComponentRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewInventoryMovementRepository(tx)
	componentRepo := NewComponentRepository(tx)
	allocRepo := NewAllocationRepository(tx)

	if err := fn(movRepo, componentRepo, allocRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
