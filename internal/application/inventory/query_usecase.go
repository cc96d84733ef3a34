package inventory

import (
	"context"
	"time"

	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// StockQueryUseCase lecturas del ledger y del catálogo de componentes.
// Solo lee filas confirmadas (fuera de transacción): los consumidores de
// reporte nunca ven un movimiento a medio confirmar.
type StockQueryUseCase struct {
	componentRepo repository.ComponentRepository
	movementRepo  repository.InventoryMovementRepository
}

// NewStockQueryUseCase construye el caso de uso de consulta.
func NewStockQueryUseCase(componentRepo repository.ComponentRepository, movementRepo repository.InventoryMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{componentRepo: componentRepo, movementRepo: movementRepo}
}

// GetComponent devuelve un componente por ID.
func (uc *StockQueryUseCase) GetComponent(ctx context.Context, id string) (*entity.Component, error) {
	component, err := uc.componentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, domain.ErrNotFound
	}
	return component, nil
}

// ListComponents lista el catálogo paginado.
func (uc *StockQueryUseCase) ListComponents(ctx context.Context, limit, offset int) ([]*entity.Component, error) {
	return uc.componentRepo.List(limit, offset)
}

// ListMovements lista los movimientos de un componente en un rango de fechas.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, componentID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	return uc.movementRepo.ListByComponent(componentID, from, to, limit, offset)
}

// Reconcile compara la existencia materializada contra la suma con signo de
// todos los movimientos del componente (invariante del ledger).
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, componentID string) (*dto.ReconciliationResponse, error) {
	component, err := uc.componentRepo.GetByID(componentID)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.movementRepo.SumByComponent(componentID)
	if err != nil {
		return nil, err
	}
	diff := component.Quantity.Sub(sum)
	return &dto.ReconciliationResponse{
		ComponentID: componentID,
		OnHand:      component.Quantity,
		LedgerSum:   sum,
		Reconciled:  diff.IsZero(),
		Difference:  diff,
	}, nil
}
