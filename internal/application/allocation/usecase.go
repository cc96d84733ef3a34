package allocation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain"
	domainalloc "github.com/ensambla/ems-api/internal/domain/allocation"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
	"github.com/ensambla/ems-api/pkg/logger"
)

// AllocationUseCase es el único componente que muta la existencia de un
// componente por actividad de proyectos, y el único escritor de asignaciones.
// Cada operación ejecuta verificación y mutación dentro de una misma
// transacción con bloqueo de fila (SELECT FOR UPDATE): dos reservas
// concurrentes sobre el mismo componente nunca pueden aprobarse ambas si el
// stock solo alcanza para una.
type AllocationUseCase struct {
	txRunner    AllocationTxRunner
	projectRepo repository.ProjectRepository
	invoiceRepo repository.SupplierInvoiceRepository
	publisher   SnapshotPublisher
	log         *logger.Logger
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(
	txRunner AllocationTxRunner,
	projectRepo repository.ProjectRepository,
	invoiceRepo repository.SupplierInvoiceRepository,
	publisher SnapshotPublisher,
	log *logger.Logger,
) *AllocationUseCase {
	return &AllocationUseCase{
		txRunner:    txRunner,
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
		log:         log,
	}
}

// AllocateInput entrada para reservar stock a un proyecto.
type AllocateInput struct {
	ProjectID       string
	ComponentID     string
	Quantity        decimal.Decimal
	SourceInvoiceID string  // opcional: congela costo desde la línea de esta factura
	BomLineID       *string // opcional: línea del BOM que origina la reserva
	UserID          string
}

// Allocate reserva stock para un proyecto en una unidad atómica: bloquea la
// fila del componente, verifica disponibilidad (guardia autoritativa), escribe
// el movimiento OUT con snapshot antes/después, descuenta la existencia y crea
// la asignación en estado allocated. El costo de la factura de origen se
// resuelve antes de abrir la transacción (nada de I/O externo bajo el lock).
func (uc *AllocationUseCase) Allocate(ctx context.Context, input AllocateInput) (*entity.ProjectComponentAllocation, error) {
	if input.ProjectID == "" || input.ComponentID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}

	// Precio de factura resuelto fuera de la sección atómica.
	var invoicePrice *decimal.Decimal
	if input.SourceInvoiceID != "" {
		invoicePrice, err = uc.invoiceRepo.GetLineUnitPrice(input.SourceInvoiceID, input.ComponentID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	alloc := &entity.ProjectComponentAllocation{
		ID:          uuid.New().String(),
		ProjectID:   input.ProjectID,
		ComponentID: input.ComponentID,
		BomLineID:   input.BomLineID,
		AllocatedAt: now,
		CreatedBy:   input.UserID,
	}
	var snapshot StockSnapshot

	err = uc.txRunner.RunAllocation(ctx, func(
		movRepo repository.InventoryMovementRepository,
		componentRepo repository.ComponentRepository,
		allocRepo repository.AllocationRepository,
	) error {
		component, err := componentRepo.GetForUpdate(input.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrNotFound
		}
		if component.Quantity.LessThan(input.Quantity) {
			return &domain.InsufficientStockError{
				ComponentID: input.ComponentID,
				Required:    input.Quantity,
				Available:   component.Quantity,
			}
		}

		unitCost := component.UnitCost
		if invoicePrice != nil {
			unitCost = *invoicePrice
		}
		before := component.Quantity
		after := before.Sub(input.Quantity)

		mov := &entity.InventoryMovement{
			TransactionID:  alloc.ID,
			ComponentID:    component.ID,
			Type:           entity.MovementTypeOut,
			Quantity:       input.Quantity.Neg(),
			QuantityBefore: before,
			QuantityAfter:  after,
			UnitCost:       unitCost,
			TotalCost:      input.Quantity.Neg().Mul(unitCost),
			ReferenceType:  entity.ReferenceAllocation,
			ReferenceID:    alloc.ID,
			Date:           now,
			CreatedAt:      now,
			CreatedBy:      input.UserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := componentRepo.UpdateStockAndCost(component.ID, after, component.UnitCost); err != nil {
			return err
		}

		alloc.QtyAllocated = input.Quantity
		alloc.QtyUsed = decimal.Zero
		alloc.QtyRemaining = input.Quantity
		alloc.UnitCost = unitCost
		alloc.TotalCost = input.Quantity.Mul(unitCost)
		alloc.Status = domainalloc.StatusAllocated
		if err := allocRepo.Create(alloc); err != nil {
			return err
		}
		snapshot = StockSnapshot{
			ComponentID: component.ID,
			PartNumber:  component.PartNumber,
			Quantity:    after,
			UnitCost:    component.UnitCost,
			At:          now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishSnapshot(snapshot)
	return alloc, nil
}

// MarkUsed registra consumo físico sobre lo reservado. No escribe movimiento:
// el stock salió del almacén al asignar; aquí solo cambia cuánto de la reserva
// se usó frente a cuánto sigue reservado.
func (uc *AllocationUseCase) MarkUsed(ctx context.Context, allocationID string, qty decimal.Decimal, userID string) (*entity.ProjectComponentAllocation, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var result *entity.ProjectComponentAllocation

	err := uc.txRunner.RunAllocation(ctx, func(
		_ repository.InventoryMovementRepository,
		_ repository.ComponentRepository,
		allocRepo repository.AllocationRepository,
	) error {
		alloc, err := allocRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return domain.ErrNotFound
		}
		if domainalloc.IsTerminal(alloc.Status) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Status:       alloc.Status,
				Reason:       "la asignación está en estado terminal",
			}
		}
		if qty.GreaterThan(alloc.QtyRemaining) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Requested:    qty,
				Remaining:    alloc.QtyRemaining,
				Status:       alloc.Status,
			}
		}

		alloc.QtyUsed = alloc.QtyUsed.Add(qty)
		alloc.QtyRemaining = alloc.QtyRemaining.Sub(qty)
		next := domainalloc.Derive(alloc.QtyAllocated, alloc.QtyUsed, alloc.QtyRemaining)
		if !domainalloc.CanTransition(alloc.Status, next) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Status:       alloc.Status,
				Reason:       "transición de estado ilegal a " + next,
			}
		}
		alloc.Status = next
		if domainalloc.IsTerminal(next) {
			t := time.Now()
			alloc.CompletedAt = &t
		}
		if err := allocRepo.Update(alloc); err != nil {
			return err
		}
		result = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Return devuelve cantidad no consumida al almacén: movimiento return con
// snapshot antes/después, incremento de existencia y reducción de la reserva
// (QtyAllocated y QtyRemaining bajan juntas), todo en una transacción.
func (uc *AllocationUseCase) Return(ctx context.Context, allocationID string, qty decimal.Decimal, userID string) (*entity.ProjectComponentAllocation, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var result *entity.ProjectComponentAllocation
	var snapshot StockSnapshot

	err := uc.txRunner.RunAllocation(ctx, func(
		movRepo repository.InventoryMovementRepository,
		componentRepo repository.ComponentRepository,
		allocRepo repository.AllocationRepository,
	) error {
		alloc, err := allocRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return domain.ErrNotFound
		}
		if domainalloc.IsTerminal(alloc.Status) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Status:       alloc.Status,
				Reason:       "la asignación está en estado terminal",
			}
		}
		if qty.GreaterThan(alloc.QtyRemaining) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Requested:    qty,
				Remaining:    alloc.QtyRemaining,
				Status:       alloc.Status,
			}
		}

		component, err := componentRepo.GetForUpdate(alloc.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrNotFound
		}

		before := component.Quantity
		after := before.Add(qty)
		mov := &entity.InventoryMovement{
			TransactionID:  uuid.New().String(),
			ComponentID:    component.ID,
			Type:           entity.MovementTypeReturn,
			Quantity:       qty,
			QuantityBefore: before,
			QuantityAfter:  after,
			UnitCost:       alloc.UnitCost,
			TotalCost:      qty.Mul(alloc.UnitCost),
			ReferenceType:  entity.ReferenceAllocation,
			ReferenceID:    alloc.ID,
			Date:           now,
			CreatedAt:      now,
			CreatedBy:      userID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := componentRepo.UpdateStockAndCost(component.ID, after, component.UnitCost); err != nil {
			return err
		}

		alloc.QtyAllocated = alloc.QtyAllocated.Sub(qty)
		alloc.QtyRemaining = alloc.QtyRemaining.Sub(qty)
		alloc.TotalCost = alloc.QtyAllocated.Mul(alloc.UnitCost)
		next := domainalloc.Derive(alloc.QtyAllocated, alloc.QtyUsed, alloc.QtyRemaining)
		if !domainalloc.CanTransition(alloc.Status, next) {
			return &domain.InvalidAllocationError{
				AllocationID: allocationID,
				Status:       alloc.Status,
				Reason:       "transición de estado ilegal a " + next,
			}
		}
		alloc.Status = next
		if domainalloc.IsTerminal(next) {
			t := time.Now()
			alloc.CompletedAt = &t
		}
		if err := allocRepo.Update(alloc); err != nil {
			return err
		}
		result = alloc
		snapshot = StockSnapshot{
			ComponentID: component.ID,
			PartNumber:  component.PartNumber,
			Quantity:    after,
			UnitCost:    component.UnitCost,
			At:          now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publishSnapshot(snapshot)
	return result, nil
}

// publishSnapshot dispara la notificación post-commit en background.
// Mejor esfuerzo: los errores solo se registran en el log.
func (uc *AllocationUseCase) publishSnapshot(snapshot StockSnapshot) {
	if uc.publisher == nil || snapshot.ComponentID == "" {
		return
	}
	go func() {
		if err := uc.publisher.Publish(snapshot); err != nil && uc.log != nil {
			uc.log.Warn().
				Err(err).
				Str("component_id", snapshot.ComponentID).
				Msg("no se pudo publicar el snapshot de stock")
		}
	}()
}
