package allocation

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
	"github.com/ensambla/ems-api/pkg/logger"
)

// BomAllocationUseCase recorre las líneas de un BOM y reserva stock línea por
// línea a través del AllocationUseCase (nunca toca el ledger directamente).
// Cada línea es su propia unidad atómica: una falla por línea se clasifica y
// se acumula en el reporte, jamás aborta a sus hermanas.
type BomAllocationUseCase struct {
	bomRepo       repository.BomRepository
	projectRepo   repository.ProjectRepository
	componentRepo repository.ComponentRepository
	allocRepo     repository.AllocationRepository
	allocationUC  *AllocationUseCase
	log           *logger.Logger
}

// NewBomAllocationUseCase construye el orquestador.
func NewBomAllocationUseCase(
	bomRepo repository.BomRepository,
	projectRepo repository.ProjectRepository,
	componentRepo repository.ComponentRepository,
	allocRepo repository.AllocationRepository,
	allocationUC *AllocationUseCase,
	log *logger.Logger,
) *BomAllocationUseCase {
	return &BomAllocationUseCase{
		bomRepo:       bomRepo,
		projectRepo:   projectRepo,
		componentRepo: componentRepo,
		allocRepo:     allocRepo,
		allocationUC:  allocationUC,
		log:           log,
	}
}

// AllocateBom reserva el stock de cada línea del BOM: requerido = cantidad por
// tarjeta * multiplicador (boards, o las tarjetas pedidas del proyecto si viene
// en 0). El chequeo de disponibilidad previo es solo un descarte barato; la
// guardia autoritativa vive en la transacción del AllocationUseCase, así que
// una carrera aún puede aflorar como insufficient_stock desde allí.
// Reinvocar es seguro: las líneas ya asignadas (flag o registro existente) se
// saltan sin mutar stock.
func (uc *BomAllocationUseCase) AllocateBom(ctx context.Context, bomID string, boards int, userID string) (*dto.BomAllocationResult, error) {
	bom, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	if boards <= 0 {
		project, err := uc.projectRepo.GetByID(bom.ProjectID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, domain.ErrNotFound
		}
		boards = project.BoardsOrdered
	}
	if boards <= 0 {
		return nil, domain.ErrInvalidInput
	}

	lines, err := uc.bomRepo.ListLines(bomID)
	if err != nil {
		return nil, err
	}

	result := &dto.BomAllocationResult{BomID: bomID, Boards: boards}
	multiplier := decimal.NewFromInt(int64(boards))

	for _, line := range lines {
		uc.allocateLine(ctx, bom, line, multiplier, userID, result)
	}

	result.BomStatus = deriveBomStatus(bom.Status, len(lines), result)
	if result.BomStatus != bom.Status {
		if err := uc.bomRepo.UpdateStatus(bomID, result.BomStatus); err != nil {
			uc.logLineError(bomID, "", err, "actualizar estado del BOM")
		}
	}
	return result, nil
}

// allocateLine procesa una línea y clasifica el resultado en el reporte.
func (uc *BomAllocationUseCase) allocateLine(
	ctx context.Context,
	bom *entity.Bom,
	line *entity.BomLine,
	multiplier decimal.Decimal,
	userID string,
	result *dto.BomAllocationResult,
) {
	if line.Allocated {
		result.AlreadyAllocated++
		return
	}
	if line.ComponentID == nil || *line.ComponentID == "" {
		result.NoComponent++
		return
	}
	componentID := *line.ComponentID

	// Idempotencia: si ya existe una asignación para proyecto+componente+línea,
	// la línea se trata como asignada aunque el flag no haya quedado estampado.
	existing, err := uc.allocRepo.FindByProjectComponentLine(bom.ProjectID, componentID, &line.ID)
	if err != nil {
		uc.recordFailure(result, line, err)
		return
	}
	if existing != nil {
		result.AlreadyAllocated++
		return
	}

	required := line.QtyPerBoard.Mul(multiplier)

	// Chequeo no autoritativo para rechazo temprano con cifras.
	component, err := uc.componentRepo.GetByID(componentID)
	if err != nil {
		uc.recordFailure(result, line, err)
		return
	}
	if component == nil {
		result.NoComponent++
		return
	}
	if component.Quantity.LessThan(required) {
		result.InsufficientStock++
		result.Shortfalls = append(result.Shortfalls, dto.BomLineShortfall{
			BomLineID:   line.ID,
			ComponentID: componentID,
			PartNumber:  component.PartNumber,
			Required:    required,
			Available:   component.Quantity,
		})
		return
	}

	alloc, err := uc.allocationUC.Allocate(ctx, AllocateInput{
		ProjectID:   bom.ProjectID,
		ComponentID: componentID,
		Quantity:    required,
		BomLineID:   &line.ID,
		UserID:      userID,
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			// Perdimos la carrera contra otro escritor después del pre-chequeo.
			result.InsufficientStock++
			result.Shortfalls = append(result.Shortfalls, dto.BomLineShortfall{
				BomLineID:   line.ID,
				ComponentID: componentID,
				PartNumber:  component.PartNumber,
				Required:    insufficient.Required,
				Available:   insufficient.Available,
			})
			return
		}
		uc.recordFailure(result, line, err)
		return
	}

	// La reserva ya quedó confirmada; estampar el flag es mejor esfuerzo y el
	// chequeo de idempotencia cubre un reintento si esta escritura falla.
	if err := uc.bomRepo.UpdateLineAllocation(line.ID, true, alloc.TotalCost); err != nil {
		uc.logLineError(bom.ID, line.ID, err, "estampar línea asignada")
	}
	result.Allocated++
}

// DeallocateBom devuelve al almacén todo lo que sigue reservado de cada línea
// asignada y regresa el BOM a pending. Una asignación inexistente se reporta
// como salto, no como falla del lote.
func (uc *BomAllocationUseCase) DeallocateBom(ctx context.Context, bomID string, userID string) (*dto.BomDeallocationResult, error) {
	bom, err := uc.bomRepo.GetByID(bomID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.bomRepo.ListLines(bomID)
	if err != nil {
		return nil, err
	}

	result := &dto.BomDeallocationResult{BomID: bomID}
	for _, line := range lines {
		if !line.Allocated {
			result.Skipped++
			continue
		}
		if line.ComponentID == nil || *line.ComponentID == "" {
			result.Skipped++
			continue
		}
		alloc, err := uc.allocRepo.FindByProjectComponentLine(bom.ProjectID, *line.ComponentID, &line.ID)
		if err != nil {
			result.Errors++
			result.Failures = append(result.Failures, dto.BomLineFailure{BomLineID: line.ID, PartNumber: line.PartNumber, Error: err.Error()})
			continue
		}
		if alloc == nil {
			result.Skipped++
			continue
		}
		if alloc.QtyRemaining.GreaterThan(decimal.Zero) {
			if _, err := uc.allocationUC.Return(ctx, alloc.ID, alloc.QtyRemaining, userID); err != nil {
				result.Errors++
				result.Failures = append(result.Failures, dto.BomLineFailure{BomLineID: line.ID, PartNumber: line.PartNumber, Error: err.Error()})
				uc.logLineError(bomID, line.ID, err, "devolver remanente de la línea")
				continue
			}
		}
		if err := uc.bomRepo.UpdateLineAllocation(line.ID, false, decimal.Zero); err != nil {
			uc.logLineError(bomID, line.ID, err, "desmarcar línea")
		}
		result.Returned++
	}

	if err := uc.bomRepo.UpdateStatus(bomID, entity.BomStatusPending); err != nil {
		uc.logLineError(bomID, "", err, "regresar BOM a pending")
	}
	return result, nil
}

// recordFailure acumula una falla inesperada en el reporte con contexto.
func (uc *BomAllocationUseCase) recordFailure(result *dto.BomAllocationResult, line *entity.BomLine, err error) {
	result.Errors++
	result.Failures = append(result.Failures, dto.BomLineFailure{
		BomLineID:  line.ID,
		PartNumber: line.PartNumber,
		Error:      err.Error(),
	})
	uc.logLineError(result.BomID, line.ID, err, "asignar línea del BOM")
}

func (uc *BomAllocationUseCase) logLineError(bomID, lineID string, err error, ctx string) {
	if uc.log == nil {
		return
	}
	uc.log.Error().
		Err(err).
		Str("bom_id", bomID).
		Str("bom_line_id", lineID).
		Msg(ctx)
}

// deriveBomStatus calcula el estado del BOM tras la corrida:
// allocated si toda línea quedó asignada o ya lo estaba; partially_allocated
// si al menos una reserva nueva prosperó; si nada prosperó se conserva el
// estado previo (pending en la práctica).
func deriveBomStatus(current string, totalLines int, result *dto.BomAllocationResult) string {
	done := result.Allocated + result.AlreadyAllocated
	switch {
	case totalLines > 0 && done == totalLines:
		return entity.BomStatusAllocated
	case result.Allocated > 0:
		return entity.BomStatusPartiallyAllocated
	default:
		return current
	}
}
