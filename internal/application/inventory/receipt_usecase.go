package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain"
	"github.com/ensambla/ems-api/internal/domain/entity"
	domaininv "github.com/ensambla/ems-api/internal/domain/inventory"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// RegisterReceiptUseCase registra recepciones de componentes (movimientos IN)
// de forma transaccional: bloqueo de fila (SELECT FOR UPDATE), recálculo del
// costo promedio ponderado y escritura del movimiento en la misma transacción.
// Es la puerta de entrada del pipeline de compras/importación.
type RegisterReceiptUseCase struct {
	txRunner      TxRunner
	componentRepo repository.ComponentRepository
}

// NewRegisterReceiptUseCase construye el caso de uso.
func NewRegisterReceiptUseCase(txRunner TxRunner, componentRepo repository.ComponentRepository) *RegisterReceiptUseCase {
	return &RegisterReceiptUseCase{txRunner: txRunner, componentRepo: componentRepo}
}

// ReceiptInputDTO entrada para registrar una recepción.
// ComponentID vacío + NewComponent => alta de catálogo en la primera recepción.
type ReceiptInputDTO struct {
	UserID        string
	ComponentID   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	ReferenceType string
	ReferenceID   string
	NewComponent  *dto.NewComponentDTO
}

// RegisterReceipt inicia la transacción, bloquea la fila del componente,
// aplica CostCalculator y guarda el movimiento IN con snapshot antes/después.
// El promedio nunca se calcula contra un movimiento sin confirmar: todo ocurre
// en la misma unidad atómica y se publica junto.
func (uc *RegisterReceiptUseCase) RegisterReceipt(ctx context.Context, input ReceiptInputDTO) (*entity.Component, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.ComponentID == "" && (input.NewComponent == nil || strings.TrimSpace(input.NewComponent.PartNumber) == "") {
		return nil, domain.ErrInvalidInput
	}
	switch input.ReferenceType {
	case "", entity.ReferenceInvoice, entity.ReferenceImportBatch:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	txID := uuid.New().String()
	var result *entity.Component

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		componentRepo repository.ComponentRepository,
	) error {
		component, err := uc.resolveComponent(componentRepo, input, now)
		if err != nil {
			return err
		}

		before := component.Quantity
		newQty := before.Add(input.Quantity)
		newCost := domaininv.CostCalculator(before, component.UnitCost, input.Quantity, input.UnitPrice)

		mov := &entity.InventoryMovement{
			TransactionID:  txID,
			ComponentID:    component.ID,
			Type:           entity.MovementTypeIn,
			Quantity:       input.Quantity,
			QuantityBefore: before,
			QuantityAfter:  newQty,
			UnitCost:       input.UnitPrice,
			TotalCost:      input.Quantity.Mul(input.UnitPrice),
			ReferenceType:  input.ReferenceType,
			ReferenceID:    input.ReferenceID,
			Date:           now,
			CreatedAt:      now,
			CreatedBy:      input.UserID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		if err := componentRepo.UpdateStockAndCost(component.ID, newQty, newCost); err != nil {
			return err
		}
		component.Quantity = newQty
		component.UnitCost = newCost
		component.UpdatedAt = now
		result = component
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveComponent obtiene el componente bloqueado para update; si no existe y
// la recepción trae datos de catálogo, lo crea dentro de la misma transacción.
func (uc *RegisterReceiptUseCase) resolveComponent(
	componentRepo repository.ComponentRepository,
	input ReceiptInputDTO,
	now time.Time,
) (*entity.Component, error) {
	if input.ComponentID != "" {
		component, err := componentRepo.GetForUpdate(input.ComponentID)
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, domain.ErrNotFound
		}
		return component, nil
	}

	existing, err := componentRepo.GetByPartNumber(input.NewComponent.PartNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return componentRepo.GetForUpdate(existing.ID)
	}
	component := &entity.Component{
		ID:          uuid.New().String(),
		PartNumber:  input.NewComponent.PartNumber,
		Name:        input.NewComponent.Name,
		Description: input.NewComponent.Description,
		Package:     input.NewComponent.Package,
		Quantity:    decimal.Zero,
		UnitCost:    decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if component.Name == "" {
		component.Name = component.PartNumber
	}
	if err := componentRepo.Create(component); err != nil {
		return nil, err
	}
	return component, nil
}
