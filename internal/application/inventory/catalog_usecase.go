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
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// ComponentCatalogUseCase alta de componentes en el catálogo sin recepción:
// el componente nace con existencia y costo en cero y solo el libro de
// movimientos los muta de ahí en adelante.
type ComponentCatalogUseCase struct {
	componentRepo repository.ComponentRepository
}

// NewComponentCatalogUseCase construye el caso de uso de catálogo.
func NewComponentCatalogUseCase(componentRepo repository.ComponentRepository) *ComponentCatalogUseCase {
	return &ComponentCatalogUseCase{componentRepo: componentRepo}
}

// Create registra un componente nuevo. El part number es único en el catálogo.
func (uc *ComponentCatalogUseCase) Create(ctx context.Context, in dto.CreateComponentRequest) (*entity.Component, error) {
	partNumber := strings.TrimSpace(in.PartNumber)
	if partNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.componentRepo.GetByPartNumber(partNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	component := &entity.Component{
		ID:          uuid.New().String(),
		PartNumber:  partNumber,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Package:     in.Package,
		Quantity:    decimal.Zero,
		UnitCost:    decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if component.Name == "" {
		component.Name = partNumber
	}
	if err := uc.componentRepo.Create(component); err != nil {
		return nil, err
	}
	return component, nil
}
