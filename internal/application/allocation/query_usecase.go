package allocation

import (
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// AllocationQueryUseCase lecturas de asignaciones (sin transacción ni bloqueo).
type AllocationQueryUseCase struct {
	allocRepo repository.AllocationRepository
}

// NewAllocationQueryUseCase construye el caso de uso de consulta.
func NewAllocationQueryUseCase(allocRepo repository.AllocationRepository) *AllocationQueryUseCase {
	return &AllocationQueryUseCase{allocRepo: allocRepo}
}

// GetAllocation devuelve una asignación por ID.
func (uc *AllocationQueryUseCase) GetAllocation(id string) (*entity.ProjectComponentAllocation, error) {
	return uc.allocRepo.GetByID(id)
}

// ListByProject lista las asignaciones de un proyecto.
func (uc *AllocationQueryUseCase) ListByProject(projectID string, limit, offset int) ([]*entity.ProjectComponentAllocation, error) {
	return uc.allocRepo.ListByProject(projectID, limit, offset)
}
