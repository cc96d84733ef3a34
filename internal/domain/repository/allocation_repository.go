package repository

import "github.com/ensambla/ems-api/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para asignaciones
// proyecto-componente. El Allocation Manager es su único escritor.
type AllocationRepository interface {
	Create(alloc *entity.ProjectComponentAllocation) error
	GetByID(id string) (*entity.ProjectComponentAllocation, error)
	// GetForUpdate bloquea la fila de la asignación (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.ProjectComponentAllocation, error)
	Update(alloc *entity.ProjectComponentAllocation) error
	// FindByProjectComponentLine busca una asignación existente para la
	// combinación exacta proyecto+componente+línea (idempotencia del BOM).
	FindByProjectComponentLine(projectID, componentID string, bomLineID *string) (*entity.ProjectComponentAllocation, error)
	ListByProject(projectID string, limit, offset int) ([]*entity.ProjectComponentAllocation, error)
}
