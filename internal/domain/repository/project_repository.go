package repository

import "github.com/ensambla/ems-api/internal/domain/entity"

// ProjectRepository define el puerto de lectura de proyectos.
// El núcleo de inventario solo lee (BoardsOrdered como multiplicador por defecto).
type ProjectRepository interface {
	GetByID(id string) (*entity.Project, error)
	Create(project *entity.Project) error
	List(limit, offset int) ([]*entity.Project, error)
}
