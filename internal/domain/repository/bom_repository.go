package repository

import (
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain/entity"
)

// BomRepository define el puerto de persistencia para BOMs y sus líneas.
// El orquestador solo estampa el flag de asignación y el costo real por línea;
// el resto del BOM pertenece al catálogo de proyectos.
type BomRepository interface {
	GetByID(id string) (*entity.Bom, error)
	// ListLines devuelve las líneas en el orden almacenado (Position).
	ListLines(bomID string) ([]*entity.BomLine, error)
	// UpdateLineAllocation estampa allocated y el costo real de una línea.
	UpdateLineAllocation(lineID string, allocated bool, actualCost decimal.Decimal) error
	UpdateStatus(bomID string, status string) error
}
