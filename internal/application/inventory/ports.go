package inventory

import (
	"context"

	"github.com/ensambla/ems-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el movimiento del
// libro y la actualización de existencia/costo del componente.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		componentRepo repository.ComponentRepository,
	) error) error
}
