package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidAllocation  = errors.New("operación inválida sobre la asignación")
)

// InsufficientStockError detalla un rechazo por stock insuficiente con las
// cifras requerida/disponible, para reporte al operador.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ComponentID string
	Required    decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para componente %s: requerido %s, disponible %s",
		e.ComponentID, e.Required.String(), e.Available.String())
}

// Is permite comparar contra el sentinel ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidAllocationError detalla una transición o cantidad inválida sobre una
// asignación (usar/devolver más de lo que queda reservado, o estado terminal).
// errors.Is(err, ErrInvalidAllocation) == true.
type InvalidAllocationError struct {
	AllocationID string
	Requested    decimal.Decimal
	Remaining    decimal.Decimal
	Status       string
	Reason       string
}

func (e *InvalidAllocationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("asignación %s: %s (estado %s)", e.AllocationID, e.Reason, e.Status)
	}
	return fmt.Sprintf("asignación %s: cantidad %s excede lo reservado %s",
		e.AllocationID, e.Requested.String(), e.Remaining.String())
}

// Is permite comparar contra el sentinel ErrInvalidAllocation.
func (e *InvalidAllocationError) Is(target error) bool {
	return target == ErrInvalidAllocation
}
