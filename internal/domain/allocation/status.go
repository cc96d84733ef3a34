package allocation

import "github.com/shopspring/decimal"

// Estados de una asignación proyecto-componente (máquina de estados explícita).
const (
	StatusAllocated = "allocated" // reservado, sin consumo
	StatusInUse     = "in_use"    // consumo parcial
	StatusCompleted = "completed" // todo lo reservado fue consumido (terminal)
	StatusReturned  = "returned"  // todo lo reservado fue devuelto (terminal)
)

// transitions tabla de transiciones legales. Los estados terminales no tienen salidas.
var transitions = map[string]map[string]bool{
	StatusAllocated: {StatusInUse: true, StatusCompleted: true, StatusReturned: true},
	StatusInUse:     {StatusInUse: true, StatusCompleted: true, StatusReturned: true},
	StatusCompleted: {},
	StatusReturned:  {},
}

// IsTerminal indica si el estado no admite más operaciones.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusReturned
}

// CanTransition valida una transición contra la tabla. Permanecer en el mismo
// estado no terminal siempre es legal (operaciones que no cambian de fase).
func CanTransition(from, to string) bool {
	if from == to {
		return !IsTerminal(from)
	}
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// Derive calcula el estado que corresponde a las cantidades tras una operación:
//   - allocated == 0            -> returned (todo devuelto)
//   - remaining == 0 && used>0  -> completed (lo aún reservado se consumió)
//   - used > 0                  -> in_use
//   - en otro caso              -> allocated
//
// La devolución total del remanente con consumo parcial cierra en completed:
// tras el ajuste, todo lo que siguió reservado se consumió.
func Derive(allocated, used, remaining decimal.Decimal) string {
	switch {
	case allocated.IsZero():
		return StatusReturned
	case remaining.IsZero() && used.GreaterThan(decimal.Zero):
		return StatusCompleted
	case used.GreaterThan(decimal.Zero):
		return StatusInUse
	default:
		return StatusAllocated
	}
}
