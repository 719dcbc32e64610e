// Package compute implements colvex's compute-function dispatch (spec
// §4.1): a vtable per function with kernels returning (Output, bool), a
// two-stage dispatch loop (direct kernel, side-swap retry, canonical
// fallback), and the standard set of array operators. Grounded on
// vortex-array/src/compute/{mod.rs,compare.rs}.
package compute

// Operator is a comparison operator (spec §4.1, grounded directly on
// compute/compare.rs's Operator enum).
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpGt
	OpGte
	OpLt
	OpLte
)

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNotEq:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	default:
		return "?"
	}
}

// Inverse returns the operator whose result is the logical negation of o.
func (o Operator) Inverse() Operator {
	switch o {
	case OpEq:
		return OpNotEq
	case OpNotEq:
		return OpEq
	case OpGt:
		return OpLte
	case OpGte:
		return OpLt
	case OpLt:
		return OpGte
	case OpLte:
		return OpGt
	default:
		return o
	}
}

// Swap returns the operator that gives the same result when its operands
// are swapped (a OP b  ==  b Swap(OP) a).
func (o Operator) Swap() Operator {
	switch o {
	case OpEq:
		return OpEq
	case OpNotEq:
		return OpNotEq
	case OpGt:
		return OpLt
	case OpGte:
		return OpLte
	case OpLt:
		return OpGt
	case OpLte:
		return OpGte
	default:
		return o
	}
}
