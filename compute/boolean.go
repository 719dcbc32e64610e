package compute

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
)

// triState is a three-valued logic cell used internally by the Kleene
// boolean kernels: unknown is the "null" state.
type triState int

const (
	triFalse triState = iota
	triTrue
	triUnknown
)

// newBoolArray wraps array.NewBool so callers returning the (array.Array,
// error) interface pair don't need a separate type-assertion step.
func newBoolArray(vals mask.Mask, validity array.Validity) (array.Array, error) {
	b, err := array.NewBool(vals, validity)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func triFromScalar(v bool, isNull bool) triState {
	if isNull {
		return triUnknown
	}
	if v {
		return triTrue
	}
	return triFalse
}

func readBoolRow(a array.Array, i int) (triState, error) {
	s, err := a.ScalarAt(i)
	if err != nil {
		return triUnknown, err
	}
	if s.IsNull() {
		return triUnknown, nil
	}
	return triFromScalar(s.Value().AsBool(), false), nil
}

// And implements Arrow-style null propagation: null OP anything is null.
func And(a, b array.Array) (array.Array, error) {
	return boolBinary(a, b, func(x, y triState) triState {
		if x == triUnknown || y == triUnknown {
			return triUnknown
		}
		if x == triTrue && y == triTrue {
			return triTrue
		}
		return triFalse
	})
}

// AndKleene implements Kleene three-valued logic: false AND null = false.
func AndKleene(a, b array.Array) (array.Array, error) {
	return boolBinary(a, b, func(x, y triState) triState {
		if x == triFalse || y == triFalse {
			return triFalse
		}
		if x == triUnknown || y == triUnknown {
			return triUnknown
		}
		return triTrue
	})
}

// Or implements Arrow-style null propagation.
func Or(a, b array.Array) (array.Array, error) {
	return boolBinary(a, b, func(x, y triState) triState {
		if x == triUnknown || y == triUnknown {
			return triUnknown
		}
		if x == triTrue || y == triTrue {
			return triTrue
		}
		return triFalse
	})
}

// OrKleene implements Kleene three-valued logic: true OR null = true.
func OrKleene(a, b array.Array) (array.Array, error) {
	return boolBinary(a, b, func(x, y triState) triState {
		if x == triTrue || y == triTrue {
			return triTrue
		}
		if x == triUnknown || y == triUnknown {
			return triUnknown
		}
		return triFalse
	})
}

func boolBinary(a, b array.Array, op func(x, y triState) triState) (array.Array, error) {
	if a.Len() != b.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "boolean op: length mismatch %d vs %d", a.Len(), b.Len())
	}
	n := a.Len()
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		x, err := readBoolRow(a, i)
		if err != nil {
			return nil, err
		}
		y, err := readBoolRow(b, i)
		if err != nil {
			return nil, err
		}
		r := op(x, y)
		valid[i] = r != triUnknown
		vals[i] = r == triTrue
	}
	return newBoolArray(mask.FromBools(vals), array.FromMask(mask.FromBools(valid)))
}

// Invert returns the logical negation of a boolean array, preserving
// nulls.
func Invert(a array.Array) (array.Array, error) {
	n := a.Len()
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		s, err := a.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		vals[i] = !s.Value().AsBool()
		valid[i] = true
	}
	return newBoolArray(mask.FromBools(vals), array.FromMask(mask.FromBools(valid)))
}
