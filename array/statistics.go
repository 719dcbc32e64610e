package array

import "github.com/colvex/colvex/scalar"

// Precision tags a statistic as either an Exact value or an Inexact bound
// (grounded on stats/bound.rs's Precision<T> lattice: Exact/Inexact with
// union widening to the looser of the two and intersection narrowing,
// failing when the bounds cannot agree).
type Precision int

const (
	Exact Precision = iota
	Inexact
)

// Stat identifies a tracked statistic.
type Stat int

const (
	StatMin Stat = iota
	StatMax
	StatNullCount
	StatTrueCount
	StatIsSorted
	StatIsStrictSorted
	StatIsConstant
	StatUncompressedSize
)

// Bound pairs a scalar-valued statistic with its precision.
type Bound struct {
	Value     scalar.Scalar
	Precision Precision
}

// Union widens two bounds of the same statistic to the loosest covering
// bound, per the LowerBound/UpperBound union rule in bound.rs: two Exact
// values collapse to Exact(min/max), any Inexact involvement may widen to
// Inexact.
func (b Bound) UnionMin(o Bound) Bound {
	cmp, err := scalar.Compare(b.Value, o.Value)
	if err != nil {
		return Bound{Value: b.Value, Precision: Inexact}
	}
	lesser := b
	if cmp > 0 {
		lesser = o
	}
	if b.Precision == Exact && o.Precision == Exact {
		return Bound{Value: lesser.Value, Precision: Exact}
	}
	return Bound{Value: lesser.Value, Precision: Inexact}
}

func (b Bound) UnionMax(o Bound) Bound {
	cmp, err := scalar.Compare(b.Value, o.Value)
	if err != nil {
		return Bound{Value: b.Value, Precision: Inexact}
	}
	greater := b
	if cmp < 0 {
		greater = o
	}
	if b.Precision == Exact && o.Precision == Exact {
		return Bound{Value: greater.Value, Precision: Exact}
	}
	return Bound{Value: greater.Value, Precision: Inexact}
}

// Statistics is a lazily populated, mergeable cache of per-array
// statistics, computed on demand and cheap to propagate through slicing
// and compute kernels (grounded on vortex-array/src/stats).
type Statistics struct {
	bounds map[Stat]Bound
	flags  map[Stat]bool
	ints   map[Stat]int64
}

// NewStatistics returns an empty statistics cache.
func NewStatistics() *Statistics {
	return &Statistics{
		bounds: make(map[Stat]Bound),
		flags:  make(map[Stat]bool),
		ints:   make(map[Stat]int64),
	}
}

func (s *Statistics) SetBound(stat Stat, b Bound) { s.bounds[stat] = b }
func (s *Statistics) Bound(stat Stat) (Bound, bool) {
	b, ok := s.bounds[stat]
	return b, ok
}

func (s *Statistics) SetFlag(stat Stat, v bool) { s.flags[stat] = v }
func (s *Statistics) Flag(stat Stat) (bool, bool) {
	v, ok := s.flags[stat]
	return v, ok
}

func (s *Statistics) SetInt(stat Stat, v int64) { s.ints[stat] = v }
func (s *Statistics) Int(stat Stat) (int64, bool) {
	v, ok := s.ints[stat]
	return v, ok
}

// Merge combines another statistics set into this one, taking the union
// of any statistic present in both (widening min/max, AND-ing boolean
// flags that must hold for the whole, summing additive stats like
// null/true count).
func (s *Statistics) Merge(other *Statistics) {
	for stat, b := range other.bounds {
		if existing, ok := s.bounds[stat]; ok {
			if stat == StatMax {
				s.bounds[stat] = existing.UnionMax(b)
			} else {
				s.bounds[stat] = existing.UnionMin(b)
			}
		} else {
			s.bounds[stat] = b
		}
	}
	for stat, v := range other.flags {
		if existing, ok := s.flags[stat]; ok {
			s.flags[stat] = existing && v
		} else {
			s.flags[stat] = v
		}
	}
	for stat, v := range other.ints {
		if existing, ok := s.ints[stat]; ok {
			s.ints[stat] = existing + v
		} else {
			s.ints[stat] = v
		}
	}
}
