package array

import "github.com/colvex/colvex/mask"

// Validity tracks which rows of an array are non-null, collapsing the
// common AllValid/AllInvalid cases the way vortex's Validity enum does
// (grounded on arrays/primitive/mod.rs's `Validity` field and
// stats/bound.rs's null-count lattice).
type Validity struct {
	nullable bool
	m        mask.Mask
}

// NonNullable marks every row of length n as valid with no storage.
func NonNullable(n int) Validity { return Validity{nullable: false, m: mask.AllTrue(n)} }

// AllValid marks every row of length n as valid, but keeps nullability on.
func AllValid(n int) Validity { return Validity{nullable: true, m: mask.AllTrue(n)} }

// AllInvalid marks every row of length n as null.
func AllInvalid(n int) Validity { return Validity{nullable: true, m: mask.AllFalse(n)} }

// FromMask builds a Validity from an explicit mask (true = valid).
func FromMask(m mask.Mask) Validity { return Validity{nullable: true, m: m} }

func (v Validity) Nullable() bool { return v.nullable }
func (v Validity) Len() int       { return v.m.Len() }
func (v Validity) IsValid(i int) bool {
	if !v.nullable {
		return true
	}
	return v.m.Value(i)
}
func (v Validity) Mask() mask.Mask { return v.m }

func (v Validity) NullCount() int {
	if !v.nullable {
		return 0
	}
	return v.m.Len() - v.m.TrueCount()
}

func (v Validity) Slice(start, stop int) Validity {
	if !v.nullable {
		return NonNullable(stop - start)
	}
	return Validity{nullable: true, m: v.m.Slice(start, stop)}
}
