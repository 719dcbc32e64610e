package compute

import (
	"strings"

	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/mask"
	"github.com/colvex/colvex/scalar"
)

// FillNull replaces every null row with fillValue (spec §4.1).
func FillNull(src array.Array, fillValue scalar.Scalar) (array.Array, error) {
	n := src.Len()
	dtype := src.DType().AsNonNullable()
	scalars := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			scalars[i] = fillValue
		} else {
			scalars[i] = s
		}
	}
	return array.FromScalars(dtype, scalars)
}

// FillForward replaces every null row with the last valid value seen
// (leading nulls stay null, spec §4.1).
func FillForward(src array.Array) (array.Array, error) {
	n := src.Len()
	scalars := make([]scalar.Scalar, n)
	var last scalar.Scalar
	haveLast := false
	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if !s.IsNull() {
			last = s
			haveLast = true
			scalars[i] = s
		} else if haveLast {
			scalars[i] = last
		} else {
			scalars[i] = s
		}
	}
	return array.FromScalars(src.DType(), scalars)
}

// IsConstant reports whether every valid row of src holds the same
// value (nulls are ignored, spec §4.1).
func IsConstant(src array.Array) (bool, error) {
	var first scalar.Scalar
	have := false
	for i := 0; i < src.Len(); i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return false, err
		}
		if s.IsNull() {
			continue
		}
		if !have {
			first = s
			have = true
			continue
		}
		eq, err := scalar.Equal(first, s)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

// IsSorted reports whether src is non-decreasing; strict additionally
// requires no adjacent duplicates (spec §4.1).
func IsSorted(src array.Array, strict bool) (bool, error) {
	var prev scalar.Scalar
	have := false
	for i := 0; i < src.Len(); i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return false, err
		}
		if s.IsNull() {
			continue
		}
		if have {
			cmp, err := scalar.Compare(prev, s)
			if err != nil {
				return false, err
			}
			if strict && cmp >= 0 {
				return false, nil
			}
			if !strict && cmp > 0 {
				return false, nil
			}
		}
		prev = s
		have = true
	}
	return true, nil
}

// LikeOptions controls LIKE pattern matching (grounded on spec.md's
// description of SQL LIKE semantics for the expression system, §4.10).
type LikeOptions struct {
	CaseInsensitive bool
}

// Like evaluates a SQL LIKE pattern (% = any run, _ = any single
// character) against each row of a Utf8 array, returning a canonical
// BoolArray.
func Like(src array.Array, pattern string, opts LikeOptions) (array.Array, error) {
	if src.DType().Kind() != scalar.KindUtf8 {
		return nil, colvexerr.New(colvexerr.MismatchedTypes, "like: expected Utf8 array, got %s", src.DType())
	}
	re := likeToRegexp(pattern, opts.CaseInsensitive)
	n := src.Len()
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		if s.IsNull() {
			continue
		}
		valid[i] = true
		vals[i] = re.MatchString(s.Value().AsUtf8())
	}
	return newBoolArray(mask.FromBools(vals), array.FromMask(mask.FromBools(valid)))
}

// MinMaxResult holds the min/max scalars over an array's valid rows.
type MinMaxResult struct {
	Min scalar.Scalar
	Max scalar.Scalar
}

// MinMax computes the min and max over src's valid rows (spec §4.1).
func MinMax(src array.Array) (MinMaxResult, error) {
	var min, max scalar.Scalar
	have := false
	for i := 0; i < src.Len(); i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return MinMaxResult{}, err
		}
		if s.IsNull() {
			continue
		}
		if !have {
			min, max = s, s
			have = true
			continue
		}
		if cmp, err := scalar.Compare(s, min); err == nil && cmp < 0 {
			min = s
		}
		if cmp, err := scalar.Compare(s, max); err == nil && cmp > 0 {
			max = s
		}
	}
	return MinMaxResult{Min: min, Max: max}, nil
}

// Sum adds every valid row of a Primitive array (spec §4.1).
func Sum(src array.Array) (scalar.Scalar, error) {
	if src.DType().Kind() != scalar.KindPrimitive {
		return scalar.Scalar{}, colvexerr.New(colvexerr.MismatchedTypes, "sum: expected Primitive array, got %s", src.DType())
	}
	ptype := src.DType().PType()
	dtype := scalar.Primitive(ptype, false)
	if ptype.IsFloat() {
		var acc float64
		for i := 0; i < src.Len(); i++ {
			s, err := src.ScalarAt(i)
			if err != nil {
				return scalar.Scalar{}, err
			}
			if !s.IsNull() {
				acc += s.Value().AsPValue().AsF64()
			}
		}
		return scalar.New(dtype, scalar.PrimitiveValue(scalar.PValueFromF64(ptype, acc)))
	}
	if ptype.IsSignedInt() {
		var acc int64
		for i := 0; i < src.Len(); i++ {
			s, err := src.ScalarAt(i)
			if err != nil {
				return scalar.Scalar{}, err
			}
			if !s.IsNull() {
				acc += s.Value().AsPValue().AsI64()
			}
		}
		return scalar.New(dtype, scalar.PrimitiveValue(scalar.PValueFromI64(ptype, acc)))
	}
	var acc uint64
	for i := 0; i < src.Len(); i++ {
		s, err := src.ScalarAt(i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !s.IsNull() {
			acc += s.Value().AsPValue().AsU64()
		}
	}
	return scalar.New(dtype, scalar.PrimitiveValue(scalar.PValueFromU64(ptype, acc)))
}

// MaskOp replaces src's validity with sel, nulling out every row where
// sel is false without changing length (spec §4.1's "mask" function,
// distinct from Filter which changes length).
func MaskOp(src array.Array, sel mask.Mask) (array.Array, error) {
	if src.Len() != sel.Len() {
		return nil, colvexerr.New(colvexerr.InvalidInput, "mask: selection length %d != array length %d", sel.Len(), src.Len())
	}
	n := src.Len()
	scalars := make([]scalar.Scalar, n)
	dtype := src.DType().AsNullable()
	for i := 0; i < n; i++ {
		if !sel.Value(i) {
			scalars[i] = scalar.Null(dtype)
			continue
		}
		s, err := src.ScalarAt(i)
		if err != nil {
			return nil, err
		}
		scalars[i] = s
	}
	return array.FromScalars(dtype, scalars)
}

// ToArrow materializes src as its canonical encoding, the boundary used
// when handing data to an Arrow-consuming caller (spec §4.1; colvex has
// no in-process Arrow C Data Interface binding, so this returns the
// canonical array itself rather than an arrow.Array).
func ToArrow(src array.Array) (array.Array, error) {
	return src.ToCanonical()
}

// UncompressedSize estimates the byte size src would occupy in its
// canonical (uncompressed) form.
func UncompressedSize(src array.Array) (int64, error) {
	switch a := src.(type) {
	case *array.PrimitiveArray:
		return int64(a.ByteBuffer().Len()), nil
	case *array.DecimalArray:
		return int64(src.Len()) * 16, nil
	case *array.BoolArray:
		return int64((src.Len() + 7) / 8), nil
	case *array.VarBinArray:
		var total int64
		for i := 0; i < a.Len(); i++ {
			total += int64(a.ByteLength(i))
		}
		return total, nil
	default:
		return int64(src.Len()) * 8, nil
	}
}

func likeToRegexp(pattern string, caseInsensitive bool) *likeMatcher {
	return &likeMatcher{pattern: pattern, caseInsensitive: caseInsensitive}
}

// likeMatcher implements SQL LIKE matching directly (% -> .*, _ -> .,
// literal runs escaped) without pulling in a regexp-translation
// dependency, since the grammar is tiny and fixed.
type likeMatcher struct {
	pattern         string
	caseInsensitive bool
}

func (m *likeMatcher) MatchString(s string) bool {
	if m.caseInsensitive {
		s = strings.ToLower(s)
		return likeMatch(strings.ToLower(m.pattern), s)
	}
	return likeMatch(m.pattern, s)
}

func likeMatch(pattern, s string) bool {
	return likeMatchRunes([]rune(pattern), []rune(s))
}

func likeMatchRunes(p, s []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '%':
		for i := 0; i <= len(s); i++ {
			if likeMatchRunes(p[1:], s[i:]) {
				return true
			}
		}
		return false
	case '_':
		if len(s) == 0 {
			return false
		}
		return likeMatchRunes(p[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return likeMatchRunes(p[1:], s[1:])
	}
}
