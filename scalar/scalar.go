package scalar

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/colvex/colvex/colvexerr"
)

// Scalar is a self-describing (DType, Value) pair (spec §3.2). Comparisons
// are only defined between scalars of the same logical type.
type Scalar struct {
	dtype DType
	value Value
}

// New builds a Scalar, validating that value is structurally an instance
// of dtype.
func New(dtype DType, value Value) (Scalar, error) {
	if !value.IsInstanceOf(dtype) {
		return Scalar{}, colvexerr.New(colvexerr.InvalidInput, "value %v is not an instance of dtype %s", value, dtype)
	}
	return Scalar{dtype: dtype, value: value}, nil
}

// Null returns a null Scalar of dtype (which must be nullable).
func Null(dtype DType) Scalar {
	return Scalar{dtype: dtype.AsNullable(), value: NullValue()}
}

func (s Scalar) DType() DType { return s.dtype }
func (s Scalar) Value() Value { return s.value }
func (s Scalar) IsNull() bool { return s.value.IsNull() }

func (s Scalar) String() string {
	if s.IsNull() {
		return "null"
	}
	if s.dtype.Kind() == KindDecimal {
		return s.Decimal().String()
	}
	return s.value.String()
}

// Decimal renders the scalar's decimal value (if any) via
// github.com/shopspring/decimal, applying the DType's declared scale.
func (s Scalar) Decimal() decimal.Decimal {
	dv := s.value.AsDecimal()
	return decimal.NewFromBigInt(dv.BigInt(), int32(-s.dtype.Scale()))
}

// Equal compares two scalars of the same logical type. Returns an error if
// the dtypes are not comparable (spec §3.2).
func Equal(a, b Scalar) (bool, error) {
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// Compare returns -1, 0, 1 for a<b, a==b, a>b. Nulls sort greatest (last),
// matching vortex-scalar's PartialOrd derivation (ScalarValue's Null
// variant is ordered last so it sorts as the maximum).
func Compare(a, b Scalar) (int, error) {
	if a.dtype.Kind() != b.dtype.Kind() {
		return 0, colvexerr.New(colvexerr.MismatchedTypes, "cannot compare %s with %s", a.dtype, b.dtype)
	}
	if a.IsNull() && b.IsNull() {
		return 0, nil
	}
	if a.IsNull() {
		return 1, nil
	}
	if b.IsNull() {
		return -1, nil
	}
	switch a.dtype.Kind() {
	case KindBool:
		av, bv := a.value.AsBool(), b.value.AsBool()
		return boolCmp(av, bv), nil
	case KindPrimitive:
		return comparePValue(a.value.AsPValue(), b.value.AsPValue()), nil
	case KindDecimal:
		return a.Decimal().Cmp(b.Decimal()), nil
	case KindUtf8:
		return stringCmp(a.value.AsUtf8(), b.value.AsUtf8()), nil
	case KindBinary:
		return bytesCmp(a.value.AsBytes(), b.value.AsBytes()), nil
	default:
		return 0, colvexerr.New(colvexerr.NotSupported, "scalars of kind %s are not ordered", a.dtype.Kind())
	}
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func stringCmp(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func bytesCmp(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func comparePValue(a, b PValue) int {
	if a.PType.IsFloat() || b.PType.IsFloat() {
		af, bf := a.AsF64(), b.AsF64()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if a.PType.IsSignedInt() || b.PType.IsSignedInt() {
		ai, bi := a.AsI64(), b.AsI64()
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	au, bu := a.AsU64(), b.AsU64()
	switch {
	case au < bu:
		return -1
	case au > bu:
		return 1
	default:
		return 0
	}
}

// Cast converts s to the given dtype. Cast fails with Arithmetic if the
// conversion would truncate (spec §7).
func Cast(s Scalar, to DType) (Scalar, error) {
	if s.IsNull() {
		if !to.IsNullable() {
			return Scalar{}, colvexerr.New(colvexerr.InvalidInput, "cannot cast null into non-nullable %s", to)
		}
		return Null(to), nil
	}
	if s.dtype.Kind() != to.Kind() {
		return Scalar{}, colvexerr.New(colvexerr.MismatchedTypes, "cannot cast %s into %s", s.dtype, to)
	}
	switch to.Kind() {
	case KindPrimitive:
		return castPrimitive(s, to)
	case KindBool, KindUtf8, KindBinary, KindDecimal:
		return Scalar{dtype: to, value: s.value}, nil
	default:
		return Scalar{dtype: to, value: s.value}, nil
	}
}

func castPrimitive(s Scalar, to DType) (Scalar, error) {
	pv := s.value.AsPValue()
	if pv.PType == to.PType() {
		return Scalar{dtype: to, value: s.value}, nil
	}
	if pv.PType.IsFloat() || to.PType().IsFloat() {
		f := pv.AsF64()
		out := PValueFromF64(to.PType(), f)
		if roundtrip := out.AsF64(); roundtrip != f && !to.PType().IsFloat() {
			return Scalar{}, colvexerr.New(colvexerr.Arithmetic, "cast from %s to %s would truncate", pv.PType, to.PType())
		}
		return Scalar{dtype: to, value: PrimitiveValue(out)}, nil
	}
	// Integer-to-integer: verify round trip fits in the narrower width.
	big := new(big.Int)
	if pv.PType.IsSignedInt() {
		big.SetInt64(pv.AsI64())
	} else {
		big.SetUint64(pv.AsU64())
	}
	if !fitsInPType(big, to.PType()) {
		return Scalar{}, colvexerr.New(colvexerr.Arithmetic, "value %s does not fit in %s", big.String(), to.PType())
	}
	var out PValue
	if to.PType().IsSignedInt() {
		out = PValueFromI64(to.PType(), big.Int64())
	} else {
		out = PValueFromU64(to.PType(), big.Uint64())
	}
	return Scalar{dtype: to, value: PrimitiveValue(out)}, nil
}

func fitsInPType(v *big.Int, p PType) bool {
	w := p.BitWidth()
	if p.IsSignedInt() {
		lo := new(big.Int).Lsh(big.NewInt(-1), uint(w-1))
		hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(w-1)), big.NewInt(1))
		return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
	}
	if v.Sign() < 0 {
		return false
	}
	hi := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(w)), big.NewInt(1))
	return v.Cmp(hi) <= 0
}
