package datetimeparts

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/colvexerr"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/scalar"
)

func init() {
	compute.RegisterCompareKernel(compareKernel)
}

// compareKernel transcribes compare.rs's CompareFn<&DateTimePartsArray>:
// only a constant right-hand side (by encoding, or by the IsConstant
// statistic) is handled; anything else is left for the generic
// elementwise fallback.
func compareKernel(args compute.Args) (any, bool, error) {
	lhs, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	rhsValue, ok := constcodec.AsConstant(args.Inputs[1])
	if !ok || rhsValue.IsNull() {
		return nil, false, nil
	}
	if rhsValue.DType().Kind() != scalar.KindExtension {
		return nil, false, nil
	}
	meta := DecodeTemporalMetadata(rhsValue.DType().ExtensionMetadata())
	parts := Split(rhsValue.Value().AsPValue().AsI64(), meta.Unit)

	switch args.Op {
	case compute.OpEq:
		return compareEq(lhs, parts)
	case compute.OpNotEq:
		return compareNe(lhs, parts)
	case compute.OpLt, compute.OpLte:
		return compareLtOrGt(lhs, parts, compute.OpLt)
	case compute.OpGt, compute.OpGte:
		return compareLtOrGt(lhs, parts, compute.OpGt)
	default:
		return nil, false, nil
	}
}

func compareEq(lhs *Array, parts TimestampParts) (any, bool, error) {
	comparison, err := compareDtp(lhs.days, parts.Days, compute.OpEq)
	if err != nil {
		return nil, true, err
	}
	if isAllFalse(comparison) {
		return comparison, true, nil
	}

	secondsCmp, err := compareDtp(lhs.seconds, parts.Seconds, compute.OpEq)
	if err != nil {
		return nil, true, err
	}
	comparison, err = compute.And(secondsCmp, comparison)
	if err != nil {
		return nil, true, err
	}
	if isAllFalse(comparison) {
		return comparison, true, nil
	}

	subsecondsCmp, err := compareDtp(lhs.subseconds, parts.Subseconds, compute.OpEq)
	if err != nil {
		return nil, true, err
	}
	comparison, err = compute.And(subsecondsCmp, comparison)
	return comparison, true, err
}

func compareNe(lhs *Array, parts TimestampParts) (any, bool, error) {
	comparison, err := compareDtp(lhs.days, parts.Days, compute.OpNotEq)
	if err != nil {
		return nil, true, err
	}
	if isAllTrue(comparison) {
		return comparison, true, nil
	}

	secondsCmp, err := compareDtp(lhs.seconds, parts.Seconds, compute.OpNotEq)
	if err != nil {
		return nil, true, err
	}
	comparison, err = compute.Or(secondsCmp, comparison)
	if err != nil {
		return nil, true, err
	}
	if isAllTrue(comparison) {
		return comparison, true, nil
	}

	subsecondsCmp, err := compareDtp(lhs.subseconds, parts.Subseconds, compute.OpNotEq)
	if err != nil {
		return nil, true, err
	}
	comparison, err = compute.Or(subsecondsCmp, comparison)
	return comparison, true, err
}

// compareLtOrGt handles both Lt/Lte (probeOp=OpLt) and Gt/Gte
// (probeOp=OpGt): lt and lte (gt and gte) behave identically here since
// this only ever resolves the case where every day on lhs is strictly
// smaller (larger) than rhs's day, which settles the full timestamp
// comparison regardless of seconds/subseconds. Any other case is left
// unhandled (Ok(None) in the reference) rather than guessed at.
func compareLtOrGt(lhs *Array, parts TimestampParts, probeOp compute.Operator) (any, bool, error) {
	cmp, err := compareDtp(lhs.days, parts.Days, probeOp)
	if err != nil {
		return nil, true, err
	}
	if isAllTrue(cmp) {
		return cmp, true, nil
	}
	return nil, false, nil
}

// compareDtp compares one i32/u32/i64 component array against an i64
// rhs value, narrowing rhs into the component's ptype first. A failed
// narrowing cast (the rhs value doesn't fit, e.g. a day count outside
// i32 range) means lhs is known to be on one side of rhs for every row,
// so the result is a constant determined solely by the operator
// (compare.rs's compare_dtp).
func compareDtp(lhsComponent array.Array, rhsVal int64, op compute.Operator) (array.Array, error) {
	wide, err := scalar.New(scalar.Primitive(scalar.I64, false), scalar.PrimitiveValue(scalar.PValueFromI64(scalar.I64, rhsVal)))
	if err != nil {
		return nil, err
	}
	casted, err := scalar.Cast(wide, lhsComponent.DType())
	if err != nil {
		if colvexerr.Is(err, colvexerr.Arithmetic) {
			b := narrowingFailureResult(op)
			s, err := scalar.New(scalar.Bool(true), scalar.BoolValue(b))
			if err != nil {
				return nil, err
			}
			return constcodec.New(s, lhsComponent.Len()).ToCanonical()
		}
		return nil, err
	}
	rhsConst := constcodec.New(casted, lhsComponent.Len())
	return compute.Compare(lhsComponent, rhsConst, op)
}

func narrowingFailureResult(op compute.Operator) bool {
	switch op {
	case compute.OpEq, compute.OpGte, compute.OpGt:
		return false
	default:
		return true
	}
}

func isAllFalse(a array.Array) bool {
	b, ok := a.(*array.BoolArray)
	return ok && b.Values().IsAllFalse()
}

func isAllTrue(a array.Array) bool {
	b, ok := a.(*array.BoolArray)
	return ok && b.Values().IsAllTrue()
}
