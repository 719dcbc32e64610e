package dictcodec

import (
	"github.com/colvex/colvex/array"
	"github.com/colvex/colvex/compute"
	"github.com/colvex/colvex/encoding/constcodec"
	"github.com/colvex/colvex/mask"
)

func init() {
	compute.RegisterTakeKernel(takeKernel)
	compute.RegisterCompareKernel(compareKernel)
}

// takeKernel gathers through codes only, leaving values untouched — a
// dictionary-encoded take never needs to look at the (often much
// larger) values array.
func takeKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	indices, ok := args.Scalar.([]int)
	if !ok {
		return nil, false, nil
	}
	codes, err := compute.Take(src.codes, indices)
	if err != nil {
		return nil, true, err
	}
	out, err := New(codes, src.values)
	return out, true, err
}

// compareKernel compares the (small) distinct values array once against
// a constant rhs, then resolves each row's result through its existing
// code instead of re-running the comparison once per row. No source for
// this crate survived retrieval to transcribe this from; it is this
// package's own reconstruction of the compare-then-resolve optimization
// every dictionary-encoded compute layer applies, following the same
// constant-folding shape encoding/constcodec's compareKernel and
// encoding/datetimeparts's compareDtp use elsewhere in this module.
func compareKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	rhsValue, ok := constcodec.AsConstant(args.Inputs[1])
	if !ok {
		return nil, false, nil
	}

	broadcastRhs := constcodec.New(rhsValue, src.values.Len())
	valuesCompared, err := compute.Compare(src.values, broadcastRhs, args.Op)
	if err != nil {
		return nil, true, err
	}

	n := src.Len()
	vals := make([]bool, n)
	valid := make([]bool, n)
	for i := 0; i < n; i++ {
		idx, ok, err := src.codeAt(i)
		if err != nil {
			return nil, true, err
		}
		if !ok {
			continue
		}
		s, err := valuesCompared.ScalarAt(idx)
		if err != nil {
			return nil, true, err
		}
		if s.IsNull() {
			continue
		}
		vals[i] = s.Value().AsBool()
		valid[i] = true
	}
	out, err := array.NewBool(mask.FromBools(vals), array.FromMask(mask.FromBools(valid)))
	return out, true, err
}
