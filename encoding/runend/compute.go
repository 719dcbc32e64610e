package runend

import "github.com/colvex/colvex/compute"

func init() {
	compute.RegisterTakeKernel(takeKernel)
}

// takeKernel resolves each requested row to its physical run via
// FindPhysicalIndex and gathers from Values(), avoiding a full canonical
// decode (array.rs's find_physical_indices is built for exactly this).
func takeKernel(args compute.Args) (any, bool, error) {
	src, ok := args.Inputs[0].(*Array)
	if !ok {
		return nil, false, nil
	}
	indices, ok := args.Scalar.([]int)
	if !ok {
		return nil, false, nil
	}
	physical := make([]int, len(indices))
	for i, idx := range indices {
		p, err := src.FindPhysicalIndex(idx)
		if err != nil {
			return nil, true, err
		}
		physical[i] = p
	}
	out, err := compute.Take(src.values, physical)
	return out, true, err
}

// No search_sorted kernel override: no source for a run-end-specific
// search_sorted survived retrieval, so probes against a runend array fall
// through to compute's generic ScalarAt-based binary search, which is
// still correct (ScalarAt already resolves through FindPhysicalIndex).
