package layout

import (
	"sort"
	"sync"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/mask"
)

// selectivityScale turns a [0.0, 1.0] selectivity fraction into the
// integer domain hdrhistogram-go records, and back.
const selectivityScale = 1_000_000

// FilterLayoutReader wraps any Reader, splitting filter expressions into
// independently evaluable conjuncts and reordering them by observed
// selectivity to minimize work on later row ranges (spec §4.12).
// Grounded directly on
// `_examples/original_source/vortex-layout/src/layouts/filter.rs`.
// It has no corresponding on-disk layout; it is purely a read-time
// expression rewrite.
type FilterLayoutReader struct {
	child Reader

	mu    sync.Mutex
	cache map[string]*filterExpr
}

// NewFilterLayoutReader wraps child with conjunct splitting and
// selectivity-based reordering.
func NewFilterLayoutReader(child Reader) *FilterLayoutReader {
	return &FilterLayoutReader{child: child, cache: make(map[string]*filterExpr)}
}

func (r *FilterLayoutReader) filterExprFor(e expr.Expr) *filterExpr {
	key := e.String()
	r.mu.Lock()
	defer r.mu.Unlock()
	if fe, ok := r.cache[key]; ok {
		return fe
	}
	fe := newFilterExpr(e)
	r.cache[key] = fe
	return fe
}

func (r *FilterLayoutReader) PruningEvaluation(rr RowRange, e expr.Expr) (PruningEvaluation, error) {
	fe := r.filterExprFor(e)
	evals := make([]PruningEvaluation, len(fe.conjuncts))
	for i, c := range fe.conjuncts {
		eval, err := r.child.PruningEvaluation(rr, c)
		if err != nil {
			return nil, err
		}
		evals[i] = eval
	}
	return &filterPruningEval{conjuncts: evals}, nil
}

func (r *FilterLayoutReader) FilterEvaluation(rr RowRange, e expr.Expr) (MaskEvaluation, error) {
	fe := r.filterExprFor(e)
	evals := make([]MaskEvaluation, len(fe.conjuncts))
	for i, c := range fe.conjuncts {
		eval, err := r.child.FilterEvaluation(rr, c)
		if err != nil {
			return nil, err
		}
		evals[i] = eval
	}
	return &filterMaskEval{filterExpr: fe, conjuncts: evals}, nil
}

// ProjectionEvaluation passes through unchanged: only boolean filter
// expressions benefit from conjunct splitting.
func (r *FilterLayoutReader) ProjectionEvaluation(rr RowRange, e expr.Expr) (ArrayEvaluation, error) {
	return r.child.ProjectionEvaluation(rr, e)
}

// filterExpr holds the shared, row-range-independent state of one filter
// expression: its conjuncts, a selectivity histogram per conjunct, and
// the current preferred evaluation order.
type filterExpr struct {
	conjuncts []expr.Expr

	mu                   sync.Mutex
	histograms           []*hdrhistogram.Histogram
	ordering             []int
	selectivityQuantile  float64
}

func newFilterExpr(e expr.Expr) *filterExpr {
	conjuncts := expr.CNF(e)
	histograms := make([]*hdrhistogram.Histogram, len(conjuncts))
	ordering := make([]int, len(conjuncts))
	for i := range conjuncts {
		histograms[i] = hdrhistogram.New(0, selectivityScale, 3)
		ordering[i] = i
	}
	return &filterExpr{
		conjuncts:           conjuncts,
		histograms:          histograms,
		ordering:            ordering,
		selectivityQuantile: 0.1,
	}
}

// nextConjunct returns the first conjunct (by current preferred order)
// whose bit is still set in remaining, or -1 if none remain.
func (fe *filterExpr) nextConjunct(remaining []bool) int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	for _, idx := range fe.ordering {
		if remaining[idx] {
			return idx
		}
	}
	return -1
}

// reportSelectivity records how many of the rows considered actually
// matched conjunct idx, and re-sorts the ordering by ascending observed
// selectivity (the more selective a conjunct, the earlier it should run).
func (fe *filterExpr) reportSelectivity(idx int, selectivity float64) {
	if selectivity < 0 {
		selectivity = 0
	}
	if selectivity > 1 {
		selectivity = 1
	}

	fe.mu.Lock()
	defer fe.mu.Unlock()
	fe.histograms[idx].RecordValue(int64(selectivity * selectivityScale))

	quantiles := make([]float64, len(fe.histograms))
	for i, h := range fe.histograms {
		if h.TotalCount() == 0 {
			quantiles[i] = 0
			continue
		}
		quantiles[i] = float64(h.ValueAtQuantile(fe.selectivityQuantile)) / selectivityScale
	}

	sort.SliceStable(fe.ordering, func(a, b int) bool {
		return quantiles[fe.ordering[a]] < quantiles[fe.ordering[b]]
	})
}

type filterPruningEval struct {
	conjuncts []PruningEvaluation
}

func (e *filterPruningEval) Invoke(m mask.Mask) (mask.Mask, error) {
	for _, c := range e.conjuncts {
		if m.IsAllFalse() {
			return m, nil
		}
		conjunctMask, err := c.Invoke(m)
		if err != nil {
			return mask.Mask{}, err
		}
		m = mask.BitAnd(m, conjunctMask)
	}
	return m, nil
}

type filterMaskEval struct {
	filterExpr *filterExpr
	conjuncts  []MaskEvaluation
}

// Invoke evaluates conjuncts in the filterExpr's current preferred order,
// short-circuiting once the mask goes all-false, and reports each
// conjunct's observed selectivity to steer future orderings (spec
// §4.12).
func (e *filterMaskEval) Invoke(m mask.Mask) (mask.Mask, error) {
	remaining := make([]bool, len(e.conjuncts))
	for i := range remaining {
		remaining[i] = true
	}

	for {
		idx := e.filterExpr.nextConjunct(remaining)
		if idx < 0 {
			break
		}
		remaining[idx] = false

		if m.IsAllFalse() {
			return m, nil
		}

		before := m.TrueCount()
		conjunctMask, err := e.conjuncts[idx].Invoke(m)
		if err != nil {
			return mask.Mask{}, err
		}

		if before > 0 {
			e.filterExpr.reportSelectivity(idx, float64(conjunctMask.TrueCount())/float64(before))
		}
		m = mask.BitAnd(m, conjunctMask)
	}
	return m, nil
}
