package layout

import (
	"github.com/colvex/colvex/expr"
	"github.com/colvex/colvex/scalar"
)

// ExtractPruningPredicate recognizes the shape of expression a chunked
// layout's zone map can prune against: a comparison between the column's
// own value (Identity, since a chunked layout's scope is already one
// column) and a literal, in either operand order (spec §4.8/§4.12). Any
// other shape returns ok=false and pruning falls back to a no-op for that
// expression.
func ExtractPruningPredicate(e expr.Expr) (PruningPredicate, bool) {
	lhs, op, rhs, ok := expr.AsBinary(e)
	if !ok || !expr.IsComparison(op) {
		return nil, false
	}

	if lit, ok := expr.AsLiteral(rhs); ok && expr.Equal(lhs, expr.Ident) {
		return comparisonPruner{op: op, literal: lit}, true
	}
	if lit, ok := expr.AsLiteral(lhs); ok && expr.Equal(rhs, expr.Ident) {
		return comparisonPruner{op: flipOperands(op), literal: lit}, true
	}
	return nil, false
}

// flipOperands returns the operator that keeps a comparison's meaning
// when its operands are swapped (lit OP col  ==  col flip(OP) lit).
func flipOperands(op expr.BinaryOp) expr.BinaryOp {
	switch op {
	case expr.OpLt:
		return expr.OpGt
	case expr.OpLte:
		return expr.OpGte
	case expr.OpGt:
		return expr.OpLt
	case expr.OpGte:
		return expr.OpLte
	default:
		return op // Eq/NotEq are symmetric
	}
}

// comparisonPruner prunes a chunk when its zone-map min/max bounds prove
// every row must fail "column OP literal" (spec §4.8: "a truncated max is
// still a valid upper bound for pruning >; a truncated min is still a
// valid lower bound for pruning <").
type comparisonPruner struct {
	op      expr.BinaryOp
	literal scalar.Scalar
}

func (p comparisonPruner) PruneChunk(zm *ZoneMap, chunk int) (bool, error) {
	if p.literal.IsNull() {
		return false, nil
	}

	switch p.op {
	case expr.OpGt:
		return p.boundProvesFail(zm, chunk, statMax, statMaxTruncated, func(cmp int) bool { return cmp <= 0 })
	case expr.OpGte:
		return p.boundProvesFail(zm, chunk, statMax, statMaxTruncated, func(cmp int) bool { return cmp < 0 })
	case expr.OpLt:
		return p.boundProvesFail(zm, chunk, statMin, statMinTruncated, func(cmp int) bool { return cmp >= 0 })
	case expr.OpLte:
		return p.boundProvesFail(zm, chunk, statMin, statMinTruncated, func(cmp int) bool { return cmp > 0 })
	case expr.OpEq:
		maxFails, err := p.boundProvesFail(zm, chunk, statMax, statMaxTruncated, func(cmp int) bool { return cmp < 0 })
		if err != nil || maxFails {
			return maxFails, err
		}
		return p.boundProvesFail(zm, chunk, statMin, statMinTruncated, func(cmp int) bool { return cmp > 0 })
	default:
		// NotEq and anything else: not worth pruning here.
		return false, nil
	}
}

// boundProvesFail reads the named bound for chunk, and reports whether
// comparing it against the literal (bound compared-to literal, matching
// Compare(bound, literal)'s sign) proves every row in the chunk fails,
// per test. A bound that doesn't exist (dropped or truncated-away max)
// proves nothing.
func (p comparisonPruner) boundProvesFail(zm *ZoneMap, chunk int, stat, truncatedCol string, test func(cmp int) bool) (bool, error) {
	bound, _, err := zm.Bound(chunk, stat, truncatedCol)
	if err != nil {
		return false, err
	}
	if bound.IsNull() {
		return false, nil
	}
	cmp, err := scalar.Compare(bound, p.literal)
	if err != nil {
		return false, nil // mismatched types: don't prune, let the row-level evaluator raise it
	}
	return test(cmp), nil
}
