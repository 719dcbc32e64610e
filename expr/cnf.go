package expr

// CNF normalizes an expression into a flat list of conjuncts: it
// distributes `and` over `or` (so `a or (b and c)` becomes
// `(a or b) and (a or c)`), then flattens every top-level `and` node into
// its list of operands. Grounded on the filter layout reader's use of
// `cnf(expr)` to decompose a filter into independently prunable/
// orderable conjuncts (spec §4.12); no cnf.rs source survived retrieval,
// so the distribution step below is this package's own implementation of
// the standard textbook CNF-distribution algorithm the filter layer's
// comment describes it calling.
func CNF(e Expr) []Expr {
	return flattenAnd(distribute(e))
}

func flattenAnd(e Expr) []Expr {
	b, ok := e.(binaryExpr)
	if !ok || b.op != OpAnd {
		return []Expr{e}
	}
	return append(flattenAnd(b.lhs), flattenAnd(b.rhs)...)
}

// distribute rewrites e so that no `or` node has an `and` node as either
// child, recursing bottom-up.
func distribute(e Expr) Expr {
	b, ok := e.(binaryExpr)
	if !ok {
		return e
	}
	lhs := distribute(b.lhs)
	rhs := distribute(b.rhs)
	if b.op != OpOr {
		return BinaryExpr(lhs, b.op, rhs)
	}

	if lhsAnd, ok := lhs.(binaryExpr); ok && lhsAnd.op == OpAnd {
		return distribute(And(Or(lhsAnd.lhs, rhs), Or(lhsAnd.rhs, rhs)))
	}
	if rhsAnd, ok := rhs.(binaryExpr); ok && rhsAnd.op == OpAnd {
		return distribute(And(Or(lhs, rhsAnd.lhs), Or(lhs, rhsAnd.rhs)))
	}
	return Or(lhs, rhs)
}
