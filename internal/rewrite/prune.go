package rewrite

import "github.com/roach88/tabula/internal/sqlir"

// PruneJoins drops join nodes marked prunable whose joined-in table is
// referenced by nothing outside the join itself: not by the
// projection, not by the WHERE clause, and not by any other surviving
// join's predicate. A join's own ON condition does not keep it alive.
//
// Only joins over base tables are considered; a prunable join over a
// subquery is left in place (its output shape is not derivable from a
// binding name alone). Dropping is iterated to a fixed point so that a
// join kept alive only by another pruned join's predicate goes too.
func PruneJoins(sel *sqlir.SelectExpr) (*sqlir.SelectExpr, error) {
	joins := sel.Joins()

	for {
		dropped := false
		kept := make([]sqlir.TableExpr, 0, len(joins))
		for i, j := range joins {
			binding, prunable := prunableBinding(j)
			if prunable && !referencedOutside(sel, joins, i, binding) {
				dropped = true
				continue
			}
			kept = append(kept, j)
		}
		joins = kept
		if !dropped {
			break
		}
	}

	return sel.Update(sel.From(), joins, sel.Projection(), sel.Where())
}

// prunableBinding returns the binding name of a prunable join over a
// base table, or false when the join must stay.
func prunableBinding(j sqlir.TableExpr) (string, bool) {
	var table sqlir.TableExpr
	var prunable bool
	switch n := j.(type) {
	case *sqlir.InnerJoinExpr:
		table, prunable = n.Table(), n.Prunable()
	case *sqlir.LeftJoinExpr:
		table, prunable = n.Table(), n.Prunable()
	case *sqlir.RightJoinExpr:
		table, prunable = n.Table(), n.Prunable()
	case *sqlir.CrossJoinExpr:
		table, prunable = n.Table(), n.Prunable()
	case *sqlir.CrossApplyExpr:
		table, prunable = n.Table(), n.Prunable()
	case *sqlir.OuterApplyExpr:
		table, prunable = n.Table(), n.Prunable()
	default:
		return "", false
	}
	if !prunable {
		return "", false
	}
	base, ok := table.(*sqlir.BaseTableExpr)
	if !ok {
		return "", false
	}
	return base.Binding(), true
}

// joinPredicate returns the ON condition of a predicate join, nil for
// the predicate-free kinds.
func joinPredicate(j sqlir.TableExpr) sqlir.ScalarExpr {
	switch n := j.(type) {
	case *sqlir.InnerJoinExpr:
		return n.Predicate()
	case *sqlir.LeftJoinExpr:
		return n.Predicate()
	case *sqlir.RightJoinExpr:
		return n.Predicate()
	default:
		return nil
	}
}

// referencedOutside reports whether binding is referenced anywhere
// except the predicate of joins[self]: the projection, the WHERE
// clause, or another join's ON condition.
func referencedOutside(sel *sqlir.SelectExpr, joins []sqlir.TableExpr, self int, binding string) bool {
	refs := map[string]bool{}
	for _, col := range sel.Projection() {
		collectBindings(col, refs)
	}
	if w := sel.Where(); w != nil {
		collectBindings(w, refs)
	}
	for i, other := range joins {
		if i == self {
			continue
		}
		if pred := joinPredicate(other); pred != nil {
			collectBindings(pred, refs)
		}
	}
	return refs[binding]
}

// collectBindings walks a scalar tree recording every column's table
// qualifier.
func collectBindings(expr sqlir.ScalarExpr, into map[string]bool) {
	switch n := expr.(type) {
	case *sqlir.ColumnExpr:
		if n.Table() != "" {
			into[n.Table()] = true
		}
	case *sqlir.EqualsExpr:
		collectBindings(n.Left(), into)
		collectBindings(n.Right(), into)
	case *sqlir.AndExpr:
		collectBindings(n.Left(), into)
		collectBindings(n.Right(), into)
	case *sqlir.LiteralExpr:
		// no bindings
	}
}
