package rewrite

import (
	"fmt"

	"github.com/roach88/tabula/internal/sqlir"
)

// TableRewriter transforms one table node. Returning the argument
// unchanged (same reference) signals "nothing to do here".
type TableRewriter func(sqlir.TableExpr) (sqlir.TableExpr, error)

// Apply walks a tree bottom-up, rebuilding each node through its
// Update operation with rewritten children, then handing the result to
// fn. Because Update short-circuits on reference-identical children,
// an Apply whose fn changes nothing returns root itself.
func Apply(root sqlir.TableExpr, fn TableRewriter) (sqlir.TableExpr, error) {
	switch n := root.(type) {
	case *sqlir.BaseTableExpr:
		return fn(n)

	case *sqlir.SelectExpr:
		from, err := Apply(n.From(), fn)
		if err != nil {
			return nil, err
		}
		joins := n.Joins()
		for i, j := range joins {
			rejoined, err := Apply(j, fn)
			if err != nil {
				return nil, err
			}
			joins[i] = rejoined
		}
		next, err := n.Update(from, joins, n.Projection(), n.Where())
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.InnerJoinExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.LeftJoinExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.RightJoinExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.CrossJoinExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.CrossApplyExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	case *sqlir.OuterApplyExpr:
		table, err := Apply(n.Table(), fn)
		if err != nil {
			return nil, err
		}
		next, err := n.UpdateTable(table)
		if err != nil {
			return nil, err
		}
		return fn(next)

	default:
		return nil, &RewriteError{
			Code:    ErrCodeUnsupportedNode,
			Message: fmt.Sprintf("unsupported table expression: %T", root),
		}
	}
}

// Pass is a named tree transformation.
type Pass struct {
	// Name identifies the pass in errors and provenance annotations.
	Name string

	// Rewrite produces the (possibly identical) replacement root.
	Rewrite func(*sqlir.SelectExpr) (*sqlir.SelectExpr, error)
}

// ProvenanceAnnotation is the annotation name the runner records a run
// token under when a run changes the tree.
const ProvenanceAnnotation = "rewrite_run"

// Runner executes passes in order against a root select.
type Runner struct {
	tokens TokenGenerator
}

// NewRunner creates a pass runner. gen supplies run tokens; pass a
// FixedGenerator for deterministic output in tests.
func NewRunner(gen TokenGenerator) *Runner {
	return &Runner{tokens: gen}
}

// Run applies the passes in order. If any pass changed the tree, the
// returned root carries a ProvenanceAnnotation holding the run token
// and the names of the passes that changed it. A run where every pass
// returned its input unchanged returns root itself, annotation-free.
func (r *Runner) Run(root *sqlir.SelectExpr, passes ...Pass) (*sqlir.SelectExpr, error) {
	current := root
	var changedBy []string

	for _, pass := range passes {
		next, err := pass.Rewrite(current)
		if err != nil {
			return nil, fmt.Errorf("pass %s: %w", pass.Name, err)
		}
		if next == nil {
			return nil, &RewriteError{
				Code:    ErrCodeInvalidRewrite,
				Message: "pass returned nil root",
				Pass:    pass.Name,
			}
		}
		if next != current {
			changedBy = append(changedBy, pass.Name)
		}
		current = next
	}

	if len(changedBy) == 0 {
		return root, nil
	}

	token := r.tokens.Generate()
	anns, err := current.Annotations().Add(ProvenanceAnnotation, fmt.Sprintf("%s:%s", token, joinNames(changedBy)))
	if err != nil {
		// A previous run already recorded provenance; keep the older
		// record, the token ordering makes history reconstructible.
		return current, nil
	}
	return current.WithAnnotations(anns).(*sqlir.SelectExpr), nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "+"
		}
		out += n
	}
	return out
}

// PassByName returns the registered pass for name.
// Fails with an UNKNOWN_PASS RewriteError for unknown names.
func PassByName(name string) (Pass, error) {
	switch name {
	case "prune":
		return Pass{Name: "prune", Rewrite: PruneJoins}, nil
	default:
		return Pass{}, &RewriteError{
			Code:    ErrCodeUnknownPass,
			Message: fmt.Sprintf("no pass named %q", name),
		}
	}
}
