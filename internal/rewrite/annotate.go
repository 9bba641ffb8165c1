package rewrite

import "github.com/roach88/tabula/internal/sqlir"

// Annotate attaches a (name, value) fact to a node of any concrete
// kind through the generic WithAnnotations extension point. The
// original node is untouched; the result is a new node of the same
// kind carrying the extended set.
//
// Fails with a DuplicateAnnotationError if name is already present;
// the caller decides whether to skip, merge, or rename.
func Annotate(expr sqlir.TableExpr, name string, value any) (sqlir.TableExpr, error) {
	next, err := expr.Annotations().Add(name, value)
	if err != nil {
		return nil, err
	}
	return expr.WithAnnotations(next), nil
}

// AnnotateMatching walks the tree and annotates every node for which
// match returns true. Non-matching subtrees keep their identity, so an
// all-miss walk returns root itself.
func AnnotateMatching(root sqlir.TableExpr, match func(sqlir.TableExpr) bool, name string, value any) (sqlir.TableExpr, error) {
	return Apply(root, func(n sqlir.TableExpr) (sqlir.TableExpr, error) {
		if !match(n) {
			return n, nil
		}
		return Annotate(n, name, value)
	})
}
