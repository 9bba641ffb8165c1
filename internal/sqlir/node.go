package sqlir

import "fmt"

// Printer is the external collaborator that renders a tree to SQL text.
//
// Nodes drive the printer through Accept: they call Append for literal
// keyword tokens and Visit for children, in a fixed sequence. The
// printer owns all formatting decisions; a Visit implementation may
// intercept specific node kinds (e.g. to parameterize literals) or
// fall through to the node's own Accept.
type Printer interface {
	// Append emits literal text.
	Append(text string)

	// Visit renders a child node.
	Visit(n Node)
}

// Node is the capability set shared by every expression-tree value.
//
// All three operations are total: any input, including a cross-kind
// comparison or a nil other, yields a result rather than an error.
type Node interface {
	// Equal reports structural equality. Annotations are metadata and
	// never participate; reference-identical nodes are always equal.
	Equal(other Node) bool

	// Hash returns a structural hash consistent with Equal:
	// structurally equal nodes hash identically. Annotations are
	// excluded from the computation.
	Hash() string

	// Accept drives the printer to render this node.
	Accept(p Printer)
}

// ScalarExpr is a scalar (typically boolean) expression subtree.
//
// This is a sealed interface - only types in this package implement
// it. The IR consumes scalar children opaquely through the Node
// operations.
type ScalarExpr interface {
	Node
	scalarExpr() // Marker method - seals interface to this package
}

// TableExpr is a table-producing operator node.
//
// This is a sealed interface - only types in this package implement
// it. Concrete kinds: BaseTableExpr, SelectExpr, and the join kinds in
// join.go.
type TableExpr interface {
	Node

	// Annotations returns the node's annotation set. May be nil (empty).
	Annotations() *AnnotationSet

	// WithAnnotations returns a new node of the same concrete kind and
	// the same structural fields, with set replacing the annotations.
	// This is the extension point that lets a generic annotation pass
	// work over any kind without knowing it.
	WithAnnotations(set *AnnotationSet) TableExpr

	tableExpr() // Marker method - seals interface to this package
}

// tableExprBase carries the annotation set shared by every TableExpr
// kind and the common annotation-rendering tail of Accept.
type tableExprBase struct {
	anns *AnnotationSet
}

func (tableExprBase) tableExpr() {}

// Annotations returns the annotation set. Nil means empty.
func (b tableExprBase) Annotations() *AnnotationSet {
	return b.anns
}

// appendAnnotations emits the deterministic trailing annotation
// comment. Called by every concrete kind at the end of Accept.
// Format: " /* name=value, name2=value2 */" in insertion order;
// nothing is emitted for an empty set.
func (b tableExprBase) appendAnnotations(p Printer) {
	if b.anns.Len() == 0 {
		return
	}
	p.Append(" /* ")
	first := true
	for name, value := range b.anns.All() {
		if !first {
			p.Append(", ")
		}
		first = false
		p.Append(fmt.Sprintf("%s=%v", name, value))
	}
	p.Append(" */")
}
