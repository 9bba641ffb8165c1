// Package sqlprint renders sqlir trees to SQL text.
//
// SQLPrinter implements the core's Printer contract: nodes drive it
// through Accept/Visit and it accumulates whitespace-stable text. In
// parameterized mode literal values are never interpolated into the
// statement - the printer intercepts them in Visit and emits ?
// placeholders while collecting the Go-native parameter values in
// order.
package sqlprint

import (
	"strings"

	"github.com/roach88/tabula/internal/sqlir"
)

// SQLPrinter accumulates SQL text for a single tree.
//
// A printer is single-use and not safe for concurrent use; the trees
// it renders are immutable and shared freely, the printer is not.
type SQLPrinter struct {
	sb           strings.Builder
	params       []any
	parameterize bool
}

// New creates a printer that renders literals inline.
func New() *SQLPrinter {
	return &SQLPrinter{}
}

// NewParameterized creates a printer that emits ? placeholders for
// literals and collects their values.
func NewParameterized() *SQLPrinter {
	return &SQLPrinter{parameterize: true}
}

// Append implements sqlir.Printer.
func (p *SQLPrinter) Append(text string) {
	p.sb.WriteString(text)
}

// Visit implements sqlir.Printer. In parameterized mode literal nodes
// are intercepted here; everything else renders itself.
func (p *SQLPrinter) Visit(n sqlir.Node) {
	if p.parameterize {
		if lit, ok := n.(*sqlir.LiteralExpr); ok {
			p.sb.WriteString("?")
			p.params = append(p.params, lit.Value().Param())
			return
		}
	}
	n.Accept(p)
}

// SQL returns the accumulated statement text.
func (p *SQLPrinter) SQL() string {
	return p.sb.String()
}

// Params returns the collected parameters in placeholder order.
// Empty unless the printer is parameterized.
func (p *SQLPrinter) Params() []any {
	return p.params
}

// Print renders a node with literals inline.
func Print(n sqlir.Node) string {
	p := New()
	p.Visit(n)
	return p.SQL()
}

// PrintParameterized renders a node with ? placeholders, returning the
// statement and its parameters in order.
func PrintParameterized(n sqlir.Node) (string, []any) {
	p := NewParameterized()
	p.Visit(n)
	return p.SQL(), p.Params()
}
