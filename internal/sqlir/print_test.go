package sqlir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPrinter is a minimal Printer collaborator: it concatenates
// appended text and lets every child render itself.
type testPrinter struct {
	sb strings.Builder
}

func (p *testPrinter) Append(text string) { p.sb.WriteString(text) }
func (p *testPrinter) Visit(n Node)       { n.Accept(p) }

// render is a test helper printing a node to a string.
func render(t *testing.T, n Node) string {
	t.Helper()
	p := &testPrinter{}
	n.Accept(p)
	return p.sb.String()
}

func TestPrint_InnerJoin(t *testing.T) {
	j := mustInnerJoin(t, mustTable(t, "Orders", ""), ordersCustomersPredicate(t), false)

	assert.Equal(t, "INNER JOIN Orders ON Orders.id = Customers.id", render(t, j))
}

func TestPrint_PredicateJoinKeywords(t *testing.T) {
	table := mustTable(t, "Orders", "")
	pred := ordersCustomersPredicate(t)

	left, err := NewLeftJoin(table, pred, false)
	require.NoError(t, err)
	right, err := NewRightJoin(table, pred, false)
	require.NoError(t, err)

	assert.Equal(t, "LEFT JOIN Orders ON Orders.id = Customers.id", render(t, left))
	assert.Equal(t, "RIGHT JOIN Orders ON Orders.id = Customers.id", render(t, right))
}

func TestPrint_PredicateFreeJoinKeywords(t *testing.T) {
	table := mustTable(t, "Regions", "r")

	cross, err := NewCrossJoin(table, false)
	require.NoError(t, err)
	crossApply, err := NewCrossApply(table, false)
	require.NoError(t, err)
	outerApply, err := NewOuterApply(table, false)
	require.NoError(t, err)

	assert.Equal(t, "CROSS JOIN Regions AS r", render(t, cross))
	assert.Equal(t, "CROSS APPLY Regions AS r", render(t, crossApply))
	assert.Equal(t, "OUTER APPLY Regions AS r", render(t, outerApply))
}

func TestPrint_AnnotationsTrailDeterministically(t *testing.T) {
	j := mustInnerJoin(t, mustTable(t, "Orders", ""), ordersCustomersPredicate(t), false)

	anns, err := NewAnnotationSet(
		Annotation{Name: "hint", Value: "NOLOCK"},
		Annotation{Name: "origin", Value: "pushdown"},
	)
	require.NoError(t, err)

	annotated := j.WithAnnotations(anns)
	assert.Equal(t,
		"INNER JOIN Orders ON Orders.id = Customers.id /* hint=NOLOCK, origin=pushdown */",
		render(t, annotated))

	// Insertion order, not name order, drives the rendering.
	reversed, err := NewAnnotationSet(
		Annotation{Name: "origin", Value: "pushdown"},
		Annotation{Name: "hint", Value: "NOLOCK"},
	)
	require.NoError(t, err)
	assert.Equal(t,
		"INNER JOIN Orders ON Orders.id = Customers.id /* origin=pushdown, hint=NOLOCK */",
		render(t, j.WithAnnotations(reversed)))
}

func TestPrint_SelectShape(t *testing.T) {
	orders := mustTable(t, "Orders", "o")
	customers := mustTable(t, "Customers", "c")

	oID, err := NewColumn("o", "customer_id")
	require.NoError(t, err)
	cID, err := NewColumn("c", "id")
	require.NoError(t, err)
	on, err := NewEquals(oID, cID)
	require.NoError(t, err)
	join, err := NewInnerJoin(customers, on, false)
	require.NoError(t, err)

	total, err := NewColumn("o", "total")
	require.NoError(t, err)
	name, err := NewColumn("c", "name")
	require.NoError(t, err)

	status, err := NewColumn("o", "status")
	require.NoError(t, err)
	active, err := NewLiteral(StringValue("active"))
	require.NoError(t, err)
	where, err := NewEquals(status, active)
	require.NoError(t, err)

	sel, err := NewSelect(orders, []TableExpr{join}, []ScalarExpr{total, name}, where)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT o.total, c.name FROM Orders AS o INNER JOIN Customers AS c ON o.customer_id = c.id WHERE o.status = 'active'",
		render(t, sel))
}

func TestPrint_SelectEmptyProjectionIsStar(t *testing.T) {
	sel, err := NewSelect(mustTable(t, "Orders", ""), nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM Orders", render(t, sel))
}

func TestPrint_Literals(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{StringValue("active"), "'active'"},
		{StringValue("it's"), "'it''s'"},
		{IntValue(42), "42"},
		{BoolValue(true), "TRUE"},
		{BoolValue(false), "FALSE"},
		{NullValue{}, "NULL"},
	}
	for _, tc := range cases {
		lit, err := NewLiteral(tc.value)
		require.NoError(t, err)
		assert.Equal(t, tc.want, render(t, lit))
	}
}
