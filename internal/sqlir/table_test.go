package sqlir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseTable_Construction(t *testing.T) {
	table := mustTable(t, "Orders", "o")

	assert.Equal(t, "Orders", table.Name())
	assert.Equal(t, "o", table.Alias())
	assert.Equal(t, "o", table.Binding())

	unaliased := mustTable(t, "Orders", "")
	assert.Equal(t, "Orders", unaliased.Binding())

	_, err := NewBaseTable("", "")
	require.Error(t, err)
	assert.True(t, IsInvalidChild(err))
}

func TestBaseTable_Equality(t *testing.T) {
	t1 := mustTable(t, "Orders", "o")
	t2 := mustTable(t, "Orders", "o")
	t3 := mustTable(t, "Orders", "x")
	t4 := mustTable(t, "Customers", "o")

	assert.True(t, t1.Equal(t2))
	assert.Equal(t, t1.Hash(), t2.Hash())
	assert.False(t, t1.Equal(t3))
	assert.False(t, t1.Equal(t4))
	assert.NotEqual(t, t1.Hash(), t3.Hash())
}

// selectFixture builds
// SELECT o.total FROM Orders AS o INNER JOIN Customers AS c ON o.customer_id = c.id
func selectFixture(t *testing.T) *SelectExpr {
	t.Helper()

	orders := mustTable(t, "Orders", "o")
	customers := mustTable(t, "Customers", "c")

	oCust, err := NewColumn("o", "customer_id")
	require.NoError(t, err)
	cID, err := NewColumn("c", "id")
	require.NoError(t, err)
	on, err := NewEquals(oCust, cID)
	require.NoError(t, err)
	join, err := NewInnerJoin(customers, on, false)
	require.NoError(t, err)

	total, err := NewColumn("o", "total")
	require.NoError(t, err)

	sel, err := NewSelect(orders, []TableExpr{join}, []ScalarExpr{total}, nil)
	require.NoError(t, err)
	return sel
}

func TestSelect_UpdateIdentityShortCircuit(t *testing.T) {
	sel := selectFixture(t)

	// Joins() and Projection() return fresh slices; identity is
	// element-wise, so the receiver still comes back.
	same, err := sel.Update(sel.From(), sel.Joins(), sel.Projection(), sel.Where())
	require.NoError(t, err)
	assert.Same(t, sel, same)
}

func TestSelect_UpdateWithNewJoinList(t *testing.T) {
	sel := selectFixture(t)

	joins := sel.Joins()
	inner := joins[0].(*InnerJoinExpr)
	rejoined, err := inner.UpdateTable(mustTable(t, "ArchivedCustomers", "c"))
	require.NoError(t, err)
	joins[0] = rejoined

	m, err := sel.Update(sel.From(), joins, sel.Projection(), sel.Where())
	require.NoError(t, err)
	assert.NotSame(t, sel, m)
	assert.Same(t, sel.From(), m.From())
	assert.Same(t, rejoined, m.Joins()[0])
}

func TestSelect_NilFromRejected(t *testing.T) {
	_, err := NewSelect(nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidChild(err))
}

func TestSelect_NilListElementRejected(t *testing.T) {
	orders := mustTable(t, "Orders", "")

	_, err := NewSelect(orders, []TableExpr{nil}, nil, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidChild(err))

	_, err = NewSelect(orders, nil, []ScalarExpr{nil}, nil)
	require.Error(t, err)
	assert.True(t, IsInvalidChild(err))
}

func TestSelect_SlicesAreCopied(t *testing.T) {
	join, err := NewCrossJoin(mustTable(t, "Regions", ""), false)
	require.NoError(t, err)
	joins := []TableExpr{join}

	sel, err := NewSelect(mustTable(t, "Orders", ""), joins, nil, nil)
	require.NoError(t, err)

	// Mutating the caller's slice does not reach the node.
	joins[0] = nil
	assert.Same(t, join, sel.Joins()[0])

	// Mutating an accessor's result does not either.
	got := sel.Joins()
	got[0] = nil
	assert.Same(t, join, sel.Joins()[0])
}

func TestSelect_Equality(t *testing.T) {
	s1 := selectFixture(t)
	s2 := selectFixture(t)

	assert.True(t, s1.Equal(s2))
	assert.Equal(t, s1.Hash(), s2.Hash())

	// A differing WHERE breaks equality.
	status, err := NewColumn("o", "status")
	require.NoError(t, err)
	active, err := NewLiteral(StringValue("active"))
	require.NoError(t, err)
	where, err := NewEquals(status, active)
	require.NoError(t, err)

	s3, err := s1.Update(s1.From(), s1.Joins(), s1.Projection(), where)
	require.NoError(t, err)
	assert.False(t, s1.Equal(s3))
	assert.NotEqual(t, s1.Hash(), s3.Hash())
}

func TestSelect_EqualityIgnoresAnnotations(t *testing.T) {
	s1 := selectFixture(t)
	anns, err := NewAnnotationSet(Annotation{Name: "plan", Value: "v2"})
	require.NoError(t, err)

	assert.True(t, s1.WithAnnotations(anns).Equal(s1))
	assert.Equal(t, s1.WithAnnotations(anns).Hash(), s1.Hash())
}
