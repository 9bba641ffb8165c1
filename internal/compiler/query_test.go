package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabula/internal/sqlir"
	"github.com/roach88/tabula/internal/sqlprint"
)

func compileString(t *testing.T, src, path string) cue.Value {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath(path))
}

func TestCompileQueryBasic(t *testing.T) {
	v := compileString(t, `
		query: orders: {
			from: { table: "Orders", as: "o" }

			join: [{
				kind: "inner"
				table: "Customers"
				as: "c"
				on: { eq: {
					left: { col: "o.customer_id" }
					right: { col: "c.id" }
				} }
				prunable: true
			}]

			select: ["o.total", "c.name"]

			where: { eq: {
				left: { col: "o.status" }
				right: { lit: "active" }
			} }
		}
	`, "query.orders")

	sel, err := CompileQuery(v)
	require.NoError(t, err)

	from, ok := sel.From().(*sqlir.BaseTableExpr)
	require.True(t, ok)
	assert.Equal(t, "Orders", from.Name())
	assert.Equal(t, "o", from.Binding())

	require.Len(t, sel.Joins(), 1)
	join, ok := sel.Joins()[0].(*sqlir.InnerJoinExpr)
	require.True(t, ok)
	assert.True(t, join.Prunable())

	assert.Equal(t,
		"SELECT o.total, c.name FROM Orders AS o INNER JOIN Customers AS c ON o.customer_id = c.id WHERE o.status = 'active'",
		sqlprint.Print(sel))
}

func TestCompileQueryMinimal(t *testing.T) {
	v := compileString(t, `
		query: all: {
			from: { table: "Orders" }
		}
	`, "query.all")

	sel, err := CompileQuery(v)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Orders", sqlprint.Print(sel))
}

func TestCompileQueryAndPredicate(t *testing.T) {
	v := compileString(t, `
		query: q: {
			from: { table: "Orders", as: "o" }
			where: { and: [
				{ eq: { left: { col: "o.status" }, right: { lit: "active" } } },
				{ eq: { left: { col: "o.qty" }, right: { lit: 3 } } },
			] }
		}
	`, "query.q")

	sel, err := CompileQuery(v)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM Orders AS o WHERE o.status = 'active' AND o.qty = 3",
		sqlprint.Print(sel))
}

func TestCompileQueryJoinKinds(t *testing.T) {
	v := compileString(t, `
		query: q: {
			from: { table: "Orders", as: "o" }
			join: [
				{ kind: "left", table: "Customers", as: "c",
				  on: { eq: { left: { col: "o.customer_id" }, right: { col: "c.id" } } } },
				{ kind: "cross", table: "Calendar", as: "cal" },
				{ kind: "outer_apply", table: "Latest", as: "l" },
			]
		}
	`, "query.q")

	sel, err := CompileQuery(v)
	require.NoError(t, err)
	require.Len(t, sel.Joins(), 3)
	assert.IsType(t, &sqlir.LeftJoinExpr{}, sel.Joins()[0])
	assert.IsType(t, &sqlir.CrossJoinExpr{}, sel.Joins()[1])
	assert.IsType(t, &sqlir.OuterApplyExpr{}, sel.Joins()[2])
}

func TestCompileQueryMissingFrom(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			select: ["total"]
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileQueryInnerJoinWithoutOn(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			from: { table: "Orders", as: "o" }
			join: [{ kind: "inner", table: "Customers", as: "c" }]
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on condition")
}

func TestCompileQueryCrossJoinWithOn(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			from: { table: "Orders", as: "o" }
			join: [{
				kind: "cross", table: "Calendar", as: "cal"
				on: { eq: { left: { col: "o.day" }, right: { col: "cal.day" } } }
			}]
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no on condition")
}

func TestCompileQueryUnknownJoinKind(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			from: { table: "Orders" }
			join: [{ kind: "full", table: "Customers", as: "c" }]
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported join kind")
}

func TestCompileQueryFloatLiteralRejected(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			from: { table: "Orders", as: "o" }
			where: { eq: { left: { col: "o.total" }, right: { lit: 3.14 } } }
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float literals are forbidden")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "lit", ce.Field)
}

func TestCompileQueryNullLiteral(t *testing.T) {
	v := compileString(t, `
		query: q: {
			from: { table: "Orders", as: "o" }
			where: { eq: { left: { col: "o.closed_at" }, right: { lit: null } } }
		}
	`, "query.q")

	sel, err := CompileQuery(v)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Orders AS o WHERE o.closed_at = NULL", sqlprint.Print(sel))
}

func TestCompileErrorIncludesPosition(t *testing.T) {
	v := compileString(t, `
		query: bad: {
			from: { table: "Orders" }
			where: { nope: true }
		}
	`, "query.bad")

	_, err := CompileQuery(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "predicate", ce.Field)
}
