package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabula/internal/sqlir"
)

func mustInnerJoin(t *testing.T, table *sqlir.BaseTableExpr, on sqlir.ScalarExpr, prunable bool) *sqlir.InnerJoinExpr {
	t.Helper()
	j, err := sqlir.NewInnerJoin(table, on, prunable)
	require.NoError(t, err)
	return j
}

func mustLiteral(t *testing.T, v sqlir.Value) *sqlir.LiteralExpr {
	t.Helper()
	lit, err := sqlir.NewLiteral(v)
	require.NoError(t, err)
	return lit
}

func TestPruneJoins_DropsUnreferencedPrunableJoin(t *testing.T) {
	sel := ordersJoin(t, true)

	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.NotSame(t, sel, got)
	assert.Empty(t, got.Joins())
	// Everything else survives untouched.
	assert.Same(t, sel.From(), got.From())
}

func TestPruneJoins_KeepsJoinReferencedByProjection(t *testing.T) {
	on := mustEquals(t, mustColumn(t, "o", "customer_id"), mustColumn(t, "c", "id"))
	join := mustInnerJoin(t, mustTable(t, "Customers", "c"), on, true)

	sel, err := sqlir.NewSelect(
		mustTable(t, "Orders", "o"),
		[]sqlir.TableExpr{join},
		[]sqlir.ScalarExpr{mustColumn(t, "c", "name")},
		nil,
	)
	require.NoError(t, err)

	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Same(t, sel, got)
}

func TestPruneJoins_KeepsJoinReferencedByWhere(t *testing.T) {
	on := mustEquals(t, mustColumn(t, "o", "customer_id"), mustColumn(t, "c", "id"))
	join := mustInnerJoin(t, mustTable(t, "Customers", "c"), on, true)
	where := mustEquals(t, mustColumn(t, "c", "region"), mustLiteral(t, sqlir.StringValue("EU")))

	sel, err := sqlir.NewSelect(
		mustTable(t, "Orders", "o"),
		[]sqlir.TableExpr{join},
		[]sqlir.ScalarExpr{mustColumn(t, "o", "total")},
		where,
	)
	require.NoError(t, err)

	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Same(t, sel, got)
}

func TestPruneJoins_OwnPredicateDoesNotKeepJoinAlive(t *testing.T) {
	// The only reference to c is the join's own ON condition.
	sel := ordersJoin(t, true)
	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Empty(t, got.Joins())
}

func TestPruneJoins_NonPrunableJoinStays(t *testing.T) {
	sel := ordersJoin(t, false)
	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Same(t, sel, got)
	assert.Len(t, got.Joins(), 1)
}

func TestPruneJoins_CascadesToFixedPoint(t *testing.T) {
	// c is only referenced by the join over r; once r goes, c goes too.
	onCustomers := mustEquals(t, mustColumn(t, "o", "customer_id"), mustColumn(t, "c", "id"))
	customers := mustInnerJoin(t, mustTable(t, "Customers", "c"), onCustomers, true)

	onRegions := mustEquals(t, mustColumn(t, "c", "region_id"), mustColumn(t, "r", "id"))
	regions := mustInnerJoin(t, mustTable(t, "Regions", "r"), onRegions, true)

	sel, err := sqlir.NewSelect(
		mustTable(t, "Orders", "o"),
		[]sqlir.TableExpr{customers, regions},
		[]sqlir.ScalarExpr{mustColumn(t, "o", "total")},
		nil,
	)
	require.NoError(t, err)

	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Empty(t, got.Joins())
}

func TestPruneJoins_PrunableCrossJoinDrops(t *testing.T) {
	cross, err := sqlir.NewCrossJoin(mustTable(t, "Calendar", "cal"), true)
	require.NoError(t, err)

	sel, err := sqlir.NewSelect(
		mustTable(t, "Orders", "o"),
		[]sqlir.TableExpr{cross},
		[]sqlir.ScalarExpr{mustColumn(t, "o", "total")},
		nil,
	)
	require.NoError(t, err)

	got, err := PruneJoins(sel)
	require.NoError(t, err)
	assert.Empty(t, got.Joins())
}
