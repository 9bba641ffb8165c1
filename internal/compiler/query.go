package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/tabula/internal/sqlir"
)

// CompileQuery parses a CUE value into a select tree.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the query struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`query: orders: { from: {...} ... }`)
//	sel, err := CompileQuery(v.LookupPath(cue.ParsePath("query.orders")))
//
// Query structure:
//
//	from: { table: "Orders", as: "o" }
//	join: [ { kind: "inner", table: "Customers", as: "c",
//	          on: { eq: { left: { col: "o.customer_id" },
//	                      right: { col: "c.id" } } },
//	          prunable: true } ]
//	select: [ "o.total", "c.name" ]
//	where: { eq: { left: { col: "o.status" },
//	               right: { lit: "active" } } }
func CompileQuery(v cue.Value) (*sqlir.SelectExpr, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// Parse from (required)
	fromVal := v.LookupPath(cue.ParsePath("from"))
	if !fromVal.Exists() {
		return nil, &CompileError{
			Field:   "from",
			Message: "from is required",
			Pos:     v.Pos(),
		}
	}
	from, err := parseTableRef(fromVal)
	if err != nil {
		return nil, err
	}

	// Parse joins (optional, can be empty)
	joins, err := parseJoins(v)
	if err != nil {
		return nil, err
	}

	// Parse projection (optional; empty means SELECT *)
	projection, err := parseProjection(v)
	if err != nil {
		return nil, err
	}

	// Parse where (optional)
	var where sqlir.ScalarExpr
	whereVal := v.LookupPath(cue.ParsePath("where"))
	if whereVal.Exists() {
		where, err = parsePredicate(whereVal)
		if err != nil {
			return nil, err
		}
	}

	return sqlir.NewSelect(from, joins, projection, where)
}

// parseTableRef parses a { table, as? } struct into a base table.
func parseTableRef(v cue.Value) (*sqlir.BaseTableExpr, error) {
	name, err := v.LookupPath(cue.ParsePath("table")).String()
	if err != nil {
		return nil, &CompileError{
			Field:   "table",
			Message: "table name is required",
			Pos:     v.Pos(),
		}
	}

	alias := ""
	aliasVal := v.LookupPath(cue.ParsePath("as"))
	if aliasVal.Exists() {
		alias, err = aliasVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	table, err := sqlir.NewBaseTable(name, alias)
	if err != nil {
		return nil, &CompileError{
			Field:   "table",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return table, nil
}

// parseJoins extracts the join list from the query.
func parseJoins(v cue.Value) ([]sqlir.TableExpr, error) {
	var joins []sqlir.TableExpr

	joinVal := v.LookupPath(cue.ParsePath("join"))
	if !joinVal.Exists() {
		return joins, nil // joins are optional
	}

	iter, err := joinVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		join, err := parseJoin(iter.Value())
		if err != nil {
			return nil, err
		}
		joins = append(joins, join)
	}

	return joins, nil
}

// parseJoin builds one join node. Predicate kinds require an on
// clause; the cross kinds forbid one.
func parseJoin(v cue.Value) (sqlir.TableExpr, error) {
	kind, err := v.LookupPath(cue.ParsePath("kind")).String()
	if err != nil {
		return nil, &CompileError{
			Field:   "join.kind",
			Message: "join kind is required",
			Pos:     v.Pos(),
		}
	}

	table, err := parseTableRef(v)
	if err != nil {
		return nil, err
	}

	prunable := false
	prunableVal := v.LookupPath(cue.ParsePath("prunable"))
	if prunableVal.Exists() {
		prunable, err = prunableVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	onVal := v.LookupPath(cue.ParsePath("on"))

	switch kind {
	case "inner", "left", "right":
		if !onVal.Exists() {
			return nil, &CompileError{
				Field:   "join.on",
				Message: fmt.Sprintf("%s join requires an on condition", kind),
				Pos:     v.Pos(),
			}
		}
		on, err := parsePredicate(onVal)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "inner":
			return sqlir.NewInnerJoin(table, on, prunable)
		case "left":
			return sqlir.NewLeftJoin(table, on, prunable)
		default:
			return sqlir.NewRightJoin(table, on, prunable)
		}

	case "cross", "cross_apply", "outer_apply":
		if onVal.Exists() {
			return nil, &CompileError{
				Field:   "join.on",
				Message: fmt.Sprintf("%s join takes no on condition", kind),
				Pos:     onVal.Pos(),
			}
		}
		switch kind {
		case "cross":
			return sqlir.NewCrossJoin(table, prunable)
		case "cross_apply":
			return sqlir.NewCrossApply(table, prunable)
		default:
			return sqlir.NewOuterApply(table, prunable)
		}

	default:
		return nil, &CompileError{
			Field:   "join.kind",
			Message: fmt.Sprintf("unsupported join kind: %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// parseProjection extracts the select list as column references.
func parseProjection(v cue.Value) ([]sqlir.ScalarExpr, error) {
	var projection []sqlir.ScalarExpr

	selectVal := v.LookupPath(cue.ParsePath("select"))
	if !selectVal.Exists() {
		return projection, nil
	}

	iter, err := selectVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		ref, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		col, err := parseColumnRef(ref, iter.Value().Pos())
		if err != nil {
			return nil, err
		}
		projection = append(projection, col)
	}

	return projection, nil
}

// parsePredicate parses a predicate struct: either
// { eq: { left, right } } or { and: [pred, pred, ...] }.
func parsePredicate(v cue.Value) (sqlir.ScalarExpr, error) {
	if eqVal := v.LookupPath(cue.ParsePath("eq")); eqVal.Exists() {
		left, err := parseOperand(eqVal.LookupPath(cue.ParsePath("left")))
		if err != nil {
			return nil, err
		}
		right, err := parseOperand(eqVal.LookupPath(cue.ParsePath("right")))
		if err != nil {
			return nil, err
		}
		return sqlir.NewEquals(left, right)
	}

	if andVal := v.LookupPath(cue.ParsePath("and")); andVal.Exists() {
		iter, err := andVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var conj sqlir.ScalarExpr
		for iter.Next() {
			next, err := parsePredicate(iter.Value())
			if err != nil {
				return nil, err
			}
			if conj == nil {
				conj = next
				continue
			}
			conj, err = sqlir.NewAnd(conj, next)
			if err != nil {
				return nil, err
			}
		}
		if conj == nil {
			return nil, &CompileError{
				Field:   "and",
				Message: "and requires at least one predicate",
				Pos:     andVal.Pos(),
			}
		}
		return conj, nil
	}

	return nil, &CompileError{
		Field:   "predicate",
		Message: "predicate must be an eq or and struct",
		Pos:     v.Pos(),
	}
}

// parseOperand parses { col: "o.total" } or { lit: value }.
func parseOperand(v cue.Value) (sqlir.ScalarExpr, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "operand",
			Message: "operand is required",
			Pos:     v.Pos(),
		}
	}

	if colVal := v.LookupPath(cue.ParsePath("col")); colVal.Exists() {
		ref, err := colVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return parseColumnRef(ref, colVal.Pos())
	}

	if litVal := v.LookupPath(cue.ParsePath("lit")); litVal.Exists() {
		value, err := parseLiteral(litVal)
		if err != nil {
			return nil, err
		}
		return sqlir.NewLiteral(value)
	}

	return nil, &CompileError{
		Field:   "operand",
		Message: "operand must be a col or lit struct",
		Pos:     v.Pos(),
	}
}

// parseColumnRef splits "binding.column" at the last dot; a bare name
// is an unqualified column.
func parseColumnRef(ref string, pos token.Pos) (*sqlir.ColumnExpr, error) {
	table, name := "", ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		table, name = ref[:i], ref[i+1:]
	}
	col, err := sqlir.NewColumn(table, name)
	if err != nil {
		return nil, &CompileError{
			Field:   "col",
			Message: err.Error(),
			Pos:     pos,
		}
	}
	return col, nil
}

// parseLiteral converts a concrete CUE value to a literal value.
// Floats are forbidden - use int instead.
func parseLiteral(v cue.Value) (sqlir.Value, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return sqlir.StringValue(s), nil
	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return sqlir.IntValue(i), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return sqlir.BoolValue(b), nil
	case cue.NullKind:
		return sqlir.NullValue{}, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   "lit",
			Message: "float literals are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   "lit",
			Message: fmt.Sprintf("unsupported literal kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
