// Package sqlcheck validates rendered SQL against an in-memory SQLite
// database. It derives scratch tables from the tree itself, so a check
// needs no pre-existing schema: every base table and referenced column
// gets a throwaway definition, then the parameterized rendering is
// prepared against it. Prepare catches malformed SQL, unknown
// bindings, and column references the tree never introduced.
package sqlcheck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tabula/internal/sqlir"
	"github.com/roach88/tabula/internal/sqlprint"
)

// Checker validates select trees against a scratch SQLite database.
// Not safe for concurrent use; each Check rebuilds the scratch schema.
type Checker struct {
	db *sql.DB
}

// Open creates an in-memory checker.
//
// The single-connection pool matters: an in-memory SQLite database is
// private to its connection, so scratch tables created on one
// connection would be invisible on another.
func Open() (*Checker, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Checker{db: db}, nil
}

// Close closes the database connection.
func (c *Checker) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Check renders sel in parameterized form and prepares it against
// scratch tables derived from the tree. A nil return means SQLite
// accepted the statement.
func (c *Checker) Check(ctx context.Context, sel *sqlir.SelectExpr) error {
	schema, err := deriveSchema(sel)
	if err != nil {
		return err
	}

	for _, table := range schema {
		if _, err := c.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table.name)); err != nil {
			return fmt.Errorf("failed to reset scratch table %s: %w", table.name, err)
		}
		if _, err := c.db.ExecContext(ctx, table.createSQL()); err != nil {
			return fmt.Errorf("failed to create scratch table %s: %w", table.name, err)
		}
	}

	rendered, _ := sqlprint.PrintParameterized(sel)
	stmt, err := c.db.PrepareContext(ctx, rendered)
	if err != nil {
		return &CheckError{SQL: rendered, Message: err.Error()}
	}
	return stmt.Close()
}

// CheckError reports a statement SQLite rejected.
type CheckError struct {
	// SQL is the rendered statement that failed to prepare.
	SQL string

	// Message is SQLite's diagnostic.
	Message string
}

func (e *CheckError) Error() string {
	if e.SQL != "" {
		return fmt.Sprintf("invalid SQL: %s (sql=%s)", e.Message, e.SQL)
	}
	return fmt.Sprintf("invalid SQL: %s", e.Message)
}

// scratchTable is one derived table definition.
type scratchTable struct {
	name    string
	columns []string
}

func (t scratchTable) createSQL() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %q (", t.name)
	if len(t.columns) == 0 {
		// SQLite requires at least one column.
		sb.WriteString(`"placeholder"`)
	}
	for i, col := range t.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", col)
	}
	sb.WriteString(")")
	return sb.String()
}

// deriveSchema walks the tree collecting base tables, then attributes
// every column reference to a table through its binding. Unqualified
// columns land on the FROM table.
func deriveSchema(sel *sqlir.SelectExpr) ([]scratchTable, error) {
	bindings := map[string]string{} // binding name -> table name
	var order []string              // table names in discovery order

	record := func(t sqlir.TableExpr) error {
		base, ok := t.(*sqlir.BaseTableExpr)
		if !ok {
			return fmt.Errorf("cannot derive scratch schema for %T", t)
		}
		if _, seen := bindings[base.Binding()]; !seen {
			bindings[base.Binding()] = base.Name()
			order = append(order, base.Name())
		}
		return nil
	}

	if err := record(sel.From()); err != nil {
		return nil, err
	}
	fromBinding := sel.From().(*sqlir.BaseTableExpr).Binding()

	var predicates []sqlir.ScalarExpr
	for _, j := range sel.Joins() {
		switch n := j.(type) {
		case *sqlir.InnerJoinExpr:
			if err := record(n.Table()); err != nil {
				return nil, err
			}
			predicates = append(predicates, n.Predicate())
		case *sqlir.LeftJoinExpr:
			if err := record(n.Table()); err != nil {
				return nil, err
			}
			predicates = append(predicates, n.Predicate())
		case *sqlir.RightJoinExpr:
			if err := record(n.Table()); err != nil {
				return nil, err
			}
			predicates = append(predicates, n.Predicate())
		case *sqlir.CrossJoinExpr:
			if err := record(n.Table()); err != nil {
				return nil, err
			}
		case *sqlir.CrossApplyExpr, *sqlir.OuterApplyExpr:
			// SQLite has no APPLY syntax; preparing the rendering would
			// fail with an unhelpful parse error, so reject up front.
			return nil, &CheckError{Message: "APPLY joins are not supported by SQLite"}
		default:
			return nil, fmt.Errorf("cannot derive scratch schema for %T", j)
		}
	}

	columns := map[string]map[string]bool{} // table name -> column set
	colOrder := map[string][]string{}

	addColumn := func(binding, col string) {
		if binding == "" {
			binding = fromBinding
		}
		table, ok := bindings[binding]
		if !ok {
			// Unknown binding; leave the column out and let Prepare
			// surface the reference error.
			return
		}
		if columns[table] == nil {
			columns[table] = map[string]bool{}
		}
		if !columns[table][col] {
			columns[table][col] = true
			colOrder[table] = append(colOrder[table], col)
		}
	}

	var walk func(expr sqlir.ScalarExpr)
	walk = func(expr sqlir.ScalarExpr) {
		switch n := expr.(type) {
		case *sqlir.ColumnExpr:
			addColumn(n.Table(), n.Name())
		case *sqlir.EqualsExpr:
			walk(n.Left())
			walk(n.Right())
		case *sqlir.AndExpr:
			walk(n.Left())
			walk(n.Right())
		}
	}

	for _, col := range sel.Projection() {
		walk(col)
	}
	for _, pred := range predicates {
		walk(pred)
	}
	if w := sel.Where(); w != nil {
		walk(w)
	}

	tables := make([]scratchTable, 0, len(order))
	for _, name := range order {
		tables = append(tables, scratchTable{name: name, columns: colOrder[name]})
	}
	return tables, nil
}
