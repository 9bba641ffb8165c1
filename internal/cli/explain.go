package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/sqlir"
	"github.com/roach88/tabula/internal/sqlprint"
)

// ExplainResult describes a compiled query.
type ExplainResult struct {
	Name        string         `json:"name"`
	Hash        string         `json:"hash"`
	SQL         string         `json:"sql"`
	Joins       []ExplainJoin  `json:"joins,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// ExplainJoin summarizes one join of the query.
type ExplainJoin struct {
	Kind     string `json:"kind"`
	Table    string `json:"table"`
	Binding  string `json:"binding"`
	Prunable bool   `json:"prunable"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query-dir> <query-name>",
		Short: "Describe a compiled query",
		Long: `Compile a named query and describe its structure: the structural
hash, the join shape, attached annotations, and the rendered SQL.

Two queries with the same hash are structurally identical regardless of
annotations; the hash is the cache and dedup key for rewrites.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, cmd, args[0], args[1])
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, cmd *cobra.Command, dir, name string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadQueries(dir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return reportLoadError(formatter, loadErrors[0])
	}

	query := loadResult.Query(name)
	if query == nil {
		msg := fmt.Sprintf("query %q not found in %s", name, dir)
		formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	sel := query.Tree
	result := ExplainResult{
		Name: name,
		Hash: sel.Hash(),
		SQL:  sqlprint.Print(sel),
	}

	for _, j := range sel.Joins() {
		result.Joins = append(result.Joins, describeJoin(j))
	}

	if sel.Annotations().Len() > 0 {
		result.Annotations = map[string]any{}
		for k, v := range sel.Annotations().All() {
			result.Annotations[k] = v
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "query: %s\n", result.Name)
	fmt.Fprintf(formatter.Writer, "hash:  %s\n", result.Hash)
	fmt.Fprintf(formatter.Writer, "sql:   %s\n", result.SQL)
	for _, j := range result.Joins {
		prunable := ""
		if j.Prunable {
			prunable = " (prunable)"
		}
		fmt.Fprintf(formatter.Writer, "join:  %s %s AS %s%s\n", j.Kind, j.Table, j.Binding, prunable)
	}
	for name, value := range result.Annotations {
		fmt.Fprintf(formatter.Writer, "note:  %s=%v\n", name, value)
	}
	return nil
}

// describeJoin flattens one join node for display. Joined subqueries
// report their kind with an empty table name.
func describeJoin(j sqlir.TableExpr) ExplainJoin {
	var out ExplainJoin
	var table sqlir.TableExpr

	switch n := j.(type) {
	case *sqlir.InnerJoinExpr:
		out.Kind, table, out.Prunable = "INNER JOIN", n.Table(), n.Prunable()
	case *sqlir.LeftJoinExpr:
		out.Kind, table, out.Prunable = "LEFT JOIN", n.Table(), n.Prunable()
	case *sqlir.RightJoinExpr:
		out.Kind, table, out.Prunable = "RIGHT JOIN", n.Table(), n.Prunable()
	case *sqlir.CrossJoinExpr:
		out.Kind, table, out.Prunable = "CROSS JOIN", n.Table(), n.Prunable()
	case *sqlir.CrossApplyExpr:
		out.Kind, table, out.Prunable = "CROSS APPLY", n.Table(), n.Prunable()
	case *sqlir.OuterApplyExpr:
		out.Kind, table, out.Prunable = "OUTER APPLY", n.Table(), n.Prunable()
	default:
		out.Kind = fmt.Sprintf("%T", j)
		return out
	}

	if base, ok := table.(*sqlir.BaseTableExpr); ok {
		out.Table = base.Name()
		out.Binding = base.Binding()
	}
	return out
}
