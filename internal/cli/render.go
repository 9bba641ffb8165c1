package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/rewrite"
	"github.com/roach88/tabula/internal/sqlprint"
)

// RenderResult holds the rendered statement for output.
type RenderResult struct {
	Name   string `json:"name"`
	SQL    string `json:"sql"`
	Params []any  `json:"params,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		parameterize bool
		passes       []string
		runToken     string
	)

	cmd := &cobra.Command{
		Use:   "render <query-dir> <query-name>",
		Short: "Render a query definition as SQL",
		Long: `Compile a named CUE query definition and render it as SQL.

Rewrite passes run in the order given; a run that changes the tree is
recorded in an annotation comment on the output. With --parameterize,
literals become ? placeholders and their values are reported separately.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, cmd, args[0], args[1], passes, runToken, parameterize)
		},
	}

	cmd.Flags().BoolVar(&parameterize, "parameterize", false, "emit ? placeholders instead of inline literals")
	cmd.Flags().StringSliceVar(&passes, "pass", nil, "rewrite pass to run, in order (repeatable)")
	cmd.Flags().StringVar(&runToken, "run-token", "", "fixed rewrite-run token (default: random UUIDv7)")

	return cmd
}

func runRender(opts *RootOptions, cmd *cobra.Command, dir, name string, passNames []string, runToken string, parameterize bool) error {
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

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	query := loadResult.Query(name)
	if query == nil {
		msg := fmt.Sprintf("query %q not found in %s", name, dir)
		formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	sel := query.Tree
	if len(passNames) > 0 {
		passes := make([]rewrite.Pass, 0, len(passNames))
		for _, pn := range passNames {
			pass, err := rewrite.PassByName(pn)
			if err != nil {
				formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "unknown pass", err)
			}
			passes = append(passes, pass)
		}

		var gen rewrite.TokenGenerator = rewrite.UUIDv7Generator{}
		if runToken != "" {
			gen = rewrite.NewFixedGenerator(runToken)
		}

		var err error
		sel, err = rewrite.NewRunner(gen).Run(sel, passes...)
		if err != nil {
			formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitFailure, "rewrite failed", err)
		}
	}

	result := RenderResult{Name: name}
	if parameterize {
		result.SQL, result.Params = sqlprint.PrintParameterized(sel)
	} else {
		result.SQL = sqlprint.Print(sel)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, result.SQL)
	if result.Params != nil {
		fmt.Fprintf(formatter.Writer, "params: %v\n", result.Params)
	}
	return nil
}

// reportLoadError prints a load error and converts it to an exit code.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "load failed", err)
}
