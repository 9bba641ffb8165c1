package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tabula/internal/sqlcheck"
)

// ValidationIssue is one problem found during validation.
type ValidationIssue struct {
	Query   string `json:"query,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Queries int               `json:"queries"`
	Issues  []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query-dir>",
		Short: "Validate query definitions and their SQL",
		Long: `Compile every query definition in a directory and validate the
parameterized rendering of each against an in-memory SQLite database.

Collects all problems instead of stopping at the first, so a single run
reports every broken query.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadQueries(dir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return reportLoadError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var issues []ValidationIssue
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			issues = append(issues, ValidationIssue{Code: loadErr.Code, Message: loadErr.Message})
			continue
		}
		issues = append(issues, ValidationIssue{Code: ErrCodeGeneric, Message: err.Error()})
	}

	checker, err := sqlcheck.Open()
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open checker", err)
	}
	defer checker.Close()

	for _, q := range loadResult.Queries {
		if err := checker.Check(context.Background(), q.Tree); err != nil {
			issues = append(issues, ValidationIssue{Query: q.Name, Code: ErrCodeInvalidSQL, Message: err.Error()})
			continue
		}
		formatter.VerboseLog("ok: %s", q.Name)
	}

	result := ValidationResult{
		Valid:   len(issues) == 0,
		Queries: len(loadResult.Queries),
		Issues:  issues,
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		if result.Valid {
			fmt.Fprintf(formatter.Writer, "valid: %d queries\n", result.Queries)
		} else {
			for _, issue := range issues {
				if issue.Query != "" {
					fmt.Fprintf(formatter.Writer, "Error [%s] %s: %s\n", issue.Code, issue.Query, issue.Message)
				} else {
					fmt.Fprintf(formatter.Writer, "Error [%s]: %s\n", issue.Code, issue.Message)
				}
			}
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation issue(s)", len(issues)))
	}
	return nil
}
