// Package harness provides a conformance testing framework for the
// query pipeline. A scenario names a query in a CUE spec file; the
// harness compiles it, runs the requested rewrite passes with a fixed
// run token, renders SQL, and optionally validates the rendering
// against an in-memory SQLite database. Golden files hold the expected
// renderings.
package harness

import (
	"context"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/tabula/internal/compiler"
	"github.com/roach88/tabula/internal/rewrite"
	"github.com/roach88/tabula/internal/sqlcheck"
	"github.com/roach88/tabula/internal/sqlir"
	"github.com/roach88/tabula/internal/sqlprint"
)

// Result holds the outcome of running a scenario.
type Result struct {
	// Tree is the final tree after passes.
	Tree *sqlir.SelectExpr

	// SQL is the rendered statement.
	SQL string

	// Params holds parameter values in placeholder order. Nil unless
	// the scenario is parameterized.
	Params []any

	// Checked reports whether SQLite validation ran.
	Checked bool
}

// Run executes a scenario: compile, rewrite, render, check.
func Run(scenario *Scenario) (*Result, error) {
	data, err := os.ReadFile(scenario.Spec)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile spec: %w", err)
	}

	queryVal := v.LookupPath(cue.ParsePath("query." + scenario.Query))
	if !queryVal.Exists() {
		return nil, fmt.Errorf("query %q not found in %s", scenario.Query, scenario.Spec)
	}

	sel, err := compiler.CompileQuery(queryVal)
	if err != nil {
		return nil, fmt.Errorf("failed to compile query %q: %w", scenario.Query, err)
	}

	if len(scenario.Passes) > 0 {
		passes := make([]rewrite.Pass, 0, len(scenario.Passes))
		for _, name := range scenario.Passes {
			pass, err := rewrite.PassByName(name)
			if err != nil {
				return nil, err
			}
			passes = append(passes, pass)
		}

		token := scenario.RunToken
		if token == "" {
			token = "test-run-default"
		}
		runner := rewrite.NewRunner(rewrite.NewFixedGenerator(token))
		sel, err = runner.Run(sel, passes...)
		if err != nil {
			return nil, fmt.Errorf("failed to run passes: %w", err)
		}
	}

	result := &Result{Tree: sel}
	if scenario.Parameterize {
		result.SQL, result.Params = sqlprint.PrintParameterized(sel)
	} else {
		result.SQL = sqlprint.Print(sel)
	}

	if scenario.Check {
		checker, err := sqlcheck.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open checker: %w", err)
		}
		defer checker.Close()

		if err := checker.Check(context.Background(), sel); err != nil {
			return nil, err
		}
		result.Checked = true
	}

	return result, nil
}
