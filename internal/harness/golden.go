package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshot serializes a result as stable text for golden comparison.
// First line is the SQL; a parameterized result gets a second line
// with the parameters as JSON.
func snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(result.SQL)
	buf.WriteString("\n")
	if result.Params != nil {
		params, err := json.Marshal(result.Params)
		if err != nil {
			return nil, err
		}
		buf.Write(params)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the rendering against
// a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-computed result against a golden
// file without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
