package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// Scenarios compile a named query from a CUE spec file, optionally run
// rewrite passes over it, and assert on the rendered SQL.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the path to the CUE file holding the query definitions.
	// Relative paths resolve against the scenario file location.
	Spec string `yaml:"spec"`

	// Query names the query to compile, looked up under "query." in
	// the spec file.
	Query string `yaml:"query"`

	// Passes lists rewrite passes to run before rendering, in order.
	Passes []string `yaml:"passes,omitempty"`

	// Parameterize renders with ? placeholders and collects the
	// parameter values instead of inlining literals.
	Parameterize bool `yaml:"parameterize,omitempty"`

	// Check validates the rendering against an in-memory SQLite
	// database after rendering.
	Check bool `yaml:"check,omitempty"`

	// RunToken is an optional fixed rewrite-run token for deterministic
	// provenance annotations. Defaults to "test-run-default" so golden
	// files stay stable.
	RunToken string `yaml:"run_token,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the spec path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "querys:" vs "query:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) && basePath != "" {
		scenario.Spec = filepath.Join(basePath, scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	if _, err := os.Stat(s.Spec); os.IsNotExist(err) {
		return fmt.Errorf("spec file not found: %s", s.Spec)
	}

	return nil
}
