package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()

	// Scenarios must point at an existing spec file.
	spec := filepath.Join(dir, "queries.cue")
	require.NoError(t, os.WriteFile(spec, []byte(`query: q: {from: {table: "T"}}`), 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ResolvesSpecPath(t *testing.T) {
	path := writeScenario(t, `
name: demo
description: Loads a query from a sibling spec file.
spec: queries.cue
query: q
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", scenario.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "queries.cue"), scenario.Spec)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, `
name: demo
description: Typo in a field name.
spec: queries.cue
query: q
querys: oops
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MissingQuery(t *testing.T) {
	path := writeScenario(t, `
name: demo
description: No query named.
spec: queries.cue
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query is required")
}

func TestLoadScenario_MissingSpecFile(t *testing.T) {
	path := writeScenario(t, `
name: demo
description: Spec file does not exist.
spec: nowhere.cue
query: q
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spec file not found")
}
