package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidQueries(t *testing.T) {
	out, _, err := execute(t, "validate", "testdata/queries")
	require.NoError(t, err)
	assert.Equal(t, "valid: 2 queries\n", out)
}

func TestValidate_CollectsAllCompileErrors(t *testing.T) {
	out, _, err := execute(t, "validate", "testdata/broken")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	// Both broken queries are reported, not just the first.
	assert.Contains(t, out, "missing_from")
	assert.Contains(t, out, "bad_kind")
}

func TestValidate_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "validate", "testdata/queries")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(2), data["queries"])
}

func TestValidate_MissingDir(t *testing.T) {
	_, _, err := execute(t, "validate", "testdata/nowhere")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
