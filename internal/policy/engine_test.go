package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicyAdmitsUnlistedEngine(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	d, err := engine.Admit(ctx, Input{Engine: "gemini", SessionID: "s1"})
	require.NoError(t, err)
	assert.True(t, d.Allow)
	assert.Equal(t, "default", d.Reason)
}

func TestDefaultPolicyDeniesDisabledEngine(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	require.NoError(t, err)

	d, err := engine.Admit(ctx, Input{Engine: "openai", DisabledEngines: []string{"gemini", "openai"}})
	require.NoError(t, err)
	assert.False(t, d.Allow)
	assert.Equal(t, "engine disabled by configuration", d.Reason)
}

func TestCustomPolicyFromFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "policy.rego")
	custom := `
package engine_admission

import rego.v1

default decision := {"allow": false, "reason": "only scripted in tests"}

decision := {"allow": true, "reason": "practice"} if {
	startswith(input.title, "Practice")
}
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	engine, err := NewEngineFromFile(ctx, path)
	require.NoError(t, err)

	d, err := engine.Admit(ctx, Input{Engine: "gemini", Title: "Practice round"})
	require.NoError(t, err)
	assert.True(t, d.Allow)

	d, err = engine.Admit(ctx, Input{Engine: "gemini", Title: "Final round"})
	require.NoError(t, err)
	assert.False(t, d.Allow)
}

func TestInvalidPolicyFailsToPrepare(t *testing.T) {
	_, err := NewEngine(context.Background(), "package broken\n decision := {")
	require.Error(t, err)
}

func TestNonObjectDecisionIsAnError(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, "package engine_admission\n\ndecision := \"allow\"\n")
	require.NoError(t, err)

	_, err = engine.Admit(ctx, Input{Engine: "gemini"})
	require.Error(t, err)
}
