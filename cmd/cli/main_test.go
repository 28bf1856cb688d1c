package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "-h" (help) flag should cause cli.Parse to return shouldExit=true.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, args)

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_ResolvesLeaf(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	leafDir := filepath.Join(tempDir, "bucket")
	require.NoError(t, os.MkdirAll(leafDir, 0o755))
	leaf := filepath.Join(leafDir, "stack.hcl")
	require.NoError(t, os.WriteFile(leaf, []byte(`inputs = { name = "assets" }`), 0o600))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"-log-level", "error", leaf})

	require.NoError(t, err)
	require.Contains(t, out.String(), `"assets"`)
}

func TestRun_ResolutionFailure(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	leaf := filepath.Join(tempDir, "stack.hcl")
	require.NoError(t, os.WriteFile(leaf, []byte(`inputs = { unclosed`), 0o600))

	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	err := run(out, logs, []string{"-log-level", "error", leaf})

	require.Error(t, err)
	require.Contains(t, err.Error(), leaf)
}
