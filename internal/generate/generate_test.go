package generate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hclstack/internal/errs"
	"github.com/specialistvlad/hclstack/internal/generate"
	"github.com/specialistvlad/hclstack/internal/testutil"
)

func TestParsePolicy(t *testing.T) {
	for _, valid := range []string{"skip", "overwrite", "error"} {
		got, err := generate.ParsePolicy(valid)
		require.NoError(t, err)
		assert.Equal(t, generate.Policy(valid), got)
	}

	got, err := generate.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, generate.PolicyError, got)

	_, err = generate.ParsePolicy("merge")
	assert.Error(t, err)
}

func TestMaterialize_WritesNewTarget(t *testing.T) {
	outDir := t.TempDir()

	err := generate.Materialize(testutil.Context(t), outDir, []generate.Directive{
		{Name: "backend", Path: "backend.tf", Policy: generate.PolicyError, Contents: "# backend\n"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, "backend.tf"))
	require.NoError(t, err)
	assert.Equal(t, "# backend\n", string(got))
}

func TestMaterialize_CreatesParentDirectories(t *testing.T) {
	outDir := t.TempDir()

	err := generate.Materialize(testutil.Context(t), outDir, []generate.Directive{
		{Name: "provider", Path: "nested/dir/provider.tf", Policy: generate.PolicyError, Contents: "x"},
	})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outDir, "nested/dir/provider.tf"))
	assert.NoError(t, statErr)
}

func TestMaterialize_SkipLeavesExistingUntouched(t *testing.T) {
	outDir := t.TempDir()
	target := filepath.Join(outDir, "backend.tf")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	err := generate.Materialize(testutil.Context(t), outDir, []generate.Directive{
		{Name: "backend", Path: "backend.tf", Policy: generate.PolicySkip, Contents: "replacement"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))
}

func TestMaterialize_OverwriteReplacesExisting(t *testing.T) {
	outDir := t.TempDir()
	target := filepath.Join(outDir, "backend.tf")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	err := generate.Materialize(testutil.Context(t), outDir, []generate.Directive{
		{Name: "backend", Path: "backend.tf", Policy: generate.PolicyOverwrite, Contents: "replacement"},
	})
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "replacement", string(got))
}

func TestMaterialize_ErrorPolicyFailsWithoutModifying(t *testing.T) {
	outDir := t.TempDir()
	target := filepath.Join(outDir, "backend.tf")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))

	err := generate.Materialize(testutil.Context(t), outDir, []generate.Directive{
		{Name: "backend", Path: "backend.tf", Policy: generate.PolicyError, Contents: "replacement"},
	})

	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, target, conflict.Target)

	got, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(got))
}
