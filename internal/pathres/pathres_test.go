package pathres_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hclstack/internal/errs"
	"github.com/specialistvlad/hclstack/internal/pathres"
	"github.com/specialistvlad/hclstack/internal/testutil"
)

func TestFindInParentFolders(t *testing.T) {
	t.Run("finds marker at immediate parent", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"live/qa/env.hcl":              `locals {}`,
			"live/qa/apps/bucket/stack.hcl": ``,
		})

		found, err := pathres.FindInParentFolders(filepath.Join(root, "live/qa/apps"), "env.hcl")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "live/qa/env.hcl"), found)
	})

	t.Run("finds marker several levels up", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"env.hcl":                      `locals {}`,
			"live/qa/apps/bucket/stack.hcl": ``,
		})

		found, err := pathres.FindInParentFolders(filepath.Join(root, "live/qa/apps/bucket"), "env.hcl")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "env.hcl"), found)
	})

	t.Run("skips the starting directory itself", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"live/env.hcl":    `locals { tier = "outer" }`,
			"live/qa/env.hcl": `locals { tier = "inner" }`,
		})

		// A search from live/qa must not match live/qa/env.hcl.
		found, err := pathres.FindInParentFolders(filepath.Join(root, "live/qa"), "env.hcl")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "live/env.hcl"), found)
	})

	t.Run("fails with NotFoundError when exhausted", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"live/qa/stack.hcl": ``,
		})

		_, err := pathres.FindInParentFolders(filepath.Join(root, "live/qa"), "does-not-exist.hcl")
		var notFound *errs.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "does-not-exist.hcl", notFound.Name)
	})

	t.Run("ignores directories with the marker name", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"live/env.hcl/placeholder": ``,
			"live/qa/stack.hcl":        ``,
		})

		_, err := pathres.FindInParentFolders(filepath.Join(root, "live/qa"), "env.hcl")
		var notFound *errs.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestFindRepoRoot(t *testing.T) {
	t.Run("root fragment marker", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"root.hcl":               ``,
			"live/qa/apps/stack.hcl": ``,
		})

		got, err := pathres.FindRepoRoot(filepath.Join(root, "live/qa/apps"))
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("git directory fallback", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"live/qa/stack.hcl": ``,
		})
		require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

		got, err := pathres.FindRepoRoot(filepath.Join(root, "live/qa"))
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("nearest marker wins", func(t *testing.T) {
		root := testutil.WriteTree(t, map[string]string{
			"root.hcl":           ``,
			"sub/root.hcl":       ``,
			"sub/live/stack.hcl": ``,
		})

		got, err := pathres.FindRepoRoot(filepath.Join(root, "sub/live"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "sub"), got)
	})
}

func TestResolveFromRoot(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"shared/bucket/stack.hcl": ``,
	})

	got, err := pathres.ResolveFromRoot(root, "shared/bucket/stack.hcl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "shared/bucket/stack.hcl"), got)

	_, err = pathres.ResolveFromRoot(root, "shared/missing/stack.hcl")
	var notFound *errs.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "shared/missing/stack.hcl", notFound.Name)
}

func TestDirNameAccessors(t *testing.T) {
	dir := filepath.Join("live", "qa", "apps", "app-1", "bucket")

	assert.Equal(t, "bucket", pathres.DirName(dir))
	assert.Equal(t, "app-1", pathres.ParentDirName(dir))
	assert.Equal(t, "apps", pathres.GrandparentDirName(dir))
}
