package fsutil_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hclstack/internal/fsutil"
	"github.com/specialistvlad/hclstack/internal/testutil"
)

func TestDiscoverLeaves(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"live/qa/apps/app-1/bucket/stack.hcl": ``,
		"live/qa/apps/app-2/bucket/stack.hcl": ``,
		"live/prod/apps/app-1/bucket/stack.hcl": ``,
		"live/qa/env.hcl":                     ``,
		"root.hcl":                            ``,
	})

	t.Run("single file", func(t *testing.T) {
		leaf := filepath.Join(root, "live/qa/apps/app-1/bucket/stack.hcl")
		got, err := fsutil.DiscoverLeaves([]string{leaf}, "stack.hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{leaf}, got)
	})

	t.Run("directory walks recursively", func(t *testing.T) {
		got, err := fsutil.DiscoverLeaves([]string{filepath.Join(root, "live/qa")}, "stack.hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "live/qa/apps/app-1/bucket/stack.hcl"),
			filepath.Join(root, "live/qa/apps/app-2/bucket/stack.hcl"),
		}, got)
	})

	t.Run("glob expands", func(t *testing.T) {
		got, err := fsutil.DiscoverLeaves([]string{filepath.Join(root, "live/**/stack.hcl")}, "stack.hcl")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("duplicates removed and order stable", func(t *testing.T) {
		leaf := filepath.Join(root, "live/qa/apps/app-1/bucket/stack.hcl")
		got, err := fsutil.DiscoverLeaves([]string{
			filepath.Join(root, "live/qa"),
			leaf,
		}, "stack.hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{
			leaf,
			filepath.Join(root, "live/qa/apps/app-2/bucket/stack.hcl"),
		}, got)
	})

	t.Run("missing path errors", func(t *testing.T) {
		_, err := fsutil.DiscoverLeaves([]string{filepath.Join(root, "nope")}, "stack.hcl")
		assert.Error(t, err)
	})
}
