package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hclstack/internal/cli"
)

func TestParse_Defaults(t *testing.T) {
	var out bytes.Buffer

	config, shouldExit, err := cli.Parse([]string{"live/qa/bucket/stack.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, []string{"live/qa/bucket/stack.hcl"}, config.LeafArgs)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "json", config.LogFormat)
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, 4, config.WorkerCount)
	assert.False(t, config.Generate)
}

func TestParse_Flags(t *testing.T) {
	var out bytes.Buffer

	config, shouldExit, err := cli.Parse([]string{
		"-root", "/repo",
		"-format", "hcl",
		"-generate",
		"-log-level", "debug",
		"-workers", "8",
		"a/stack.hcl", "b/stack.hcl",
	}, &out)
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "/repo", config.RootDir)
	assert.Equal(t, "hcl", config.Format)
	assert.True(t, config.Generate)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 8, config.WorkerCount)
	assert.Equal(t, []string{"a/stack.hcl", "b/stack.hcl"}, config.LeafArgs)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer

	config, shouldExit, err := cli.Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	cases := map[string][]string{
		"format":    {"-format", "yaml", "leaf"},
		"log-format": {"-log-format", "xml", "leaf"},
		"log-level": {"-log-level", "verbose", "leaf"},
		"workers":   {"-workers", "0", "leaf"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := cli.Parse(args, &out)

			var exitErr *cli.ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
