package eval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specialistvlad/hclstack/internal/eval"
)

func TestNameSuggestion(t *testing.T) {
	options := []string{"env", "app_name", "project_id"}

	assert.Equal(t, "env", eval.NameSuggestion("enw", options))
	assert.Equal(t, "app_name", eval.NameSuggestion("appname", options))
	assert.Equal(t, "", eval.NameSuggestion("completely_different", options))
	assert.Equal(t, "", eval.NameSuggestion("xyz", nil))
}
