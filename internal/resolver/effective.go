package resolver

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/hclstack/internal/generate"
)

// ModuleSource is the resolved provisioning module reference handed to
// the external engine.
type ModuleSource struct {
	Module  string
	Version string
}

// RemoteState is the resolved remote-state backend declaration. Config
// is opaque passthrough: generated and inherited, never interpreted.
type RemoteState struct {
	Backend string
	Config  cty.Value
}

// Effective is the fully resolved result for one leaf fragment: the
// union of its own inputs with all transitively included fragments'
// effective inputs, plus the inherited once-per-tree blocks.
type Effective struct {
	// Path is the absolute path of the leaf fragment file.
	Path string
	// Inputs is the final merged input mapping.
	Inputs map[string]cty.Value
	// Source is the leaf-most module source, nil if none declared.
	Source *ModuleSource
	// RemoteState is the leaf-most remote-state declaration, nil if none.
	RemoteState *RemoteState
	// Generates holds the leaf's generation directives, own definitions
	// shadowing inherited ones of the same name, ordered by name.
	Generates []generate.Directive
}
