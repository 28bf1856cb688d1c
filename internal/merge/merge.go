// Package merge implements the deterministic combination rules for
// effective configurations: shallow per-key override for inputs, and
// first-non-empty inheritance for the blocks a tree declares once.
package merge

import (
	"github.com/zclconf/go-cty/cty"
)

// Inputs merges input layers in order with shallow-map override: new keys
// are added, colliding keys are overwritten by the later layer. Callers
// pass layers in precedence order, lowest first, so the leaf's own inputs
// go last.
//
// Collisions replace the whole value. A list or nested object defined by
// a later layer fully replaces the earlier one; entries are never
// combined. Deep-merging sequences here would silently duplicate or drop
// entries such as IAM member lists.
func Inputs(layers ...map[string]cty.Value) map[string]cty.Value {
	merged := make(map[string]cty.Value)
	for _, layer := range layers {
		for key, val := range layer {
			merged[key] = val
		}
	}
	return merged
}

// FirstNonNil returns the first non-nil candidate, or nil. Callers pass
// candidates walking from leaf to root, so the leaf-most declaration of a
// once-per-tree block wins.
func FirstNonNil[T any](candidates ...*T) *T {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
