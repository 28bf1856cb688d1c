package fragment

import (
	"github.com/hashicorp/hcl/v2"
)

// FileName is the conventional name of a fragment file within the tree.
const FileName = "stack.hcl"

// Fragment is one parsed configuration unit, identified by its location
// in the tree. Expressions stay unevaluated at this stage; the resolver
// evaluates them once the fragment's scope (locals, includes) is known.
type Fragment struct {
	// Path is the absolute path of the fragment file.
	Path string
	// Dir is the directory containing the fragment file.
	Dir string

	// LocalsBody is the raw body of the locals block, nil if absent.
	LocalsBody hcl.Body
	// Includes holds the include declarations in declaration order.
	Includes []*Include
	// Source is the module source block, nil if absent.
	Source *Source
	// RemoteState is the remote-state backend block, nil if absent.
	RemoteState *RemoteState
	// Generates holds the generate directives in declaration order.
	Generates []*Generate
	// InputsExpr is the expression assigned to the inputs attribute,
	// nil if absent.
	InputsExpr hcl.Expression
}

// Include is a declared dependency on another fragment whose effective
// inputs are merged into this fragment's. Labels are unique within one
// fragment; the loader rejects duplicates.
type Include struct {
	Label    string
	PathExpr hcl.Expression
	DefRange hcl.Range
}

// Source references the provisioning module a leaf hands to the external
// engine, parameterized by version. Both attributes may reference locals.
type Source struct {
	ModuleExpr  hcl.Expression
	VersionExpr hcl.Expression
}

// RemoteState declares the remote-state backend for the tree. The config
// object is opaque passthrough: the resolver evaluates it but never
// interprets its keys.
type RemoteState struct {
	BackendExpr hcl.Expression
	ConfigExpr  hcl.Expression
}

// Generate declares a derived artifact to materialize next to the leaf.
type Generate struct {
	Name         string
	PathExpr     hcl.Expression
	IfExistsExpr hcl.Expression
	ContentsExpr hcl.Expression
	DefRange     hcl.Range
}
