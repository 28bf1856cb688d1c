// Package eval evaluates a fragment's expressions: its locals mapping in
// dependency order, its include paths, and finally its inputs. The scope
// it builds exposes the builtin functions fragments use to parameterize
// themselves by tree position (ancestor search, repo root, directory
// names, out-of-band fragment reads).
package eval

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/hclstack/internal/errs"
)

// FragmentReader loads and evaluates a fragment out-of-band, returning
// an object value with "locals" and "inputs" attributes. The resolver
// implements this; the indirection keeps eval free of resolution order
// concerns and memoization.
type FragmentReader interface {
	ReadFragment(ctx context.Context, path string) (cty.Value, error)
}

// Scope holds the bindings visible to one fragment's expressions.
// A Scope is not safe for concurrent use; each resolution builds its own.
type Scope struct {
	ctx      context.Context
	fragPath string
	fragDir  string
	rootDir  string
	reader   FragmentReader

	locals   map[string]cty.Value
	includes map[string]cty.Value

	// funcErr captures the first typed error raised inside a builtin
	// function, since HCL flattens function errors into diagnostics and
	// we want to keep the taxonomy intact.
	funcErr error
}

// NewScope creates the evaluation scope for the fragment at fragPath.
// rootDir is the repository root the resolver discovered for this run.
func NewScope(ctx context.Context, fragPath, fragDir, rootDir string, reader FragmentReader) *Scope {
	return &Scope{
		ctx:      ctx,
		fragPath: fragPath,
		fragDir:  fragDir,
		rootDir:  rootDir,
		reader:   reader,
		locals:   make(map[string]cty.Value),
		includes: make(map[string]cty.Value),
	}
}

// Locals returns the evaluated locals as read-only bindings.
func (s *Scope) Locals() map[string]cty.Value {
	out := make(map[string]cty.Value, len(s.locals))
	for k, v := range s.locals {
		out[k] = v
	}
	return out
}

// SetInclude exposes a resolved include under include.<label> for
// expressions evaluated after that include's declaration.
func (s *Scope) SetInclude(label string, v cty.Value) {
	s.includes[label] = v
}

// evalContext builds a fresh hcl.EvalContext from the current bindings.
func (s *Scope) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"local":   BindingsObject(s.locals),
			"include": BindingsObject(s.includes),
		},
		Functions: s.functions(),
	}
}

// Value evaluates one expression against the scope. ref names what is
// being evaluated (e.g. "local.env", "include.root.path") so failures
// report the reference that could not be resolved.
func (s *Scope) Value(expr hcl.Expression, ref string) (cty.Value, error) {
	s.funcErr = nil
	val, diags := expr.Value(s.evalContext())
	if diags.HasErrors() {
		if s.funcErr != nil {
			return cty.NilVal, s.funcErr
		}
		return cty.NilVal, &errs.EvaluationError{
			Path:   s.fragPath,
			Ref:    ref,
			Detail: diags.Error(),
		}
	}
	return val, nil
}

// StringValue evaluates an expression that must produce a string.
func (s *Scope) StringValue(expr hcl.Expression, ref string) (string, error) {
	val, err := s.Value(expr, ref)
	if err != nil {
		return "", err
	}
	if val.IsNull() || val.Type() != cty.String {
		return "", &errs.EvaluationError{
			Path:   s.fragPath,
			Ref:    ref,
			Detail: "value must be a non-null string",
		}
	}
	return val.AsString(), nil
}

// EvaluateInputs evaluates the inputs attribute into a key/value map.
// A nil expression yields an empty map.
func (s *Scope) EvaluateInputs(expr hcl.Expression) (map[string]cty.Value, error) {
	if expr == nil {
		return map[string]cty.Value{}, nil
	}
	val, err := s.Value(expr, "inputs")
	if err != nil {
		return nil, err
	}
	if val.IsNull() {
		return map[string]cty.Value{}, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, &errs.EvaluationError{
			Path:   s.fragPath,
			Ref:    "inputs",
			Detail: fmt.Sprintf("inputs must be an object, got %s", val.Type().FriendlyName()),
		}
	}
	if val.LengthInt() == 0 {
		return map[string]cty.Value{}, nil
	}
	return val.AsValueMap(), nil
}

// BindingsObject wraps a binding map as a cty object, tolerating empty.
func BindingsObject(m map[string]cty.Value) cty.Value {
	if len(m) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(m)
}

// sortedNames returns the keys of m in lexical order, for deterministic
// evaluation and error reporting.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
