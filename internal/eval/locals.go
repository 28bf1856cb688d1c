package eval

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"

	"github.com/specialistvlad/hclstack/internal/errs"
)

// EvaluateLocals evaluates a locals body in dependency order and installs
// the results as read-only bindings on the scope. A local may reference
// any other local in the same mapping regardless of declaration order;
// undefined and circular references are EvaluationErrors.
func (s *Scope) EvaluateLocals(body hcl.Body) error {
	if body == nil {
		return nil
	}

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return &errs.ParseError{Path: s.fragPath, Err: diags}
	}
	if len(attrs) == 0 {
		return nil
	}

	names := sortedNames(attrs)

	// Collect local-to-local references per attribute. Only traversals
	// rooted at "local" participate in ordering; function calls and
	// include references are resolved at evaluation time.
	deps := make(map[string][]string, len(attrs))
	for _, name := range names {
		for _, traversal := range attrs[name].Expr.Variables() {
			if traversal.RootName() != "local" {
				continue
			}
			if len(traversal) < 2 {
				continue
			}
			step, ok := traversal[1].(hcl.TraverseAttr)
			if !ok {
				continue
			}
			if _, defined := attrs[step.Name]; !defined {
				return &errs.EvaluationError{
					Path:       s.fragPath,
					Ref:        "local." + step.Name,
					Detail:     fmt.Sprintf("referenced from local.%s but not defined in this fragment", name),
					Suggestion: NameSuggestion(step.Name, names),
				}
			}
			deps[name] = append(deps[name], step.Name)
		}
	}

	order, cycle := topoOrder(names, deps)
	if len(cycle) > 0 {
		return &errs.EvaluationError{
			Path:   s.fragPath,
			Ref:    "local." + cycle[0],
			Detail: "circular reference: " + cycleString(cycle),
		}
	}

	for _, name := range order {
		val, err := s.Value(attrs[name].Expr, "local."+name)
		if err != nil {
			return err
		}
		s.locals[name] = val
	}
	return nil
}

// topoOrder returns names in an order where every name appears after its
// dependencies. Ties break lexically since names is sorted. If a cycle
// exists it is returned instead, as the chain of names forming it.
func topoOrder(names []string, deps map[string][]string) (order []string, cycle []string) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(names))
	var stack []string

	var visit func(name string) []string
	visit = func(name string) []string {
		switch state[name] {
		case done:
			return nil
		case visiting:
			// Trim the stack to the start of the cycle.
			for i, n := range stack {
				if n == name {
					return append(append([]string{}, stack[i:]...), name)
				}
			}
			return []string{name, name}
		}
		state[name] = visiting
		stack = append(stack, name)
		for _, dep := range deps[name] {
			if c := visit(dep); c != nil {
				return c
			}
		}
		stack = stack[:len(stack)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if c := visit(name); c != nil {
			return nil, c
		}
	}
	return order, nil
}

func cycleString(cycle []string) string {
	parts := make([]string, len(cycle))
	for i, name := range cycle {
		parts[i] = "local." + name
	}
	return strings.Join(parts, " -> ")
}
