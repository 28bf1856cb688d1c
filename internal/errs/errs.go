// Package errs defines the error taxonomy shared by the resolution
// pipeline. Every failure a caller may want to distinguish is one of the
// four types below; everything else is wrapped context.
//
// All types are matchable with errors.As, and each carries the location
// that makes an include chain debuggable: the fragment (or search start)
// it relates to and the specific name or reference that failed.
package errs

import "fmt"

// NotFoundError reports a missing fragment, a missing ancestor-searched
// marker file, or a missing root-relative target.
type NotFoundError struct {
	// Name is the file or path that could not be located.
	Name string
	// Start is where the lookup began: a fragment path for direct loads,
	// or the directory an ancestor search started from.
	Start string
}

func (e *NotFoundError) Error() string {
	if e.Start == "" {
		return fmt.Sprintf("%s: not found", e.Name)
	}
	return fmt.Sprintf("%s: not found (searched from %s)", e.Name, e.Start)
}

// ParseError reports malformed fragment syntax or structure.
type ParseError struct {
	// Path is the fragment file that failed to parse.
	Path string
	// Err holds the underlying parser diagnostics.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EvaluationError reports an undefined or circular reference encountered
// while evaluating a fragment's expressions.
type EvaluationError struct {
	// Path is the fragment being evaluated.
	Path string
	// Ref is the reference or local name that could not be resolved.
	Ref string
	// Detail is a human-readable explanation.
	Detail string
	// Suggestion, when non-empty, names an existing binding the user may
	// have meant.
	Suggestion string
}

func (e *EvaluationError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Path, e.Ref, e.Detail)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// ConflictError reports a generation target that already exists under the
// "error" collision policy.
type ConflictError struct {
	// Target is the path that already exists.
	Target string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: generation target already exists", e.Target)
}
