// Package generate materializes the derived artifacts a fragment
// declares, honoring each directive's collision policy.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/hclstack/internal/ctxlog"
	"github.com/specialistvlad/hclstack/internal/errs"
)

// Policy decides what happens when a generation target already exists.
type Policy string

const (
	// PolicySkip leaves an existing target untouched.
	PolicySkip Policy = "skip"
	// PolicyOverwrite replaces an existing target.
	PolicyOverwrite Policy = "overwrite"
	// PolicyError fails with a ConflictError if the target exists.
	PolicyError Policy = "error"
)

// ParsePolicy validates a policy string. The empty string defaults to
// PolicyError, the safest choice for unmanaged files.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicySkip, PolicyOverwrite, PolicyError:
		return Policy(s), nil
	case "":
		return PolicyError, nil
	default:
		return "", fmt.Errorf("invalid if_exists policy %q: must be 'skip', 'overwrite', or 'error'", s)
	}
}

// Directive is one fully evaluated generate block: all expressions have
// been resolved against the leaf's scope and the content is emitted
// verbatim.
type Directive struct {
	Name     string
	Path     string
	Policy   Policy
	Contents string
}

// Materialize writes each directive's contents at its target path,
// resolved relative to outDir (the leaf fragment's directory). It stops
// at the first failure.
func Materialize(ctx context.Context, outDir string, directives []Directive) error {
	logger := ctxlog.FromContext(ctx)

	for _, d := range directives {
		target := d.Path
		if !filepath.IsAbs(target) {
			target = filepath.Join(outDir, target)
		}

		_, statErr := os.Stat(target)
		exists := statErr == nil

		if exists {
			switch d.Policy {
			case PolicySkip:
				logger.Debug("Generation target exists, skipping.", "generate", d.Name, "target", target)
				continue
			case PolicyError:
				return &errs.ConflictError{Target: target}
			}
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
		if err := os.WriteFile(target, []byte(d.Contents), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		logger.Debug("Generation target written.", "generate", d.Name, "target", target, "bytes", len(d.Contents))
	}
	return nil
}
