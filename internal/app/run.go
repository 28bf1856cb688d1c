package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/hclstack/internal/ctxlog"
	"github.com/specialistvlad/hclstack/internal/fragment"
	"github.com/specialistvlad/hclstack/internal/fsutil"
	"github.com/specialistvlad/hclstack/internal/generate"
	"github.com/specialistvlad/hclstack/internal/render"
	"github.com/specialistvlad/hclstack/internal/resolver"
)

// Run resolves every leaf named by the configuration. Leaves resolve
// concurrently but results are reported in sorted-path order, and one
// leaf's failure never aborts its siblings: all failures are aggregated
// and returned together at the end of the batch.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	leaves, err := fsutil.DiscoverLeaves(a.config.LeafArgs, fragment.FileName)
	if err != nil {
		return err
	}
	if len(leaves) == 0 {
		return fmt.Errorf("no leaf fragments found for %v", a.config.LeafArgs)
	}
	a.logger.Debug("Leaves discovered.", "count", len(leaves))

	res := resolver.New(fragment.NewLoader(), resolver.Options{RootDir: a.config.RootDir})

	// Fan out across leaves; each slot collects its own result or error
	// so a failing leaf cannot abort the others.
	results := make([]*resolver.Effective, len(leaves))
	failures := make([]error, len(leaves))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(a.config.WorkerCount)
	for i, leaf := range leaves {
		group.Go(func() error {
			eff, err := res.Resolve(groupCtx, leaf)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", leaf, err)
				return nil
			}
			results[i] = eff
			return nil
		})
	}
	// Workers never return errors, so Wait only propagates ctx cancellation.
	if err := group.Wait(); err != nil {
		return err
	}

	var batchErr *multierror.Error
	for i, leaf := range leaves {
		if failures[i] != nil {
			a.logger.Error("Leaf resolution failed.", "leaf", leaf, "error", failures[i])
			batchErr = multierror.Append(batchErr, failures[i])
			continue
		}
		if err := a.emit(ctx, results[i]); err != nil {
			batchErr = multierror.Append(batchErr, fmt.Errorf("%s: %w", leaf, err))
		}
	}

	a.logger.Debug("App.Run method finished.", "leaves", len(leaves), "failed", batchErr.ErrorOrNil() != nil)
	return batchErr.ErrorOrNil()
}

// emit renders one effective configuration and, when enabled,
// materializes its generate directives next to the leaf.
func (a *App) emit(ctx context.Context, eff *resolver.Effective) error {
	switch a.config.Format {
	case "hcl":
		if _, err := a.outW.Write(render.HCL(eff)); err != nil {
			return err
		}
	default:
		out, err := render.JSON(eff)
		if err != nil {
			return err
		}
		if _, err := a.outW.Write(out); err != nil {
			return err
		}
	}

	if a.config.Generate && len(eff.Generates) > 0 {
		if err := generate.Materialize(ctx, filepath.Dir(eff.Path), eff.Generates); err != nil {
			return err
		}
	}
	return nil
}
