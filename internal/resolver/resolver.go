package resolver

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/hclstack/internal/ctxlog"
	"github.com/specialistvlad/hclstack/internal/errs"
	"github.com/specialistvlad/hclstack/internal/eval"
	"github.com/specialistvlad/hclstack/internal/fragment"
	"github.com/specialistvlad/hclstack/internal/generate"
	"github.com/specialistvlad/hclstack/internal/merge"
)

// Options configures a Resolver.
type Options struct {
	// RootDir anchors root-relative resolution for the whole run. When
	// empty, each fragment discovers the root by upward marker search
	// from its own directory.
	RootDir string
}

// Resolver computes effective configurations for leaf fragments. It is
// safe for concurrent use: a batch run resolves independent leaves in
// parallel while sharing the loader and the per-run fragment cache.
type Resolver struct {
	loader *fragment.Loader
	opts   Options
	cache  *cache
}

// New creates a Resolver with a fresh fragment cache.
func New(loader *fragment.Loader, opts Options) *Resolver {
	return &Resolver{
		loader: loader,
		opts:   opts,
		cache:  newCache(),
	}
}

// Resolve computes the effective configuration for the leaf fragment at
// leafPath. Resolution is stateless across calls: an unchanged tree
// always yields an identical result.
func (r *Resolver) Resolve(ctx context.Context, leafPath string) (*Effective, error) {
	res, err := r.resolve(ctx, leafPath, make(map[string]struct{}))
	if err != nil {
		return nil, err
	}
	return &Effective{
		Path:        res.path,
		Inputs:      res.inputs,
		Source:      res.source,
		RemoteState: res.remoteState,
		Generates:   res.generates,
	}, nil
}

// resolved is the memoized result for one fragment. All fields are
// effective values: includes have already been folded in.
type resolved struct {
	path        string
	locals      map[string]cty.Value
	inputs      map[string]cty.Value
	source      *ModuleSource
	remoteState *RemoteState
	generates   []generate.Directive
}

// resolve loads, evaluates, and merges one fragment. visiting carries the
// chain of fragments currently being resolved by this call stack, for
// include cycle detection.
func (r *Resolver) resolve(ctx context.Context, path string, visiting map[string]struct{}) (*resolved, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if res, ok := r.cache.get(abs); ok {
		return res, nil
	}
	if _, active := visiting[abs]; active {
		return nil, &errs.EvaluationError{
			Path:   abs,
			Ref:    "include",
			Detail: "fragment is part of an include cycle",
		}
	}
	visiting[abs] = struct{}{}
	defer delete(visiting, abs)

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving fragment.", "path", abs)

	frag, err := r.loader.Load(ctx, abs)
	if err != nil {
		return nil, err
	}

	scope := eval.NewScope(ctx, frag.Path, frag.Dir, r.opts.RootDir, &fragmentReader{
		resolver: r,
		baseDir:  frag.Dir,
		visiting: visiting,
	})

	if err := scope.EvaluateLocals(frag.LocalsBody); err != nil {
		return nil, err
	}

	// Resolve includes in declaration order. Each resolved include is
	// exposed to later expressions as include.<label>.
	included := make([]*resolved, 0, len(frag.Includes))
	for _, inc := range frag.Includes {
		ref := "include." + inc.Label + ".path"
		incPath, err := scope.StringValue(inc.PathExpr, ref)
		if err != nil {
			return nil, err
		}
		if !filepath.IsAbs(incPath) {
			incPath = filepath.Join(frag.Dir, incPath)
		}

		incRes, err := r.resolve(ctx, incPath, visiting)
		if err != nil {
			return nil, err
		}
		included = append(included, incRes)
		scope.SetInclude(inc.Label, cty.ObjectVal(map[string]cty.Value{
			"locals": eval.BindingsObject(incRes.locals),
			"inputs": eval.BindingsObject(incRes.inputs),
		}))
	}

	ownInputs, err := scope.EvaluateInputs(frag.InputsExpr)
	if err != nil {
		return nil, err
	}

	// Includes merge in declaration order, the leaf's own inputs last
	// with highest precedence.
	layers := make([]map[string]cty.Value, 0, len(included)+1)
	for _, inc := range included {
		layers = append(layers, inc.inputs)
	}
	layers = append(layers, ownInputs)

	source, err := r.effectiveSource(scope, frag, included)
	if err != nil {
		return nil, err
	}
	remoteState, err := r.effectiveRemoteState(scope, frag, included)
	if err != nil {
		return nil, err
	}
	generates, err := r.effectiveGenerates(scope, frag, included)
	if err != nil {
		return nil, err
	}

	res := &resolved{
		path:        abs,
		locals:      scope.Locals(),
		inputs:      merge.Inputs(layers...),
		source:      source,
		remoteState: remoteState,
		generates:   generates,
	}

	res = r.cache.put(abs, res)
	logger.Debug("Fragment resolved.", "path", abs, "inputs", len(res.inputs))
	return res, nil
}

// effectiveSource picks the module source walking leaf to root: the
// fragment's own declaration first, then includes from last to first.
func (r *Resolver) effectiveSource(scope *eval.Scope, frag *fragment.Fragment, included []*resolved) (*ModuleSource, error) {
	var own *ModuleSource
	if frag.Source != nil {
		module, err := scope.StringValue(frag.Source.ModuleExpr, "source.module")
		if err != nil {
			return nil, err
		}
		own = &ModuleSource{Module: module}
		if frag.Source.VersionExpr != nil {
			version, err := scope.StringValue(frag.Source.VersionExpr, "source.version")
			if err != nil {
				return nil, err
			}
			own.Version = version
		}
	}

	candidates := []*ModuleSource{own}
	for i := len(included) - 1; i >= 0; i-- {
		candidates = append(candidates, included[i].source)
	}
	return merge.FirstNonNil(candidates...), nil
}

// effectiveRemoteState mirrors effectiveSource for the remote-state
// declaration.
func (r *Resolver) effectiveRemoteState(scope *eval.Scope, frag *fragment.Fragment, included []*resolved) (*RemoteState, error) {
	var own *RemoteState
	if frag.RemoteState != nil {
		backend, err := scope.StringValue(frag.RemoteState.BackendExpr, "remote_state.backend")
		if err != nil {
			return nil, err
		}
		config, err := scope.Value(frag.RemoteState.ConfigExpr, "remote_state.config")
		if err != nil {
			return nil, err
		}
		own = &RemoteState{Backend: backend, Config: config}
	}

	candidates := []*RemoteState{own}
	for i := len(included) - 1; i >= 0; i-- {
		candidates = append(candidates, included[i].remoteState)
	}
	return merge.FirstNonNil(candidates...), nil
}

// effectiveGenerates combines inherited and own generate directives. Own
// definitions shadow inherited ones of the same name; the result is
// ordered by name so output is deterministic.
func (r *Resolver) effectiveGenerates(scope *eval.Scope, frag *fragment.Fragment, included []*resolved) ([]generate.Directive, error) {
	byName := make(map[string]generate.Directive)
	for _, inc := range included {
		for _, d := range inc.generates {
			byName[d.Name] = d
		}
	}

	for _, gen := range frag.Generates {
		ref := "generate." + gen.Name
		target, err := scope.StringValue(gen.PathExpr, ref+".path")
		if err != nil {
			return nil, err
		}
		contents, err := scope.StringValue(gen.ContentsExpr, ref+".contents")
		if err != nil {
			return nil, err
		}

		policy := generate.PolicyError
		if gen.IfExistsExpr != nil {
			policyStr, err := scope.StringValue(gen.IfExistsExpr, ref+".if_exists")
			if err != nil {
				return nil, err
			}
			policy, err = generate.ParsePolicy(policyStr)
			if err != nil {
				return nil, &errs.ParseError{Path: frag.Path, Err: err}
			}
		}

		byName[gen.Name] = generate.Directive{
			Name:     gen.Name,
			Path:     target,
			Policy:   policy,
			Contents: contents,
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]generate.Directive, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out, nil
}

// fragmentReader adapts the resolver to eval.FragmentReader so that
// read_fragment() resolves through the same loader and cache as include
// declarations, with the caller's cycle chain intact.
type fragmentReader struct {
	resolver *Resolver
	baseDir  string
	visiting map[string]struct{}
}

func (fr *fragmentReader) ReadFragment(ctx context.Context, path string) (cty.Value, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(fr.baseDir, path)
	}
	res, err := fr.resolver.resolve(ctx, path, fr.visiting)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.ObjectVal(map[string]cty.Value{
		"locals": eval.BindingsObject(res.locals),
		"inputs": eval.BindingsObject(res.inputs),
	}), nil
}
