package eval

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/specialistvlad/hclstack/internal/pathres"
)

// functions builds the function table for this scope. Position-dependent
// builtins close over the fragment's directory, so a shared fragment
// evaluates them relative to wherever it was included from.
func (s *Scope) functions() map[string]function.Function {
	funcs := map[string]function.Function{
		// Curated cty stdlib subset.
		"format":    stdlib.FormatFunc,
		"lower":     stdlib.LowerFunc,
		"upper":     stdlib.UpperFunc,
		"trimspace": stdlib.TrimSpaceFunc,
		"join":      stdlib.JoinFunc,
		"split":     stdlib.SplitFunc,
		"concat":    stdlib.ConcatFunc,
		"merge":     stdlib.MergeFunc,
		"coalesce":  stdlib.CoalesceFunc,
	}

	funcs["find_in_parent_folders"] = function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			found, err := pathres.FindInParentFolders(s.fragDir, args[0].AsString())
			if err != nil {
				return cty.NilVal, s.capture(err)
			}
			return cty.StringVal(found), nil
		},
	})

	funcs["get_repo_root"] = function.New(&function.Spec{
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			if s.rootDir != "" {
				return cty.StringVal(s.rootDir), nil
			}
			root, err := pathres.FindRepoRoot(s.fragDir)
			if err != nil {
				return cty.NilVal, s.capture(err)
			}
			return cty.StringVal(root), nil
		},
	})

	funcs["get_dir_name"] = dirNameFunc(s.fragDir, pathres.DirName)
	funcs["get_parent_dir_name"] = dirNameFunc(s.fragDir, pathres.ParentDirName)
	funcs["get_grandparent_dir_name"] = dirNameFunc(s.fragDir, pathres.GrandparentDirName)

	funcs["read_fragment"] = function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			val, err := s.reader.ReadFragment(s.ctx, args[0].AsString())
			if err != nil {
				return cty.NilVal, s.capture(err)
			}
			return val, nil
		},
	})

	return funcs
}

// capture records the first typed error raised inside a builtin before it
// is flattened into HCL diagnostics, so Value can surface it intact.
func (s *Scope) capture(err error) error {
	if s.funcErr == nil {
		s.funcErr = err
	}
	return err
}

func dirNameFunc(dir string, f func(string) string) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(f(dir)), nil
		},
	})
}
