package fragment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/hclstack/internal/ctxlog"
	"github.com/specialistvlad/hclstack/internal/errs"
)

// fileSchema describes the top-level structure of a fragment file.
var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "inputs"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "locals"},
		{Type: "include", LabelNames: []string{"label"}},
		{Type: "source"},
		{Type: "remote_state"},
		{Type: "generate", LabelNames: []string{"name"}},
	},
}

var includeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "path", Required: true},
	},
}

var sourceSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "module", Required: true},
		{Name: "version"},
	},
}

var remoteStateSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "backend", Required: true},
		{Name: "config", Required: true},
	},
}

var generateSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "path", Required: true},
		{Name: "contents", Required: true},
		{Name: "if_exists"},
	},
}

// Loader parses fragment files into their structural model. A single
// Loader may be shared across concurrent resolutions; the underlying
// parser caches file contents and is guarded by a mutex.
type Loader struct {
	mu     sync.Mutex
	parser *hclparse.Parser
}

// NewLoader creates a new fragment loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads and parses the fragment at the given path. The path does not
// have to sit on the caller's ancestor chain: cross-tree references load
// through the same entry point. Returns a NotFoundError if the file is
// missing, or a ParseError on malformed syntax or structure.
func (l *Loader) Load(ctx context.Context, path string) (*Fragment, error) {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(abs); err != nil || info.IsDir() {
		return nil, &errs.NotFoundError{Name: abs}
	}

	l.mu.Lock()
	hclFile, diags := l.parser.ParseHCLFile(abs)
	l.mu.Unlock()
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: abs, Err: diags}
	}
	logger.Debug("Fragment parsed.", "path", abs)

	content, diags := hclFile.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: abs, Err: diags}
	}

	frag := &Fragment{
		Path: abs,
		Dir:  filepath.Dir(abs),
	}
	if attr, ok := content.Attributes["inputs"]; ok {
		frag.InputsExpr = attr.Expr
	}

	seenLabels := make(map[string]struct{})
	for _, block := range content.Blocks {
		switch block.Type {
		case "locals":
			if frag.LocalsBody != nil {
				return nil, &errs.ParseError{Path: abs, Err: duplicateBlockErr(block)}
			}
			frag.LocalsBody = block.Body

		case "include":
			label := block.Labels[0]
			if _, dup := seenLabels[label]; dup {
				return nil, &errs.ParseError{
					Path: abs,
					Err:  fmt.Errorf("duplicate include label %q at %s", label, block.DefRange),
				}
			}
			seenLabels[label] = struct{}{}

			inc, err := decodeInclude(abs, block)
			if err != nil {
				return nil, err
			}
			frag.Includes = append(frag.Includes, inc)

		case "source":
			if frag.Source != nil {
				return nil, &errs.ParseError{Path: abs, Err: duplicateBlockErr(block)}
			}
			src, err := decodeSource(abs, block)
			if err != nil {
				return nil, err
			}
			frag.Source = src

		case "remote_state":
			if frag.RemoteState != nil {
				return nil, &errs.ParseError{Path: abs, Err: duplicateBlockErr(block)}
			}
			rs, err := decodeRemoteState(abs, block)
			if err != nil {
				return nil, err
			}
			frag.RemoteState = rs

		case "generate":
			gen, err := decodeGenerate(abs, block)
			if err != nil {
				return nil, err
			}
			frag.Generates = append(frag.Generates, gen)
		}
	}

	logger.Debug("Fragment loaded.",
		"path", abs,
		"includes", len(frag.Includes),
		"generates", len(frag.Generates),
	)
	return frag, nil
}

func duplicateBlockErr(block *hcl.Block) error {
	return fmt.Errorf("duplicate %q block at %s; only one is allowed", block.Type, block.DefRange)
}

func decodeInclude(path string, block *hcl.Block) (*Include, error) {
	content, diags := block.Body.Content(includeSchema)
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: path, Err: diags}
	}
	return &Include{
		Label:    block.Labels[0],
		PathExpr: content.Attributes["path"].Expr,
		DefRange: block.DefRange,
	}, nil
}

func decodeSource(path string, block *hcl.Block) (*Source, error) {
	content, diags := block.Body.Content(sourceSchema)
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: path, Err: diags}
	}
	src := &Source{ModuleExpr: content.Attributes["module"].Expr}
	if attr, ok := content.Attributes["version"]; ok {
		src.VersionExpr = attr.Expr
	}
	return src, nil
}

func decodeRemoteState(path string, block *hcl.Block) (*RemoteState, error) {
	content, diags := block.Body.Content(remoteStateSchema)
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: path, Err: diags}
	}
	return &RemoteState{
		BackendExpr: content.Attributes["backend"].Expr,
		ConfigExpr:  content.Attributes["config"].Expr,
	}, nil
}

func decodeGenerate(path string, block *hcl.Block) (*Generate, error) {
	content, diags := block.Body.Content(generateSchema)
	if diags.HasErrors() {
		return nil, &errs.ParseError{Path: path, Err: diags}
	}
	gen := &Generate{
		Name:         block.Labels[0],
		PathExpr:     content.Attributes["path"].Expr,
		ContentsExpr: content.Attributes["contents"].Expr,
		DefRange:     block.DefRange,
	}
	if attr, ok := content.Attributes["if_exists"]; ok {
		gen.IfExistsExpr = attr.Expr
	}
	return gen, nil
}
