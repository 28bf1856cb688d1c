// Package render turns an effective configuration into consumer-facing
// output. Rendering is pure: both formats are deterministic functions of
// the effective configuration, with object keys in lexical order, so
// re-running an unchanged tree produces byte-identical output.
package render

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/specialistvlad/hclstack/internal/eval"
	"github.com/specialistvlad/hclstack/internal/resolver"
)

// JSON renders the effective configuration as a single JSON document.
func JSON(eff *resolver.Effective) ([]byte, error) {
	doc := map[string]cty.Value{
		"inputs": eval.BindingsObject(eff.Inputs),
	}
	if eff.Source != nil {
		doc["source"] = cty.ObjectVal(map[string]cty.Value{
			"module":  cty.StringVal(eff.Source.Module),
			"version": cty.StringVal(eff.Source.Version),
		})
	}
	if eff.RemoteState != nil {
		doc["remote_state"] = cty.ObjectVal(map[string]cty.Value{
			"backend": cty.StringVal(eff.RemoteState.Backend),
			"config":  eff.RemoteState.Config,
		})
	}

	obj := cty.ObjectVal(doc)
	out, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s as JSON: %w", eff.Path, err)
	}
	return append(out, '\n'), nil
}

// HCL renders the effective configuration as an HCL document mirroring
// the fragment syntax, with all expressions replaced by their resolved
// values.
func HCL(eff *resolver.Effective) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if eff.Source != nil {
		block := body.AppendNewBlock("source", nil)
		block.Body().SetAttributeValue("module", cty.StringVal(eff.Source.Module))
		if eff.Source.Version != "" {
			block.Body().SetAttributeValue("version", cty.StringVal(eff.Source.Version))
		}
		body.AppendNewline()
	}

	if eff.RemoteState != nil {
		block := body.AppendNewBlock("remote_state", nil)
		block.Body().SetAttributeValue("backend", cty.StringVal(eff.RemoteState.Backend))
		block.Body().SetAttributeValue("config", eff.RemoteState.Config)
		body.AppendNewline()
	}

	body.SetAttributeValue("inputs", eval.BindingsObject(eff.Inputs))

	var buf bytes.Buffer
	buf.Write(hclwrite.Format(f.Bytes()))
	return buf.Bytes()
}
