// Package hclval translates arbitrary HCL bodies into nested cty values.
//
// Declaration documents and fragment bodies share one structural convention:
// attributes become object attributes, unlabeled blocks become nested
// objects, and labeled blocks become entries of a nested object keyed by
// their labels. Repeated unlabeled blocks of the same type merge in document
// order. The resulting values are what the compose and validate packages
// operate on, so nothing downstream ever touches HCL syntax directly.
package hclval

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/compose"
)

// FromBody evaluates an HCL body into a nested cty object value using the
// given evaluation context. Only native HCL syntax bodies are supported; the
// loader never hands anything else in.
func FromBody(body hcl.Body, ctx *hcl.EvalContext) (cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported body syntax",
			Detail:   "Declaration bodies must use native HCL syntax.",
		})
		return cty.EmptyObjectVal, diags
	}

	attrs := map[string]cty.Value{}

	names := make([]string, 0, len(syntaxBody.Attributes))
	for name := range syntaxBody.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		val, valDiags := syntaxBody.Attributes[name].Expr.Value(ctx)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		attrs[name] = val
	}

	for _, block := range syntaxBody.Blocks {
		blockVal, blockDiags := FromBody(block.Body, ctx)
		diags = append(diags, blockDiags...)
		if blockDiags.HasErrors() {
			continue
		}

		// Labels nest the block value inside single-key objects, so
		// `option "endpoints" {...}` lands at option.endpoints.
		for i := len(block.Labels) - 1; i >= 0; i-- {
			blockVal = cty.ObjectVal(map[string]cty.Value{block.Labels[i]: blockVal})
		}

		if existing, ok := attrs[block.Type]; ok {
			attrs[block.Type] = compose.Merge(existing, blockVal)
		} else {
			attrs[block.Type] = blockVal
		}
	}

	if len(attrs) == 0 {
		return cty.EmptyObjectVal, diags
	}
	return cty.ObjectVal(attrs), diags
}

// RequiredArgs reports the distinct `args.<name>` placeholders referenced
// anywhere inside the body, sorted by name. A fragment cannot be resolved
// unless the caller supplies a value for each of them.
func RequiredArgs(body hcl.Body) []string {
	syntaxBody, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil
	}

	seen := map[string]struct{}{}
	collectArgs(syntaxBody, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectArgs(body *hclsyntax.Body, seen map[string]struct{}) {
	for _, attr := range body.Attributes {
		for _, traversal := range attr.Expr.Variables() {
			if traversal.RootName() != "args" || len(traversal) < 2 {
				continue
			}
			if step, ok := traversal[1].(hcl.TraverseAttr); ok {
				seen[step.Name] = struct{}{}
			}
		}
	}
	for _, block := range body.Blocks {
		collectArgs(block.Body, seen)
	}
}
