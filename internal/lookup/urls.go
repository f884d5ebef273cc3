package lookup

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// URLs maps short names to the URL strings that declaration expressions may
// reference as `urls.<name>`.
type URLs map[string]string

// LoadURLs reads a urls table from an HCL file of plain string attributes.
func LoadURLs(path string) (URLs, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse urls file %s: %w", path, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("urls file %s must contain only attributes: %w", path, diags)
	}

	urls := make(URLs, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("urls file %s: entry %q: %w", path, name, diags)
		}
		if val.Type() != cty.String {
			return nil, fmt.Errorf("urls file %s: entry %q must be a string", path, name)
		}
		urls[name] = val.AsString()
	}
	return urls, nil
}

// Variable returns the table as a cty object for use in an HCL evaluation
// context. An empty table still yields a valid (empty) object so that
// documents without url references evaluate unchanged.
func (u URLs) Variable() cty.Value {
	if len(u) == 0 {
		return cty.EmptyObjectVal
	}
	vals := make(map[string]cty.Value, len(u))
	for name, url := range u {
		vals[name] = cty.StringVal(url)
	}
	return cty.ObjectVal(vals)
}

// EvalContext builds the evaluation context shared by declaration and
// fragment expressions.
func (u URLs) EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"urls": u.Variable(),
		},
	}
}
