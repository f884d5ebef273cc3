package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/config"
	"github.com/vk/componentry/internal/fragment"
	"github.com/vk/componentry/internal/hclval"
)

// fragmentRootSchema expects one or more 'fragment' blocks per document.
type fragmentRootSchema struct {
	Fragments []*hclFragment `hcl:"fragment,block"`
}

type hclFragment struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// componentRootSchema expects one or more 'component' blocks per document.
type componentRootSchema struct {
	Components []*hclComponent `hcl:"component,block"`
}

type hclComponent struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// defineFragments registers every fragment block of a parsed file.
func defineFragments(file *hcl.File, filePath string, store *fragment.Store) error {
	root := &fragmentRootSchema{}
	if diags := gohcl.DecodeBody(file.Body, nil, root); diags.HasErrors() {
		return fmt.Errorf("failed to decode fragment file %s: %w", filePath, diags)
	}
	for _, frag := range root.Fragments {
		if err := store.Define(frag.Name, frag.Body); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}
	}
	return nil
}

// translateFile converts every component block of a parsed file into a
// declaration.
func (l *Loader) translateFile(file *hcl.File, filePath string) ([]*config.Declaration, error) {
	root := &componentRootSchema{}
	if diags := gohcl.DecodeBody(file.Body, nil, root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode component file %s: %w", filePath, diags)
	}

	decls := make([]*config.Declaration, 0, len(root.Components))
	for _, comp := range root.Components {
		decl, err := l.translateComponent(comp, filePath)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// translateComponent splits a component body into its fragment references and
// its base partial record value.
func (l *Loader) translateComponent(comp *hclComponent, filePath string) (*config.Declaration, error) {
	syntaxBody, ok := comp.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: component %q: declaration bodies must use native HCL syntax", filePath, comp.ID)
	}

	var uses []config.UseRef
	baseBlocks := make([]*hclsyntax.Block, 0, len(syntaxBody.Blocks))
	for _, block := range syntaxBody.Blocks {
		if block.Type != "use" {
			baseBlocks = append(baseBlocks, block)
			continue
		}
		use, err := l.translateUse(block, comp.ID, filePath)
		if err != nil {
			return nil, err
		}
		uses = append(uses, use)
	}

	baseBody := &hclsyntax.Body{
		Attributes: syntaxBody.Attributes,
		Blocks:     baseBlocks,
		SrcRange:   syntaxBody.SrcRange,
		EndRange:   syntaxBody.EndRange,
	}
	base, diags := hclval.FromBody(baseBody, l.evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: component %q: %w", filePath, comp.ID, diags)
	}

	return &config.Declaration{
		ID:     comp.ID,
		Source: filePath,
		Base:   base,
		Uses:   uses,
	}, nil
}

// translateUse decodes one `use "<fragment>" { at = ...; args = {...} }`
// block.
func (l *Loader) translateUse(block *hclsyntax.Block, componentID, filePath string) (config.UseRef, error) {
	if len(block.Labels) != 1 {
		return config.UseRef{}, fmt.Errorf("%s: component %q: use blocks take exactly one label naming the fragment", filePath, componentID)
	}
	use := config.UseRef{Fragment: block.Labels[0]}

	for name, attr := range block.Body.Attributes {
		switch name {
		case "at":
			val, diags := attr.Expr.Value(l.evalCtx)
			if diags.HasErrors() || val.Type() != cty.String {
				return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: 'at' must be a dotted field path string", filePath, componentID, use.Fragment)
			}
			use.At = val.AsString()
		case "args":
			val, diags := attr.Expr.Value(l.evalCtx)
			if diags.HasErrors() {
				return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: failed to evaluate args: %w", filePath, componentID, use.Fragment, diags)
			}
			if !val.Type().IsObjectType() && !val.Type().IsMapType() {
				return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: 'args' must be an object", filePath, componentID, use.Fragment)
			}
			if val.LengthInt() > 0 {
				use.Args = val.AsValueMap()
			}
		default:
			return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: unsupported attribute %q", filePath, componentID, use.Fragment, name)
		}
	}
	if len(block.Body.Blocks) > 0 {
		return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: nested blocks are not allowed", filePath, componentID, use.Fragment)
	}

	if use.At == "" {
		return config.UseRef{}, fmt.Errorf("%s: component %q: use %q: missing required attribute 'at'", filePath, componentID, use.Fragment)
	}
	return use, nil
}
