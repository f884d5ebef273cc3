package fragment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/hclval"
)

// Sentinel errors for the composition-time failure taxonomy.
var (
	ErrDuplicateFragment = errors.New("fragment already defined")
	ErrUnknownFragment   = errors.New("unknown fragment")
	ErrMissingArgument   = errors.New("missing fragment argument")
)

// Fragment is one named partial record held in its unevaluated form.
type Fragment struct {
	Name string
	Body hcl.Body

	// params are the args.<name> placeholders the body references, derived
	// once at definition time.
	params []string
}

// Params returns the argument names the fragment requires, sorted.
func (f *Fragment) Params() []string {
	return f.params
}

// Store holds the fragment library for one generation run. It is populated
// while loading and read-only afterwards, so resolution is safe from
// concurrent validators.
type Store struct {
	baseCtx   *hcl.EvalContext
	fragments map[string]*Fragment
}

// NewStore creates an empty store whose fragments will be evaluated against
// the given base context (the injected urls table).
func NewStore(baseCtx *hcl.EvalContext) *Store {
	return &Store{
		baseCtx:   baseCtx,
		fragments: make(map[string]*Fragment),
	}
}

// Define registers a fragment body under a unique name.
func (s *Store) Define(name string, body hcl.Body) error {
	if _, exists := s.fragments[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateFragment, name)
	}
	s.fragments[name] = &Fragment{
		Name:   name,
		Body:   body,
		params: hclval.RequiredArgs(body),
	}
	return nil
}

// Has reports whether a fragment with the given name is defined. The
// validator uses this to check inline passthrough references.
func (s *Store) Has(name string) bool {
	_, ok := s.fragments[name]
	return ok
}

// Names returns the defined fragment names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.fragments))
	for name := range s.fragments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve expands the named fragment with the supplied arguments and returns
// the resulting partial record value. Every placeholder the body references
// must have a corresponding argument; extra arguments are ignored.
func (s *Store) Resolve(name string, args map[string]cty.Value) (cty.Value, error) {
	frag, ok := s.fragments[name]
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownFragment, name)
	}

	for _, param := range frag.params {
		if _, ok := args[param]; !ok {
			return cty.NilVal, fmt.Errorf("%w: fragment %q requires %q", ErrMissingArgument, name, param)
		}
	}

	ctx := s.baseCtx.NewChild()
	ctx.Variables = map[string]cty.Value{}
	if len(args) > 0 {
		ctx.Variables["args"] = cty.ObjectVal(args)
	}

	val, diags := hclval.FromBody(frag.Body, ctx)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to expand fragment %q: %w", name, diags)
	}
	return val, nil
}
