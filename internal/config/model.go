package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/componentry/internal/fragment"
)

// UseRef is one ordered fragment reference inside a declaration.
type UseRef struct {
	// Fragment names the fragment store entry to resolve.
	Fragment string
	// At is the dotted field path the resolved fragment merges in at,
	// e.g. "configuration.auth".
	At string
	// Args fills the fragment's placeholders.
	Args map[string]cty.Value
}

// Declaration is the raw, not-yet-composed form of one component.
type Declaration struct {
	// ID is the unique component identifier, taken from the block label.
	ID string
	// Source is the file the declaration came from, for error reporting.
	Source string
	// Base is the declaration body translated into a partial record value.
	Base cty.Value
	// Uses are the fragment references, in document order.
	Uses []UseRef
}

// Loader is the interface for a format-specific declaration loader.
type Loader interface {
	// LoadFragments reads every fragment document under path into a fresh
	// store. An empty path yields an empty store.
	LoadFragments(ctx context.Context, path string) (*fragment.Store, error)

	// LoadComponents reads every component declaration document under path.
	LoadComponents(ctx context.Context, path string) ([]*Declaration, error)
}
