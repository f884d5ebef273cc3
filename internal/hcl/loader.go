package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/componentry/internal/config"
	"github.com/vk/componentry/internal/ctxlog"
	"github.com/vk/componentry/internal/fragment"
	"github.com/vk/componentry/internal/fsutil"
	"github.com/vk/componentry/internal/lookup"
)

// Loader reads .hcl declaration documents and translates them into the
// format-agnostic config model.
type Loader struct {
	parser  *hclparse.Parser
	evalCtx *hcl.EvalContext
}

// NewLoader creates a loader whose expressions evaluate against the injected
// urls table.
func NewLoader(urls lookup.URLs) *Loader {
	return &Loader{
		parser:  hclparse.NewParser(),
		evalCtx: urls.EvalContext(),
	}
}

var _ config.Loader = (*Loader)(nil)

// LoadFragments reads every fragment document under path into a fresh store.
func (l *Loader) LoadFragments(ctx context.Context, path string) (*fragment.Store, error) {
	logger := ctxlog.FromContext(ctx)
	store := fragment.NewStore(l.evalCtx)

	if path == "" {
		logger.Debug("No fragments path configured, starting with an empty store.")
		return store, nil
	}

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk fragments path %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl fragment files found in path", "path", path)
		return store, nil
	}

	for _, filePath := range filePaths {
		file, diags := l.parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse fragment file %s: %w", filePath, diags)
		}
		if err := defineFragments(file, filePath, store); err != nil {
			return nil, err
		}
		logger.Debug("Loaded fragment definitions from file", "file", filePath)
	}

	logger.Info("Fragment store loaded.", "fragments", len(store.Names()))
	return store, nil
}

// LoadComponents reads every component declaration document under path.
func (l *Loader) LoadComponents(ctx context.Context, path string) ([]*config.Declaration, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to walk components path %s: %w", path, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl component files found in path", "path", path)
		return nil, nil
	}

	var decls []*config.Declaration
	for _, filePath := range filePaths {
		file, diags := l.parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse component file %s: %w", filePath, diags)
		}
		fileDecls, err := l.translateFile(file, filePath)
		if err != nil {
			return nil, err
		}
		decls = append(decls, fileDecls...)
		logger.Debug("Loaded component declarations from file", "file", filePath, "count", len(fileDecls))
	}

	logger.Info("Component declarations loaded.", "declarations", len(decls))
	return decls, nil
}
