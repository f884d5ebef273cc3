package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/componentry/internal/config"
	"github.com/vk/componentry/internal/ctxlog"
	"github.com/vk/componentry/internal/dump"
	"github.com/vk/componentry/internal/lookup"
	"github.com/vk/componentry/internal/registry"
	"github.com/vk/componentry/internal/validate"
)

// App encapsulates one generation run's dependencies and lifecycle.
type App struct {
	outW      io.Writer
	errW      io.Writer
	logger    *slog.Logger
	cfg       *Config
	loader    config.Loader
	platforms *lookup.Platforms

	registry *registry.Registry
}

// NewApp constructs an App with its own isolated logger.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader, platforms *lookup.Platforms) *App {
	return &App{
		outW:      outW,
		errW:      errW,
		logger:    newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		cfg:       cfg,
		loader:    loader,
		platforms: platforms,
	}
}

// Registry returns the registry built by the last run. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run executes one generation pass. It returns an error if any declaration
// fails composition or validation; in that case every violation has already
// been written to the error writer and no export is produced.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	store, err := a.loader.LoadFragments(ctx, a.cfg.FragmentsPath)
	if err != nil {
		return err
	}

	decls, err := a.loader.LoadComponents(ctx, a.cfg.ComponentsPath)
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		return fmt.Errorf("no component declarations found under %s", a.cfg.ComponentsPath)
	}

	a.registry = registry.New(store, validate.New(store, a.platforms))

	failed, err := a.registerAll(ctx, decls)
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		dump.WriteReports(a.errW, failed)
		return fmt.Errorf("%d of %d component records failed validation", len(failed), len(decls))
	}

	a.logger.Info("Registry frozen.", "components", a.registry.Len())
	if a.cfg.CheckOnly {
		return nil
	}
	return a.export()
}

// registerAll validates and registers declarations on a bounded worker pool.
// Validation is read-only over the fragment store, so records proceed in
// parallel; the registry serializes insertion itself.
func (a *App) registerAll(ctx context.Context, decls []*config.Declaration) ([]*validate.Report, error) {
	var mu sync.Mutex
	var failed []*validate.Report

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)

	for _, decl := range decls {
		decl := decl
		g.Go(func() error {
			report, err := a.registry.Register(ctx, decl)
			if err != nil {
				return err
			}
			if !report.Valid() {
				mu.Lock()
				failed = append(failed, report)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deterministic error listings regardless of worker scheduling.
	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })
	return failed, nil
}

// export writes the frozen registry to the configured destination.
func (a *App) export() error {
	out := a.outW
	if a.cfg.OutputPath != "" {
		f, err := os.Create(a.cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	records := a.registry.List()
	if a.cfg.Format == "yaml" {
		return dump.YAML(out, records)
	}
	return dump.JSON(out, records)
}
