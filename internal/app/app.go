package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/registry"
)

// ErrNoLoader is returned when configuration files are given to an App built
// without a loader.
var ErrNoLoader = errors.New("no configuration loader")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   config.Loader
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// A nil loader restricts the App to built-in defaults.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.level, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "backends", reg.Names())

	if err := reg.ValidateRegistry(ctx); err != nil {
		// This is a programmer error (a module registered incorrectly), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   loader,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// withLogger attaches the app logger to ctx.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
