package hcl

import (
	"context"
	_ "embed"

	"github.com/specialistvlad/nanopost/internal/config"
)

//go:embed defaults/nanoaod.hcl
var defaultCuts []byte

// DefaultCutsFilename is the name reported in diagnostics for the built-in
// cut configuration.
const DefaultCutsFilename = "defaults/nanoaod.hcl"

// LoadDefaults loads the built-in cut configuration.
func (l *Loader) LoadDefaults(ctx context.Context) (*config.Model, config.Converter, error) {
	return l.LoadSource(ctx, DefaultCutsFilename, defaultCuts)
}
