package config

import (
	"context"

	"github.com/specialistvlad/nanopost/internal/cutflow"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories, merges
	// it into a single model and returns a matching Converter.
	Load(ctx context.Context, paths ...string) (*Model, Converter, error)
	// LoadDefaults returns the configuration compiled into the binary.
	LoadDefaults(ctx context.Context) (*Model, Converter, error)
}

// Converter turns format-specific parts of the model into runtime values.
type Converter interface {
	// Predicate compiles a cut definition into a predicate over events.
	Predicate(ctx context.Context, def *CutDefinition) (cutflow.Predicate, error)
}

// CompileCuts compiles every cut definition of the model, in declaration order.
func (m *Model) CompileCuts(ctx context.Context, conv Converter) ([]cutflow.Cut, error) {
	cuts := make([]cutflow.Cut, 0, len(m.Cuts))
	for _, def := range m.Cuts {
		pred, err := conv.Predicate(ctx, def)
		if err != nil {
			return nil, err
		}
		cuts = append(cuts, cutflow.Cut{Name: def.Name, Pass: pred})
	}
	return cuts, nil
}

// AccountantOptions converts the cutflow settings into accountant options.
func (m *Model) AccountantOptions() (cutflow.Options, error) {
	var opts cutflow.Options
	s := m.Cutflow
	if s == nil {
		return opts, nil
	}
	det, err := cutflow.ParseDetection(s.Detection)
	if err != nil {
		return opts, err
	}
	mode, err := cutflow.ParseCountMode(s.CountMode)
	if err != nil {
		return opts, err
	}
	opts.Detection = det
	opts.CountMode = mode
	opts.WeightField = s.WeightField
	if s.PerFile != nil {
		opts.PerFile = *s.PerFile
	}
	if s.WeightDefault != nil {
		w := *s.WeightDefault
		opts.WeightDefault = &w
	}
	return opts, nil
}
