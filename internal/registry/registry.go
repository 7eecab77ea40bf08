package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/submission"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Options are passed to every submitter constructor.
type Options struct {
	// WorkArea is the local directory that holds per-request artifacts.
	WorkArea string
	// Command overrides the external client executable, if the backend uses one.
	Command string
}

// Registry holds all the registered submission backends for a single
// application instance.
type Registry struct {
	Submitters map[string]*RegisteredSubmitter
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		Submitters: make(map[string]*RegisteredSubmitter),
	}
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Submitters))
	for name := range r.Submitters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSubmitter builds the backend registered under name.
func (r *Registry) NewSubmitter(ctx context.Context, name string, opts Options) (submission.Submitter, error) {
	reg, ok := r.Submitters[name]
	if !ok {
		return nil, fmt.Errorf("unknown submission backend %q (available: %v)", name, r.Names())
	}
	ctxlog.FromContext(ctx).Debug("Creating submission backend.", "backend", name, "work_area", opts.WorkArea)
	s, err := reg.New(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission backend %q: %w", name, err)
	}
	return s, nil
}
