package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/nanopost/internal/submission"
)

// RegisteredSubmitter holds the constructor of a submission backend.
type RegisteredSubmitter struct {
	Description string
	New         func(ctx context.Context, opts Options) (submission.Submitter, error)
}

// RegisterSubmitter registers a submission backend under name.
func (r *Registry) RegisterSubmitter(name string, handler *RegisteredSubmitter) {
	if _, exists := r.Submitters[name]; exists {
		panic(fmt.Sprintf("submitter with name '%s' already registered", name))
	}
	slog.Debug("Registering submitter.", "name", name)
	r.Submitters[name] = handler
}
