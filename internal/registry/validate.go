package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
)

// ValidateRegistry checks that every registered backend can be constructed.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	if len(r.Submitters) == 0 {
		errs = append(errs, "no submission backends registered")
	}
	for _, name := range r.Names() {
		reg := r.Submitters[name]
		switch {
		case strings.TrimSpace(name) == "":
			errs = append(errs, "submitter registered with an empty name")
		case reg == nil:
			errs = append(errs, fmt.Sprintf("submitter '%s': registration is nil", name))
		case reg.New == nil:
			errs = append(errs, fmt.Sprintf("submitter '%s': constructor is nil", name))
		case reg.Description == "":
			logger.Warn("Submitter has no description.", "name", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
