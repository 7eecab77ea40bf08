package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nanopost/internal/dataset"
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/internal/submission"
)

// DefaultBackend is used when SubmitConfig.Backend is empty.
const DefaultBackend = "crab"

// Submit reads the dataset list and submits one request per dataset.
// Individual submission failures are part of the report, not the error.
func (a *App) Submit(ctx context.Context, c SubmitConfig) (*submission.Report, error) {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Submit started.", "list", c.DatasetListFile, "backend", c.Backend)

	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	datasets, err := dataset.ReadList(c.DatasetListFile)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Dataset list loaded.", "file", c.DatasetListFile, "datasets", len(datasets))

	tmpl := submission.DefaultTemplate()
	if len(c.ConfigPaths) > 0 {
		if a.loader == nil {
			return nil, fmt.Errorf("cannot read %v: %w", c.ConfigPaths, ErrNoLoader)
		}
		model, _, err := a.loader.Load(ctx, c.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		tmpl = tmpl.WithSettings(model.Submission)
	}

	backend := c.Backend
	if backend == "" {
		backend = DefaultBackend
	}
	sub, err := a.registry.NewSubmitter(ctx, backend, registry.Options{WorkArea: c.WorkArea, Command: c.Command})
	if err != nil {
		return nil, err
	}
	driver, err := submission.NewDriver(sub, tmpl, params)
	if err != nil {
		return nil, err
	}
	return driver.Run(ctx, datasets)
}
