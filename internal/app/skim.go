package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/fsutil"
	"github.com/specialistvlad/nanopost/internal/postproc"
)

// Skim runs the cutflow accountant over local event files as one job.
// Directories among the inputs contribute their .jsonl files.
func (a *App) Skim(ctx context.Context, c SkimConfig) (*postproc.Result, error) {
	ctx = a.withLogger(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cuts, opts, err := a.loadCuts(ctx, c.CutsPaths)
	if err != nil {
		return nil, err
	}
	if opts, err = c.applyOverrides(opts); err != nil {
		return nil, err
	}

	acc, err := cutflow.New(cuts, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Cutflow configured.", "cuts", len(cuts), "detection", opts.Detection.String(), "per_file", opts.PerFile)

	proc, err := postproc.New(acc, postproc.Options{OutputDir: c.OutputDir, HaddName: c.HaddName})
	if err != nil {
		return nil, err
	}
	inputs, err := fsutil.ExpandPaths(c.Inputs, ".jsonl")
	if err != nil {
		return nil, err
	}
	return proc.Run(ctx, inputs)
}

// loadCuts reads the cut configuration from paths, or the embedded set when
// none are given. Without a loader the built-in Go cut set is used.
func (a *App) loadCuts(ctx context.Context, paths []string) ([]cutflow.Cut, cutflow.Options, error) {
	if a.loader == nil {
		if len(paths) > 0 {
			return nil, cutflow.Options{}, fmt.Errorf("cannot read %v: %w", paths, ErrNoLoader)
		}
		a.logger.Debug("Using the built-in Go cut set.")
		return cutflow.DefaultCuts(), cutflow.Options{PerFile: true}, nil
	}

	var (
		model *config.Model
		conv  config.Converter
		err   error
	)
	if len(paths) == 0 {
		a.logger.Debug("Using the embedded cut set.")
		model, conv, err = a.loader.LoadDefaults(ctx)
	} else {
		model, conv, err = a.loader.Load(ctx, paths...)
	}
	if err != nil {
		return nil, cutflow.Options{}, fmt.Errorf("failed to load cuts: %w", err)
	}
	if len(model.Cuts) == 0 {
		return nil, cutflow.Options{}, fmt.Errorf("no cuts configured in %v", paths)
	}

	cuts, err := model.CompileCuts(ctx, conv)
	if err != nil {
		return nil, cutflow.Options{}, err
	}
	opts, err := model.AccountantOptions()
	if err != nil {
		return nil, cutflow.Options{}, err
	}
	return cuts, opts, nil
}

func (c SkimConfig) applyOverrides(opts cutflow.Options) (cutflow.Options, error) {
	if c.Detection != "" {
		det, err := cutflow.ParseDetection(c.Detection)
		if err != nil {
			return opts, err
		}
		opts.Detection = det
	}
	if c.CountMode != "" {
		mode, err := cutflow.ParseCountMode(c.CountMode)
		if err != nil {
			return opts, err
		}
		opts.CountMode = mode
	}
	if c.PerFile != nil {
		opts.PerFile = *c.PerFile
	}
	return opts, nil
}
