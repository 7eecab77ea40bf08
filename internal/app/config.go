package app

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/dataset"
	"github.com/specialistvlad/nanopost/internal/submission"
)

// Config holds the process-wide settings shared by every command.
type Config struct {
	LogFormat string
	LogLevel  string

	level slog.Level
}

// NewConfig validates cfg and returns a copy ready for NewApp.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.level = level
	return &cfg, nil
}

// SubmitConfig holds the options of one submission batch.
type SubmitConfig struct {
	DatasetListFile string
	WorkArea        string
	OutputDir       string
	Type            string
	Username        string
	UnitsPerJob     int
	Naming          string
	Backend         string
	// Command is the grid client executable used by the crab backend.
	Command string
	// ConfigPaths are HCL files whose submission block overrides the template.
	ConfigPaths []string
}

// Params validates the batch options and converts them into submission
// parameters.
func (c SubmitConfig) Params() (submission.Params, error) {
	var errs []error
	if c.DatasetListFile == "" {
		errs = append(errs, errors.New("dataset list file is required"))
	}
	naming, err := dataset.ParseNameStyle(c.Naming)
	if err != nil {
		errs = append(errs, err)
	}
	p := submission.Params{
		WorkArea:    c.WorkArea,
		OutputDir:   c.OutputDir,
		Kind:        dataset.Kind(c.Type),
		Username:    c.Username,
		UnitsPerJob: c.UnitsPerJob,
		Naming:      naming,
	}
	if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return submission.Params{}, err
	}
	return p, nil
}

// SkimConfig holds the options of one local skim job.
type SkimConfig struct {
	Inputs    []string
	OutputDir string
	HaddName  string
	// CutsPaths are HCL files or directories with cut definitions. When
	// empty the embedded NanoAOD cut set is used.
	CutsPaths []string
	// Detection, CountMode and PerFile override the configured cutflow
	// settings when set.
	Detection string
	CountMode string
	PerFile   *bool
}

// Validate checks the skim options that can be checked before loading any
// configuration.
func (c SkimConfig) Validate() error {
	var errs []error
	if len(c.Inputs) == 0 {
		errs = append(errs, errors.New("at least one input file is required"))
	}
	if c.Detection != "" {
		if _, err := cutflow.ParseDetection(c.Detection); err != nil {
			errs = append(errs, err)
		}
	}
	if c.CountMode != "" {
		if _, err := cutflow.ParseCountMode(c.CountMode); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MergeConfig holds the options of a report merge.
type MergeConfig struct {
	Inputs []string
	// Output is the merged YAML report path. Empty writes to the app output.
	Output string
	// ROOTOutput optionally receives the merged histogram as a ROOT file.
	ROOTOutput string
}

// Validate checks the merge options.
func (c MergeConfig) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("at least one report is required")
	}
	return nil
}
