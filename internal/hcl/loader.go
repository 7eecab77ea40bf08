package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/fsutil"
	"github.com/specialistvlad/nanopost/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths, in lexical order within
// each directory, and merges them into one model. Cuts keep their file and
// declaration order; later cutflow and submission attributes override
// earlier ones.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decodeInto(ctx, model, file, hclFile); err != nil {
			return nil, nil, err
		}
	}

	logger.Debug("HCL loading complete.", "files", len(hclFiles), "cuts", len(model.Cuts))
	return model, NewConverter(), nil
}

// LoadSource parses a single in-memory configuration document.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*config.Model, config.Converter, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	model := config.NewModel()
	if err := l.decodeInto(ctx, model, filename, hclFile); err != nil {
		return nil, nil, err
	}
	return model, NewConverter(), nil
}

func (l *Loader) decodeInto(ctx context.Context, model *config.Model, filename string, f *hcl.File) error {
	var root schema.File
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if root.Cutflow != nil {
		l.mergeCutflow(model.Cutflow, root.Cutflow)
	}
	for _, c := range root.Cuts {
		def, err := l.translateCut(ctx, c)
		if err != nil {
			return fmt.Errorf("in %s: %w", filename, err)
		}
		model.Cuts = append(model.Cuts, def)
	}
	if root.Submission != nil {
		l.mergeSubmission(model.Submission, root.Submission)
	}
	return nil
}
