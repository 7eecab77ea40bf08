package dryrun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/internal/submission"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Submitter writes each request to <workArea>/<request>.hcl instead of
// contacting the grid.
type Submitter struct {
	workArea string
}

// New returns a dry-run submitter rooted at workArea.
func New(workArea string) (*Submitter, error) {
	if workArea == "" {
		return nil, fmt.Errorf("work area is required")
	}
	return &Submitter{workArea: workArea}, nil
}

// Path returns the file a request named requestName is written to.
func (s *Submitter) Path(requestName string) string {
	return filepath.Join(s.workArea, requestName+".hcl")
}

// Submit writes req as an HCL document.
func (s *Submitter) Submit(ctx context.Context, req *submission.Request) error {
	if err := os.MkdirAll(s.workArea, 0o755); err != nil {
		return fmt.Errorf("failed to create work area '%s': %w", s.workArea, err)
	}
	path := s.Path(req.General.RequestName)
	if err := os.WriteFile(path, Encode(req), 0o644); err != nil {
		return fmt.Errorf("failed to write request '%s': %w", path, err)
	}
	ctxlog.FromContext(ctx).Info("Dry run, request written.", "path", path)
	return nil
}

// Encode renders req as a single `request` block.
func Encode(req *submission.Request) []byte {
	f := hclwrite.NewEmptyFile()
	blk := f.Body().AppendNewBlock("request", []string{req.General.RequestName})
	body := blk.Body()
	body.SetAttributeValue("id", cty.StringVal(req.ID))

	general := body.AppendNewBlock("general", nil).Body()
	general.SetAttributeValue("work_area", cty.StringVal(req.General.WorkArea))
	general.SetAttributeValue("transfer_logs", cty.BoolVal(req.General.TransferLogs))
	general.SetAttributeValue("transfer_outputs", cty.BoolVal(req.General.TransferOutputs))

	job := body.AppendNewBlock("job_type", nil).Body()
	job.SetAttributeValue("plugin_name", cty.StringVal(req.JobType.PluginName))
	job.SetAttributeValue("pset_name", cty.StringVal(req.JobType.PsetName))
	job.SetAttributeValue("script_exe", cty.StringVal(req.JobType.ScriptExe))
	job.SetAttributeValue("input_files", stringList(req.JobType.InputFiles))
	job.SetAttributeValue("output_files", stringList(req.JobType.OutputFiles))
	job.SetAttributeValue("max_memory_mb", cty.NumberIntVal(int64(req.JobType.MaxMemoryMB)))
	job.SetAttributeValue("max_job_runtime_min", cty.NumberIntVal(int64(req.JobType.MaxJobRuntimeMin)))
	job.SetAttributeValue("disable_automatic_output_collection", cty.BoolVal(req.JobType.DisableAutomaticOutputCollection))

	data := body.AppendNewBlock("data", nil).Body()
	data.SetAttributeValue("input_dataset", cty.StringVal(req.Data.InputDataset))
	data.SetAttributeValue("input_dbs", cty.StringVal(req.Data.InputDBS))
	data.SetAttributeValue("splitting", cty.StringVal(req.Data.Splitting))
	data.SetAttributeValue("units_per_job", cty.NumberIntVal(int64(req.Data.UnitsPerJob)))
	data.SetAttributeValue("ignore_locality", cty.BoolVal(req.Data.IgnoreLocality))
	data.SetAttributeValue("publication", cty.BoolVal(req.Data.Publication))
	data.SetAttributeValue("output_dataset_tag", cty.StringVal(req.Data.OutputDatasetTag))
	data.SetAttributeValue("out_lfn_dir_base", cty.StringVal(req.Data.OutLFNDirBase))

	site := body.AppendNewBlock("site", nil).Body()
	site.SetAttributeValue("storage_site", cty.StringVal(req.Site.StorageSite))
	site.SetAttributeValue("whitelist", stringList(req.Site.Whitelist))

	return f.Bytes()
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

// Register registers the submitter with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterSubmitter("dryrun", &registry.RegisteredSubmitter{
		Description: "write each request as HCL under the work area",
		New: func(ctx context.Context, opts registry.Options) (submission.Submitter, error) {
			return New(opts.WorkArea)
		},
	})
}
