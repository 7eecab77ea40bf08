package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Cutflow Structures ---

// Cutflow represents the `cutflow` block that configures the accountant.
type Cutflow struct {
	Detection     *string  `hcl:"detection,optional"`
	PerFile       *bool    `hcl:"per_file,optional"`
	CountMode     *string  `hcl:"count_mode,optional"`
	WeightField   *string  `hcl:"weight_field,optional"`
	WeightDefault *float64 `hcl:"weight_default,optional"`
}

// Cut represents a `cut` block. The label is the cut name shown in the
// histogram, and `pass` is an expression over the event's fields.
type Cut struct {
	Name        string         `hcl:"name,label"`
	Pass        hcl.Expression `hcl:"pass"`
	Description string         `hcl:"description,optional"`
}

// --- Submission Structures ---

// Submission represents the `submission` block, whose attributes override
// the grid job template.
type Submission struct {
	TransferLogs                     *bool    `hcl:"transfer_logs,optional"`
	TransferOutputs                  *bool    `hcl:"transfer_outputs,optional"`
	PluginName                       *string  `hcl:"plugin_name,optional"`
	PsetName                         *string  `hcl:"pset_name,optional"`
	ScriptExe                        *string  `hcl:"script_exe,optional"`
	InputFiles                       []string `hcl:"input_files,optional"`
	OutputFiles                      []string `hcl:"output_files,optional"`
	MaxMemoryMB                      *int     `hcl:"max_memory_mb,optional"`
	MaxJobRuntimeMin                 *int     `hcl:"max_job_runtime_min,optional"`
	DisableAutomaticOutputCollection *bool    `hcl:"disable_automatic_output_collection,optional"`
	InputDBS                         *string  `hcl:"input_dbs,optional"`
	Splitting                        *string  `hcl:"splitting,optional"`
	IgnoreLocality                   *bool    `hcl:"ignore_locality,optional"`
	Publication                      *bool    `hcl:"publication,optional"`
	StorageSite                      *string  `hcl:"storage_site,optional"`
	Whitelist                        []string `hcl:"whitelist,optional"`
}

// File represents the top-level structure of any nanopost configuration
// file. Every block is optional so cuts and submission settings can live in
// separate files.
type File struct {
	Cutflow    *Cutflow    `hcl:"cutflow,block"`
	Cuts       []*Cut      `hcl:"cut,block"`
	Submission *Submission `hcl:"submission,block"`
}
