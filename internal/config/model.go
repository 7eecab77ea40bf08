package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of all loaded
// configuration files.
type Model struct {
	Cutflow    *CutflowSettings
	Cuts       []*CutDefinition
	Submission *SubmissionSettings
}

// NewModel returns an empty model with non-nil settings blocks.
func NewModel() *Model {
	return &Model{
		Cutflow:    &CutflowSettings{},
		Submission: &SubmissionSettings{},
	}
}

// CutflowSettings configures the accountant. Nil or empty fields keep the
// built-in defaults.
type CutflowSettings struct {
	Detection     string
	PerFile       *bool
	CountMode     string
	WeightField   string
	WeightDefault *float64
}

// CutDefinition is one `cut` block. Pass is evaluated against the event's
// fields and must produce a bool.
type CutDefinition struct {
	Name        string
	Description string
	Pass        hcl.Expression
	// Source is the file and line the cut was declared at, for error messages.
	Source string
}

// SubmissionSettings overrides fields of the grid submission template. Nil
// pointers and nil slices leave the template value untouched.
type SubmissionSettings struct {
	TransferLogs                     *bool
	TransferOutputs                  *bool
	PluginName                       *string
	PsetName                         *string
	ScriptExe                        *string
	InputFiles                       []string
	OutputFiles                      []string
	MaxMemoryMB                      *int
	MaxJobRuntimeMin                 *int
	DisableAutomaticOutputCollection *bool
	InputDBS                         *string
	Splitting                        *string
	IgnoreLocality                   *bool
	Publication                      *bool
	StorageSite                      *string
	Whitelist                        []string
}
