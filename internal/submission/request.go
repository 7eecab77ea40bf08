package submission

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/dataset"
)

// DefaultStorageSite is where skimmed outputs are staged out.
const DefaultStorageSite = "T2_US_Wisconsin"

// General holds the request-wide settings.
type General struct {
	RequestName     string
	WorkArea        string
	TransferLogs    bool
	TransferOutputs bool
}

// JobType describes what each grid job runs and its resource limits.
type JobType struct {
	PluginName                       string
	PsetName                         string
	ScriptExe                        string
	InputFiles                       []string
	OutputFiles                      []string
	MaxMemoryMB                      int
	MaxJobRuntimeMin                 int
	DisableAutomaticOutputCollection bool
}

// Data describes the input dataset, its splitting and the output location.
type Data struct {
	InputDataset     string
	InputDBS         string
	Splitting        string
	UnitsPerJob      int
	IgnoreLocality   bool
	Publication      bool
	OutputDatasetTag string
	OutLFNDirBase    string
}

// Site selects where outputs are stored and where jobs may run.
type Site struct {
	StorageSite string
	Whitelist   []string
}

// Request is the configuration of one grid submission. It is built fresh for
// every dataset, submitted once and then discarded.
type Request struct {
	// ID identifies this submission attempt in logs.
	ID      string
	General General
	JobType JobType
	Data    Data
	Site    Site
}

// Template holds the request fields that are identical for every dataset.
type Template struct {
	TransferLogs    bool
	TransferOutputs bool
	JobType         JobType
	InputDBS        string
	Splitting       string
	IgnoreLocality  bool
	Publication     bool
	Site            Site
}

// DefaultTemplate returns the NanoAOD post-processing job template.
func DefaultTemplate() Template {
	return Template{
		TransferLogs:    true,
		TransferOutputs: true,
		JobType: JobType{
			PluginName:                       "Analysis",
			PsetName:                         "PSet.py",
			ScriptExe:                        "crab_script.sh",
			InputFiles:                       []string{"crab_script.py", "haddnano.py"},
			OutputFiles:                      []string{"tree.root"},
			MaxMemoryMB:                      2500,
			MaxJobRuntimeMin:                 1400,
			DisableAutomaticOutputCollection: true,
		},
		InputDBS:       "global",
		Splitting:      "FileBased",
		IgnoreLocality: true,
		Publication:    false,
		Site: Site{
			StorageSite: DefaultStorageSite,
			Whitelist:   []string{},
		},
	}
}

// WithSettings returns a copy of t with the configured overrides applied.
func (t Template) WithSettings(s *config.SubmissionSettings) Template {
	out := t.clone()
	if s == nil {
		return out
	}
	if s.TransferLogs != nil {
		out.TransferLogs = *s.TransferLogs
	}
	if s.TransferOutputs != nil {
		out.TransferOutputs = *s.TransferOutputs
	}
	if s.PluginName != nil {
		out.JobType.PluginName = *s.PluginName
	}
	if s.PsetName != nil {
		out.JobType.PsetName = *s.PsetName
	}
	if s.ScriptExe != nil {
		out.JobType.ScriptExe = *s.ScriptExe
	}
	if s.InputFiles != nil {
		out.JobType.InputFiles = slices.Clone(s.InputFiles)
	}
	if s.OutputFiles != nil {
		out.JobType.OutputFiles = slices.Clone(s.OutputFiles)
	}
	if s.MaxMemoryMB != nil {
		out.JobType.MaxMemoryMB = *s.MaxMemoryMB
	}
	if s.MaxJobRuntimeMin != nil {
		out.JobType.MaxJobRuntimeMin = *s.MaxJobRuntimeMin
	}
	if s.DisableAutomaticOutputCollection != nil {
		out.JobType.DisableAutomaticOutputCollection = *s.DisableAutomaticOutputCollection
	}
	if s.InputDBS != nil {
		out.InputDBS = *s.InputDBS
	}
	if s.Splitting != nil {
		out.Splitting = *s.Splitting
	}
	if s.IgnoreLocality != nil {
		out.IgnoreLocality = *s.IgnoreLocality
	}
	if s.Publication != nil {
		out.Publication = *s.Publication
	}
	if s.StorageSite != nil {
		out.Site.StorageSite = *s.StorageSite
	}
	if s.Whitelist != nil {
		out.Site.Whitelist = slices.Clone(s.Whitelist)
	}
	return out
}

func (t Template) clone() Template {
	out := t
	out.JobType.InputFiles = slices.Clone(t.JobType.InputFiles)
	out.JobType.OutputFiles = slices.Clone(t.JobType.OutputFiles)
	out.Site.Whitelist = slices.Clone(t.Site.Whitelist)
	if out.Site.Whitelist == nil {
		out.Site.Whitelist = []string{}
	}
	return out
}

// Params are the per-invocation submission parameters.
type Params struct {
	WorkArea    string
	OutputDir   string
	Kind        dataset.Kind
	Username    string
	UnitsPerJob int
	Naming      dataset.NameStyle
}

// Validate checks that every required parameter is present.
func (p Params) Validate() error {
	var errs []error
	if p.WorkArea == "" {
		errs = append(errs, errors.New("work area is required"))
	}
	if p.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if p.Username == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if _, err := dataset.ParseKind(string(p.Kind)); err != nil {
		errs = append(errs, err)
	}
	if p.UnitsPerJob < 1 {
		errs = append(errs, fmt.Errorf("units per job must be at least 1, got %d", p.UnitsPerJob))
	}
	return errors.Join(errs...)
}

// OutLFNDirBase is the grid storage directory for a user's outputs.
func OutLFNDirBase(username, outputDir string) string {
	return fmt.Sprintf("/store/user/%s/%s", username, outputDir)
}

// Build creates the request for one dataset. It fails only when the dataset
// identifier is malformed.
func Build(raw string, p Params, t Template) (*Request, error) {
	id, err := dataset.Parse(raw)
	if err != nil {
		return nil, err
	}
	name := id.RequestName(p.Kind, p.Naming)
	t = t.clone()

	return &Request{
		ID: uuid.NewString(),
		General: General{
			RequestName:     name,
			WorkArea:        p.WorkArea,
			TransferLogs:    t.TransferLogs,
			TransferOutputs: t.TransferOutputs,
		},
		JobType: t.JobType,
		Data: Data{
			InputDataset:     id.String(),
			InputDBS:         t.InputDBS,
			Splitting:        t.Splitting,
			UnitsPerJob:      p.UnitsPerJob,
			IgnoreLocality:   t.IgnoreLocality,
			Publication:      t.Publication,
			OutputDatasetTag: dataset.OutputDatasetTag(p.Kind, name),
			OutLFNDirBase:    OutLFNDirBase(p.Username, p.OutputDir),
		},
		Site: t.Site,
	}, nil
}
