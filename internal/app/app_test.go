package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/histio"
	"github.com/specialistvlad/nanopost/internal/postproc"
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// recordingModule registers a backend that records requests in memory.
type recordingModule struct {
	requests []*submission.Request
	failFor  string
}

func (m *recordingModule) Register(r *registry.Registry) {
	r.RegisterSubmitter("record", &registry.RegisteredSubmitter{
		Description: "records requests",
		New: func(context.Context, registry.Options) (submission.Submitter, error) {
			return submission.SubmitterFunc(func(_ context.Context, req *submission.Request) error {
				m.requests = append(m.requests, req)
				if req.General.RequestName == m.failFor {
					return os.ErrPermission
				}
				return nil
			}), nil
		},
	})
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		errText string
	}{
		{name: "defaults", cfg: Config{}},
		{name: "json debug", cfg: Config{LogFormat: "JSON", LogLevel: "debug"}},
		{name: "bad format", cfg: Config{LogFormat: "xml"}, errText: "invalid log-format"},
		{name: "bad level", cfg: Config{LogLevel: "trace"}, errText: "invalid log-level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.errText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, LogFormats, cfg.LogFormat)
		})
	}
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a, _ := SetupAppTest(t)
	assert.Equal(t, []string{"crab", "dryrun"}, a.Registry().Names())
}

func TestSubmit_DryRun(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	list := writeFile(t, dir, "datasets.txt", `# 2024 MC
/TTbar_TuneCP5_13p6TeV_pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM

/GluGluHToTauTau_M125_TuneCP5_13p6TeV_powheg-pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM
`)
	overrides := writeFile(t, dir, "submit.hcl", `
submission {
  max_memory_mb = 4000
}
`)
	workArea := filepath.Join(dir, "HHbbtt", "2024_MC")
	a, logs := SetupAppTest(t)

	// --- Act ---
	report, err := a.Submit(context.Background(), SubmitConfig{
		DatasetListFile: list,
		WorkArea:        workArea,
		OutputDir:       "HHbbtt/2024_MC",
		Type:            "MC",
		Username:        "bucky",
		UnitsPerJob:     1,
		Backend:         "dryrun",
		ConfigPaths:     []string{overrides},
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Len(t, report.Submitted, 2)
	assert.Empty(t, report.Failed)
	assert.FileExists(t, filepath.Join(workArea, "TTbar.hcl"))

	src, err := os.ReadFile(filepath.Join(workArea, "TTbar.hcl"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "max_memory_mb")
	assert.Contains(t, string(src), "4000")
	assert.Contains(t, logs.String(), "All datasets processed.")
}

func TestSubmit_FailuresDoNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "datasets.txt", "/A/B-v1/NANOAODSIM\n/C/D-v1/NANOAODSIM\n")
	mod := &recordingModule{failFor: "A"}
	a, logs := SetupAppTest(t, mod)

	report, err := a.Submit(context.Background(), SubmitConfig{
		DatasetListFile: list,
		WorkArea:        dir,
		OutputDir:       "out",
		Type:            "MC",
		Username:        "u",
		UnitsPerJob:     1,
		Backend:         "record",
	})
	require.NoError(t, err)
	assert.Len(t, mod.requests, 2)
	assert.Len(t, report.Failed, 1)
	assert.Len(t, report.Submitted, 1)
	assert.Contains(t, logs.String(), "Failed submitting dataset")
}

func TestSubmit_InvalidConfig(t *testing.T) {
	a, _ := SetupAppTest(t)
	_, err := a.Submit(context.Background(), SubmitConfig{Type: "Simulation", Naming: "long"})
	require.Error(t, err)
	for _, want := range []string{"dataset list file is required", "invalid dataset type", "invalid naming style", "username is required"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestSubmit_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "datasets.txt", "/A/B/NANOAODSIM\n")
	a, _ := SetupAppTest(t)
	_, err := a.Submit(context.Background(), SubmitConfig{
		DatasetListFile: list, WorkArea: dir, OutputDir: "o", Type: "Data",
		Username: "u", UnitsPerJob: 1, Backend: "condor",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown submission backend")
}

// writeNanoInput writes one simulated event passing every default cut and
// one failing the MET threshold.
func writeNanoInput(t *testing.T, dir string) string {
	t.Helper()
	pass := `{"nFatJet": 1, "PuppiMET_pt": 150, "PV_ndof": 10, "PV_z": 1, "PV_x": 0.1, "PV_y": 0.1, "nTau": 1, ` +
		`"Flag_goodVertices": true, "Flag_globalSuperTightHalo2016Filter": true, "Flag_EcalDeadCellTriggerPrimitiveFilter": true, ` +
		`"Flag_BadPFMuonFilter": true, "Flag_BadPFMuonDzFilter": true, "Flag_hfNoisyHitsFilter": true, ` +
		`"Flag_eeBadScFilter": true, "Flag_ecalBadCalibFilter": true, "genWeight": 0.5}`
	lowMET := strings.Replace(pass, `"PuppiMET_pt": 150`, `"PuppiMET_pt": 20`, 1)
	return writeFile(t, dir, "nano.jsonl", pass+"\n"+lowMET+"\n")
}

func TestSkim_DefaultCuts(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	in := writeNanoInput(t, dir)
	out := filepath.Join(dir, "out")
	a, logs := SetupAppTest(t)

	// --- Act ---
	res, err := a.Skim(context.Background(), SkimConfig{Inputs: []string{in}, OutputDir: out})

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, res.Job.Values, 14)
	assert.Equal(t, 1.0, res.Job.Values[0])
	assert.Equal(t, 2.0, res.Job.Values[1])
	assert.Equal(t, 2.0, res.Job.Values[2])
	assert.Equal(t, 1.0, res.Job.Values[3])
	assert.Equal(t, 1.0, res.Job.Values[13])
	assert.Equal(t, 1, postproc.CountWritten(filepath.Join(out, "nano_Skim.root")))
	assert.FileExists(t, filepath.Join(out, "nano_Skim.root"))
	assert.Contains(t, logs.String(), "Skimming MC")
}

func TestSkim_WithoutLoaderUsesBuiltinCuts(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	in := writeNanoInput(t, dir)
	cfg, err := NewConfig(Config{LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)
	logs := &SafeBuffer{}
	a := NewApp(logs, cfg, nil)

	// --- Act ---
	res, err := a.Skim(context.Background(), SkimConfig{Inputs: []string{in}, OutputDir: filepath.Join(dir, "out")})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, cutflow.Names(cutflow.DefaultCuts()), res.Job.Labels[2:])
	assert.Equal(t, []float64{1, 2, 2, 1}, res.Job.Values[:4])
	assert.Equal(t, 1.0, res.Job.Values[13])
	require.NotNil(t, res.Files[0].Histogram)
	assert.Contains(t, logs.String(), "Using the built-in Go cut set.")

	_, err = a.Skim(context.Background(), SkimConfig{Inputs: []string{in}, CutsPaths: []string{"cuts.hcl"}})
	require.ErrorIs(t, err, ErrNoLoader)
	_, err = a.Submit(context.Background(), SubmitConfig{
		DatasetListFile: writeFile(t, dir, "list.txt", "/A/B/NANOAODSIM\n"),
		WorkArea:        dir,
		OutputDir:       "out",
		Type:            "MC",
		Username:        "bucky",
		UnitsPerJob:     1,
		Backend:         "dryrun",
		ConfigPaths:     []string{"submit.hcl"},
	})
	require.ErrorIs(t, err, ErrNoLoader)
}

func TestSkim_CustomCutsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	cuts := writeFile(t, dir, "cuts.hcl", `
cutflow {
  per_file = true
}
cut "positive" {
  pass = x > 0
}
`)
	in := writeFile(t, dir, "in.jsonl", `{"x": 1, "genWeight": 2}`+"\n"+`{"x": -1}`+"\n")
	perFile := false
	a, _ := SetupAppTest(t)

	res, err := a.Skim(context.Background(), SkimConfig{
		Inputs:    []string{in},
		OutputDir: dir,
		CutsPaths: []string{cuts},
		Detection: "data",
		PerFile:   &perFile,
	})
	require.NoError(t, err)
	assert.False(t, res.Job.Simulation)
	assert.Equal(t, []float64{2, 1}, res.Job.Values)
	assert.Nil(t, res.Files[0].Histogram)
}

func TestSkim_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.hcl", `cutflow {}`)
	a, _ := SetupAppTest(t)

	_, err := a.Skim(context.Background(), SkimConfig{})
	require.Error(t, err)

	_, err = a.Skim(context.Background(), SkimConfig{Inputs: []string{"x.jsonl"}, Detection: "sometimes"})
	require.Error(t, err)

	_, err = a.Skim(context.Background(), SkimConfig{Inputs: []string{"x.jsonl"}, CutsPaths: []string{empty}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cuts configured")
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a1 := writeFile(t, dir, "a.yaml", `name: cutflow
title: cutflow
simulation: false
bins:
  - {label: No Cuts, value: 10}
  - {label: cut, value: 4}
`)
	a2 := writeFile(t, dir, "b.yaml", `name: cutflow
title: cutflow
simulation: false
bins:
  - {label: No Cuts, value: 5}
  - {label: cut, value: 1}
`)
	out := filepath.Join(dir, "merged.yaml")
	rootOut := filepath.Join(dir, "merged.root")
	a, _ := SetupAppTest(t)

	merged, err := a.Merge(context.Background(), MergeConfig{Inputs: []string{a1, a2}, Output: out, ROOTOutput: rootOut})
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 5}, merged.Histogram().Values)
	assert.Equal(t, []string{a1, a2}, merged.Sources)
	assert.FileExists(t, rootOut)

	got, err := histio.ReadReportFile(out)
	require.NoError(t, err)
	assert.Equal(t, merged.Bins, got.Bins)

	_, err = a.Merge(context.Background(), MergeConfig{})
	require.Error(t, err)
}
