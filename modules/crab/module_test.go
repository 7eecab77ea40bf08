package crab

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/specialistvlad/nanopost/internal/dataset"
	"github.com/specialistvlad/nanopost/internal/registry"
	"github.com/specialistvlad/nanopost/internal/submission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest(t *testing.T, workArea string) *submission.Request {
	t.Helper()
	req, err := submission.Build(
		"/TTbar_TuneCP5_13p6TeV_pythia8/RunIII2024Summer24NanoAODv15-150X_mcRun3_2024_realistic_v2/NANOAODSIM",
		submission.Params{
			WorkArea:    workArea,
			OutputDir:   "HHbbtt/2024_MC",
			Kind:        dataset.KindMC,
			Username:    "bucky",
			UnitsPerJob: 2,
		},
		submission.DefaultTemplate(),
	)
	require.NoError(t, err)
	return req
}

// fakeClient writes a shell script standing in for the crab client. It
// records its arguments and exits with code.
func fakeClient(t *testing.T, code int) (cmd, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake client is a shell script")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	cmd = filepath.Join(dir, "crab")
	script := "#!/bin/sh\necho \"$@\" > " + argsFile + "\necho 'proxy check'\n"
	if code != 0 {
		script += "echo 'Error contacting server' >&2\nexit " + strconv.Itoa(code) + "\n"
	}
	require.NoError(t, os.WriteFile(cmd, []byte(script), 0o755))
	return cmd, argsFile
}

func TestRenderConfig(t *testing.T) {
	req := testRequest(t, "HHbbtt/2024_MC")
	req.Site.Whitelist = []string{"T2_US_MIT"}

	out, err := RenderConfig(req)
	require.NoError(t, err)
	cfg := string(out)

	for _, line := range []string{
		`config.General.requestName = "TTbar"`,
		`config.General.transferLogs = True`,
		`config.JobType.inputFiles = ["crab_script.py", "haddnano.py"]`,
		`config.JobType.maxMemoryMB = 2500`,
		`config.JobType.disableAutomaticOutputCollection = True`,
		`config.Data.unitsPerJob = 2`,
		`config.Data.publication = False`,
		`config.Data.outputDatasetTag = "NanoPost_MC_TTbar"`,
		`config.Data.outLFNDirBase = "/store/user/bucky/HHbbtt/2024_MC"`,
		`config.Site.storageSite = "T2_US_Wisconsin"`,
		`config.Site.whitelist = ["T2_US_MIT"]`,
	} {
		assert.Contains(t, cfg, line)
	}
}

func TestPyLiteral(t *testing.T) {
	testCases := []struct {
		in   any
		want string
	}{
		{"a\"b", `"a\"b"`},
		{true, "True"},
		{false, "False"},
		{1400, "1400"},
		{[]string{}, "[]"},
	}
	for _, tc := range testCases {
		got, err := pyLiteral(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
	_, err := pyLiteral(1.5)
	require.Error(t, err)
}

func TestSubmit_RunsClient(t *testing.T) {
	cmd, argsFile := fakeClient(t, 0)
	workArea := filepath.Join(t.TempDir(), "area")
	s, err := New(cmd, workArea)
	require.NoError(t, err)

	req := testRequest(t, workArea)
	require.NoError(t, s.Submit(context.Background(), req))

	cfgPath := s.ConfigPath("TTbar")
	assert.FileExists(t, cfgPath)
	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "submit -c "+cfgPath+"\n", string(args))
}

func TestSubmit_ClientFailure(t *testing.T) {
	cmd, _ := fakeClient(t, 1)
	s, err := New(cmd, t.TempDir())
	require.NoError(t, err)

	err = s.Submit(context.Background(), testRequest(t, "area"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error contacting server")
}

func TestSubmit_MissingClient(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "no-such-crab"), t.TempDir())
	require.NoError(t, err)
	require.Error(t, s.Submit(context.Background(), testRequest(t, "area")))
}

func TestModule_Register(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	s, err := r.NewSubmitter(context.Background(), "crab", registry.Options{WorkArea: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DefaultCommand, s.(*Submitter).command)

	_, err = r.NewSubmitter(context.Background(), "crab", registry.Options{})
	require.Error(t, err)
}
