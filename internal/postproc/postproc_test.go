package postproc

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/histio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testCuts() []cutflow.Cut {
	return []cutflow.Cut{
		{Name: "positive x", Pass: cutflow.Func(func(ev cutflow.Event) bool { return ev.FloatOr("x", 0).Value > 0 })},
		{Name: "big x", Pass: cutflow.Func(func(ev cutflow.Event) bool { return ev.FloatOr("x", 0).Value > 5 })},
	}
}

func writeInput(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestReadEvents(t *testing.T) {
	src := `{"x": 1.5, "Flag_goodVertices": true, "name": "a"}

{"x": -2}
`
	events, err := ReadEvents(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, []string{"Flag_goodVertices", "name", "x"}, events[0].Names())
	assert.Equal(t, 1.5, events[0].FloatOr("x", 0).Value)
	assert.Equal(t, -2.0, events[1].FloatOr("x", 0).Value)
}

func TestReadEvents_Errors(t *testing.T) {
	for _, src := range []string{`{"x": `, `[1, 2]`, `null`} {
		_, err := ReadEvents(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestRun_SimulationJob(t *testing.T) {
	// --- Arrange ---
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")
	mc := writeInput(t, in, "mc.jsonl",
		`{"x": 10, "genWeight": 0.5}`,
		`{"x": 3, "genWeight": 2}`,
		`{"x": -1, "genWeight": "bad"}`,
	)
	mc2 := writeInput(t, in, "mc2.jsonl",
		`{"x": 7, "genWeight": 1.25}`,
	)
	acc, err := cutflow.New(testCuts(), cutflow.Options{PerFile: true})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: out})
	require.NoError(t, err)

	// --- Act ---
	res, err := p.Run(context.Background(), []string{mc, mc2})

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	first := res.Files[0]
	assert.Equal(t, filepath.Join(out, "mc_Skim.jsonl"), first.Output)
	assert.Equal(t, int64(3), first.Processed)
	assert.Equal(t, int64(1), first.Kept)
	assert.Equal(t, filepath.Join(out, "mc_Skim.root"), first.ROOT)
	assert.Equal(t, 1, first.Written)
	require.NotNil(t, first.Histogram)
	assert.Equal(t, []float64{3.5, 3, 2, 1}, first.Histogram.Values)
	assert.FileExists(t, filepath.Join(out, "mc_Skim.cutflow.yaml"))
	assertHistogramStored(t, first.ROOT)

	assert.Equal(t, []string{cutflow.LabelSumWeight, cutflow.LabelNoCuts, "positive x", "big x"}, res.Job.Labels)
	assert.Equal(t, []float64{4.75, 4, 3, 2}, res.Job.Values)
	assert.Equal(t, filepath.Join(out, "tree.root"), res.JobROOT)
	assert.Equal(t, 2, res.Written)
	assertHistogramStored(t, res.JobROOT)

	rep, err := histio.ReadReportFile(res.JobReport)
	require.NoError(t, err)
	assert.Equal(t, res.Job.Values, rep.Histogram().Values)
	assert.Equal(t, []string{mc, mc2}, rep.Sources)
}

func TestRun_DataWithoutPerFile(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	data := writeInput(t, in, "data.jsonl", `{"x": 6}`, `{"x": 0}`)
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: out, HaddName: "merged.root"})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), []string{data})
	require.NoError(t, err)

	assert.Nil(t, res.Files[0].Histogram)
	assert.NoFileExists(t, filepath.Join(out, "data_Skim.cutflow.yaml"))
	assert.Equal(t, 1, CountWritten(filepath.Join(out, "data_Skim.root")))
	assert.Equal(t, []float64{2, 1, 1}, res.Job.Values)
	assert.False(t, res.Job.Simulation)
	assert.Equal(t, 1, CountWritten(filepath.Join(out, "merged.root")))
}

func TestRun_EmptyInput(t *testing.T) {
	in := t.TempDir()
	empty := filepath.Join(in, "empty.jsonl")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), []string{empty})
	require.NoError(t, err)
	// Without events there is no branch layout, so no tree is written.
	assert.Equal(t, -1, res.Files[0].Written)
	assert.Equal(t, -1, res.Written)
	assert.Equal(t, []float64{0, 0, 0}, res.Job.Values)
}

func TestRun_PredicateErrorAborts(t *testing.T) {
	in := writeInput(t, t.TempDir(), "bad.jsonl", `{"y": 1}`)
	acc, err := cutflow.New([]cutflow.Cut{{
		Name: "needs x",
		Pass: func(ev cutflow.Event) (bool, error) {
			if _, ok := ev.Get("x"); !ok {
				return false, os.ErrNotExist
			}
			return true, nil
		},
	}}, cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{in})
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "event 0")
}

func TestRun_MissingInput(t *testing.T) {
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), []string{filepath.Join(t.TempDir(), "nope.jsonl")})
	require.Error(t, err)
}

func TestRun_NothingKeptStillWritesTrees(t *testing.T) {
	in := writeInput(t, t.TempDir(), "cold.jsonl", `{"x": -4}`, `{"x": 1}`)
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), []string{in})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Files[0].Written)
	assert.Equal(t, 0, res.Written)
}

func TestRun_EmptyFirstFileDoesNotHideSimulation(t *testing.T) {
	in := t.TempDir()
	empty := filepath.Join(in, "a_empty.jsonl")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	mc := writeInput(t, in, "b_mc.jsonl", `{"x": 10, "genWeight": 0.5}`)
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: t.TempDir()})
	require.NoError(t, err)

	res, err := p.Run(context.Background(), []string{empty, mc})
	require.NoError(t, err)
	assert.True(t, res.Job.Simulation)
	assert.Equal(t, []float64{0.5, 1, 1, 1}, res.Job.Values)
}

func TestCountWritten_Missing(t *testing.T) {
	assert.Equal(t, -1, CountWritten(filepath.Join(t.TempDir(), "missing.root")))
}

func assertHistogramStored(t *testing.T, path string) {
	t.Helper()
	f, err := groot.Open(path)
	require.NoError(t, err)
	defer f.Close()
	obj, err := f.Get(cutflow.HistogramName)
	require.NoError(t, err)
	assert.Equal(t, "TH1F", obj.Class())
}

func TestOutputBase(t *testing.T) {
	acc, err := cutflow.New(testCuts(), cutflow.Options{})
	require.NoError(t, err)
	p, err := New(acc, Options{OutputDir: "/out"})
	require.NoError(t, err)
	assert.Equal(t, "/out/nano_1_Skim", p.OutputBase("/store/mc/nano_1.jsonl"))

	_, err = New(nil, Options{})
	require.Error(t, err)
}
