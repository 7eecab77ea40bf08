package postproc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/specialistvlad/nanopost/internal/histio"
)

const (
	DefaultPostfix  = "_Skim"
	DefaultHaddName = "tree.root"
	JobReportName   = "cutflow.yaml"
)

// Options configure where the processor writes its outputs.
type Options struct {
	OutputDir string
	// Postfix is appended to each input's base name. Defaults to "_Skim".
	Postfix string
	// HaddName is the ROOT file holding the merged tree and the job
	// histogram. Defaults to "tree.root".
	HaddName string
}

func (o Options) withDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	if o.Postfix == "" {
		o.Postfix = DefaultPostfix
	}
	if o.HaddName == "" {
		o.HaddName = DefaultHaddName
	}
	return o
}

// FileResult describes the outputs produced for one input file.
type FileResult struct {
	Input string
	// Output is the JSON Lines copy of the kept events.
	Output string
	// ROOT holds the kept events as a tree and, with per-file reporting, the
	// file histogram.
	ROOT      string
	Processed int64
	Kept      int64
	// Written is the entry count read back from ROOT, or -1 if it has no tree.
	Written int
	// Histogram is nil unless per-file reporting is enabled.
	Histogram *cutflow.Histogram

	layout cutflow.Event
}

// Result describes a whole run.
type Result struct {
	Files     []FileResult
	Job       *cutflow.Histogram
	JobReport string
	JobROOT   string
	// Written is the entry count of the merged tree in JobROOT, or -1.
	Written int
}

// Processor drives an accountant over JSON Lines inputs.
type Processor struct {
	acc  *cutflow.Accountant
	opts Options
}

// New returns a processor writing under opts.OutputDir.
func New(acc *cutflow.Accountant, opts Options) (*Processor, error) {
	if acc == nil {
		return nil, fmt.Errorf("accountant is required")
	}
	return &Processor{acc: acc, opts: opts.withDefaults()}, nil
}

// OutputBase returns the output path for input without its extension.
func (p *Processor) OutputBase(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(p.opts.OutputDir, base+p.opts.Postfix)
}

// Run processes inputs in order as a single job.
func (p *Processor) Run(ctx context.Context, inputs []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", p.opts.OutputDir, err)
	}
	if err := p.acc.BeginJob(ctx); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fr, err := p.processFile(ctx, in)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, *fr)
	}

	job, err := p.acc.EndJob(ctx)
	if err != nil {
		return res, err
	}
	res.Job = job
	res.JobReport = filepath.Join(p.opts.OutputDir, JobReportName)
	res.JobROOT = filepath.Join(p.opts.OutputDir, p.opts.HaddName)
	if err := histio.WriteReportFile(res.JobReport, histio.FromHistogram(job, inputs...)); err != nil {
		return res, err
	}
	if err := p.hadd(ctx, res.JobROOT, res.Files, job); err != nil {
		return res, err
	}
	res.Written = CountWritten(res.JobROOT)
	logger.Info("Post-processing done.", "files", len(res.Files), "report", res.JobReport, "root", res.JobROOT, "written", res.Written)
	return res, nil
}

// hadd merges the kept events of every file into one tree, written with the
// job histogram. The tree layout follows the first file that had events.
func (p *Processor) hadd(ctx context.Context, path string, files []FileResult, job *cutflow.Histogram) (err error) {
	batches := make([][]cutflow.Event, 0, len(files))
	var sample cutflow.Event
	for _, fr := range files {
		events, err := ReadEventsFile(fr.Output)
		if err != nil {
			return err
		}
		if len(sample.Names()) == 0 {
			sample = fr.layout
		}
		batches = append(batches, events)
	}

	out, err := histio.CreateSkim(path, sample)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	for _, events := range batches {
		for _, ev := range events {
			if err := out.Fill(ev); err != nil {
				return err
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Merged skim outputs.", "output", path, "files", len(files), "branches", len(out.Columns()))
	return out.PutHistogram(job)
}

func (p *Processor) processFile(ctx context.Context, input string) (*FileResult, error) {
	ctx, logger := ctxlog.With(ctx, "input", input)

	events, err := ReadEventsFile(input)
	if err != nil {
		return nil, err
	}
	var layout cutflow.Event
	if len(events) > 0 {
		layout = events[0]
	}
	if err := p.acc.BeginFile(ctx, cutflow.FileInfo{Name: input, Entries: int64(len(events)), Fields: layout.Names()}); err != nil {
		return nil, err
	}

	base := p.OutputBase(input)
	fr := &FileResult{Input: input, Output: base + ".jsonl", ROOT: base + ".root", layout: layout}
	if err := p.skim(ctx, events, fr); err != nil {
		return nil, err
	}
	if fr.Histogram != nil {
		if err := histio.WriteReportFile(base+".cutflow.yaml", histio.FromHistogram(fr.Histogram, input)); err != nil {
			return nil, err
		}
	}
	fr.Written = CountWritten(fr.ROOT)
	logger.Info("Wrote skim output.", "output", fr.ROOT, "processed", fr.Processed, "kept", fr.Kept, "written", fr.Written)
	return fr, nil
}

// skim analyzes events and writes the kept ones to both outputs of fr, then
// closes the file in the accountant.
func (p *Processor) skim(ctx context.Context, events []cutflow.Event, fr *FileResult) (err error) {
	out, err := os.Create(fr.Output)
	if err != nil {
		return fmt.Errorf("failed to create output '%s': %w", fr.Output, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output '%s': %w", fr.Output, cerr)
		}
	}()

	tree, err := histio.CreateSkim(fr.ROOT, fr.layout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tree.Close(); err == nil {
			err = cerr
		}
	}()

	w := newEventWriter(out)
	for i, ev := range events {
		keep, err := p.acc.Analyze(ev)
		if err != nil {
			return fmt.Errorf("%s: event %d: %w", fr.Input, i, err)
		}
		fr.Processed++
		if !keep {
			continue
		}
		if err := w.Write(ev); err != nil {
			return fmt.Errorf("failed to write event %d to '%s': %w", i, fr.Output, err)
		}
		if err := tree.Fill(ev); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush '%s': %w", fr.Output, err)
	}
	fr.Kept = w.n

	h, err := p.acc.EndFile(ctx)
	if err != nil {
		return err
	}
	if h != nil {
		fr.Histogram = h
		return tree.PutHistogram(h)
	}
	return nil
}
