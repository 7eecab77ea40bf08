package cutflow

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
)

// ErrLifecycle is returned when a lifecycle method is called out of order.
var ErrLifecycle = errors.New("cutflow lifecycle violation")

// State is the accountant's position in the job lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateJobStarted
	StateFileStarted
	StateFileEnded
	StateJobEnded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateJobStarted:
		return "job_started"
	case StateFileStarted:
		return "file_started"
	case StateFileEnded:
		return "file_ended"
	case StateJobEnded:
		return "job_ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FileInfo describes an input file at the moment the event loop opens it.
type FileInfo struct {
	Name    string
	Entries int64
	Fields  []string
}

// Counters holds one scope of cutflow bookkeeping.
type Counters struct {
	RawEntries       int64
	SumGenWeights    float64
	Cuts             []float64
	Processed        int64
	Kept             int64
	DefaultedWeights int64
}

func newCounters(n int) Counters {
	return Counters{Cuts: make([]float64, n)}
}

func (c Counters) clone() Counters {
	c.Cuts = slices.Clone(c.Cuts)
	return c
}

// Snapshot is a copy of the accountant's state for inspection.
type Snapshot struct {
	State           State
	SimulationKnown bool
	Simulation      bool
	CurrentFile     string
	Files           int
	Job             Counters
	File            Counters
}

// Accountant applies an ordered cut list to events and keeps the cutflow.
// It is driven by an external event loop and is not safe for concurrent use.
type Accountant struct {
	cuts  []Cut
	names []string
	opts  Options

	state      State
	simKnown   bool
	simulation bool
	jobSim     bool
	file       string
	files      int

	job     Counters
	current Counters
}

// New creates an accountant for a fixed cut list.
func New(cuts []Cut, opts Options) (*Accountant, error) {
	if err := validateCuts(cuts); err != nil {
		return nil, err
	}
	a := &Accountant{
		cuts:  slices.Clone(cuts),
		names: Names(cuts),
		opts:  opts.withDefaults(),
	}
	return a, nil
}

// CutNames returns the cut names in evaluation order.
func (a *Accountant) CutNames() []string {
	return slices.Clone(a.names)
}

// Options returns the effective options.
func (a *Accountant) Options() Options {
	return a.opts
}

func (a *Accountant) expect(op string, allowed ...State) error {
	if slices.Contains(allowed, a.state) {
		return nil
	}
	return fmt.Errorf("%w: %s called in state %s", ErrLifecycle, op, a.state)
}

// BeginJob zeroes all counters and forgets the simulation flag.
func (a *Accountant) BeginJob(ctx context.Context) error {
	if err := a.expect("BeginJob", StateUninitialized, StateJobEnded); err != nil {
		return err
	}
	a.job = newCounters(len(a.cuts))
	a.current = newCounters(len(a.cuts))
	a.simKnown, a.simulation, a.jobSim = false, false, false
	a.file, a.files = "", 0

	switch a.opts.Detection {
	case ForceData:
		a.simKnown = true
	case ForceSimulation:
		a.simKnown, a.simulation, a.jobSim = true, true, true
	}
	a.state = StateJobStarted
	ctxlog.FromContext(ctx).Debug("Cutflow job started.", "cuts", len(a.cuts), "detection", a.opts.Detection.String())
	return nil
}

// BeginFile records a new input file. The simulation flag is derived from the
// presence of the weight field, once or per file depending on Detection. Under
// DetectSticky the first file that lists any fields decides.
func (a *Accountant) BeginFile(ctx context.Context, info FileInfo) error {
	if err := a.expect("BeginFile", StateJobStarted, StateFileEnded); err != nil {
		return err
	}
	if info.Entries < 0 {
		return fmt.Errorf("file %q reports negative entry count %d", info.Name, info.Entries)
	}
	logger := ctxlog.FromContext(ctx)

	switch a.opts.Detection {
	case DetectPerFile:
		a.simulation, a.simKnown = slices.Contains(info.Fields, a.opts.WeightField), true
	case DetectSticky:
		// A file without field information cannot settle the flag.
		if !a.simKnown && len(info.Fields) > 0 {
			a.simulation, a.simKnown = slices.Contains(info.Fields, a.opts.WeightField), true
		}
	}
	if a.simulation {
		a.jobSim = true
		logger.Info("Skimming MC", "file", info.Name, "entries", info.Entries)
	} else {
		logger.Info("Skimming Data", "file", info.Name, "entries", info.Entries)
	}

	a.current = newCounters(len(a.cuts))
	a.current.RawEntries = info.Entries
	a.job.RawEntries += info.Entries
	a.file = info.Name
	a.files++
	a.state = StateFileStarted
	return nil
}

// Analyze evaluates the cuts in order and reports whether the event is kept.
// Evaluation stops at the first failing cut, so only the cuts passed before it
// are counted.
func (a *Accountant) Analyze(ev Event) (bool, error) {
	if err := a.expect("Analyze", StateFileStarted); err != nil {
		return false, err
	}

	weight := 1.0
	if a.simulation {
		w := ev.FloatOr(a.opts.WeightField, *a.opts.WeightDefault)
		if w.Defaulted {
			a.job.DefaultedWeights++
			a.current.DefaultedWeights++
		}
		a.job.SumGenWeights += w.Value
		a.current.SumGenWeights += w.Value
		if a.opts.CountMode == CountWeighted {
			weight = w.Value
		}
	}
	a.job.Processed++
	a.current.Processed++

	for i, cut := range a.cuts {
		ok, err := cut.Pass(ev)
		if err != nil {
			return false, fmt.Errorf("cut %q: %w", cut.Name, err)
		}
		if !ok {
			return false, nil
		}
		a.job.Cuts[i] += weight
		a.current.Cuts[i] += weight
	}

	a.job.Kept++
	a.current.Kept++
	return true, nil
}

// EndFile closes the current file. With per-file reporting enabled it returns
// the file's cutflow histogram, otherwise nil.
func (a *Accountant) EndFile(ctx context.Context) (*Histogram, error) {
	if err := a.expect("EndFile", StateFileStarted); err != nil {
		return nil, err
	}
	a.state = StateFileEnded
	if !a.opts.PerFile {
		return nil, nil
	}
	ctxlog.FromContext(ctx).Info("Skimming is completed. Now filling cutflow histogram bins", "file", a.file)
	return NewHistogram(a.names, a.simulation, a.current)
}

// EndJob closes the job, logs a summary of the global counters and returns
// the job histogram.
func (a *Accountant) EndJob(ctx context.Context) (*Histogram, error) {
	if err := a.expect("EndJob", StateJobStarted, StateFileEnded); err != nil {
		return nil, err
	}
	a.state = StateJobEnded

	h, err := NewHistogram(a.names, a.jobSim, a.job)
	if err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	logger.Info("Cutflow summary.",
		"files", a.files,
		"simulation", a.jobSim,
		"processed", a.job.Processed,
		"kept", a.job.Kept,
		"defaulted_weights", a.job.DefaultedWeights,
	)
	for i, label := range h.Labels {
		logger.Info("Cutflow bin.", "bin", i+1, "label", label, "value", h.Values[i])
	}
	return h, nil
}

// Snapshot returns a copy of the current counters.
func (a *Accountant) Snapshot() Snapshot {
	return Snapshot{
		State:           a.state,
		SimulationKnown: a.simKnown,
		Simulation:      a.simulation,
		CurrentFile:     a.file,
		Files:           a.files,
		Job:             a.job.clone(),
		File:            a.current.clone(),
	}
}
