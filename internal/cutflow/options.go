package cutflow

import (
	"fmt"
	"strings"
)

// DefaultWeightField is the generator-weight field of simulated NanoAOD.
const DefaultWeightField = "genWeight"

// DefaultWeight stands in for a generator weight that cannot be read.
const DefaultWeight = 1.0

// Detection controls how the simulation flag is decided.
type Detection int

const (
	// DetectSticky derives the flag from the first file and keeps it.
	DetectSticky Detection = iota
	// DetectPerFile derives the flag again for every file.
	DetectPerFile
	// ForceData treats every input as collision data.
	ForceData
	// ForceSimulation treats every input as simulation.
	ForceSimulation
)

var detectionNames = map[Detection]string{
	DetectSticky:    "sticky",
	DetectPerFile:   "per_file",
	ForceData:       "data",
	ForceSimulation: "simulation",
}

func (d Detection) String() string {
	if s, ok := detectionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Detection(%d)", int(d))
}

// ParseDetection accepts the names used in configuration files and flags.
func ParseDetection(s string) (Detection, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if norm == "" {
		return DetectSticky, nil
	}
	for d, name := range detectionNames {
		if name == norm {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid detection %q: must be 'sticky', 'per_file', 'data' or 'simulation'", s)
}

// CountMode controls what a passed cut adds to its counter.
type CountMode int

const (
	// CountRaw adds 1 per event.
	CountRaw CountMode = iota
	// CountWeighted adds the generator weight for simulation and 1 for data.
	// Negative weights can make a later cut exceed an earlier one.
	CountWeighted
)

func (m CountMode) String() string {
	if m == CountWeighted {
		return "weighted"
	}
	return "raw"
}

// ParseCountMode accepts "raw" or "weighted".
func ParseCountMode(s string) (CountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "raw":
		return CountRaw, nil
	case "weighted":
		return CountWeighted, nil
	default:
		return 0, fmt.Errorf("invalid count mode %q: must be 'raw' or 'weighted'", s)
	}
}

// Options configures an Accountant.
type Options struct {
	Detection   Detection
	CountMode   CountMode
	PerFile     bool
	WeightField string
	// WeightDefault replaces unreadable generator weights. Nil means
	// DefaultWeight.
	WeightDefault *float64
}

func (o Options) withDefaults() Options {
	if o.WeightField == "" {
		o.WeightField = DefaultWeightField
	}
	w := DefaultWeight
	if o.WeightDefault != nil {
		w = *o.WeightDefault
	}
	o.WeightDefault = &w
	return o
}
