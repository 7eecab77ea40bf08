package cutflow

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// metFilters are the detector-noise flags that must all be set.
var metFilters = []string{
	"Flag_goodVertices",
	"Flag_globalSuperTightHalo2016Filter",
	"Flag_EcalDeadCellTriggerPrimitiveFilter",
	"Flag_BadPFMuonFilter",
	"Flag_BadPFMuonDzFilter",
	"Flag_hfNoisyHitsFilter",
	"Flag_eeBadScFilter",
	"Flag_ecalBadCalibFilter",
}

// DefaultCuts returns the boosted di-tau preselection on NanoAOD events.
func DefaultCuts() []Cut {
	cuts := []Cut{
		{Name: "FatJet Requirement", Pass: greater("nFatJet", 0)},
		{Name: "PuppiMET_pt Threshold", Pass: atLeast("PuppiMET_pt", 120)},
	}
	for _, flag := range metFilters {
		cuts = append(cuts, Cut{Name: flag, Pass: equals(flag, 1)})
	}
	return append(cuts,
		Cut{Name: "Good Primary Vertices", Pass: goodPrimaryVertex},
		Cut{Name: "Tau requirement", Pass: hasTau},
	)
}

// number reads a field that the cut requires.
func number(ev Event, name string) (float64, error) {
	if _, ok := ev.Get(name); !ok {
		return 0, fmt.Errorf("event has no field %q", name)
	}
	f := ev.FloatOr(name, 0)
	if f.Defaulted {
		return 0, fmt.Errorf("field %q is %s", name, f.Reason)
	}
	return f.Value, nil
}

func greater(name string, threshold float64) Predicate {
	return func(ev Event) (bool, error) {
		v, err := number(ev, name)
		return v > threshold, err
	}
}

func atLeast(name string, threshold float64) Predicate {
	return func(ev Event) (bool, error) {
		v, err := number(ev, name)
		return v >= threshold, err
	}
}

func equals(name string, want float64) Predicate {
	return func(ev Event) (bool, error) {
		if v, ok := ev.Get(name); ok && v.Type().Equals(cty.Bool) && v.IsKnown() && !v.IsNull() {
			return v.True() == (want == 1), nil
		}
		v, err := number(ev, name)
		return v == want, err
	}
}

func goodPrimaryVertex(ev Event) (bool, error) {
	vals := make(map[string]float64, 4)
	for _, name := range []string{"PV_ndof", "PV_z", "PV_x", "PV_y"} {
		v, err := number(ev, name)
		if err != nil {
			return false, err
		}
		vals[name] = v
	}
	return vals["PV_ndof"] > 4 &&
		math.Abs(vals["PV_z"]) < 24 &&
		math.Hypot(vals["PV_x"], vals["PV_y"]) < 2, nil
}

// hasTau accepts either a standard or a boosted tau. Older NanoAOD versions
// have no boosted taus, so a missing nboostedTau counts as zero.
func hasTau(ev Event) (bool, error) {
	nTau, err := number(ev, "nTau")
	if err != nil {
		return false, err
	}
	if nTau > 0 {
		return true, nil
	}
	return ev.FloatOr("nboostedTau", 0).Value > 0, nil
}
