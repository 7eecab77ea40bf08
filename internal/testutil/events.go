package testutil

import (
	"encoding/json"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// METFilters are the NanoAOD noise-filter flags of the default cut set.
var METFilters = []string{
	"Flag_goodVertices",
	"Flag_globalSuperTightHalo2016Filter",
	"Flag_EcalDeadCellTriggerPrimitiveFilter",
	"Flag_BadPFMuonFilter",
	"Flag_BadPFMuonDzFilter",
	"Flag_hfNoisyHitsFilter",
	"Flag_eeBadScFilter",
	"Flag_ecalBadCalibFilter",
}

// PassingEvent returns NanoAOD-like fields that pass every default cut,
// with overrides applied on top. A nil override value removes the field.
func PassingEvent(overrides map[string]any) map[string]any {
	ev := map[string]any{
		"nFatJet":     1,
		"PuppiMET_pt": 180.0,
		"PV_ndof":     8,
		"PV_z":        2.5,
		"PV_x":        0.02,
		"PV_y":        -0.01,
		"nTau":        1,
	}
	for _, f := range METFilters {
		ev[f] = true
	}
	maps.Copy(ev, overrides)
	for k, v := range overrides {
		if v == nil {
			delete(ev, k)
		}
	}
	return ev
}

// JSONLines encodes events as JSON Lines.
func JSONLines(t *testing.T, events ...map[string]any) string {
	t.Helper()
	var sb strings.Builder
	for _, ev := range events {
		raw, err := json.Marshal(ev)
		require.NoError(t, err)
		sb.Write(raw)
		sb.WriteByte('\n')
	}
	return sb.String()
}
