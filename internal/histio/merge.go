package histio

import (
	"fmt"
	"slices"
)

// Merge sums reports bin by bin. All reports must share the same layout:
// identical labels in the same order and the same simulation flag.
func Merge(reports ...Report) (Report, error) {
	if len(reports) == 0 {
		return Report{}, fmt.Errorf("nothing to merge")
	}
	first := reports[0]
	out := Report{
		Name:       first.Name,
		Title:      first.Title,
		Simulation: first.Simulation,
		Bins:       slices.Clone(first.Bins),
	}
	out.Sources = append(out.Sources, first.Sources...)

	for i, r := range reports[1:] {
		if r.Simulation != first.Simulation {
			return Report{}, fmt.Errorf("report %d: simulation flag %t does not match %t", i+1, r.Simulation, first.Simulation)
		}
		if len(r.Bins) != len(first.Bins) {
			return Report{}, fmt.Errorf("report %d: %d bins, expected %d", i+1, len(r.Bins), len(first.Bins))
		}
		for j, b := range r.Bins {
			if b.Label != first.Bins[j].Label {
				return Report{}, fmt.Errorf("report %d: bin %d is %q, expected %q", i+1, j+1, b.Label, first.Bins[j].Label)
			}
			out.Bins[j].Value += b.Value
		}
		out.Sources = append(out.Sources, r.Sources...)
	}
	return out, nil
}
