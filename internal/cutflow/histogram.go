package cutflow

import "fmt"

const (
	HistogramName  = "cutflow"
	LabelSumWeight = "Sum of genWeights"
	LabelNoCuts    = "No Cuts"
)

// Histogram is a labelled, fixed-layout cutflow histogram. Bin i (0-based)
// holds Values[i] and is labelled Labels[i].
type Histogram struct {
	Name       string
	Title      string
	Simulation bool
	Labels     []string
	Values     []float64
}

// Layout returns the bin labels for a cut list: an optional generator-weight
// bin, the "No Cuts" bin, then one bin per cut in declaration order.
func Layout(cutNames []string, simulation bool) []string {
	labels := make([]string, 0, len(cutNames)+2)
	if simulation {
		labels = append(labels, LabelSumWeight)
	}
	labels = append(labels, LabelNoCuts)
	return append(labels, cutNames...)
}

// NewHistogram fills a histogram from counters.
func NewHistogram(cutNames []string, simulation bool, c Counters) (*Histogram, error) {
	if len(c.Cuts) != len(cutNames) {
		return nil, fmt.Errorf("counter count %d does not match cut count %d", len(c.Cuts), len(cutNames))
	}
	values := make([]float64, 0, len(cutNames)+2)
	if simulation {
		values = append(values, c.SumGenWeights)
	}
	values = append(values, float64(c.RawEntries))
	values = append(values, c.Cuts...)

	return &Histogram{
		Name:       HistogramName,
		Title:      HistogramName,
		Simulation: simulation,
		Labels:     Layout(cutNames, simulation),
		Values:     values,
	}, nil
}

// NBins returns the number of bins.
func (h *Histogram) NBins() int {
	return len(h.Values)
}

// Bin returns the content of the 1-based bin, following the histogram
// library convention used by the output files.
func (h *Histogram) Bin(i int) float64 {
	if i < 1 || i > len(h.Values) {
		return 0
	}
	return h.Values[i-1]
}

// Clone returns a deep copy.
func (h *Histogram) Clone() *Histogram {
	out := *h
	out.Labels = append([]string(nil), h.Labels...)
	out.Values = append([]float64(nil), h.Values...)
	return &out
}
