package histio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/nanopost/internal/cutflow"
	"gopkg.in/yaml.v3"
)

// Bin is one labelled histogram bin.
type Bin struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
}

// Report is the human-readable form of a cutflow histogram.
type Report struct {
	Name       string   `yaml:"name"`
	Title      string   `yaml:"title"`
	Simulation bool     `yaml:"simulation"`
	Sources    []string `yaml:"sources,omitempty"`
	Bins       []Bin    `yaml:"bins"`
}

// FromHistogram builds a report for h, recording where its counts came from.
func FromHistogram(h *cutflow.Histogram, sources ...string) Report {
	r := Report{
		Name:       h.Name,
		Title:      h.Title,
		Simulation: h.Simulation,
		Sources:    append([]string(nil), sources...),
		Bins:       make([]Bin, len(h.Values)),
	}
	for i, v := range h.Values {
		r.Bins[i] = Bin{Label: h.Labels[i], Value: v}
	}
	return r
}

// Histogram converts the report back into a histogram.
func (r Report) Histogram() *cutflow.Histogram {
	h := &cutflow.Histogram{
		Name:       r.Name,
		Title:      r.Title,
		Simulation: r.Simulation,
		Labels:     make([]string, len(r.Bins)),
		Values:     make([]float64, len(r.Bins)),
	}
	for i, b := range r.Bins {
		h.Labels[i] = b.Label
		h.Values[i] = b.Value
	}
	return h
}

// WriteReport encodes r as YAML.
func WriteReport(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode cutflow report: %w", err)
	}
	return enc.Close()
}

// ReadReport decodes a YAML report. Unknown keys are rejected.
func ReadReport(r io.Reader) (Report, error) {
	var rep Report
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rep); err != nil {
		if errors.Is(err, io.EOF) {
			return Report{}, fmt.Errorf("empty cutflow report")
		}
		return Report{}, fmt.Errorf("failed to decode cutflow report: %w", err)
	}
	if len(rep.Bins) == 0 {
		return Report{}, fmt.Errorf("cutflow report %q has no bins", rep.Name)
	}
	return rep, nil
}

// WriteReportFile writes r to path.
func WriteReportFile(path string, r Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report '%s': %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return WriteReport(f, r)
}

// ReadReportFile reads the report stored at path.
func ReadReportFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open report '%s': %w", path, err)
	}
	defer f.Close()
	rep, err := ReadReport(f)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}
