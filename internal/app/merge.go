package app

import (
	"context"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/histio"
)

// Merge sums cutflow reports from several jobs into one.
func (a *App) Merge(ctx context.Context, c MergeConfig) (histio.Report, error) {
	if err := c.Validate(); err != nil {
		return histio.Report{}, err
	}
	reports := make([]histio.Report, 0, len(c.Inputs))
	for _, in := range c.Inputs {
		rep, err := histio.ReadReportFile(in)
		if err != nil {
			return histio.Report{}, err
		}
		if len(rep.Sources) == 0 {
			rep.Sources = []string{in}
		}
		reports = append(reports, rep)
	}

	merged, err := histio.Merge(reports...)
	if err != nil {
		return histio.Report{}, err
	}

	if c.Output == "" {
		err = histio.WriteReport(a.outW, merged)
	} else {
		err = histio.WriteReportFile(c.Output, merged)
	}
	if err != nil {
		return histio.Report{}, err
	}
	if c.ROOTOutput != "" {
		if err := histio.WriteROOT(c.ROOTOutput, merged.Histogram()); err != nil {
			return histio.Report{}, err
		}
	}
	ctxlog.FromContext(a.withLogger(ctx)).Debug("Merged cutflow reports.", "reports", len(reports), "output", c.Output)
	return merged, nil
}
