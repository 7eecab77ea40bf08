package submission

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nanopost/internal/ctxlog"
)

// Submitter hands a request to the grid job-submission client.
type Submitter interface {
	Submit(ctx context.Context, req *Request) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, req *Request) error

// Submit calls f(ctx, req).
func (f SubmitterFunc) Submit(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// Outcome records what happened to one dataset.
type Outcome struct {
	Dataset     string
	RequestName string
	RequestID   string
	Err         error
}

// Report summarises a batch. It is informational only; failures have
// already been logged when it is returned.
type Report struct {
	Submitted []Outcome
	Failed    []Outcome
}

// Total returns the number of datasets attempted.
func (r *Report) Total() int {
	return len(r.Submitted) + len(r.Failed)
}

// Driver submits a list of datasets one after another.
type Driver struct {
	submitter Submitter
	template  Template
	params    Params
}

// NewDriver validates params and returns a driver.
func NewDriver(s Submitter, t Template, p Params) (*Driver, error) {
	if s == nil {
		return nil, fmt.Errorf("submitter is required")
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission parameters: %w", err)
	}
	return &Driver{submitter: s, template: t, params: p}, nil
}

// Run submits every dataset in order. A failed submission is logged and the
// batch moves on to the next dataset; there are no retries. A malformed
// dataset identifier stops the run and is returned as an error, as is a
// cancelled context.
func (d *Driver) Run(ctx context.Context, datasets []string) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	report := &Report{}

	for _, ds := range datasets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger.Info("Submitting dataset", "dataset", ds)

		req, err := Build(ds, d.params, d.template)
		if err != nil {
			return report, err
		}
		reqCtx, reqLogger := ctxlog.With(ctx, "request", req.General.RequestName, "request_id", req.ID)

		outcome := Outcome{Dataset: ds, RequestName: req.General.RequestName, RequestID: req.ID}
		if err := d.submitter.Submit(reqCtx, req); err != nil {
			reqLogger.Error("Failed submitting dataset", "dataset", ds, "error", err.Error())
			outcome.Err = err
			report.Failed = append(report.Failed, outcome)
			continue
		}
		reqLogger.Info("Submitted", "output_tag", req.Data.OutputDatasetTag, "out_lfn_dir_base", req.Data.OutLFNDirBase)
		report.Submitted = append(report.Submitted, outcome)
	}

	logger.Info("All datasets processed.", "submitted", len(report.Submitted), "failed", len(report.Failed))
	return report, nil
}
