// Package submission builds grid job requests for NanoAOD datasets and
// submits them through a Submitter, one dataset at a time.
//
// Every request starts from a Template (job limits, splitting policy,
// storage site) that can be overridden from configuration. Submission
// failures are isolated per dataset: the Driver logs them and continues.
package submission
