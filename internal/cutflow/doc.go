// Package cutflow implements the cutflow accountant of the skimming module.
//
// An Accountant owns a fixed, ordered list of named cuts. The event loop
// drives it through an explicit lifecycle:
//
//	BeginJob -> (BeginFile -> Analyze* -> EndFile)* -> EndJob
//
// For every event the cuts are evaluated in order and evaluation stops at the
// first failure, so the counter of cut i only grows for events that passed
// cuts 0..i-1. For simulation the generator weight of every processed event
// is summed, with unreadable weights replaced by a default.
//
// At file or job end the counters are materialised into a Histogram whose
// bin layout depends only on the simulation flag and the cut names.
package cutflow
