// Package postproc is a local event loop for the cutflow accountant.
//
// It reads events from JSON Lines files, drives an Accountant through its
// job and file lifecycle and writes the kept events as a ROOT tree, with a
// JSON Lines copy beside it. Cutflow histograms go into the same ROOT file
// as the tree they describe.
package postproc
