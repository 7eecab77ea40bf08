// Package dataset parses dataset identifiers, reads dataset list files and
// derives the short request names used when submitting grid jobs.
//
// Identifiers have the shape /Primary/Processed/Tier. Request-name derivation
// is a pure function of the identifier, the dataset kind and the naming
// style, and never returns a name longer than MaxRequestNameLength.
package dataset
