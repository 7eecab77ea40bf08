// Package config defines the format-agnostic configuration model of
// nanopost, along with the Loader and Converter interfaces implemented by
// concrete formats.
//
// The Model carries the cutflow settings, the ordered cut definitions and the
// submission template overrides. The hcl package provides the HCL
// implementation; the cutflow and submission packages only ever see the
// model.
package config
