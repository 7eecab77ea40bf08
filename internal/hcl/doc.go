// Package hcl provides the concrete HCL implementation of the configuration
// loading and conversion interfaces defined in the `config` package.
//
// It parses `cutflow`, `cut` and `submission` blocks, checks cut
// expressions against the function table of Functions, and compiles them
// into predicates evaluated with the event's fields as variables. A default
// cut configuration is embedded in the binary.
package hcl
