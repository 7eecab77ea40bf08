package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedIdentifier is returned for identifiers that do not have the
// /Primary/Processed/Tier shape. Callers treat it as fatal.
var ErrMalformedIdentifier = errors.New("malformed dataset identifier")

// Kind is the dataset type given on the command line.
type Kind string

const (
	KindData Kind = "Data"
	KindMC   Kind = "MC"
)

// ParseKind validates a dataset type string. The match is exact, the same
// way the submit command documents it.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindData, KindMC:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("invalid dataset type %q: must be 'Data' or 'MC'", s)
	}
}

// Identifier is a parsed dataset path such as
// /JetHT/Run2024A-PromptReco-v1/NANOAOD.
type Identifier struct {
	Raw       string
	Primary   string
	Processed string
	Tier      string
}

// Parse splits a slash-delimited dataset identifier into its segments.
func Parse(raw string) (Identifier, error) {
	trimmed := strings.TrimSpace(raw)
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) < 3 {
		return Identifier{}, fmt.Errorf("%w: %q has %d path segments, want 3", ErrMalformedIdentifier, raw, len(parts))
	}
	for i, p := range parts[:3] {
		if p == "" {
			return Identifier{}, fmt.Errorf("%w: %q has an empty segment at position %d", ErrMalformedIdentifier, raw, i+1)
		}
	}
	return Identifier{
		Raw:       trimmed,
		Primary:   parts[0],
		Processed: parts[1],
		Tier:      strings.Join(parts[2:], "/"),
	}, nil
}

// String returns the identifier as it was read from the list file.
func (id Identifier) String() string {
	return id.Raw
}
