package cutflow

import (
	"fmt"
)

// Predicate decides whether an event passes a cut.
type Predicate func(ev Event) (bool, error)

// Cut is one named, ordered selection step.
type Cut struct {
	Name string
	Pass Predicate
}

// Func adapts a plain boolean function into a Predicate.
func Func(fn func(ev Event) bool) Predicate {
	return func(ev Event) (bool, error) {
		return fn(ev), nil
	}
}

// Names returns the cut names in evaluation order.
func Names(cuts []Cut) []string {
	names := make([]string, len(cuts))
	for i, c := range cuts {
		names[i] = c.Name
	}
	return names
}

func validateCuts(cuts []Cut) error {
	seen := make(map[string]struct{}, len(cuts))
	for i, c := range cuts {
		if c.Name == "" {
			return fmt.Errorf("cut %d has an empty name", i)
		}
		if c.Pass == nil {
			return fmt.Errorf("cut %q has no predicate", c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("cut %q is defined more than once", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}
