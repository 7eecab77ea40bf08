package cutflow

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Event is a read-only record of named fields handed to the accountant by
// the event loop.
type Event struct {
	fields map[string]cty.Value
}

// NewEvent wraps a field map. The map is not copied and must not be changed
// while the event is in use.
func NewEvent(fields map[string]cty.Value) Event {
	return Event{fields: fields}
}

// EventFromValue builds an event from a cty object or map value, as produced
// by decoding one JSON event record.
func EventFromValue(v cty.Value) (Event, error) {
	if v.IsNull() || !v.IsKnown() {
		return Event{}, fmt.Errorf("event value must be known and non-null")
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return Event{}, fmt.Errorf("event value must be an object, got %s", ty.FriendlyName())
	}
	return Event{fields: v.AsValueMap()}, nil
}

// Get returns the named field.
func (e Event) Get(name string) (cty.Value, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Fields exposes the underlying field map for expression evaluation.
func (e Event) Fields() map[string]cty.Value {
	return e.fields
}

// Names returns the field names in sorted order.
func (e Event) Names() []string {
	names := make([]string, 0, len(e.fields))
	for k := range e.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Value returns the event as a cty object, for writing it back out.
func (e Event) Value() cty.Value {
	if len(e.fields) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(e.fields)
}

// FloatField is the result of a read-or-default access. Defaulted is true
// when the field was missing or could not be read as a number.
type FloatField struct {
	Value     float64
	Defaulted bool
	Reason    string
}

// FloatOr reads a numeric field, falling back to def. Strings holding a
// number are accepted.
func (e Event) FloatOr(name string, def float64) FloatField {
	v, ok := e.fields[name]
	if !ok {
		return FloatField{Value: def, Defaulted: true, Reason: "missing"}
	}
	if v.IsNull() || !v.IsKnown() {
		return FloatField{Value: def, Defaulted: true, Reason: "null"}
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return FloatField{Value: def, Defaulted: true, Reason: "not a number"}
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return FloatField{Value: def, Defaulted: true, Reason: "out of range"}
	}
	return FloatField{Value: f}
}
