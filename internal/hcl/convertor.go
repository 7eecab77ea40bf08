package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nanopost/internal/config"
	"github.com/specialistvlad/nanopost/internal/ctxlog"
	"github.com/specialistvlad/nanopost/internal/cutflow"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	functions map[string]function.Function
}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{functions: Functions()}
}

// Predicate compiles a cut definition into an event predicate. Event fields
// are exposed to the expression as top-level variables.
func (c *Converter) Predicate(ctx context.Context, def *config.CutDefinition) (cutflow.Predicate, error) {
	if def == nil || def.Pass == nil {
		return nil, fmt.Errorf("cut definition has no pass expression")
	}
	ctxlog.FromContext(ctx).Debug("Compiling cut.", "cut", def.Name, "source", def.Source)

	expr := def.Pass
	return func(ev cutflow.Event) (bool, error) {
		evalCtx := &hcl.EvalContext{
			Variables: ev.Fields(),
			Functions: c.functions,
		}
		return c.evalBool(expr, evalCtx)
	}, nil
}

// evalBool evaluates expr and converts the result to a bool.
func (c *Converter) evalBool(expr hcl.Expression, evalCtx *hcl.EvalContext) (bool, error) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, diags
	}
	if val.IsNull() {
		return false, fmt.Errorf("expression at %s evaluated to null", expr.Range())
	}
	if !val.IsKnown() {
		return false, fmt.Errorf("expression at %s evaluated to an unknown value", expr.Range())
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expression at %s must be a bool, got %s", expr.Range(), val.Type().FriendlyName())
	}
	return converted.True(), nil
}
