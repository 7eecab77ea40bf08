package hcl

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2/ext/tryfunc"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// SqrtFunc returns the square root of a non-negative number.
var SqrtFunc = function.New(&function.Spec{
	Description: "Returns the square root of the given number.",
	Params: []function.Parameter{
		{Name: "num", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		f, _ := args[0].AsBigFloat().Float64()
		if f < 0 {
			return cty.UnknownVal(cty.Number), fmt.Errorf("cannot take the square root of negative number %g", f)
		}
		return cty.NumberFloatVal(math.Sqrt(f)), nil
	},
})

// IsSetFunc reports whether a detector flag is set. NanoAOD stores flags as
// booleans, older ntuples as 0/1 integers; both are accepted, and a number
// counts as set only when it is exactly 1.
var IsSetFunc = function.New(&function.Spec{
	Description: "Returns true when a boolean flag is true or a numeric flag equals 1.",
	Params: []function.Parameter{
		{Name: "flag", Type: cty.DynamicPseudoType},
	},
	Type: function.StaticReturnType(cty.Bool),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		v := args[0]
		switch {
		case v.Type().Equals(cty.Bool):
			return v, nil
		case v.Type().Equals(cty.Number):
			f, _ := v.AsBigFloat().Float64()
			return cty.BoolVal(f == 1), nil
		}
		b, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return cty.UnknownVal(cty.Bool), fmt.Errorf("flag of type %s cannot be interpreted as a bool", v.Type().FriendlyName())
		}
		return b, nil
	},
})

// Functions returns the function table available to cut expressions.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"sqrt":   SqrtFunc,
		"min":    stdlib.MinFunc,
		"max":    stdlib.MaxFunc,
		"floor":  stdlib.FloorFunc,
		"ceil":   stdlib.CeilFunc,
		"is_set": IsSetFunc,
		"try":    tryfunc.TryFunc,
		"can":    tryfunc.CanFunc,
	}
}
