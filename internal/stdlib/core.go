package stdlib

import (
	"fmt"

	"github.com/wflang/wfl/internal/runtime"
)

func registerCore(r *Registry) {
	r.Register(FunctionInfo{
		Name: "typeof", Category: CategoryCore, MinArg: 1, MaxArg: 1,
		Description: "returns the kind name of a value",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(args[0].Kind.String()), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "text value", Category: CategoryCore, MinArg: 1, MaxArg: 1,
		Description: "converts any value to its text representation",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(args[0].String()), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "number value", Category: CategoryCore, MinArg: 1, MaxArg: 1,
		Description: "parses text as a number",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			var f float64
			_, err := fmt.Sscanf(args[0].String(), "%g", &f)
			if err != nil {
				return runtime.Nothing, fmt.Errorf("cannot convert %q to a number", args[0].String())
			}
			return runtime.Number(f), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "empty value", Category: CategoryCore, MinArg: 1, MaxArg: 1,
		Description: "reports whether a value is nothing",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(args[0].Kind == runtime.KindNothing), nil
		},
	})
}
