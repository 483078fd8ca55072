package stdlib

import (
	"time"

	"github.com/wflang/wfl/internal/runtime"
)

func registerTimeModule(r *Registry) {
	r.Register(FunctionInfo{
		Name: "current time", Category: CategoryTime, MinArg: 0, MaxArg: 0,
		Description: "Unix timestamp in seconds",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(float64(time.Now().Unix())), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "format time", Category: CategoryTime, MinArg: 2, MaxArg: 2,
		Description: "formats a Unix timestamp using a Go reference-time layout",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			t := time.Unix(int64(args[0].Num), 0).UTC()
			return runtime.Text(t.Format(args[1].String())), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "sleep seconds", Category: CategoryTime, MinArg: 1, MaxArg: 1,
		Description: "blocks (cooperatively, via internal/interp/async) for the given number of seconds",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			time.Sleep(time.Duration(args[0].Num * float64(time.Second)))
			return runtime.Nothing, nil
		},
	})
}
