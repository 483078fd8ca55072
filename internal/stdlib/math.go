package stdlib

import (
	"crypto/rand"
	"encoding/binary"
	"math"

	"github.com/wflang/wfl/internal/runtime"
)

func registerMath(r *Registry) {
	unary := map[string]func(float64) float64{
		"absolute value": math.Abs,
		"square root":    math.Sqrt,
		"round":          math.Round,
		"round up":       math.Ceil,
		"round down":     math.Floor,
		"sine":           math.Sin,
		"cosine":         math.Cos,
	}
	for name, fn := range unary {
		name, fn := name, fn
		r.Register(FunctionInfo{
			Name: name, Category: CategoryMath, MinArg: 1, MaxArg: 1,
			Function: func(args []runtime.Value) (runtime.Value, error) {
				return runtime.Number(fn(args[0].Num)), nil
			},
		})
	}
	r.Register(FunctionInfo{
		Name: "power", Category: CategoryMath, MinArg: 2, MaxArg: 2,
		Description: "raises the first argument to the second's power",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Number(math.Pow(args[0].Num, args[1].Num)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "maximum", Category: CategoryMath, MinArg: 2, MaxArg: -1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			m := args[0].Num
			for _, a := range args[1:] {
				m = math.Max(m, a.Num)
			}
			return runtime.Number(m), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "minimum", Category: CategoryMath, MinArg: 2, MaxArg: -1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			m := args[0].Num
			for _, a := range args[1:] {
				m = math.Min(m, a.Num)
			}
			return runtime.Number(m), nil
		},
	})
}

func registerRandomModule(r *Registry) {
	r.Register(FunctionInfo{
		Name: "random number", Category: CategoryRandom, MinArg: 2, MaxArg: 2,
		Description: "a cryptographically random integer in [min, max]",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			lo, hi := int64(args[0].Num), int64(args[1].Num)
			if hi < lo {
				lo, hi = hi, lo
			}
			span := uint64(hi-lo) + 1
			var buf [8]byte
			if _, err := rand.Read(buf[:]); err != nil {
				return runtime.Nothing, err
			}
			n := binary.BigEndian.Uint64(buf[:]) % span
			return runtime.Number(float64(lo + int64(n))), nil
		},
	})
}
