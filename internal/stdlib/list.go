package stdlib

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/wflang/wfl/internal/runtime"
)

func registerList(r *Registry) {
	r.Register(FunctionInfo{
		Name: "sorted items", Category: CategoryList, MinArg: 1, MaxArg: 1,
		Description: "sorts text elements using natural (human) ordering, so \"item2\" sorts before \"item10\"",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			items := append([]runtime.Value{}, args[0].List...)
			sort.SliceStable(items, func(i, j int) bool {
				return natural.Less(items[i].String(), items[j].String())
			})
			return runtime.List(items), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "reversed items", Category: CategoryList, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			src := args[0].List
			out := make([]runtime.Value, len(src))
			for i, v := range src {
				out[len(src)-1-i] = v
			}
			return runtime.List(out), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "push item", Category: CategoryList, MinArg: 2, MaxArg: 2,
		Description: "returns a new list with the item appended",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			out := append(append([]runtime.Value{}, args[0].List...), args[1])
			return runtime.List(out), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "dictionary keys", Category: CategoryList, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			keys := args[0].Map.Keys()
			out := make([]runtime.Value, len(keys))
			for i, k := range keys {
				out[i] = runtime.Text(k)
			}
			return runtime.List(out), nil
		},
	})

	r.RegisterMethod(runtime.KindList, "sorted", func(args []runtime.Value) (runtime.Value, error) {
		items := append([]runtime.Value{}, args[0].List...)
		sort.SliceStable(items, func(i, j int) bool {
			return natural.Less(items[i].String(), items[j].String())
		})
		return runtime.List(items), nil
	})
	r.RegisterMethod(runtime.KindList, "length", func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(float64(len(args[0].List))), nil
	})
}
