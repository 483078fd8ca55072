// JSON support builds on tidwall/gjson (read) and tidwall/sjson (write)
// rather than encoding/json, since WFL's dynamic Value model maps more
// directly onto path-based get/set than onto struct marshaling, and
// every other example repo in the pack that touches JSON (go-dws's
// debug-report tooling) reaches for the same tidwall pair.
package stdlib

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/wflang/wfl/internal/runtime"
)

func registerJSON(r *Registry) {
	r.Register(FunctionInfo{
		Name: "json value at", Category: CategoryJSON, MinArg: 2, MaxArg: 2,
		Description: "reads a value out of a JSON text by dotted path",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			result := gjson.Get(args[0].String(), args[1].String())
			return gjsonToValue(result), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "json set", Category: CategoryJSON, MinArg: 3, MaxArg: 3,
		Description: "returns new JSON text with the path set to the given value",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			out, err := sjson.Set(args[0].String(), args[1].String(), jsonable(args[2]))
			if err != nil {
				return runtime.Nothing, err
			}
			return runtime.Text(out), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "valid json", Category: CategoryJSON, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Boolean(gjson.Valid(args[0].String())), nil
		},
	})
}

func jsonable(v runtime.Value) interface{} {
	switch v.Kind {
	case runtime.KindNumber:
		return v.Num
	case runtime.KindBoolean:
		return v.Bool
	case runtime.KindNothing:
		return nil
	case runtime.KindList:
		out := make([]interface{}, len(v.List))
		for i, e := range v.List {
			out[i] = jsonable(e)
		}
		return out
	default:
		return v.String()
	}
}

func gjsonToValue(res gjson.Result) runtime.Value {
	switch res.Type {
	case gjson.Number:
		return runtime.Number(res.Num)
	case gjson.String:
		return runtime.Text(res.Str)
	case gjson.True, gjson.False:
		return runtime.Boolean(res.Bool())
	case gjson.Null:
		return runtime.Nothing
	case gjson.JSON:
		if res.IsArray() {
			var items []runtime.Value
			res.ForEach(func(_, v gjson.Result) bool {
				items = append(items, gjsonToValue(v))
				return true
			})
			return runtime.List(items)
		}
		m := runtime.NewOrderedMap()
		res.ForEach(func(k, v gjson.Result) bool {
			m.Set(k.String(), gjsonToValue(v))
			return true
		})
		return runtime.Value{Kind: runtime.KindMap, Map: m}
	default:
		return runtime.Nothing
	}
}
