package stdlib

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wflang/wfl/internal/runtime"
)

var titleCaser = cases.Title(language.English)
var upperCaser = cases.Upper(language.English)
var lowerCaser = cases.Lower(language.English)

func registerText(r *Registry) {
	r.Register(FunctionInfo{
		Name: "uppercase", Category: CategoryText, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(upperCaser.String(args[0].Str)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "lowercase", Category: CategoryText, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(lowerCaser.String(args[0].Str)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "titlecase", Category: CategoryText, MinArg: 1, MaxArg: 1,
		Description: "locale-aware title casing, e.g. for display headings",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(titleCaser.String(args[0].Str)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "trim", Category: CategoryText, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(strings.TrimSpace(args[0].Str)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "split", Category: CategoryText, MinArg: 2, MaxArg: 2,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			parts := strings.Split(args[0].Str, args[1].String())
			out := make([]runtime.Value, len(parts))
			for i, p := range parts {
				out[i] = runtime.Text(p)
			}
			return runtime.List(out), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "join", Category: CategoryText, MinArg: 2, MaxArg: 2,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args[0].List))
			for i, v := range args[0].List {
				parts[i] = v.String()
			}
			return runtime.Text(strings.Join(parts, args[1].String())), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "replace", Category: CategoryText, MinArg: 3, MaxArg: 3,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			return runtime.Text(strings.ReplaceAll(args[0].Str, args[1].String(), args[2].String())), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "length", Category: CategoryText, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			if args[0].Kind == runtime.KindList {
				return runtime.Number(float64(len(args[0].List))), nil
			}
			return runtime.Number(float64(len([]rune(args[0].Str)))), nil
		},
	})

	registerTextMethods(r)
}

func registerTextMethods(r *Registry) {
	r.RegisterMethod(runtime.KindText, "trim", func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Text(strings.TrimSpace(args[0].Str)), nil
	})
	r.RegisterMethod(runtime.KindText, "uppercase", func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Text(upperCaser.String(args[0].Str)), nil
	})
	r.RegisterMethod(runtime.KindText, "lowercase", func(args []runtime.Value) (runtime.Value, error) {
		return runtime.Text(lowerCaser.String(args[0].Str)), nil
	})
	r.RegisterMethod(runtime.KindText, "split", func(args []runtime.Value) (runtime.Value, error) {
		sep := " "
		if len(args) > 1 {
			sep = args[1].String()
		}
		parts := strings.Split(args[0].Str, sep)
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.Text(p)
		}
		return runtime.List(out), nil
	})
}
