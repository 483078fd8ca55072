package stdlib

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wflang/wfl/internal/runtime"
)

func registerFilesystem(r *Registry) {
	r.Register(FunctionInfo{
		Name: "document contents", Category: CategoryFilesystem, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			data, err := os.ReadFile(args[0].String())
			if err != nil {
				return runtime.Nothing, err
			}
			return runtime.Text(string(data)), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "save document contents", Category: CategoryFilesystem, MinArg: 2, MaxArg: 2,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			err := os.WriteFile(args[0].String(), []byte(args[1].String()), 0o644)
			return runtime.Nothing, err
		},
	})
	r.Register(FunctionInfo{
		Name: "path exists", Category: CategoryFilesystem, MinArg: 1, MaxArg: 1,
		Function: func(args []runtime.Value) (runtime.Value, error) {
			_, err := os.Stat(args[0].String())
			return runtime.Boolean(err == nil), nil
		},
	})
	r.Register(FunctionInfo{
		Name: "files matching", Category: CategoryFilesystem, MinArg: 1, MaxArg: 2,
		Description: "recursive glob using ** patterns, e.g. \"src/**/*.wfl\"",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			root := "."
			pattern := args[0].String()
			if len(args) > 1 {
				root = args[0].String()
				pattern = args[1].String()
			}
			matches, err := doublestar.Glob(os.DirFS(root), pattern)
			if err != nil {
				return runtime.Nothing, err
			}
			out := make([]runtime.Value, len(matches))
			for i, m := range matches {
				out[i] = runtime.Text(m)
			}
			return runtime.List(out), nil
		},
	})
}
