package stdlib

import (
	"os/exec"
	"strings"

	"github.com/wflang/wfl/internal/runtime"
)

func registerSubprocess(r *Registry) {
	r.Register(FunctionInfo{
		Name: "run process", Category: CategorySubprocess, MinArg: 1, MaxArg: -1,
		Description: "runs a command and its arguments, returning combined stdout+stderr",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Nothing, errMissingCommand
			}
			name := args[0].String()
			var cmdArgs []string
			for _, a := range args[1:] {
				cmdArgs = append(cmdArgs, a.String())
			}
			out, err := exec.Command(name, cmdArgs...).CombinedOutput()
			if err != nil {
				return runtime.Text(string(out)), err
			}
			return runtime.Text(strings.TrimRight(string(out), "\n")), nil
		},
	})
}

var errMissingCommand = &subprocessError{"run process requires at least one argument"}

type subprocessError struct{ msg string }

func (e *subprocessError) Error() string { return e.msg }
