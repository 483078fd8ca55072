// Command wfl is the WFL CLI: run, lex, parse, analyze, lint, fix,
// config, and builtins subcommands, wired with Cobra in the same style
// as CWBudde-go-dws/cmd/dwscript.
package main

import (
	"fmt"
	"os"

	"github.com/wflang/wfl/cmd/wfl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
