package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wflang/wfl/internal/analyzer"
	"github.com/wflang/wfl/internal/lexer"
	"github.com/wflang/wfl/internal/parser"
	"github.com/wflang/wfl/pkg/diagnostics"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "print the token stream for a WFL source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		scan := lexer.NewScanner(args[0], string(data))
		for {
			tok := scan.Next()
			fmt.Println(tok.String())
			if tok.Type.String() == "EOF" {
				break
			}
		}
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "print the parsed AST for a WFL source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p := parser.New(args[0], string(data))
		prog := p.ParseProgram()
		if len(p.Errors()) > 0 {
			for _, e := range p.Errors() {
				fmt.Fprintf(os.Stderr, "%s:%s: %s\n", args[0], e.Pos, e.Message)
			}
			return &exitError{code: 1}
		}
		fmt.Println(debugDump("program", prog))
		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "run scope analysis and print warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p := parser.New(args[0], string(data))
		prog := p.ParseProgram()
		if len(p.Errors()) > 0 {
			for _, e := range p.Errors() {
				fmt.Fprintf(os.Stderr, "%s:%s: %s\n", args[0], e.Pos, e.Message)
			}
			return &exitError{code: 1}
		}
		a := analyzer.New(args[0], string(data))
		diags := a.Analyze(prog)
		for _, d := range diags {
			fmt.Fprint(os.Stderr, d.Format(true))
		}
		if diagnostics.HasErrors(diags) {
			return &exitError{code: 1}
		}
		return nil
	},
}
