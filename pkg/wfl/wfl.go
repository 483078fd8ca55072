// Package wfl is the embeddable facade over WFL's pipeline: lex, parse,
// import-inline, analyze, type-check, and run a program, returning an
// exit code and the diagnostics collected along the way. Shape grounded
// on CWBudde-go-dws/cmd/dwscript/cmd/run.go's read -> lex -> parse ->
// semantic-check -> exec sequence.
package wfl

import (
	"context"
	"path/filepath"

	"github.com/wflang/wfl/internal/analyzer"
	"github.com/wflang/wfl/internal/importer"
	"github.com/wflang/wfl/internal/interp"
	"github.com/wflang/wfl/internal/parser"
	"github.com/wflang/wfl/internal/stdlib"
	"github.com/wflang/wfl/internal/types"
	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/diagnostics"
	"github.com/wflang/wfl/pkg/token"
)

// Options configures a single RunProgram invocation.
type Options struct {
	TypeCheck bool
	Analyze   bool
	Out       func(string)
}

// RunProgram lexes, parses, (optionally) analyzes and type-checks, then
// interprets source, returning a process exit code (0 success, 1 parse
// or runtime failure) and every diagnostic collected. An Error
// diagnostic from analysis or type checking stops the run before the
// program executes, with exit code 1.
func RunProgram(ctx context.Context, source, filename string, opts Options) (int, []diagnostics.Diagnostic) {
	prog, diags, ok := Parse(filename, source)
	if !ok {
		return 1, diags
	}

	if opts.Analyze {
		a := analyzer.New(filename, source)
		diags = append(diags, a.Analyze(prog)...)
	}
	if opts.TypeCheck {
		reg := types.NewRegistry()
		checker := types.NewChecker(filename, source, reg)
		diags = append(diags, checker.Check(prog)...)
	}
	if diagnostics.HasErrors(diags) {
		return 1, diags
	}

	out := opts.Out
	if out == nil {
		out = func(string) {}
	}

	typeReg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(typeReg)
	in := interp.New(modules, out)
	modules.BindEnv(in.Global)

	if err := in.Run(ctx, prog); err != nil {
		diags = append(diags, diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Category: diagnostics.CategoryRuntime,
			Message:  err.Error(),
			File:     filename,
			Source:   source,
		})
		return 1, diags
	}
	if diagnostics.HasErrors(diags) {
		return 1, diags
	}
	return 0, diags
}

// Parse lexes and parses source (inlining any `load` statements
// relative to filename's directory), returning the AST and any
// diagnostics collected. ok is false if parse errors make the AST
// unsafe to analyze or run further.
func Parse(filename, source string) (*ast.Program, []diagnostics.Diagnostic, bool) {
	prog, perrs := parseOnly(filename, source)
	var diags []diagnostics.Diagnostic
	for _, e := range perrs {
		diags = append(diags, diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Category: diagnostics.CategoryParse,
			Message:  e.Message,
			File:     filename,
			Pos:      e.Pos,
			Source:   source,
		})
	}
	if len(perrs) > 0 {
		return prog, diags, false
	}

	imp := importer.New(filepath.Dir(filename), func(f, s string) (*ast.Program, []importer.ParseError) {
		p, errs := parseOnly(f, s)
		out := make([]importer.ParseError, len(errs))
		for i, e := range errs {
			out[i] = importer.ParseError{Message: e.Message, Pos: e.Pos}
		}
		return p, out
	})
	resolved, err := imp.ResolveRoot(filename, prog)
	if err != nil {
		diags = append(diags, diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Category: diagnostics.CategoryImport,
			Message:  err.Error(),
			File:     filename,
			Source:   source,
		})
		return prog, diags, false
	}
	return resolved, diags, true
}

type parseErr struct {
	Message string
	Pos     token.Position
}

func parseOnly(filename, source string) (*ast.Program, []parseErr) {
	p := parser.New(filename, source)
	prog := p.ParseProgram()
	errs := make([]parseErr, len(p.Errors()))
	for i, e := range p.Errors() {
		errs[i] = parseErr{Message: e.Message, Pos: e.Pos}
	}
	return prog, errs
}
