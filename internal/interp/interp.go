// Package interp is WFL's tree-walking evaluator. Control flow
// (return/break/continue) is carried as typed signal values returned
// alongside normal results rather than via panic/recover, matching the
// explicit-error-return discipline CWBudde-go-dws uses throughout its
// interp package instead of exceptions.
package interp

import (
	"context"
	"errors"
	"fmt"

	"github.com/wflang/wfl/internal/interp/async"
	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/internal/stdlib"
	"github.com/wflang/wfl/pkg/ast"
)

// ErrTimeout is returned by Run when ctx's deadline (driven by the
// .wflcfg timeout_seconds key, spec.md §6.3) elapses mid-execution.
var ErrTimeout = errors.New("program exceeded its configured timeout")

// signal is returned alongside a Value to unwind a block for
// return/break/continue without allocating a panic per control-flow
// event in tight loops.
type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
	signalBreak
	signalContinue
)

type signal struct {
	kind  signalKind
	value runtime.Value
}

// Interpreter holds the global environment, stdlib registry, and the
// cooperative async runtime shared by every evaluation in a run.
type Interpreter struct {
	Global  *runtime.Environment
	Modules *stdlib.Registry
	Runtime *async.Runtime
	Out     func(string)
}

func New(modules *stdlib.Registry, out func(string)) *Interpreter {
	return &Interpreter{
		Global:  runtime.NewEnvironment(),
		Modules: modules,
		Runtime: async.NewRuntime(),
		Out:     out,
	}
}

// Run executes prog's top-level statements to completion, draining the
// async runtime's pending I/O callbacks as they complete (spec.md §5's
// single-threaded cooperative concurrency model).
func (in *Interpreter) Run(ctx context.Context, prog *ast.Program) error {
	_, sig, err := in.evalBlock(ctx, prog.Statements, in.Global)
	if err != nil {
		return err
	}
	if sig.kind == signalReturn {
		return nil
	}
	return in.Runtime.Drain(ctx)
}

type evalError struct {
	Message string
	Wrapped error
}

func (e *evalError) Error() string { return e.Message }
func (e *evalError) Unwrap() error { return e.Wrapped }

func errf(format string, args ...interface{}) error {
	return &evalError{Message: fmt.Sprintf(format, args...)}
}

// classify implements spec.md §196's sync/async dual dispatch: it
// reports whether expr is sync-eligible — built entirely from literals,
// variable reads, operators over sync-eligible operands, and calls into
// natives the stdlib registry marks I/O-free — so evalCall can skip
// Runtime.Await's goroutine spawn for the common case of an
// arithmetic-heavy `await` on an expression that was never going to
// suspend. Anything else (a user-defined action call, an I/O primitive,
// an unknown identifier) is async-required and still goes through Await.
func (in *Interpreter) classify(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.TextLiteral, *ast.BooleanLiteral, *ast.NothingLiteral,
		*ast.Identifier, *ast.PatternLiteral:
		return true
	case *ast.UnaryExpression:
		return in.classify(e.Operand)
	case *ast.BinaryExpression:
		return in.classify(e.Left) && in.classify(e.Right)
	case *ast.IndexExpression:
		return in.classify(e.Container) && in.classify(e.Index)
	case *ast.MemberExpression:
		return in.classify(e.Object)
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			if !in.classify(el) {
				return false
			}
		}
		return true
	case *ast.CallExpression:
		if e.Await {
			return false
		}
		ident, ok := e.Callee.(*ast.Identifier)
		if !ok || !in.Modules.SyncSafe(ident.Name) {
			return false
		}
		for _, a := range e.Arguments {
			if !in.classify(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (in *Interpreter) evalBlock(ctx context.Context, stmts []ast.Statement, env *runtime.Environment) (runtime.Value, signal, error) {
	var last runtime.Value
	for _, stmt := range stmts {
		if ctx.Err() != nil {
			return runtime.Nothing, signal{}, ErrTimeout
		}
		v, sig, err := in.evalStatement(ctx, stmt, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		last = v
		if sig.kind != signalNone {
			return last, sig, nil
		}
	}
	return last, signal{}, nil
}
