package interp

import (
	"context"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/pkg/ast"
)

func (in *Interpreter) evalCall(ctx context.Context, e *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	var thisVal runtime.Value
	var callee runtime.Value
	var err error

	if member, ok := e.Callee.(*ast.MemberExpression); ok {
		thisVal, err = in.evalExpr(ctx, member.Object, env)
		if err != nil {
			return runtime.Nothing, err
		}
		if thisVal.Kind == runtime.KindContainer {
			if fn, ok := thisVal.Obj.Class.Lookup(member.Property); ok {
				callee = runtime.Value{Kind: runtime.KindFunction, Fn: fn}
			} else if v, ok := thisVal.Obj.Get(member.Property); ok && v.Kind == runtime.KindFunction {
				callee = v
			} else {
				return runtime.Nothing, errf("container %q has no action %q", thisVal.Obj.Class.Name, member.Property)
			}
		} else {
			// delegate to stdlib method-style calls, e.g. `text.trim()`.
			return in.evalStdlibMethod(ctx, thisVal, member.Property, e.Arguments, env)
		}
	} else if ident, ok := e.Callee.(*ast.Identifier); ok {
		// Resolve the callee directly rather than through evalExpr's
		// Identifier case, which auto-calls zero-arg actions: an
		// explicit `bump()` must reach invokeValue with the Function
		// value itself, not with the result of already having called it.
		v, found := env.Get(ident.Name)
		if !found {
			return runtime.Nothing, errf("undefined variable %q", ident.Name)
		}
		callee = v
	} else {
		callee, err = in.evalExpr(ctx, e.Callee, env)
		if err != nil {
			return runtime.Nothing, err
		}
	}

	if e.Await {
		if in.syncEligibleCall(callee, e.Callee, e.Arguments) {
			return in.invokeValue(ctx, callee, e.Arguments, env, thisVal)
		}
		return in.Runtime.Await(ctx, func() (runtime.Value, error) {
			return in.invokeValue(ctx, callee, e.Arguments, env, thisVal)
		})
	}
	return in.invokeValue(ctx, callee, e.Arguments, env, thisVal)
}

// syncEligibleCall reports whether an `await`ed call can skip
// Runtime.Await's goroutine spawn: the callee resolved to a native the
// registry marks SyncSafe, by name, with every argument expression
// sync-eligible per classify. This mirrors classify's own CallExpression
// case but is checked on the call site directly, since classify itself
// always treats an e.Await call as async-required (the call being
// awaited was presumably worth awaiting).
func (in *Interpreter) syncEligibleCall(callee runtime.Value, calleeExpr ast.Expression, args []ast.Expression) bool {
	if callee.Kind != runtime.KindNativeFunction {
		return false
	}
	ident, ok := calleeExpr.(*ast.Identifier)
	if !ok || !in.Modules.SyncSafe(ident.Name) {
		return false
	}
	for _, a := range args {
		if !in.classify(a) {
			return false
		}
	}
	return true
}

func (in *Interpreter) invokeValue(ctx context.Context, callee runtime.Value, args []ast.Expression, env *runtime.Environment, this runtime.Value) (runtime.Value, error) {
	switch callee.Kind {
	case runtime.KindFunction:
		return in.invoke(ctx, callee.Fn, args, env, this)
	case runtime.KindNativeFunction:
		argVals, err := in.evalArgs(ctx, args, env)
		if err != nil {
			return runtime.Nothing, err
		}
		return callee.Native(argVals)
	default:
		return runtime.Nothing, errf("value is not callable (%s)", callee.Kind)
	}
}

func (in *Interpreter) evalArgs(ctx context.Context, args []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, len(args))
	for i, a := range args {
		v, err := in.evalExpr(ctx, a, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// invoke calls a user-defined Function, binding parameters (with
// defaults for omitted trailing args) in a fresh scope enclosed by the
// function's weakly-held defining environment.
func (in *Interpreter) invoke(ctx context.Context, fn *runtime.Function, args []ast.Expression, callerEnv *runtime.Environment, this runtime.Value) (runtime.Value, error) {
	closure, ok := fn.ResolveClosure()
	if !ok {
		return runtime.Nothing, errf("action %q's defining scope has been collected", fn.Name)
	}
	callEnv := runtime.NewEnclosedEnvironment(closure)
	if this.Kind == runtime.KindContainer {
		callEnv.Define("this", this)
		callEnv.Define("self", this)
	}

	for i, param := range fn.Params {
		if i < len(args) {
			v, err := in.evalExpr(ctx, args[i], callerEnv)
			if err != nil {
				return runtime.Nothing, err
			}
			callEnv.Define(param.Name, v)
			continue
		}
		if param.Default != nil {
			defaultExpr, ok := param.Default.(ast.Expression)
			if !ok {
				callEnv.Define(param.Name, runtime.Nothing)
				continue
			}
			v, err := in.evalExpr(ctx, defaultExpr, callEnv)
			if err != nil {
				return runtime.Nothing, err
			}
			callEnv.Define(param.Name, v)
			continue
		}
		return runtime.Nothing, errf("action %q missing required parameter %q", fn.Name, param.Name)
	}

	body, ok := fn.Body.(*ast.BlockStatement)
	if !ok {
		return runtime.Nothing, errf("action %q has no body", fn.Name)
	}
	v, sig, err := in.evalBlock(ctx, body.Statements, callEnv)
	if err != nil {
		return runtime.Nothing, err
	}
	if sig.kind == signalReturn {
		return sig.value, nil
	}
	return v, nil
}

// evalStdlibMethod dispatches "value.method(args)" calls to the stdlib
// registry's method table for value's Kind (e.g. text trim/split, list
// sort/map). See Registry.LookupMethod in internal/stdlib/registry.go.
func (in *Interpreter) evalStdlibMethod(ctx context.Context, receiver runtime.Value, method string, args []ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	argVals, err := in.evalArgs(ctx, args, env)
	if err != nil {
		return runtime.Nothing, err
	}
	fn, ok := in.Modules.LookupMethod(receiver.Kind, method)
	if !ok {
		return runtime.Nothing, errf("%s has no method %q", receiver.Kind, method)
	}
	return fn(append([]runtime.Value{receiver}, argVals...))
}
