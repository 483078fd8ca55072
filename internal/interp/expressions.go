package interp

import (
	"context"
	"strings"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

func (in *Interpreter) evalExpr(ctx context.Context, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.Number(e.Value), nil
	case *ast.TextLiteral:
		return runtime.Text(e.Value), nil
	case *ast.BooleanLiteral:
		return runtime.Boolean(e.Value), nil
	case *ast.NothingLiteral:
		return runtime.Nothing, nil
	case *ast.Identifier:
		v, ok := env.Get(e.Name)
		if !ok {
			return runtime.Nothing, errf("undefined variable %q", e.Name)
		}
		// Zero-arg action auto-call (spec.md §223): a bare reference to
		// an action name in an expression context — not the callee of
		// an explicit call, which evalCall resolves directly via
		// env.Get to skip this — triggers an immediate call with no
		// arguments. The environment lookup above has already returned
		// before invoke runs, so the function's own body can freely
		// redefine e.Name in its own scope without racing this lookup.
		if v.Kind == runtime.KindFunction && actionCallableWithZeroArgs(v.Fn) {
			return in.invoke(ctx, v.Fn, nil, env, runtime.Nothing)
		}
		return v, nil
	case *ast.ListLiteral:
		items := make([]runtime.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := in.evalExpr(ctx, el, env)
			if err != nil {
				return runtime.Nothing, err
			}
			items[i] = v
		}
		return runtime.List(items), nil
	case *ast.MapLiteral:
		m := runtime.NewOrderedMap()
		for _, entry := range e.Entries {
			k, err := in.evalExpr(ctx, entry.Key, env)
			if err != nil {
				return runtime.Nothing, err
			}
			v, err := in.evalExpr(ctx, entry.Value, env)
			if err != nil {
				return runtime.Nothing, err
			}
			m.Set(k.String(), v)
		}
		return runtime.Value{Kind: runtime.KindMap, Map: m}, nil
	case *ast.UnaryExpression:
		return in.evalUnary(ctx, e, env)
	case *ast.BinaryExpression:
		return in.evalBinary(ctx, e, env)
	case *ast.IndexExpression:
		return in.evalIndex(ctx, e, env)
	case *ast.MemberExpression:
		return in.evalMember(ctx, e, env)
	case *ast.CallExpression:
		return in.evalCall(ctx, e, env)
	case *ast.NewExpression:
		return in.evalNew(ctx, e, env)
	case *ast.MatchExpression:
		return in.evalMatch(ctx, e, env)
	default:
		return runtime.Nothing, errf("unsupported expression %T", expr)
	}
}

func (in *Interpreter) evalUnary(ctx context.Context, e *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	v, err := in.evalExpr(ctx, e.Operand, env)
	if err != nil {
		return runtime.Nothing, err
	}
	switch e.Operator {
	case token.NOT:
		return runtime.Boolean(!v.Truthy()), nil
	case token.MINUS, token.MINUS_SIGN:
		if v.Kind != runtime.KindNumber {
			return runtime.Nothing, errf("cannot negate a %s", v.Kind)
		}
		return runtime.Number(-v.Num), nil
	default:
		return runtime.Nothing, errf("unsupported unary operator %s", e.OpText)
	}
}

func (in *Interpreter) evalBinary(ctx context.Context, e *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := in.evalExpr(ctx, e.Left, env)
	if err != nil {
		return runtime.Nothing, err
	}
	// short-circuit
	if e.Operator == token.AND {
		if !left.Truthy() {
			return runtime.Boolean(false), nil
		}
		right, err := in.evalExpr(ctx, e.Right, env)
		if err != nil {
			return runtime.Nothing, err
		}
		return runtime.Boolean(right.Truthy()), nil
	}
	if e.Operator == token.OR {
		if left.Truthy() {
			return runtime.Boolean(true), nil
		}
		right, err := in.evalExpr(ctx, e.Right, env)
		if err != nil {
			return runtime.Nothing, err
		}
		return runtime.Boolean(right.Truthy()), nil
	}

	right, err := in.evalExpr(ctx, e.Right, env)
	if err != nil {
		return runtime.Nothing, err
	}

	switch e.Operator {
	case token.PLUS, token.PLUS_SIGN:
		if left.Kind == runtime.KindText || right.Kind == runtime.KindText {
			return runtime.Text(left.String() + right.String()), nil
		}
		return runtime.Number(left.Num + right.Num), nil
	case token.MINUS, token.MINUS_SIGN:
		return runtime.Number(left.Num - right.Num), nil
	case token.TIMES, token.STAR:
		return runtime.Number(left.Num * right.Num), nil
	case token.DIVIDED, token.SLASH:
		if right.Num == 0 {
			return runtime.Nothing, errf("division by zero")
		}
		return runtime.Number(left.Num / right.Num), nil
	case token.MODULO, token.PERCENT:
		if right.Num == 0 {
			return runtime.Nothing, errf("division by zero")
		}
		return runtime.Number(float64(int64(left.Num) % int64(right.Num))), nil
	case token.IS:
		return runtime.Boolean(valuesEqual(left, right)), nil
	case token.NOT_EQUAL:
		return runtime.Boolean(!valuesEqual(left, right)), nil
	case token.GREATER:
		return runtime.Boolean(left.Num > right.Num), nil
	case token.LESS:
		return runtime.Boolean(left.Num < right.Num), nil
	case token.OR_EQUAL:
		// folds both "greater than or equal to" and "less than or equal
		// to" since the lexer's phrase table distinguishes them by
		// OpText, not by a separate token type.
		if strings.Contains(e.OpText, "greater") {
			return runtime.Boolean(left.Num >= right.Num), nil
		}
		return runtime.Boolean(left.Num <= right.Num), nil
	case token.CONTAINS:
		return runtime.Boolean(containsValue(left, right)), nil
	default:
		return runtime.Nothing, errf("unsupported binary operator %s", e.OpText)
	}
}

// actionCallableWithZeroArgs reports whether fn can be invoked with no
// arguments — every parameter either has a default or there are none at
// all — which is what makes a bare action reference auto-callable.
func actionCallableWithZeroArgs(fn *runtime.Function) bool {
	for _, p := range fn.Params {
		if p.Default == nil {
			return false
		}
	}
	return true
}

// valuesEqual implements spec.md §3.3's equality model: scalars compare
// by value, List and Map compare by structure (recursively), actions,
// containers, patterns, and resource handles compare by identity, and
// native actions and binary values never compare equal.
func valuesEqual(a, b runtime.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case runtime.KindNumber:
		return a.Num == b.Num
	case runtime.KindText:
		return a.Str == b.Str
	case runtime.KindBoolean:
		return a.Bool == b.Bool
	case runtime.KindNothing:
		return true
	case runtime.KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valuesEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case runtime.KindMap:
		if a.Map.Len() != b.Map.Len() {
			return false
		}
		for _, k := range a.Map.Keys() {
			av, _ := a.Map.Get(k)
			bv, ok := b.Map.Get(k)
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	case runtime.KindFunction, runtime.KindContainer, runtime.KindPattern, runtime.KindFile,
		runtime.KindConnection, runtime.KindServer, runtime.KindDbHandle, runtime.KindTxHandle:
		return a.Fn == b.Fn && a.Obj == b.Obj && a.Pat == b.Pat && a.FileH == b.FileH &&
			a.Conn == b.Conn && a.Srv == b.Srv && a.Db == b.Db && a.Tx == b.Tx
	default:
		return false
	}
}

func containsValue(container, needle runtime.Value) bool {
	switch container.Kind {
	case runtime.KindList:
		for _, item := range container.List {
			if valuesEqual(item, needle) {
				return true
			}
		}
		return false
	case runtime.KindText:
		return strings.Contains(container.Str, needle.String())
	case runtime.KindMap:
		_, ok := container.Map.Get(needle.String())
		return ok
	default:
		return false
	}
}

func (in *Interpreter) evalIndex(ctx context.Context, e *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	container, err := in.evalExpr(ctx, e.Container, env)
	if err != nil {
		return runtime.Nothing, err
	}
	idx, err := in.evalExpr(ctx, e.Index, env)
	if err != nil {
		return runtime.Nothing, err
	}
	switch container.Kind {
	case runtime.KindList:
		i := int(idx.Num) - 1
		if i < 0 || i >= len(container.List) {
			return runtime.Nothing, errf("index %d out of range", int(idx.Num))
		}
		return container.List[i], nil
	case runtime.KindMap:
		v, ok := container.Map.Get(idx.String())
		if !ok {
			return runtime.Nothing, nil
		}
		return v, nil
	case runtime.KindText:
		runes := []rune(container.Str)
		i := int(idx.Num) - 1
		if i < 0 || i >= len(runes) {
			return runtime.Nothing, errf("index %d out of range", int(idx.Num))
		}
		return runtime.Text(string(runes[i])), nil
	default:
		return runtime.Nothing, errf("cannot index into a %s", container.Kind)
	}
}

func (in *Interpreter) evalMember(ctx context.Context, e *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := in.evalExpr(ctx, e.Object, env)
	if err != nil {
		return runtime.Nothing, err
	}
	if obj.Kind != runtime.KindContainer {
		return runtime.Nothing, errf("cannot access property %q of a %s", e.Property, obj.Kind)
	}
	if v, ok := obj.Obj.Get(e.Property); ok {
		return v, nil
	}
	if fn, ok := obj.Obj.Class.Lookup(e.Property); ok {
		return runtime.Value{Kind: runtime.KindFunction, Fn: fn}, nil
	}
	return runtime.Nothing, errf("container %q has no property or action %q", obj.Obj.Class.Name, e.Property)
}

func (in *Interpreter) evalNew(ctx context.Context, e *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	classVal, ok := env.Get(e.Container)
	if !ok || classVal.Kind != runtime.KindContainer {
		return runtime.Nothing, errf("unknown container %q", e.Container)
	}
	inst := runtime.NewInstance(classVal.Obj.Class)
	result := runtime.Value{Kind: runtime.KindContainer, Obj: inst}
	if initFn, ok := classVal.Obj.Class.Lookup("init"); ok {
		if _, err := in.invoke(ctx, initFn, e.Arguments, env, result); err != nil {
			return runtime.Nothing, err
		}
	}
	return result, nil
}

func (in *Interpreter) evalMatch(ctx context.Context, e *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	subj, err := in.evalExpr(ctx, e.Subject, env)
	if err != nil {
		return runtime.Nothing, err
	}
	patVal, err := in.evalExpr(ctx, e.Pattern, env)
	if err != nil {
		return runtime.Nothing, err
	}
	if patVal.Kind != runtime.KindPattern {
		return runtime.Nothing, errf("right-hand side of \"matches\" must be a pattern")
	}
	ok, _ := patVal.Pat.Match(subj.String())
	return runtime.Boolean(ok), nil
}
