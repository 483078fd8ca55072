package interp

import (
	"context"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

func (in *Interpreter) evalStatement(ctx context.Context, stmt ast.Statement, env *runtime.Environment) (runtime.Value, signal, error) {
	switch st := stmt.(type) {
	case *ast.StoreStatement:
		v, err := in.evalExpr(ctx, st.Value, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		env.Define(st.Name, v)
		return v, signal{}, nil

	case *ast.ChangeStatement:
		v, err := in.evalExpr(ctx, st.Value, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		return runtime.Nothing, signal{}, in.assign(st.Target, v, env)

	case *ast.ArithmeticUpdateStatement:
		return in.evalArithmeticUpdate(ctx, st, env)

	case *ast.ExpressionStatement:
		v, err := in.evalExpr(ctx, st.Expression, env)
		return v, signal{}, err

	case *ast.DisplayStatement:
		var parts []string
		for _, v := range st.Values {
			val, err := in.evalExpr(ctx, v, env)
			if err != nil {
				return runtime.Nothing, signal{}, err
			}
			parts = append(parts, val.String())
		}
		line := ""
		for i, p := range parts {
			if i > 0 {
				line += " "
			}
			line += p
		}
		if in.Out != nil {
			in.Out(line + "\n")
		}
		return runtime.Nothing, signal{}, nil

	case *ast.IfStatement:
		cond, err := in.evalExpr(ctx, st.Condition, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		if cond.Truthy() {
			return in.evalBlock(ctx, st.Consequence.Statements, runtime.NewEnclosedEnvironment(env))
		}
		if st.Alternative != nil {
			return in.evalBlock(ctx, st.Alternative.Statements, runtime.NewEnclosedEnvironment(env))
		}
		return runtime.Nothing, signal{}, nil

	case *ast.CountLoopStatement:
		return in.evalCountLoop(ctx, st, env)

	case *ast.ForEachStatement:
		return in.evalForEach(ctx, st, env)

	case *ast.RepeatStatement:
		return in.evalRepeat(ctx, st, env)

	case *ast.MainLoopStatement:
		for {
			select {
			case <-ctx.Done():
				return runtime.Nothing, signal{}, ctx.Err()
			default:
			}
			_, sig, err := in.evalBlock(ctx, st.Body.Statements, runtime.NewEnclosedEnvironment(env))
			if err != nil {
				return runtime.Nothing, signal{}, err
			}
			if sig.kind == signalBreak {
				break
			}
			if sig.kind == signalReturn {
				return sig.value, sig, nil
			}
			if err := in.Runtime.Drain(ctx); err != nil {
				return runtime.Nothing, signal{}, err
			}
			if !in.Runtime.HasPending() && !in.Runtime.Listening() {
				break
			}
		}
		return runtime.Nothing, signal{}, nil

	case *ast.BreakStatement:
		return runtime.Nothing, signal{kind: signalBreak}, nil

	case *ast.ContinueStatement:
		return runtime.Nothing, signal{kind: signalContinue}, nil

	case *ast.ReturnStatement:
		if st.Value == nil {
			return runtime.Nothing, signal{kind: signalReturn, value: runtime.Nothing}, nil
		}
		v, err := in.evalExpr(ctx, st.Value, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		return v, signal{kind: signalReturn, value: v}, nil

	case *ast.ActionDefinition:
		fn := in.makeFunction(st.Name, st.Parameters, st.Body, env)
		env.Define(st.Name, runtime.Value{Kind: runtime.KindFunction, Fn: fn})
		return runtime.Nothing, signal{}, nil

	case *ast.TryStatement:
		return in.evalTry(ctx, st, env)

	case *ast.ContainerDefinition:
		in.defineContainer(st, env)
		return runtime.Nothing, signal{}, nil

	case *ast.InterfaceDefinition:
		// Interfaces are checked structurally at call time; nothing to
		// evaluate eagerly.
		return runtime.Nothing, signal{}, nil

	case *ast.LoadStatement:
		// Already inlined by internal/importer before the interpreter
		// ever sees the program.
		return runtime.Nothing, signal{}, nil

	case *ast.OpenFileStatement:
		return in.evalOpenFile(ctx, st, env)

	case *ast.CloseStatement:
		return in.evalClose(ctx, st, env)

	case *ast.WaitForStatement:
		return in.evalWaitFor(ctx, st, env)

	case *ast.ListenStatement:
		return in.evalListen(ctx, st, env)

	case *ast.RespondStatement:
		return in.evalRespond(ctx, st, env)

	case *ast.ConnectDatabaseStatement:
		return in.evalConnectDatabase(ctx, st, env)

	case *ast.BeginTransactionStatement:
		return in.evalBeginTransaction(ctx, st, env)

	case *ast.CommitStatement:
		return in.evalCommit(ctx, st, env)

	case *ast.RollbackStatement:
		return in.evalRollback(ctx, st, env)

	default:
		return runtime.Nothing, signal{}, errf("unsupported statement %T", stmt)
	}
}

func (in *Interpreter) assign(target ast.Expression, v runtime.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, v)
	case *ast.MemberExpression:
		obj, err := in.evalExpr(context.Background(), t.Object, env)
		if err != nil {
			return err
		}
		if obj.Kind != runtime.KindContainer {
			return errf("cannot set property %q on non-container value", t.Property)
		}
		obj.Obj.Set(t.Property, v)
		return nil
	case *ast.IndexExpression:
		container, err := in.evalExpr(context.Background(), t.Container, env)
		if err != nil {
			return err
		}
		idx, err := in.evalExpr(context.Background(), t.Index, env)
		if err != nil {
			return err
		}
		if container.Kind == runtime.KindList {
			i := int(idx.Num) - 1 // 1-based indexing, spec.md §3.3
			if i < 0 || i >= len(container.List) {
				return errf("index %d out of range", int(idx.Num))
			}
			container.List[i] = v
			return nil
		}
		if container.Kind == runtime.KindMap {
			container.Map.Set(idx.String(), v)
			return nil
		}
		return errf("cannot index into a %s", container.Kind)
	default:
		return errf("invalid assignment target")
	}
}

// evalArithmeticUpdate implements `add E to N` / `subtract E from N` /
// `multiply N by E` / `divide N by E` (spec.md §3.2): evaluate E,
// locate N's current binding, replace it with the combined result.
func (in *Interpreter) evalArithmeticUpdate(ctx context.Context, st *ast.ArithmeticUpdateStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	delta, err := in.evalExpr(ctx, st.Value, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	current, err := in.evalExpr(ctx, st.Target, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	if current.Kind != runtime.KindNumber || delta.Kind != runtime.KindNumber {
		return runtime.Nothing, signal{}, errf("arithmetic update requires numbers, got %s and %s", delta.Kind, current.Kind)
	}

	var result float64
	switch st.Operator {
	case token.ADD:
		result = current.Num + delta.Num
	case token.SUBTRACT:
		result = current.Num - delta.Num
	case token.MULTIPLY:
		result = current.Num * delta.Num
	case token.DIVIDE:
		if delta.Num == 0 {
			return runtime.Nothing, signal{}, errf("division by zero")
		}
		result = current.Num / delta.Num
	default:
		return runtime.Nothing, signal{}, errf("unsupported arithmetic update operator %s", st.Operator)
	}

	v := runtime.Number(result)
	if err := in.assign(st.Target, v, env); err != nil {
		return runtime.Nothing, signal{}, err
	}
	return v, signal{}, nil
}

func (in *Interpreter) evalCountLoop(ctx context.Context, st *ast.CountLoopStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	from, err := in.evalExpr(ctx, st.From, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	to, err := in.evalExpr(ctx, st.To, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	step := 1.0
	if st.Step != nil {
		sv, err := in.evalExpr(ctx, st.Step, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		step = sv.Num
	}
	if step == 0 {
		return runtime.Nothing, signal{}, errf("count loop step cannot be zero")
	}

	inner := runtime.NewEnclosedEnvironment(env)
	for i := from.Num; (step > 0 && i <= to.Num) || (step < 0 && i >= to.Num); i += step {
		inner.Define(st.Variable, runtime.Number(i))
		_, sig, err := in.evalBlock(ctx, st.Body.Statements, inner)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		if sig.kind == signalBreak {
			break
		}
		if sig.kind == signalReturn {
			return sig.value, sig, nil
		}
	}
	return runtime.Nothing, signal{}, nil
}

func (in *Interpreter) evalForEach(ctx context.Context, st *ast.ForEachStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	iterable, err := in.evalExpr(ctx, st.Iterable, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	inner := runtime.NewEnclosedEnvironment(env)

	var items []runtime.Value
	switch iterable.Kind {
	case runtime.KindList:
		items = iterable.List
	case runtime.KindMap:
		for _, k := range iterable.Map.Keys() {
			items = append(items, runtime.Text(k))
		}
	case runtime.KindText:
		for _, r := range iterable.Str {
			items = append(items, runtime.Text(string(r)))
		}
	default:
		return runtime.Nothing, signal{}, errf("cannot iterate over a %s", iterable.Kind)
	}

	for _, item := range items {
		inner.Define(st.Variable, item)
		_, sig, err := in.evalBlock(ctx, st.Body.Statements, inner)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		if sig.kind == signalBreak {
			break
		}
		if sig.kind == signalReturn {
			return sig.value, sig, nil
		}
	}
	return runtime.Nothing, signal{}, nil
}

func (in *Interpreter) evalRepeat(ctx context.Context, st *ast.RepeatStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	inner := runtime.NewEnclosedEnvironment(env)
	for {
		cond, err := in.evalExpr(ctx, st.Condition, inner)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		truthy := cond.Truthy()
		if st.Negate {
			truthy = !truthy
		}
		if !truthy {
			break
		}
		_, sig, err := in.evalBlock(ctx, st.Body.Statements, inner)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
		if sig.kind == signalBreak {
			break
		}
		if sig.kind == signalReturn {
			return sig.value, sig, nil
		}
	}
	return runtime.Nothing, signal{}, nil
}

func (in *Interpreter) evalTry(ctx context.Context, st *ast.TryStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	v, sig, err := in.evalBlock(ctx, st.Body.Statements, runtime.NewEnclosedEnvironment(env))
	if err != nil {
		if st.CatchBody != nil {
			catchEnv := runtime.NewEnclosedEnvironment(env)
			if st.CatchName != "" {
				catchEnv.Define(st.CatchName, runtime.Text(err.Error()))
			}
			v, sig, err = in.evalBlock(ctx, st.CatchBody.Statements, catchEnv)
		} else {
			err = nil
		}
	}
	if st.Finally != nil {
		if _, _, ferr := in.evalBlock(ctx, st.Finally.Statements, runtime.NewEnclosedEnvironment(env)); ferr != nil {
			return runtime.Nothing, signal{}, ferr
		}
	}
	return v, sig, err
}

func (in *Interpreter) makeFunction(name string, params []ast.Parameter, body *ast.BlockStatement, env *runtime.Environment) *runtime.Function {
	rparams := make([]runtime.FunctionParam, len(params))
	for i, p := range params {
		rparams[i] = runtime.FunctionParam{Name: p.Name, Default: p.Default}
	}
	return &runtime.Function{Name: name, Params: rparams, Body: body, Closure: env.Weak(), KeepAlive: env}
}

// defineContainer builds a ContainerClass from a `create container`
// definition. Events (spec.md §3.6) are registered as named property
// slots, defaulting to nothing: assigning an action value to one turns
// it into a handler, and calling `instance.eventName()` dispatches to
// whatever handler is currently bound — the same property/action lookup
// evalCall already uses for any other container member.
func (in *Interpreter) defineContainer(st *ast.ContainerDefinition, env *runtime.Environment) {
	class := &runtime.ContainerClass{
		Name:     st.Name,
		Defaults: make(map[string]runtime.Value),
		Actions:  make(map[string]*runtime.Function),
		Events:   append([]string(nil), st.Events...),
	}
	if st.Extends != "" {
		if parentVal, ok := env.Get(st.Extends); ok && parentVal.Kind == runtime.KindContainer {
			class.Parent = parentVal.Obj.Class
		}
	}
	for _, prop := range st.Properties {
		class.Properties = append(class.Properties, prop.Name)
		if prop.Default != nil {
			v, err := in.evalExpr(context.Background(), prop.Default, env)
			if err == nil {
				class.Defaults[prop.Name] = v
			}
		} else {
			class.Defaults[prop.Name] = runtime.Nothing
		}
	}
	for _, event := range st.Events {
		class.Properties = append(class.Properties, event)
		class.Defaults[event] = runtime.Nothing
	}
	classEnv := runtime.NewEnclosedEnvironment(env)
	for _, action := range st.Actions {
		class.Actions[action.Name] = in.makeFunction(action.Name, action.Parameters, action.Body, classEnv)
	}
	env.Define(st.Name, runtime.Value{Kind: runtime.KindContainer, Obj: &runtime.ContainerInstance{Class: class}})
}

// evalConnectDatabase implements `connect to database E as NAME`,
// delegating to the same stdlib native the database module registers
// for `start sqlite session` so both surfaces share one driver-open path.
func (in *Interpreter) evalConnectDatabase(ctx context.Context, st *ast.ConnectDatabaseStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	dsn, err := in.evalExpr(ctx, st.DSN, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	open, ok := in.Modules.Lookup("start sqlite session")
	if !ok {
		return runtime.Nothing, signal{}, errf("database module not registered")
	}
	v, err := open([]runtime.Value{dsn})
	if err != nil {
		return runtime.Nothing, signal{}, errf("connect to database: %v", err)
	}
	if st.BindName != "" {
		env.Define(st.BindName, v)
	}
	return v, signal{}, nil
}

// evalBeginTransaction implements `begin transaction on E as NAME`
// (spec.md §5's explicit, per-connection transaction statements).
func (in *Interpreter) evalBeginTransaction(ctx context.Context, st *ast.BeginTransactionStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	handleVal, err := in.evalExpr(ctx, st.Handle, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	if handleVal.Kind != runtime.KindDbHandle {
		return runtime.Nothing, signal{}, errf("begin transaction requires a database handle, got %s", handleVal.Kind)
	}
	tx, err := in.Modules.BeginTx(handleVal.Db)
	if err != nil {
		return runtime.Nothing, signal{}, errf("begin transaction: %v", err)
	}
	v := runtime.Value{Kind: runtime.KindTxHandle, Tx: tx}
	if st.BindName != "" {
		env.Define(st.BindName, v)
	}
	return v, signal{}, nil
}

func (in *Interpreter) evalCommit(ctx context.Context, st *ast.CommitStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	v, err := in.evalExpr(ctx, st.Target, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	if v.Kind != runtime.KindTxHandle {
		return runtime.Nothing, signal{}, errf("commit requires a transaction handle, got %s", v.Kind)
	}
	if err := v.Tx.Commit(); err != nil {
		return runtime.Nothing, signal{}, errf("commit: %v", err)
	}
	return runtime.Nothing, signal{}, nil
}

func (in *Interpreter) evalRollback(ctx context.Context, st *ast.RollbackStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	v, err := in.evalExpr(ctx, st.Target, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	if v.Kind != runtime.KindTxHandle {
		return runtime.Nothing, signal{}, errf("rollback requires a transaction handle, got %s", v.Kind)
	}
	if err := v.Tx.Rollback(); err != nil {
		return runtime.Nothing, signal{}, errf("rollback: %v", err)
	}
	return runtime.Nothing, signal{}, nil
}
