package interp

import (
	"context"
	"net/http"
	"os"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/pkg/ast"
)

func (in *Interpreter) evalOpenFile(ctx context.Context, st *ast.OpenFileStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	target, err := in.evalExpr(ctx, st.Target, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}

	if st.IsURL {
		resp, err := http.Get(target.String())
		if err != nil {
			return runtime.Nothing, signal{}, errf("open url: %v", err)
		}
		conn := &runtime.Connection{Addr: target.String(), Closer: resp.Body.Close, Raw: resp}
		v := runtime.Value{Kind: runtime.KindConnection, Conn: conn}
		if st.BindName != "" {
			env.Define(st.BindName, v)
		}
		return v, signal{}, nil
	}

	var flag int
	switch st.Mode {
	case "write":
		flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	case "append":
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	default:
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(target.String(), flag, 0o644)
	if err != nil {
		return runtime.Nothing, signal{}, errf("open file: %v", err)
	}
	handle := &runtime.FileHandle{Path: target.String(), Mode: st.Mode, Closer: f.Close, Reader: f, Writer: f}
	v := runtime.Value{Kind: runtime.KindFile, FileH: handle}
	if st.BindName != "" {
		env.Define(st.BindName, v)
	}
	return v, signal{}, nil
}

func (in *Interpreter) evalClose(ctx context.Context, st *ast.CloseStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	v, err := in.evalExpr(ctx, st.Target, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	var closeErr error
	switch v.Kind {
	case runtime.KindFile:
		closeErr = v.FileH.Closer()
	case runtime.KindConnection:
		closeErr = v.Conn.Closer()
	case runtime.KindServer:
		closeErr = v.Srv.Stopper()
	case runtime.KindDbHandle:
		closeErr = v.Db.Closer()
	default:
		return runtime.Nothing, signal{}, errf("cannot close a %s", v.Kind)
	}
	if closeErr != nil {
		return runtime.Nothing, signal{}, errf("close: %v", closeErr)
	}
	return runtime.Nothing, signal{}, nil
}

// evalWaitFor evaluates an async action call and blocks the interpreter
// goroutine (via Runtime.Await) until it settles.
// Routing through Runtime.Await rather than calling evalExpr directly is
// what makes a long-running `wait for` (a slow HTTP fetch, a blocked
// subprocess) actually observe ctx cancellation instead of running the
// configured timeout out to completion.
func (in *Interpreter) evalWaitFor(ctx context.Context, st *ast.WaitForStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	var v runtime.Value
	var err error
	if in.classify(st.Action) {
		// Sync-eligible (spec.md §196): arithmetic-only or similarly
		// cheap expressions skip the goroutine spawn Await would incur.
		v, err = in.evalExpr(ctx, st.Action, env)
	} else {
		v, err = in.Runtime.Await(ctx, func() (runtime.Value, error) {
			return in.evalExpr(ctx, st.Action, env)
		})
	}
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	if st.BindName != "" {
		env.Define(st.BindName, v)
	}
	return v, signal{}, nil
}

func (in *Interpreter) evalListen(ctx context.Context, st *ast.ListenStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	port, err := in.evalExpr(ctx, st.Port, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	return runtime.Nothing, signal{}, in.Runtime.Listen(ctx, int(port.Num), func(w http.ResponseWriter, r *http.Request) {
		reqEnv := runtime.NewEnclosedEnvironment(env)
		reqEnv.Define(st.RequestVar, requestToValue(r))
		reqEnv.Define("__response_writer", runtime.Value{Kind: runtime.KindNativeFunction, Native: responderFor(w)})
		if _, _, err := in.evalBlock(ctx, st.OnRequest.Statements, reqEnv); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func requestToValue(r *http.Request) runtime.Value {
	m := runtime.NewOrderedMap()
	m.Set("method", runtime.Text(r.Method))
	m.Set("path", runtime.Text(r.URL.Path))
	m.Set("query", runtime.Text(r.URL.RawQuery))
	return runtime.Value{Kind: runtime.KindMap, Map: m}
}

func responderFor(w http.ResponseWriter) runtime.NativeFunction {
	return func(args []runtime.Value) (runtime.Value, error) {
		status := http.StatusOK
		body := ""
		if len(args) > 0 {
			status = int(args[0].Num)
		}
		if len(args) > 1 {
			body = args[1].String()
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return runtime.Nothing, nil
	}
}

func (in *Interpreter) evalRespond(ctx context.Context, st *ast.RespondStatement, env *runtime.Environment) (runtime.Value, signal, error) {
	status, err := in.evalExpr(ctx, st.Status, env)
	if err != nil {
		return runtime.Nothing, signal{}, err
	}
	var body runtime.Value
	if st.Body != nil {
		body, err = in.evalExpr(ctx, st.Body, env)
		if err != nil {
			return runtime.Nothing, signal{}, err
		}
	}
	responder, ok := env.Get("__response_writer")
	if !ok || responder.Kind != runtime.KindNativeFunction {
		return runtime.Nothing, signal{}, errf("respond used outside a listen-on-port handler")
	}
	_, err = responder.Native([]runtime.Value{status, body})
	return runtime.Nothing, signal{}, err
}
