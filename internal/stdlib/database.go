// Database support uses glebarez/sqlite, a CGO-free SQLite driver, kept
// from the teacher's indirect dependency closure and given a home here
// rather than database/sql's stdlib-only drivers — WFL programs run in
// the same varied deployment targets (containers without a C toolchain)
// that motivate that choice in the pack.
package stdlib

import (
	"database/sql"

	_ "github.com/glebarez/sqlite"

	"github.com/wflang/wfl/internal/runtime"
)

func registerDatabase(r *Registry) {
	r.Register(FunctionInfo{
		Name: "start sqlite session", Category: CategoryDatabase, MinArg: 1, MaxArg: 1,
		Description: "opens a SQLite database file (or \":memory:\")",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			db, err := sql.Open("sqlite", args[0].String())
			if err != nil {
				return runtime.Nothing, err
			}
			handle := &runtime.DbHandle{Driver: "sqlite", DSN: args[0].String(), Raw: db, Closer: db.Close}
			return runtime.Value{Kind: runtime.KindDbHandle, Db: handle}, nil
		},
	})
	r.Register(FunctionInfo{
		Name: "run statement", Category: CategoryDatabase, MinArg: 2, MaxArg: -1,
		Description: "runs a SQL statement with positional parameters, returning rows as a list of maps",
		Function: func(args []runtime.Value) (runtime.Value, error) {
			handle, ok := args[0].Db, args[0].Kind == runtime.KindDbHandle
			if !ok {
				return runtime.Nothing, errNotDbHandle
			}
			db := handle.Raw.(*sql.DB)
			params := make([]interface{}, len(args)-2)
			for i, a := range args[2:] {
				params[i] = jsonable(a)
			}
			rows, err := db.Query(args[1].String(), params...)
			if err != nil {
				return runtime.Nothing, err
			}
			defer rows.Close()
			cols, err := rows.Columns()
			if err != nil {
				return runtime.Nothing, err
			}
			var out []runtime.Value
			for rows.Next() {
				vals := make([]interface{}, len(cols))
				ptrs := make([]interface{}, len(cols))
				for i := range vals {
					ptrs[i] = &vals[i]
				}
				if err := rows.Scan(ptrs...); err != nil {
					return runtime.Nothing, err
				}
				m := runtime.NewOrderedMap()
				for i, col := range cols {
					m.Set(col, sqlToValue(vals[i]))
				}
				out = append(out, runtime.Value{Kind: runtime.KindMap, Map: m})
			}
			return runtime.List(out), rows.Err()
		},
	})
}

var errNotDbHandle = &subprocessError{"expected a database handle as the first argument"}

// BeginTx opens a transaction on handle's underlying *sql.DB, backing
// the interpreter's `begin transaction on ... as ...` statement
// (spec.md §5: "Database transactions are per-connection and are
// explicit statements in the language").
func (r *Registry) BeginTx(handle *runtime.DbHandle) (*runtime.TxHandle, error) {
	db, ok := handle.Raw.(*sql.DB)
	if !ok {
		return nil, errNotDbHandle
	}
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	return &runtime.TxHandle{Raw: tx, Commit: tx.Commit, Rollback: tx.Rollback}, nil
}

func sqlToValue(v interface{}) runtime.Value {
	switch t := v.(type) {
	case nil:
		return runtime.Nothing
	case int64:
		return runtime.Number(float64(t))
	case float64:
		return runtime.Number(t)
	case []byte:
		return runtime.Text(string(t))
	case string:
		return runtime.Text(t)
	case bool:
		return runtime.Boolean(t)
	default:
		return runtime.Text("")
	}
}
