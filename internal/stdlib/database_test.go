package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func TestConnectDatabaseRunQueryRoundTrips(t *testing.T) {
	r := NewRegistry(nil)
	registerDatabase(r)

	conn := call(t, r, "start sqlite session", runtime.Text(":memory:"))
	if conn.Kind != runtime.KindDbHandle {
		t.Fatalf("start sqlite session returned Kind %v, want KindDbHandle", conn.Kind)
	}

	call(t, r, "run statement", conn, runtime.Text("create table items (id integer, name text)"))
	call(t, r, "run statement", conn, runtime.Text("insert into items (id, name) values (?, ?)"),
		runtime.Number(1), runtime.Text("widget"))

	got := call(t, r, "run statement", conn, runtime.Text("select id, name from items where id = ?"), runtime.Number(1))
	if len(got.List) != 1 {
		t.Fatalf("got %d rows, want 1", len(got.List))
	}
	row := got.List[0].Map
	name, ok := row.Get("name")
	if !ok || name.Str != "widget" {
		t.Errorf("row[\"name\"] = %v, want \"widget\"", name)
	}
}

func TestBeginTxCommitPersistsRow(t *testing.T) {
	r := NewRegistry(nil)
	registerDatabase(r)

	conn := call(t, r, "start sqlite session", runtime.Text(":memory:"))
	call(t, r, "run statement", conn, runtime.Text("create table items (id integer)"))

	tx, err := r.BeginTx(conn.Db)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if tx.Raw == nil {
		t.Fatal("expected BeginTx to wrap a non-nil *sql.Tx")
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestBeginTxRejectsNonHandle(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.BeginTx(&runtime.DbHandle{}); err == nil {
		t.Fatal("expected an error for a DbHandle with no underlying *sql.DB")
	}
}

func TestRunQueryRejectsNonHandleFirstArgument(t *testing.T) {
	r := NewRegistry(nil)
	registerDatabase(r)

	fn, _ := r.Lookup("run statement")
	_, err := fn([]runtime.Value{runtime.Text("not a handle"), runtime.Text("select 1")})
	if err == nil {
		t.Fatal("expected an error when run statement's first argument isn't a database handle")
	}
}
