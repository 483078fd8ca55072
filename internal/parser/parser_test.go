package parser

import (
	"testing"

	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

func TestParseStoreAndDisplay(t *testing.T) {
	src := `store x as 5
display x`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}
	store, ok := prog.Statements[0].(*ast.StoreStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.StoreStatement", prog.Statements[0])
	}
	if store.Name != "x" {
		t.Errorf("store name = %q, want x", store.Name)
	}
}

func TestParseIfOtherwise(t *testing.T) {
	src := `check if x is greater than 5
display "big"
otherwise
display "small"
end`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.IfStatement", prog.Statements[0])
	}
	if ifStmt.Alternative == nil {
		t.Fatal("expected an otherwise branch")
	}
	bin, ok := ifStmt.Condition.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("condition is %T, want *ast.BinaryExpression", ifStmt.Condition)
	}
	if bin.Operator.String() != "greater" {
		t.Errorf("operator = %s, want greater", bin.Operator)
	}
}

func TestParseCountLoop(t *testing.T) {
	src := `count i from 1 to 10
display i
end`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	loop, ok := prog.Statements[0].(*ast.CountLoopStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.CountLoopStatement", prog.Statements[0])
	}
	if loop.Variable != "i" {
		t.Errorf("variable = %q, want i", loop.Variable)
	}
}

func TestParseIndexOfExpression(t *testing.T) {
	src := `store first as item 1 of myList`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	store := prog.Statements[0].(*ast.StoreStatement)
	idx, ok := store.Value.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("value is %T, want *ast.IndexExpression", store.Value)
	}
	if idx.Container.String() != "myList" {
		t.Errorf("container = %s, want myList", idx.Container.String())
	}
}

func TestParseArithmeticUpdateStatements(t *testing.T) {
	cases := []struct {
		src string
		op  token.Type
	}{
		{"add 5 to total", token.ADD},
		{"subtract 2 from total", token.SUBTRACT},
		{"multiply total by 3", token.MULTIPLY},
		{"divide total by 4", token.DIVIDE},
	}
	for _, c := range cases {
		p := New("test.wfl", c.src)
		prog := p.ParseProgram()
		if len(p.Errors()) != 0 {
			t.Fatalf("%q: unexpected errors: %v", c.src, p.Errors())
		}
		st, ok := prog.Statements[0].(*ast.ArithmeticUpdateStatement)
		if !ok {
			t.Fatalf("%q: statement 0 is %T, want *ast.ArithmeticUpdateStatement", c.src, prog.Statements[0])
		}
		if st.Operator != c.op {
			t.Errorf("%q: operator = %s, want %s", c.src, st.Operator, c.op)
		}
		if st.Target.String() != "total" {
			t.Errorf("%q: target = %s, want total", c.src, st.Target.String())
		}
	}
}

func TestParseContainerWithEvents(t *testing.T) {
	src := `create container Button
property label as "ok"
event onClick
define action called press:
    display label
end action
end`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	def, ok := prog.Statements[0].(*ast.ContainerDefinition)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.ContainerDefinition", prog.Statements[0])
	}
	if len(def.Events) != 1 || def.Events[0] != "onClick" {
		t.Fatalf("events = %v, want [onClick]", def.Events)
	}
}

func TestParseDatabaseTransactionStatements(t *testing.T) {
	src := `connect to database "test.db" as conn
begin transaction on conn as tx
commit tx`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Statements))
	}
	conn, ok := prog.Statements[0].(*ast.ConnectDatabaseStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.ConnectDatabaseStatement", prog.Statements[0])
	}
	if conn.BindName != "conn" {
		t.Errorf("bind name = %q, want conn", conn.BindName)
	}
	begin, ok := prog.Statements[1].(*ast.BeginTransactionStatement)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.BeginTransactionStatement", prog.Statements[1])
	}
	if begin.BindName != "tx" {
		t.Errorf("bind name = %q, want tx", begin.BindName)
	}
	if begin.Handle.String() != "conn" {
		t.Errorf("handle = %s, want conn", begin.Handle.String())
	}
	commit, ok := prog.Statements[2].(*ast.CommitStatement)
	if !ok {
		t.Fatalf("statement 2 is %T, want *ast.CommitStatement", prog.Statements[2])
	}
	if commit.Target.String() != "tx" {
		t.Errorf("target = %s, want tx", commit.Target.String())
	}
}

func TestParseRollbackStatement(t *testing.T) {
	src := `rollback tx`
	p := New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	rb, ok := prog.Statements[0].(*ast.RollbackStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.RollbackStatement", prog.Statements[0])
	}
	if rb.Target.String() != "tx" {
		t.Errorf("target = %s, want tx", rb.Target.String())
	}
}

func TestSynchronizeRecoversAfterError(t *testing.T) {
	src := `store as 5
store y as 10`
	p := New("test.wfl", src)
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for the malformed store")
	}
}
