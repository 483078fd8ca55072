package interp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wflang/wfl/internal/parser"
	"github.com/wflang/wfl/internal/stdlib"
	"github.com/wflang/wfl/internal/types"
	"github.com/wflang/wfl/pkg/ast"
)

func run(t *testing.T, src string) string {
	t.Helper()
	p := parser.New("test.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	var out strings.Builder
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(s string) { out.WriteString(s) })
	modules.BindEnv(in.Global)
	if err := in.Run(context.Background(), prog); err != nil {
		t.Fatalf("run error: %v", err)
	}
	return out.String()
}

func TestStoreAndDisplay(t *testing.T) {
	out := run(t, `store x as 5
display x`)
	if out != "5\n" {
		t.Fatalf("got %q, want %q", out, "5\n")
	}
}

func TestChangeRequiresExistingBinding(t *testing.T) {
	p := parser.New("test.wfl", `change y to 5`)
	prog := p.ParseProgram()
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(string) {})
	modules.BindEnv(in.Global)
	if err := in.Run(context.Background(), prog); err == nil {
		t.Fatal("expected an error changing an undeclared variable")
	}
}

func TestIfOtherwise(t *testing.T) {
	out := run(t, `store x as 3
check if x is greater than 10
display "big"
otherwise
display "small"
end`)
	if out != "small\n" {
		t.Fatalf("got %q", out)
	}
}

func TestCountLoopAccumulates(t *testing.T) {
	out := run(t, `store total as 0
count i from 1 to 5
change total to total plus i
end
display total`)
	if out != "15\n" {
		t.Fatalf("got %q, want 15", out)
	}
}

func TestActionDefinitionAndCall(t *testing.T) {
	out := run(t, `define action called double with parameters n
give back n times 2
end
display double(21)`)
	if out != "42\n" {
		t.Fatalf("got %q, want 42", out)
	}
}

func TestBreakExitsLoop(t *testing.T) {
	out := run(t, `count i from 1 to 10
check if i is greater than 3
break
end
display i
end`)
	// The break fires before "display i" runs on the iteration where
	// i exceeds 3, so that iteration never prints.
	if out != "1\n2\n3\n" {
		t.Fatalf("got %q", out)
	}
}

func TestWaitForBindsEvaluatedValue(t *testing.T) {
	out := run(t, `wait for 1 plus 1 as x
display x`)
	if out != "2\n" {
		t.Fatalf("got %q, want 2", out)
	}
}

func TestWaitForStopsEarlyOnCancelledContext(t *testing.T) {
	p := parser.New("test.wfl", `wait for sleep seconds(10)`)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(string) {})
	modules.BindEnv(in.Global)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := in.Run(ctx, prog)
	elapsed := time.Since(start)
	if err == nil {
		t.Fatal("expected Run to return an error once the context deadline passes")
	}
	if elapsed > time.Second {
		t.Fatalf("Run took %s, expected it to return shortly after the context deadline", elapsed)
	}
}

// TestZeroArgActionAutoCallMutatesParentScope is spec.md's Scenario D:
// a bare reference to a zero-arg action name in an expression context
// auto-calls it, and the call is free to mutate a binding in its
// parent scope without panicking. A lookup that held its environment
// read open across the call would deadlock or panic here once bump's
// own "change counter" tried to acquire a write.
func TestZeroArgActionAutoCallMutatesParentScope(t *testing.T) {
	out := run(t, `store counter as 0
define action called bump:
    change counter to counter plus 1
end action
bump
bump
display counter`)
	if out != "2\n" {
		t.Fatalf("got %q, want %q", out, "2\n")
	}
}

// TestZeroArgActionAutoCallInsideList covers the other auto-call
// context spec.md §223 names explicitly: a bare action name nested
// inside a list literal.
func TestZeroArgActionAutoCallInsideList(t *testing.T) {
	out := run(t, `define action called greeting:
    give back "hi"
end action
store items as [greeting]
display items`)
	if !strings.Contains(out, "hi") {
		t.Fatalf("got %q, want it to contain the auto-called action's result", out)
	}
}

func TestArithmeticUpdateStatements(t *testing.T) {
	out := run(t, `store total as 10
add 5 to total
display total
subtract 3 from total
display total
multiply total by 2
display total
divide total by 4
display total`)
	if out != "15\n12\n24\n6\n" {
		t.Fatalf("got %q, want %q", out, "15\n12\n24\n6\n")
	}
}

func TestArithmeticUpdateDivideByZeroErrors(t *testing.T) {
	p := parser.New("test.wfl", `store total as 10
divide total by 0`)
	prog := p.ParseProgram()
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(string) {})
	modules.BindEnv(in.Global)
	if err := in.Run(context.Background(), prog); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestDatabaseTransactionCommit(t *testing.T) {
	out := run(t, `connect to database ":memory:" as conn
run statement(conn, "create table items (id integer)")
begin transaction on conn as tx
commit tx
display "done"`)
	if out != "done\n" {
		t.Fatalf("got %q, want %q", out, "done\n")
	}
}

// TestContainerEventAssignAndFire covers spec.md's container-events
// feature: an event is a named slot on the class (defaulting to
// Nothing) that becomes callable once an action value is assigned to
// it, dispatched through the same member/call path any other
// function-valued property uses.
func TestContainerEventAssignAndFire(t *testing.T) {
	out := run(t, `define action called handler with parameters value:
    display value
end action
create container Button
property label as "ok"
event onClick
end
store b as new Button
change b.onClick to handler
b.onClick("clicked")`)
	if out != "clicked\n" {
		t.Fatalf("got %q, want %q", out, "clicked\n")
	}
}

// TestContainerEventDefaultsToNothing checks an event never assigned a
// handler reads back as Nothing rather than panicking.
func TestContainerEventDefaultsToNothing(t *testing.T) {
	out := run(t, `create container Button
property label as "ok"
event onClick
end
store b as new Button
display b.onClick`)
	if out != "nothing\n" {
		t.Fatalf("got %q, want %q", out, "nothing\n")
	}
}

// TestExplicitCallOfZeroArgActionDoesNotDoubleCall guards the other
// half of the fix: an explicit call site (`bump()`) must resolve the
// callee directly rather than through the auto-call path, or a
// zero-arg action would be invoked twice per call.
func TestExplicitCallOfZeroArgActionDoesNotDoubleCall(t *testing.T) {
	out := run(t, `store counter as 0
define action called bump:
    change counter to counter plus 1
end action
bump()
display counter`)
	if out != "1\n" {
		t.Fatalf("got %q, want %q (bump() should run exactly once)", out, "1\n")
	}
}

// storeValueExpr reaches into a parsed `store NAME as EXPR` statement's
// value expression, since the grammar only ever produces full
// statements and classify takes an ast.Expression.
func storeValueExpr(t *testing.T, stmt ast.Statement) ast.Expression {
	t.Helper()
	store, ok := stmt.(*ast.StoreStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.StoreStatement", stmt)
	}
	return store.Value
}

func TestClassifyArithmeticIsSyncEligible(t *testing.T) {
	p := parser.New("test.wfl", `store x as 1 plus 2 times 3`)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(string) {})
	modules.BindEnv(in.Global)

	if !in.classify(storeValueExpr(t, prog.Statements[0])) {
		t.Error("expected an arithmetic expression to be sync-eligible")
	}
}

func TestClassifyAwaitCallIsNeverSyncEligible(t *testing.T) {
	p := parser.New("test.wfl", `store x as await sleep seconds(1)`)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	reg := types.NewRegistry()
	modules := stdlib.NewStandardRegistry(reg)
	in := New(modules, func(string) {})
	modules.BindEnv(in.Global)

	if in.classify(storeValueExpr(t, prog.Statements[0])) {
		t.Error("an await-flagged call must never classify as sync-eligible")
	}
}
