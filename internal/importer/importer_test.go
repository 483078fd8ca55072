package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wflang/wfl/internal/parser"
	"github.com/wflang/wfl/pkg/ast"
)

func parseFunc(filename, source string) (*ast.Program, []ParseError) {
	p := parser.New(filename, source)
	prog := p.ParseProgram()
	var errs []ParseError
	for _, e := range p.Errors() {
		errs = append(errs, ParseError{Message: e.Message, Pos: e.Pos})
	}
	return prog, errs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveInlinesLoadedStatements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.wfl", "store greeting as \"hi\"\n")
	main := writeFile(t, dir, "main.wfl", "load \"helper.wfl\"\ndisplay greeting\n")

	imp := New(dir, parseFunc)
	prog, err := imp.Resolve(main, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	// the load statement is replaced in place by helper.wfl's one
	// statement, so main.wfl's two lines become two total statements.
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2: %#v", len(prog.Statements), prog.Statements)
	}
	if _, ok := prog.Statements[0].(*ast.StoreStatement); !ok {
		t.Errorf("statement 0 = %T, want *ast.StoreStatement", prog.Statements[0])
	}
}

func TestResolveDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := writeFile(t, dir, "a.wfl", "load \"b.wfl\"\n")
	writeFile(t, dir, "b.wfl", "load \"a.wfl\"\n")

	imp := New(dir, parseFunc)
	_, err := imp.Resolve(aPath, nil)
	if err == nil {
		t.Fatal("expected an import cycle error")
	}
}

func TestResolveCachesDiamondImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.wfl", "store x as 1\n")
	writeFile(t, dir, "left.wfl", "load \"shared.wfl\"\n")
	writeFile(t, dir, "right.wfl", "load \"shared.wfl\"\n")
	main := writeFile(t, dir, "main.wfl", "load \"left.wfl\"\nload \"right.wfl\"\n")

	imp := New(dir, parseFunc)
	prog, err := imp.Resolve(main, nil)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1 (shared.wfl inlined once): %#v", len(prog.Statements), prog.Statements)
	}
	if len(imp.Loaded()) != 4 {
		t.Errorf("Loaded() = %v, want 4 cached modules", imp.Loaded())
	}
}
