package wfl

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunProgramExitsZeroOnSuccess(t *testing.T) {
	var out []string
	code, diags := RunProgram(context.Background(), `display 6 times 7`, "<eval>", Options{
		Out: func(s string) { out = append(out, s) },
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (diags: %v)", code, diags)
	}
	if len(out) != 1 || strings.TrimSpace(out[0]) != "42" {
		t.Errorf("output = %v, want [\"42\"]", out)
	}
}

func TestRunProgramExitsOneOnParseError(t *testing.T) {
	code, diags := RunProgram(context.Background(), `store as`, "<eval>", Options{})
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if len(diags) == 0 {
		t.Error("expected at least one diagnostic for a parse error")
	}
}

func TestRunProgramExitsOneOnRuntimeError(t *testing.T) {
	code, diags := RunProgram(context.Background(), `display 1 divided by 0`, "<eval>", Options{})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if len(diags) == 0 {
		t.Error("expected a runtime diagnostic for division by zero")
	}
}

func TestRunProgramInlinesLoadedModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "helper.wfl", "store greeting as \"hi\"\n")
	main := writeFile(t, dir, "main.wfl", "load \"helper.wfl\"\ndisplay greeting\n")

	source, err := os.ReadFile(main)
	if err != nil {
		t.Fatal(err)
	}

	var out []string
	code, diags := RunProgram(context.Background(), string(source), main, Options{
		Out: func(s string) { out = append(out, s) },
	})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (diags: %v)", code, diags)
	}
	if len(out) != 1 || strings.TrimSpace(out[0]) != "hi" {
		t.Errorf("output = %v, want [\"hi\"]", out)
	}
}

func TestRunProgramAnalyzeReportsUnusedVariable(t *testing.T) {
	_, diags := RunProgram(context.Background(), "store x as 1\nstore y as 2\ndisplay x\n", "<eval>", Options{
		Analyze: true,
	})
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "\"y\" is never used") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unused-variable warning, got %v", diags)
	}
}

func TestRunProgramTypeCheckReportsMismatch(t *testing.T) {
	_, diags := RunProgram(context.Background(), "store x as 1\nstore y as true\nstore z as x plus y\n", "<eval>", Options{
		TypeCheck: true,
	})
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "likely mismatched") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a type-mismatch warning, got %v", diags)
	}
}

func TestParseDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	aPath := writeFile(t, dir, "a.wfl", "load \"b.wfl\"\n")
	writeFile(t, dir, "b.wfl", "load \"a.wfl\"\n")

	source, err := os.ReadFile(aPath)
	if err != nil {
		t.Fatal(err)
	}

	_, diags, ok := Parse(aPath, string(source))
	if ok {
		t.Fatal("expected Parse to fail on an import cycle")
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "import cycle") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an import-cycle diagnostic, got %v", diags)
	}
}

func TestParseReturnsProgramOnSuccess(t *testing.T) {
	prog, diags, ok := Parse("<eval>", "store x as 1\ndisplay x\n")
	if !ok {
		t.Fatalf("Parse failed: %v", diags)
	}
	if len(prog.Statements) != 2 {
		t.Errorf("got %d statements, want 2", len(prog.Statements))
	}
}
