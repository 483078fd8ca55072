package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func TestRunCommandReturnsTrimmedOutput(t *testing.T) {
	r := NewRegistry(nil)
	registerSubprocess(r)

	got := call(t, r, "run process", runtime.Text("echo"), runtime.Text("hi"))
	if got.Str != "hi" {
		t.Errorf("run process echo hi = %q, want \"hi\"", got.Str)
	}
}

func TestRunCommandWithNoArgumentsErrors(t *testing.T) {
	r := NewRegistry(nil)
	registerSubprocess(r)

	fn, _ := r.Lookup("run process")
	_, err := fn(nil)
	if err == nil {
		t.Fatal("expected an error when run process is given no arguments")
	}
}
