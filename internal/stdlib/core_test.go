package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func TestCoreTypeof(t *testing.T) {
	r := NewRegistry(nil)
	registerCore(r)

	if got := call(t, r, "typeof", runtime.Number(1)); got.Str != "number" {
		t.Errorf("typeof 1 = %q, want \"number\"", got.Str)
	}
	if got := call(t, r, "typeof", runtime.Nothing); got.Str != "nothing" {
		t.Errorf("typeof nothing = %q, want \"nothing\"", got.Str)
	}
}

func TestCoreToTextAndToNumber(t *testing.T) {
	r := NewRegistry(nil)
	registerCore(r)

	if got := call(t, r, "text value", runtime.Number(42)); got.Str != "42" {
		t.Errorf("text value 42 = %q, want \"42\"", got.Str)
	}
	got := call(t, r, "number value", runtime.Text("3.5"))
	if got.Num != 3.5 {
		t.Errorf("number value \"3.5\" = %v, want 3.5", got.Num)
	}
}

func TestCoreToNumberRejectsInvalidText(t *testing.T) {
	r := NewRegistry(nil)
	registerCore(r)

	fn, _ := r.Lookup("number value")
	_, err := fn([]runtime.Value{runtime.Text("not a number")})
	if err == nil {
		t.Fatal("expected an error converting non-numeric text")
	}
}

func TestCoreIsNothing(t *testing.T) {
	r := NewRegistry(nil)
	registerCore(r)

	if got := call(t, r, "empty value", runtime.Nothing); !got.Bool {
		t.Error("empty value on Nothing should be true")
	}
	if got := call(t, r, "empty value", runtime.Number(0)); got.Bool {
		t.Error("empty value on 0 should be false")
	}
}
