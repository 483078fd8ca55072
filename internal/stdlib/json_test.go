package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func TestJSONValueAtReadsNestedPath(t *testing.T) {
	r := NewRegistry(nil)
	registerJSON(r)

	doc := `{"user": {"name": "ada", "age": 36}}`
	got := call(t, r, "json value at", runtime.Text(doc), runtime.Text("user.name"))
	if got.Str != "ada" {
		t.Errorf("json value at user.name = %q, want \"ada\"", got.Str)
	}
	got = call(t, r, "json value at", runtime.Text(doc), runtime.Text("user.age"))
	if got.Num != 36 {
		t.Errorf("json value at user.age = %v, want 36", got.Num)
	}
}

func TestJSONValueAtReadsArray(t *testing.T) {
	r := NewRegistry(nil)
	registerJSON(r)

	got := call(t, r, "json value at", runtime.Text(`{"items": [1, 2, 3]}`), runtime.Text("items"))
	if len(got.List) != 3 {
		t.Fatalf("got %d items, want 3", len(got.List))
	}
	if got.List[0].Num != 1 {
		t.Errorf("items[0] = %v, want 1", got.List[0].Num)
	}
}

func TestJSONSetAddsPath(t *testing.T) {
	r := NewRegistry(nil)
	registerJSON(r)

	got := call(t, r, "json set", runtime.Text(`{}`), runtime.Text("name"), runtime.Text("ada"))
	back := call(t, r, "json value at", got, runtime.Text("name"))
	if back.Str != "ada" {
		t.Errorf("round trip json set then json value at = %q, want \"ada\"", back.Str)
	}
}

func TestIsValidJSON(t *testing.T) {
	r := NewRegistry(nil)
	registerJSON(r)

	if got := call(t, r, "valid json", runtime.Text(`{"a": 1}`)); !got.Bool {
		t.Error("expected {\"a\": 1} to be valid JSON")
	}
	if got := call(t, r, "valid json", runtime.Text(`{not json`)); got.Bool {
		t.Error("expected malformed text to be invalid JSON")
	}
}
