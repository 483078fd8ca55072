package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func textList(items ...string) runtime.Value {
	vals := make([]runtime.Value, len(items))
	for i, s := range items {
		vals[i] = runtime.Text(s)
	}
	return runtime.List(vals)
}

func TestSortedListFromUsesNaturalOrder(t *testing.T) {
	r := NewRegistry(nil)
	registerList(r)

	got := call(t, r, "sorted items", textList("item10", "item2", "item1"))
	want := []string{"item1", "item2", "item10"}
	if len(got.List) != len(want) {
		t.Fatalf("got %d items, want %d", len(got.List), len(want))
	}
	for i, w := range want {
		if got.List[i].Str != w {
			t.Errorf("got.List[%d] = %q, want %q", i, got.List[i].Str, w)
		}
	}
}

func TestReversedListFrom(t *testing.T) {
	r := NewRegistry(nil)
	registerList(r)

	got := call(t, r, "reversed items", textList("a", "b", "c"))
	want := []string{"c", "b", "a"}
	for i, w := range want {
		if got.List[i].Str != w {
			t.Errorf("got.List[%d] = %q, want %q", i, got.List[i].Str, w)
		}
	}
}

func TestAddToListDoesNotMutateOriginal(t *testing.T) {
	r := NewRegistry(nil)
	registerList(r)

	original := textList("a", "b")
	got := call(t, r, "push item", original, runtime.Text("c"))
	if len(got.List) != 3 {
		t.Fatalf("got %d items, want 3", len(got.List))
	}
	if len(original.List) != 2 {
		t.Errorf("original list was mutated: %#v", original.List)
	}
}

func TestKeysOfMap(t *testing.T) {
	r := NewRegistry(nil)
	registerList(r)

	m := runtime.NewOrderedMap()
	m.Set("a", runtime.Number(1))
	m.Set("b", runtime.Number(2))

	got := call(t, r, "dictionary keys", runtime.Value{Kind: runtime.KindMap, Map: m})
	if len(got.List) != 2 {
		t.Fatalf("got %d keys, want 2", len(got.List))
	}
}

func TestListMethodLength(t *testing.T) {
	r := NewRegistry(nil)
	registerList(r)

	fn, ok := r.LookupMethod(runtime.KindList, "length")
	if !ok {
		t.Fatal("expected a list.length method")
	}
	got, err := fn([]runtime.Value{textList("a", "b", "c")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Num != 3 {
		t.Errorf("length = %v, want 3", got.Num)
	}
}
