package stdlib

import (
	"testing"

	"github.com/wflang/wfl/internal/runtime"
)

func call(t *testing.T, r *Registry, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fn, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("no function registered under %q", name)
	}
	v, err := fn(args)
	if err != nil {
		t.Fatalf("%s(%v) returned error: %v", name, args, err)
	}
	return v
}

func TestMathUnaryFunctions(t *testing.T) {
	r := NewRegistry(nil)
	registerMath(r)

	got := call(t, r, "absolute value", runtime.Number(-4))
	if got.Num != 4 {
		t.Errorf("absolute value -4 = %v, want 4", got.Num)
	}
	got = call(t, r, "square root", runtime.Number(9))
	if got.Num != 3 {
		t.Errorf("square root 9 = %v, want 3", got.Num)
	}
	got = call(t, r, "round up", runtime.Number(1.2))
	if got.Num != 2 {
		t.Errorf("round up 1.2 = %v, want 2", got.Num)
	}
}

func TestMathPowerOf(t *testing.T) {
	r := NewRegistry(nil)
	registerMath(r)

	got := call(t, r, "power", runtime.Number(2), runtime.Number(10))
	if got.Num != 1024 {
		t.Errorf("power 2, 10 = %v, want 1024", got.Num)
	}
}

func TestMathMaximumAndMinimumOfVariadic(t *testing.T) {
	r := NewRegistry(nil)
	registerMath(r)

	max := call(t, r, "maximum", runtime.Number(1), runtime.Number(5), runtime.Number(3))
	if max.Num != 5 {
		t.Errorf("maximum 1,5,3 = %v, want 5", max.Num)
	}
	min := call(t, r, "minimum", runtime.Number(1), runtime.Number(5), runtime.Number(3))
	if min.Num != 1 {
		t.Errorf("minimum 1,5,3 = %v, want 1", min.Num)
	}
}

func TestRandomNumberStaysInRange(t *testing.T) {
	r := NewRegistry(nil)
	registerRandomModule(r)

	for i := 0; i < 50; i++ {
		got := call(t, r, "random number", runtime.Number(1), runtime.Number(3))
		if got.Num < 1 || got.Num > 3 {
			t.Fatalf("random number 1,3 = %v, out of range", got.Num)
		}
	}
}
