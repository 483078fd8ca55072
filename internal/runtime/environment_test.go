package runtime

import "testing"

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(5))
	v, ok := env.Get("x")
	if !ok || v.Num != 5 {
		t.Fatalf("Get(x) = %v, %v", v, ok)
	}
}

func TestSetRequiresExistingBinding(t *testing.T) {
	env := NewEnvironment()
	if err := env.Set("missing", Number(1)); err == nil {
		t.Fatal("expected an error changing an undeclared variable")
	}
}

func TestSetWalksOuterChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)

	if err := inner.Set("x", Number(2)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	v, _ := outer.Get("x")
	if v.Num != 2 {
		t.Fatalf("outer x = %v, want 2", v.Num)
	}
}

func TestDefineShadowsOuterScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", Number(99))

	innerVal, _ := inner.Get("x")
	outerVal, _ := outer.Get("x")
	if innerVal.Num != 99 || outerVal.Num != 1 {
		t.Fatalf("shadowing broke: inner=%v outer=%v", innerVal.Num, outerVal.Num)
	}
}

func TestWeakClosureResolvesWhileEnvReachable(t *testing.T) {
	env := NewEnclosedEnvironment(NewEnvironment())
	fn := &Function{Name: "f", Closure: env.Weak()}
	if _, ok := fn.ResolveClosure(); !ok {
		t.Fatal("expected the closure to resolve while env is still reachable")
	}
	// Without a strong KeepAlive reference the weak pointer may be
	// collected at any future GC; this test only documents the
	// resolve-while-alive contract, since forcing a collection
	// deterministically from a test is not portable.
}
