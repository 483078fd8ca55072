package types

import (
	"strings"
	"testing"

	"github.com/wflang/wfl/internal/parser"
)

func check(t *testing.T, src string, reg *Registry) []string {
	t.Helper()
	p := parser.New("t.wfl", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parse errors: %v", p.Errors())
	}
	if reg == nil {
		reg = NewRegistry()
	}
	c := NewChecker("t.wfl", src, reg)
	var msgs []string
	for _, d := range c.Check(prog) {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func hasSubstring(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		Unknown:   "unknown",
		Number:    "number",
		Text:      "text",
		Boolean:   "boolean",
		Nothing:   "nothing",
		List:      "list",
		Map:       "map",
		Action:    "action",
		Container: "container",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestCheckFlagsMismatchedArithmeticKinds(t *testing.T) {
	msgs := check(t, `store x as 1
store y as true
store z as x plus y
`, nil)
	if !hasSubstring(msgs, "likely mismatched for plus") {
		t.Errorf("expected a mismatched-kind warning, got %v", msgs)
	}
}

func TestCheckAllowsTextConcatenationWithAnyKind(t *testing.T) {
	msgs := check(t, `store x as 1
store y as "count: "
store z as y plus x
`, nil)
	if hasSubstring(msgs, "likely mismatched") {
		t.Errorf("text concatenation with a number should not warn, got %v", msgs)
	}
}

func TestCheckAllowsMatchingArithmeticKinds(t *testing.T) {
	msgs := check(t, "store x as 1\nstore y as 2\nstore z as x plus y\n", nil)
	if len(msgs) != 0 {
		t.Errorf("expected no warnings for same-kind arithmetic, got %v", msgs)
	}
}

func TestCheckFlagsArityMismatch(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterArity(ArityEntry{Name: "round", MinArg: 1, MaxArg: 1})

	msgs := check(t, `store x as round(1, 2)
`, reg)
	if !hasSubstring(msgs, "passes 2 argument(s), expected 1") {
		t.Errorf("expected an arity-mismatch warning, got %v", msgs)
	}
}

func TestCheckAllowsVariadicArity(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterArity(ArityEntry{Name: "join", MinArg: 1, MaxArg: -1})

	msgs := check(t, `store x as join(1, 2, 3)
`, reg)
	if hasSubstring(msgs, "argument(s), expected") {
		t.Errorf("variadic call within range should not warn, got %v", msgs)
	}
}

func TestArityRangeFormatting(t *testing.T) {
	cases := []struct {
		entry ArityEntry
		want  string
	}{
		{ArityEntry{MinArg: 1, MaxArg: -1}, "at least 1"},
		{ArityEntry{MinArg: 2, MaxArg: 2}, "2"},
		{ArityEntry{MinArg: 1, MaxArg: 3}, "1-3"},
	}
	for _, c := range cases {
		if got := arityRange(c.entry); got != c.want {
			t.Errorf("arityRange(%+v) = %q, want %q", c.entry, got, c.want)
		}
	}
}
