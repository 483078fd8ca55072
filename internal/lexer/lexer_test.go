package lexer

import (
	"testing"

	"github.com/wflang/wfl/pkg/token"
)

func collect(source string) []token.Token {
	l := New("test.wfl", source)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestBasicTokens(t *testing.T) {
	toks := collect(`store x as 5`)
	want := []token.Type{token.STORE, token.IDENT, token.AS, token.INT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	toks := collect(`"hello\nworld"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("expected STRING, got %s", toks[0].Type)
	}
	if toks[0].Literal != "hello\nworld" {
		t.Fatalf("got %q", toks[0].Literal)
	}
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]token.Type{
		"42":     token.INT,
		"3.14":   token.FLOAT,
		"1e10":   token.FLOAT,
		"2.5e-3": token.FLOAT,
	}
	for src, want := range cases {
		toks := collect(src)
		if toks[0].Type != want {
			t.Errorf("%q: got %s, want %s", src, toks[0].Type, want)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New("test.wfl", `"unterminated`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for an unterminated string")
	}
}

func TestLineColumnTracking(t *testing.T) {
	l := New("test.wfl", "store x as 1\nstore y as 2")
	var last token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		last = tok
	}
	if last.Pos.Line != 2 {
		t.Fatalf("expected last token on line 2, got line %d", last.Pos.Line)
	}
}

func TestScannerPhraseFolding(t *testing.T) {
	s := NewScanner("test.wfl", "x is greater than or equal to y")
	var kinds []token.Type
	for {
		tok := s.Next()
		kinds = append(kinds, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{token.IDENT, token.OR_EQUAL, token.IDENT, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i, w := range want {
		if kinds[i] != w {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], w)
		}
	}
}
