package lexer

import (
	"strings"

	"github.com/wflang/wfl/pkg/token"
)

// phrases maps a multi-word natural-language operator, expressed as its
// lowercase words, to a single token type. Longest-match-first: the
// Scanner tries the longest phrase starting at the current word before
// falling back to shorter ones or a single-word keyword.
var phrases = map[string]token.Type{
	"is equal to":                 token.IS,
	"is not equal to":             token.NOT_EQUAL,
	"is greater than":             token.GREATER,
	"is less than":                token.LESS,
	"is greater than or equal to": token.OR_EQUAL,
	"is less than or equal to":    token.OR_EQUAL,
	"divided by":                  token.DIVIDED,
	"begin transaction":           token.BEGIN_TRANSACTION,
	"comes from":                  token.COMES,
	"give back":                   token.GIVE,
}

// maxPhraseWords bounds the lookahead the Scanner performs for a phrase
// match; phrases above this length are not supported.
const maxPhraseWords = 6

// Scanner wraps a Lexer with a small lookahead buffer so the parser (or
// the phrase matcher below) can peek tokens without consuming them, and
// layers multi-word keyword recognition on top of NextToken.
type Scanner struct {
	lex  *Lexer
	buf  []token.Token
	file string
}

// NewScanner creates a Scanner over source.
func NewScanner(filename, source string) *Scanner {
	return &Scanner{lex: New(filename, source), file: filename}
}

func (s *Scanner) Errors() []Error { return s.lex.Errors() }

func (s *Scanner) rawNext() token.Token {
	if len(s.buf) > 0 {
		t := s.buf[0]
		s.buf = s.buf[1:]
		return t
	}
	return s.lex.NextToken()
}

func (s *Scanner) peekRaw(n int) token.Token {
	for len(s.buf) <= n {
		s.buf = append(s.buf, s.lex.NextToken())
	}
	return s.buf[n]
}

// Next returns the next token, folding any recognized multi-word phrase
// starting at the current position into a single token whose Literal is
// the joined phrase and whose position is that of the first word.
func (s *Scanner) Next() token.Token {
	first := s.rawNext()
	if first.Type != token.IDENT && !first.Type.IsKeyword() {
		return first
	}

	words := []string{strings.ToLower(first.Literal)}
	consumed := []token.Token{first}
	best := -1
	bestType := token.ILLEGAL

	for i := 1; i < maxPhraseWords; i++ {
		next := s.peekRaw(i - 1)
		if next.Type != token.IDENT && !next.Type.IsKeyword() {
			break
		}
		words = append(words, strings.ToLower(next.Literal))
		consumed = append(consumed, next)
		candidate := strings.Join(words, " ")
		if t, ok := phrases[candidate]; ok {
			best = i
			bestType = t
		}
	}

	if best == -1 {
		return first
	}

	// Commit: drop the matched extra words from the buffer.
	s.buf = s.buf[best:]
	phraseWords := words[:best+1]
	lit := strings.Join(phraseWords, " ")
	return token.New(bestType, lit, first.Pos)
}
