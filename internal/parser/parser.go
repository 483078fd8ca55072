// Package parser implements WFL's recursive-descent, precedence-climbing
// parser. Structure (cursor, block-context stack, speculative-state
// save/restore, synchronize-on-error) is grounded on
// CWBudde-go-dws/internal/parser/parser.go.
package parser

import (
	"fmt"

	"github.com/wflang/wfl/internal/lexer"
	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

// precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	OR_PREC
	AND_PREC
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	CALL
	INDEX
)

var precedences = map[token.Type]int{
	token.OR:         OR_PREC,
	token.AND:        AND_PREC,
	token.IS:         EQUALITY,
	token.NOT_EQUAL:  EQUALITY,
	token.GREATER:    COMPARISON,
	token.LESS:       COMPARISON,
	token.OR_EQUAL:   COMPARISON,
	token.CONTAINS:   COMPARISON,
	token.MATCHES:    COMPARISON,
	token.PLUS:       ADDITIVE,
	token.MINUS:      ADDITIVE,
	token.PLUS_SIGN:  ADDITIVE,
	token.MINUS_SIGN: ADDITIVE,
	token.TIMES:      MULTIPLICATIVE,
	token.DIVIDED:    MULTIPLICATIVE,
	token.MODULO:     MULTIPLICATIVE,
	token.STAR:       MULTIPLICATIVE,
	token.SLASH:      MULTIPLICATIVE,
	token.OF:         INDEX,
	token.DOT:        CALL,
	token.LPAREN:     CALL,
	token.LBRACK:     INDEX,
}

// Error is a structured parse error with position and an optional
// expected-vs-got detail, rendered by pkg/diagnostics.
type Error struct {
	Message string
	Pos     token.Position
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser consumes a token.Scanner and produces an *ast.Program.
type Parser struct {
	scan *lexer.Scanner
	file string

	cur  token.Token
	peek token.Token

	errors []Error

	// blockStack tracks the human-readable name of each open block
	// ("if", "count", "define action ...") so that a missing `end`
	// reports which construct it belongs to.
	blockStack []string

	prefixFns map[token.Type]prefixParseFn
	infixFns  map[token.Type]infixParseFn
}

func New(filename, source string) *Parser {
	p := &Parser{scan: lexer.NewScanner(filename, source), file: filename}
	p.prefixFns = make(map[token.Type]prefixParseFn)
	p.infixFns = make(map[token.Type]infixParseFn)

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseNumberLiteral)
	p.registerPrefix(token.FLOAT, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseTextLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.YES, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NO, p.parseBooleanLiteral)
	p.registerPrefix(token.NOTHING, p.parseNothingLiteral)
	p.registerPrefix(token.NOT, p.parseUnary)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.MINUS_SIGN, p.parseUnary)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACK, p.parseListLiteral)
	p.registerPrefix(token.NEW, p.parseNewExpression)
	p.registerPrefix(token.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(token.THIS, p.parseIdentifier)
	p.registerPrefix(token.SELF, p.parseIdentifier)
	p.registerPrefix(token.PARENT, p.parseIdentifier)

	for _, t := range []token.Type{
		token.IS, token.NOT_EQUAL, token.GREATER, token.LESS, token.OR_EQUAL,
		token.CONTAINS, token.MATCHES, token.AND, token.OR,
		token.PLUS, token.MINUS, token.PLUS_SIGN, token.MINUS_SIGN,
		token.TIMES, token.DIVIDED, token.MODULO, token.STAR, token.SLASH,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACK, p.parseIndexExpression)
	p.registerInfix(token.OF, p.parseOfIndexExpression)

	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixFns[t] = fn }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.scan.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.next()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.Type) {
	p.addError(fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peek.Type))
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, Error{Message: msg, Pos: p.cur.Pos})
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.errors = append(p.errors, Error{
		Message: fmt.Sprintf("unexpected token %s (%q)", t.Type, t.Literal),
		Pos:     t.Pos,
	})
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// synchronize advances past the current bad token until it reaches a
// token in syncTokens, a block terminator, or EOF — mirroring the
// teacher's synchronize(syncTokens) panic-mode recovery so one error
// doesn't cascade into dozens.
func (p *Parser) synchronize(syncTokens ...token.Type) {
	for !p.curIs(token.EOF) {
		if p.curIs(token.END) {
			return
		}
		for _, t := range syncTokens {
			if p.curIs(t) {
				return
			}
		}
		p.next()
	}
}

func (p *Parser) pushBlock(name string) { p.blockStack = append(p.blockStack, name) }
func (p *Parser) popBlock() {
	if len(p.blockStack) > 0 {
		p.blockStack = p.blockStack[:len(p.blockStack)-1]
	}
}

// ParseProgram parses the whole token stream into a Program node.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.next()
	}
	return prog
}
