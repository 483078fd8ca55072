package parser

import (
	"strconv"
	"strings"

	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

// parseExpression is the precedence-climbing core: a prefix parse
// followed by repeated infix absorption while the peek token's
// precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.cur)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Type]
		if infix == nil {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	// "item" is a soft keyword: `item <index> of <container>` is the
	// natural-language spelling of indexing, parsed here as an explicit
	// IndexExpression rather than inferred later from a bare numeric
	// left operand — see spec.md §9 on the historical index/member
	// ambiguity this avoids.
	if strings.EqualFold(p.cur.Literal, "item") && (p.peek.Type == token.INT || p.peek.Type == token.FLOAT || p.peek.Type == token.IDENT) {
		pos := p.cur.Pos
		p.next()
		index := p.parseExpression(INDEX)
		if p.peekIs(token.OF) {
			p.next()
			p.next()
			container := p.parseExpression(INDEX)
			return &ast.IndexExpression{Pos: pos, Container: container, Index: index}
		}
		// "item" wasn't followed by "of": treat it as an ordinary
		// identifier by falling back to the joined-name reading below.
		return p.parseIdentifierTail(pos, "item "+index.String())
	}

	// Join adjacent identifier words into one logical name, e.g.
	// `the user name` parses as a single Identifier "the user name",
	// letting WFL read like prose without forcing camelCase/snake_case.
	pos := p.cur.Pos
	name := p.cur.Literal
	return p.parseIdentifierTail(pos, name)
}

func (p *Parser) parseIdentifierTail(pos token.Position, name string) ast.Expression {
	for p.peek.Type == token.IDENT && p.peek.Pos.Line == p.cur.Pos.Line {
		p.next()
		name += " " + p.cur.Literal
	}
	return &ast.Identifier{Pos: pos, Name: name}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	pos := p.cur.Pos
	raw := p.cur.Literal
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.addError("invalid number literal " + raw)
	}
	return &ast.NumberLiteral{Pos: pos, Value: val, Raw: raw}
}

func (p *Parser) parseTextLiteral() ast.Expression {
	return &ast.TextLiteral{Pos: p.cur.Pos, Value: p.cur.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	v := p.cur.Type == token.TRUE || p.cur.Type == token.YES
	return &ast.BooleanLiteral{Pos: p.cur.Pos, Value: v}
}

func (p *Parser) parseNothingLiteral() ast.Expression {
	return &ast.NothingLiteral{Pos: p.cur.Pos}
}

func (p *Parser) parseUnary() ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Type
	opText := p.cur.Literal
	p.next()
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpression{Pos: pos, Operator: op, OpText: opText, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.next()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return expr
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	pos := p.cur.Pos
	lit := &ast.ListLiteral{Pos: pos}
	if p.peekIs(token.RBRACK) {
		p.next()
		return lit
	}
	p.next()
	lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACK) {
		return lit
	}
	return lit
}

func (p *Parser) parseNewExpression() ast.Expression {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.cur.Literal
	expr := &ast.NewExpression{Pos: pos, Container: name}
	if p.peekIs(token.LPAREN) {
		p.next()
		expr.Arguments = p.parseCallArguments()
	}
	return expr
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	pos := p.cur.Pos
	p.next()
	inner := p.parseExpression(CALL)
	if call, ok := inner.(*ast.CallExpression); ok {
		call.Await = true
		return call
	}
	return &ast.CallExpression{Pos: pos, Callee: inner, Await: true}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	op := p.cur.Type
	opText := p.cur.Literal
	precedence := p.curPrecedence()
	p.next()
	right := p.parseExpression(precedence)
	if op == token.MATCHES {
		return &ast.MatchExpression{Pos: pos, Subject: left, Pattern: right}
	}
	return &ast.BinaryExpression{Pos: pos, Left: left, Operator: op, OpText: opText, Right: right}
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		return left
	}
	return &ast.MemberExpression{Pos: pos, Object: left, Property: p.cur.Literal}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	pos := p.cur.Pos
	args := p.parseCallArguments()
	return &ast.CallExpression{Pos: pos, Callee: callee, Arguments: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	var args []ast.Expression
	if p.peekIs(token.RPAREN) {
		p.next()
		return args
	}
	p.next()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RPAREN)
	return args
}

// parseIndexExpression handles the bracketed `list[index]` spelling.
func (p *Parser) parseIndexExpression(container ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next()
	idx := p.parseExpression(LOWEST)
	p.expectPeek(token.RBRACK)
	return &ast.IndexExpression{Pos: pos, Container: container, Index: idx}
}

// parseOfIndexExpression handles the natural-language `item N of list`
// spelling. Because `of` is registered as an infix operator on the
// already-parsed index expression, the production is explicit rather
// than inferred from a bare numeric-left-operand heuristic, avoiding
// the historical index/member ambiguity noted in spec.md §9.
func (p *Parser) parseOfIndexExpression(index ast.Expression) ast.Expression {
	pos := p.cur.Pos
	p.next()
	container := p.parseExpression(INDEX)
	return &ast.IndexExpression{Pos: pos, Container: container, Index: index}
}
