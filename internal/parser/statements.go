package parser

import (
	"strings"

	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case token.STORE:
		return p.parseStoreStatement()
	case token.CHANGE:
		return p.parseChangeStatement()
	case token.CHECK:
		return p.parseIfStatement()
	case token.COUNT:
		return p.parseCountLoopStatement()
	case token.FOR:
		return p.parseForEachStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.MAIN:
		return p.parseMainLoopStatement()
	case token.BREAK:
		return &ast.BreakStatement{Pos: p.cur.Pos}
	case token.CONTINUE:
		return &ast.ContinueStatement{Pos: p.cur.Pos}
	case token.DISPLAY, token.PRINT:
		return p.parseDisplayStatement()
	case token.DEFINE:
		return p.parseActionDefinition()
	case token.RETURN, token.GIVE:
		return p.parseReturnStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.CREATE:
		return p.parseContainerDefinition()
	case token.INTERFACE:
		return p.parseInterfaceDefinition()
	case token.LOAD:
		return p.parseLoadStatement()
	case token.OPEN:
		return p.parseOpenFileStatement()
	case token.CLOSE:
		return p.parseCloseStatement()
	case token.WAIT:
		return p.parseWaitForStatement()
	case token.LISTEN:
		return p.parseListenStatement()
	case token.RESPOND:
		return p.parseRespondStatement()
	case token.ADD, token.SUBTRACT, token.MULTIPLY, token.DIVIDE:
		return p.parseArithmeticUpdateStatement()
	case token.CONNECT:
		return p.parseConnectDatabaseStatement()
	case token.BEGIN_TRANSACTION:
		return p.parseBeginTransactionStatement()
	case token.COMMIT:
		return p.parseCommitStatement()
	case token.ROLLBACK:
		return p.parseRollbackStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseArithmeticUpdateStatement handles `add E to N`, `subtract E from
// N`, `multiply N by E`, and `divide N by E` (spec.md §3.2).
func (p *Parser) parseArithmeticUpdateStatement() ast.Statement {
	pos := p.cur.Pos
	op := p.cur.Type

	var prep token.Type
	switch op {
	case token.ADD:
		prep = token.TO
	case token.SUBTRACT:
		prep = token.FROM
	default: // MULTIPLY, DIVIDE
		prep = token.BY
	}

	p.next()
	value := p.parseExpression(LOWEST)
	if !p.expectPeek(prep) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	p.next()
	target := p.parseExpression(LOWEST)
	if op == token.MULTIPLY || op == token.DIVIDE {
		value, target = target, value
	}
	return &ast.ArithmeticUpdateStatement{Pos: pos, Operator: op, Value: value, Target: target}
}

// parseConnectDatabaseStatement handles `connect to database E as NAME`
// (spec.md §5's database-connect statement form).
func (p *Parser) parseConnectDatabaseStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.TO) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	if !p.expectPeek(token.DATABASE) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	p.next()
	dsn := p.parseExpression(LOWEST)
	bindName := ""
	if p.peekIs(token.AS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			bindName = p.cur.Literal
		}
	}
	return &ast.ConnectDatabaseStatement{Pos: pos, DSN: dsn, BindName: bindName}
}

// parseBeginTransactionStatement handles `begin transaction on E as
// NAME`, spec.md §5's "explicit statements" transaction-open form. The
// lexer's phrase table folds "begin transaction" into a single
// token.BEGIN_TRANSACTION.
func (p *Parser) parseBeginTransactionStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.ON) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	p.next()
	handle := p.parseExpression(LOWEST)
	bindName := ""
	if p.peekIs(token.AS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			bindName = p.cur.Literal
		}
	}
	return &ast.BeginTransactionStatement{Pos: pos, Handle: handle, BindName: bindName}
}

func (p *Parser) parseCommitStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	target := p.parseExpression(LOWEST)
	return &ast.CommitStatement{Pos: pos, Target: target}
}

func (p *Parser) parseRollbackStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	target := p.parseExpression(LOWEST)
	return &ast.RollbackStatement{Pos: pos, Target: target}
}

// parseBlockUntilEnd consumes statements until `end` (which it also
// consumes) or EOF, mirroring the teacher's blockStack-aware error
// messages when `end` is missing.
func (p *Parser) parseBlockUntilEnd(blockName string) *ast.BlockStatement {
	p.pushBlock(blockName)
	defer p.popBlock()

	block := &ast.BlockStatement{Pos: p.cur.Pos}
	p.next()
	for !p.curIs(token.END) && !p.curIs(token.EOF) && !p.curIs(token.OTHERWISE) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.next()
	}
	return block
}

func (p *Parser) parseStoreStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(token.AS) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	p.next()
	value := p.parseExpression(LOWEST)
	return &ast.StoreStatement{Pos: pos, Name: name, Value: value}
}

func (p *Parser) parseChangeStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	target := p.parseExpression(LOWEST)
	if !p.expectPeek(token.TO) {
		p.synchronize(token.STORE, token.CHANGE)
		return nil
	}
	p.next()
	value := p.parseExpression(LOWEST)
	return &ast.ChangeStatement{Pos: pos, Target: target, Value: value}
}

func (p *Parser) parseIfStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.IF) {
		p.synchronize(token.END)
		return nil
	}
	p.next()
	cond := p.parseExpression(LOWEST)
	if p.peekIs(token.COLON) {
		// colon optional; tolerate its absence
		p.next()
	}
	cons := p.parseBlockUntilEnd("check if")
	stmt := &ast.IfStatement{Pos: pos, Condition: cond, Consequence: cons}
	if p.curIs(token.OTHERWISE) {
		stmt.Alternative = p.parseBlockUntilEnd("otherwise")
	}
	return stmt
}

func (p *Parser) parseCountLoopStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.END)
		return nil
	}
	variable := p.cur.Literal
	if !p.expectPeek(token.FROM) {
		p.synchronize(token.END)
		return nil
	}
	p.next()
	from := p.parseExpression(LOWEST)
	if !p.expectPeek(token.TO) {
		p.synchronize(token.END)
		return nil
	}
	p.next()
	to := p.parseExpression(LOWEST)
	var step ast.Expression
	if p.peekIs(token.STEP) {
		p.next()
		p.next()
		step = p.parseExpression(LOWEST)
	} else if p.peekIs(token.BY) {
		p.next()
		p.next()
		step = p.parseExpression(LOWEST)
	}
	body := p.parseBlockUntilEnd("count")
	return &ast.CountLoopStatement{Pos: pos, Variable: variable, From: from, To: to, Step: step, Body: body}
}

func (p *Parser) parseForEachStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.EACH) {
		p.synchronize(token.END)
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.END)
		return nil
	}
	variable := p.cur.Literal
	if !p.expectPeek(token.IN) {
		p.synchronize(token.END)
		return nil
	}
	p.next()
	iterable := p.parseExpression(LOWEST)
	body := p.parseBlockUntilEnd("for each")
	return &ast.ForEachStatement{Pos: pos, Variable: variable, Iterable: iterable, Body: body}
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	pos := p.cur.Pos
	negate := false
	if p.peekIs(token.WHILE) {
		p.next()
	} else if p.peekIs(token.UNTIL) {
		p.next()
		negate = true
	} else {
		p.peekError(token.WHILE)
		p.synchronize(token.END)
		return nil
	}
	p.next()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockUntilEnd("repeat")
	return &ast.RepeatStatement{Pos: pos, Condition: cond, Negate: negate, Body: body}
}

func (p *Parser) parseMainLoopStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.LOOP) {
		p.synchronize(token.END)
		return nil
	}
	body := p.parseBlockUntilEnd("main loop")
	return &ast.MainLoopStatement{Pos: pos, Body: body}
}

func (p *Parser) parseDisplayStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	values := []ast.Expression{p.parseExpression(LOWEST)}
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		values = append(values, p.parseExpression(LOWEST))
	}
	return &ast.DisplayStatement{Pos: pos, Values: values}
}

func (p *Parser) parseActionDefinition() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.ACTION) {
		p.synchronize(token.END)
		return nil
	}
	if !p.expectPeek(token.CALLED) {
		p.synchronize(token.END)
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.END)
		return nil
	}
	name := p.cur.Literal

	var params []ast.Parameter
	if p.peekIs(token.WITH) {
		p.next()
		if p.expectPeek(token.PARAMETERS) {
			p.next()
			params = p.parseParameterList()
		}
	}

	if p.peekIs(token.COLON) {
		p.next()
	}
	body := p.parseBlockUntilEnd("define action")
	if p.curIs(token.END) && p.peekIs(token.ACTION) {
		p.next()
	}
	return &ast.ActionDefinition{Pos: pos, Name: name, Parameters: params, Body: body}
}

func (p *Parser) parseParameterList() []ast.Parameter {
	var params []ast.Parameter
	for {
		if !p.curIs(token.IDENT) {
			break
		}
		param := ast.Parameter{Name: p.cur.Literal}
		if p.peekIs(token.AS) {
			p.next()
			p.next()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)
		if p.peekIs(token.COMMA) {
			p.next()
			p.next()
			continue
		}
		break
	}
	return params
}

func (p *Parser) parseReturnStatement() ast.Statement {
	pos := p.cur.Pos
	// The phrase table folds "give back" into one GIVE token; only a
	// lone "give" still needs its BACK.
	if p.curIs(token.GIVE) && strings.EqualFold(p.cur.Literal, "give") {
		if !p.expectPeek(token.BACK) {
			return &ast.ReturnStatement{Pos: pos}
		}
	}
	if p.peekIs(token.END) || p.peekIs(token.EOF) {
		return &ast.ReturnStatement{Pos: pos}
	}
	p.next()
	value := p.parseExpression(LOWEST)
	return &ast.ReturnStatement{Pos: pos, Value: value}
}

func (p *Parser) parseTryStatement() ast.Statement {
	pos := p.cur.Pos
	body := p.parseBlockUntilEnd("try")
	stmt := &ast.TryStatement{Pos: pos, Body: body}
	if p.curIs(token.OTHERWISE) {
		// "try ... otherwise ... end" form without explicit catch binding
		stmt.CatchBody = p.parseBlockUntilEnd("otherwise")
	}
	return stmt
}

func (p *Parser) parseContainerDefinition() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.CONTAINER) {
		p.synchronize(token.END)
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.END)
		return nil
	}
	def := &ast.ContainerDefinition{Pos: pos, Name: p.cur.Literal}

	if p.peekIs(token.EXTENDS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			def.Extends = p.cur.Literal
		}
	}
	if p.peekIs(token.IMPLEMENTS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			def.Implements = append(def.Implements, p.cur.Literal)
			for p.peekIs(token.COMMA) {
				p.next()
				if p.expectPeek(token.IDENT) {
					def.Implements = append(def.Implements, p.cur.Literal)
				}
			}
		}
	}

	p.pushBlock("create container")
	p.next()
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.PROPERTY:
			p.next()
			if p.curIs(token.IDENT) {
				prop := ast.PropertyDefinition{Name: p.cur.Literal}
				if p.peekIs(token.AS) {
					p.next()
					p.next()
					prop.Default = p.parseExpression(LOWEST)
				}
				def.Properties = append(def.Properties, prop)
			}
		case token.DEFINE:
			if action, ok := p.parseActionDefinition().(*ast.ActionDefinition); ok {
				def.Actions = append(def.Actions, action)
			}
		case token.EVENT:
			p.next()
			if p.curIs(token.IDENT) {
				def.Events = append(def.Events, p.cur.Literal)
			}
		}
		p.next()
	}
	p.popBlock()
	return def
}

func (p *Parser) parseInterfaceDefinition() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.END)
		return nil
	}
	def := &ast.InterfaceDefinition{Pos: pos, Name: p.cur.Literal}
	p.next()
	for !p.curIs(token.END) && !p.curIs(token.EOF) {
		if p.curIs(token.ACTION) && p.peekIs(token.CALLED) {
			p.next()
			if p.expectPeek(token.IDENT) {
				def.ActionNames = append(def.ActionNames, p.cur.Literal)
			}
		}
		p.next()
	}
	return def
}

func (p *Parser) parseLoadStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.STRING) {
		p.synchronize()
		return nil
	}
	return &ast.LoadStatement{Pos: pos, Path: p.cur.Literal}
}

func (p *Parser) parseOpenFileStatement() ast.Statement {
	pos := p.cur.Pos
	isURL := p.peekIs(token.URL)
	if !isURL && !p.peekIs(token.FILE) {
		p.peekError(token.FILE)
		p.synchronize()
		return nil
	}
	p.next()
	mode := "read"
	if p.peekIs(token.FOR) {
		p.next()
		p.next()
		switch p.cur.Type {
		case token.WRITE:
			mode = "write"
		case token.APPEND:
			mode = "append"
		case token.READ:
			mode = "read"
		}
	}
	p.next()
	target := p.parseExpression(LOWEST)
	bindName := ""
	if p.peekIs(token.AS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			bindName = p.cur.Literal
		}
	}
	return &ast.OpenFileStatement{Pos: pos, IsURL: isURL, Target: target, Mode: mode, BindName: bindName}
}

func (p *Parser) parseCloseStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	target := p.parseExpression(LOWEST)
	return &ast.CloseStatement{Pos: pos, Target: target}
}

func (p *Parser) parseWaitForStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.FOR) {
		p.synchronize()
		return nil
	}
	p.next()
	action := p.parseExpression(LOWEST)
	bindName := ""
	if p.peekIs(token.AS) {
		p.next()
		if p.expectPeek(token.IDENT) {
			bindName = p.cur.Literal
		}
	}
	return &ast.WaitForStatement{Pos: pos, Action: action, BindName: bindName}
}

func (p *Parser) parseListenStatement() ast.Statement {
	pos := p.cur.Pos
	if !p.expectPeek(token.ON) {
		p.synchronize(token.END)
		return nil
	}
	if !p.expectPeek(token.PORT) {
		p.synchronize(token.END)
		return nil
	}
	p.next()
	port := p.parseExpression(LOWEST)
	reqVar := "request"
	if p.peekIs(token.COLON) {
		p.next()
	}
	body := p.parseBlockUntilEnd("listen on port")
	return &ast.ListenStatement{Pos: pos, Port: port, OnRequest: body, RequestVar: reqVar}
}

func (p *Parser) parseRespondStatement() ast.Statement {
	pos := p.cur.Pos
	p.next()
	status := p.parseExpression(LOWEST)
	var body ast.Expression
	if p.peekIs(token.WITH) {
		p.next()
		p.next()
		body = p.parseExpression(LOWEST)
	}
	return &ast.RespondStatement{Pos: pos, Status: status, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	pos := p.cur.Pos
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExpressionStatement{Pos: pos, Expression: expr}
}
