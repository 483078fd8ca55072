// Package analyzer performs static scope analysis: unused-variable
// detection, use-before-define, and unreachable-code warnings. Grounded
// on the scope-table walk pattern CWBudde-go-dws's semantic package uses
// for DWScript, adapted to WFL's `store`/`change` binding model instead
// of declared-type variable sections.
package analyzer

import (
	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/diagnostics"
	"github.com/wflang/wfl/pkg/token"
)

type binding struct {
	name   string
	pos    token.Position
	used   bool
}

type scope struct {
	parent   *scope
	bindings map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]*binding)}
}

func (s *scope) define(name string, pos token.Position) *binding {
	b := &binding{name: name, pos: pos}
	s.bindings[name] = b
	return b
}

func (s *scope) resolve(name string) (*binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Analyzer walks a Program and produces diagnostics for scope issues
// and unreachable code after an unconditional return/break/continue.
type Analyzer struct {
	file     string
	source   string
	diags    []diagnostics.Diagnostic
	httpVars map[string]bool // implicit handler-scope globals, spec.md §4.4
}

func New(file, source string) *Analyzer {
	return &Analyzer{file: file, source: source, httpVars: map[string]bool{
		"request": true, "method": true, "path": true, "client_ip": true, "body": true, "headers": true,
	}}
}

func (a *Analyzer) Diagnostics() []diagnostics.Diagnostic { return a.diags }

// warn records an advisory diagnostic — unused variables, unreachable
// code — that does not block a run (spec.md §4.4/§7: only Error-severity
// diagnostics gate pkg/wfl.RunProgram's execution step).
func (a *Analyzer) warn(pos token.Position, category diagnostics.Category, msg string) {
	a.diags = append(a.diags, diagnostics.Diagnostic{
		Severity: diagnostics.Warning,
		Category: category,
		Message:  msg,
		File:     a.file,
		Pos:      pos,
		Source:   a.source,
	})
}

// reportError records a blocking diagnostic — undefined-variable and
// undeclared-variable faults, per spec.md §4.4/§7's failure model, where
// "errors block execution" and warnings are merely advisory.
func (a *Analyzer) reportError(pos token.Position, category diagnostics.Category, msg string) {
	a.diags = append(a.diags, diagnostics.Diagnostic{
		Severity: diagnostics.Error,
		Category: category,
		Message:  msg,
		File:     a.file,
		Pos:      pos,
		Source:   a.source,
	})
}

// Analyze runs all checks against prog's top-level scope.
func (a *Analyzer) Analyze(prog *ast.Program) []diagnostics.Diagnostic {
	root := newScope(nil)
	a.walkBlock(prog.Statements, root)
	a.checkUnused(root)
	return a.diags
}

func (a *Analyzer) checkUnused(s *scope) {
	for _, b := range s.bindings {
		if !b.used {
			a.warn(b.pos, diagnostics.CategoryAnalyze, "variable \""+b.name+"\" is never used")
		}
	}
}

func (a *Analyzer) walkBlock(stmts []ast.Statement, s *scope) {
	terminated := false
	for _, stmt := range stmts {
		if terminated {
			a.warn(stmt.Span(), diagnostics.CategoryAnalyze, "unreachable code")
		}
		a.walkStatement(stmt, s)
		switch stmt.(type) {
		case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
			terminated = true
		default:
			terminated = false
		}
	}
}

func (a *Analyzer) walkStatement(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.StoreStatement:
		a.walkExpr(st.Value, s)
		s.define(st.Name, st.Pos)
	case *ast.ChangeStatement:
		a.walkExpr(st.Value, s)
		if id, ok := st.Target.(*ast.Identifier); ok {
			if b, found := s.resolve(id.Name); found {
				b.used = true
			} else if !a.httpVars[id.Name] {
				a.reportError(id.Pos, diagnostics.CategoryAnalyze, "change to undeclared variable \""+id.Name+"\"")
			}
		} else {
			a.walkExpr(st.Target, s)
		}
	case *ast.ArithmeticUpdateStatement:
		a.walkExpr(st.Value, s)
		if id, ok := st.Target.(*ast.Identifier); ok {
			if b, found := s.resolve(id.Name); found {
				b.used = true
			} else if !a.httpVars[id.Name] {
				a.reportError(id.Pos, diagnostics.CategoryAnalyze, "arithmetic update of undeclared variable \""+id.Name+"\"")
			}
		} else {
			a.walkExpr(st.Target, s)
		}
	case *ast.ExpressionStatement:
		a.walkExpr(st.Expression, s)
	case *ast.IfStatement:
		a.walkExpr(st.Condition, s)
		inner := newScope(s)
		a.walkBlock(st.Consequence.Statements, inner)
		a.checkUnused(inner)
		if st.Alternative != nil {
			alt := newScope(s)
			a.walkBlock(st.Alternative.Statements, alt)
			a.checkUnused(alt)
		}
	case *ast.CountLoopStatement:
		a.walkExpr(st.From, s)
		a.walkExpr(st.To, s)
		if st.Step != nil {
			a.walkExpr(st.Step, s)
		}
		inner := newScope(s)
		inner.define(st.Variable, st.Pos).used = true
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
	case *ast.ForEachStatement:
		a.walkExpr(st.Iterable, s)
		inner := newScope(s)
		inner.define(st.Variable, st.Pos).used = true
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
	case *ast.RepeatStatement:
		a.walkExpr(st.Condition, s)
		inner := newScope(s)
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
	case *ast.MainLoopStatement:
		inner := newScope(s)
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
	case *ast.DisplayStatement:
		for _, v := range st.Values {
			a.walkExpr(v, s)
		}
	case *ast.ActionDefinition:
		if st.Name != "" {
			// Actions are callable by name from any point in the
			// enclosing scope (including recursively from their own
			// body), so the binding goes in s before the body is
			// walked and is pre-marked used: call-site tracking for
			// functions isn't worth the complexity unused-variable
			// detection exists for.
			s.define(st.Name, st.Pos).used = true
		}
		inner := newScope(s)
		for _, param := range st.Parameters {
			inner.define(param.Name, st.Pos).used = true
			if param.Default != nil {
				a.walkExpr(param.Default, s)
			}
		}
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
	case *ast.ReturnStatement:
		if st.Value != nil {
			a.walkExpr(st.Value, s)
		}
	case *ast.TryStatement:
		inner := newScope(s)
		a.walkBlock(st.Body.Statements, inner)
		a.checkUnused(inner)
		if st.CatchBody != nil {
			catchScope := newScope(s)
			if st.CatchName != "" {
				catchScope.define(st.CatchName, st.Pos).used = true
			}
			a.walkBlock(st.CatchBody.Statements, catchScope)
			a.checkUnused(catchScope)
		}
		if st.Finally != nil {
			finScope := newScope(s)
			a.walkBlock(st.Finally.Statements, finScope)
			a.checkUnused(finScope)
		}
	case *ast.ContainerDefinition:
		if st.Name != "" {
			s.define(st.Name, st.Pos).used = true
		}
		inner := newScope(s)
		for _, action := range st.Actions {
			a.walkStatement(action, inner)
		}
	case *ast.OpenFileStatement:
		a.walkExpr(st.Target, s)
		if st.BindName != "" {
			s.define(st.BindName, st.Pos)
		}
	case *ast.CloseStatement:
		a.walkExpr(st.Target, s)
	case *ast.WaitForStatement:
		a.walkExpr(st.Action, s)
		if st.BindName != "" {
			s.define(st.BindName, st.Pos)
		}
	case *ast.ListenStatement:
		a.walkExpr(st.Port, s)
		inner := newScope(s)
		inner.define(st.RequestVar, st.Pos).used = true
		a.httpVars[st.RequestVar] = true
		a.walkBlock(st.OnRequest.Statements, inner)
	case *ast.RespondStatement:
		a.walkExpr(st.Status, s)
		if st.Body != nil {
			a.walkExpr(st.Body, s)
		}
	case *ast.ConnectDatabaseStatement:
		a.walkExpr(st.DSN, s)
		if st.BindName != "" {
			s.define(st.BindName, st.Pos)
		}
	case *ast.BeginTransactionStatement:
		a.walkExpr(st.Handle, s)
		if st.BindName != "" {
			s.define(st.BindName, st.Pos)
		}
	case *ast.CommitStatement:
		a.walkExpr(st.Target, s)
	case *ast.RollbackStatement:
		a.walkExpr(st.Target, s)
	}
}

func (a *Analyzer) walkExpr(expr ast.Expression, s *scope) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if b, ok := s.resolve(e.Name); ok {
			b.used = true
		} else if !a.httpVars[e.Name] {
			a.reportError(e.Pos, diagnostics.CategoryAnalyze, "use of undefined variable \""+e.Name+"\"")
		}
	case *ast.BinaryExpression:
		a.walkExpr(e.Left, s)
		a.walkExpr(e.Right, s)
	case *ast.UnaryExpression:
		a.walkExpr(e.Operand, s)
	case *ast.IndexExpression:
		a.walkExpr(e.Container, s)
		a.walkExpr(e.Index, s)
	case *ast.MemberExpression:
		a.walkExpr(e.Object, s)
	case *ast.CallExpression:
		a.walkExpr(e.Callee, s)
		for _, arg := range e.Arguments {
			a.walkExpr(arg, s)
		}
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			a.walkExpr(el, s)
		}
	case *ast.MapLiteral:
		for _, entry := range e.Entries {
			a.walkExpr(entry.Key, s)
			a.walkExpr(entry.Value, s)
		}
	case *ast.MatchExpression:
		a.walkExpr(e.Subject, s)
		a.walkExpr(e.Pattern, s)
	case *ast.NewExpression:
		for _, arg := range e.Arguments {
			a.walkExpr(arg, s)
		}
	}
}
