// Package types implements WFL's warnings-only structural type lattice
// (spec.md §4.5). Unlike CWBudde-go-dws's hard Pascal type checker, a
// mismatch here never blocks execution — it produces a diagnostics.Warning
// that the CLI's --type-check flag surfaces, consistent with WFL staying
// dynamically typed at runtime.
package types

import (
	"strconv"

	"github.com/wflang/wfl/pkg/ast"
	"github.com/wflang/wfl/pkg/diagnostics"
)

// Kind is the static approximation of a runtime Kind used for warnings.
type Kind int

const (
	Unknown Kind = iota
	Number
	Text
	Boolean
	Nothing
	List
	Map
	Action
	Container
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Nothing:
		return "nothing"
	case List:
		return "list"
	case Map:
		return "map"
	case Action:
		return "action"
	case Container:
		return "container"
	default:
		return "unknown"
	}
}

// ArityEntry is one row of the single-source-of-truth arity registry
// that internal/stdlib populates and internal/types consults so a
// wrong-argument-count call warns at analysis time instead of only at
// call time.
type ArityEntry struct {
	Name   string
	MinArg int
	MaxArg int // -1 for variadic
}

// Registry holds declared variable kinds (best-effort, inferred from the
// literal used in their first `store`) and the stdlib arity table.
type Registry struct {
	vars  map[string]Kind
	arity map[string]ArityEntry
}

func NewRegistry() *Registry {
	return &Registry{vars: make(map[string]Kind), arity: make(map[string]ArityEntry)}
}

func (r *Registry) RegisterArity(e ArityEntry) { r.arity[e.Name] = e }

// Checker walks a Program and emits warnings-only diagnostics.
type Checker struct {
	file   string
	source string
	reg    *Registry
	diags  []diagnostics.Diagnostic
}

func NewChecker(file, source string, reg *Registry) *Checker {
	return &Checker{file: file, source: source, reg: reg}
}

func (c *Checker) Diagnostics() []diagnostics.Diagnostic { return c.diags }

func (c *Checker) warn(d diagnostics.Diagnostic) {
	d.Severity = diagnostics.Warning
	d.Category = diagnostics.CategoryType
	d.File = c.file
	d.Source = c.source
	c.diags = append(c.diags, d)
}

// Check infers a best-effort Kind for each `store`, including those
// nested in if, loop and action bodies, and flags
// arithmetic on clearly incompatible literal kinds and stdlib calls
// whose argument count falls outside the registered arity.
func (c *Checker) Check(prog *ast.Program) []diagnostics.Diagnostic {
	for _, stmt := range prog.Statements {
		c.checkStatement(stmt)
	}
	return c.diags
}

func (c *Checker) checkStatement(stmt ast.Statement) {
	switch st := stmt.(type) {
	case *ast.StoreStatement:
		c.reg.vars[st.Name] = c.infer(st.Value)
		c.checkExpr(st.Value)
	case *ast.ChangeStatement:
		c.checkExpr(st.Value)
	case *ast.ExpressionStatement:
		c.checkExpr(st.Expression)
	case *ast.IfStatement:
		c.checkExpr(st.Condition)
		for _, s := range st.Consequence.Statements {
			c.checkStatement(s)
		}
		if st.Alternative != nil {
			for _, s := range st.Alternative.Statements {
				c.checkStatement(s)
			}
		}
	case *ast.CountLoopStatement:
		for _, s := range st.Body.Statements {
			c.checkStatement(s)
		}
	case *ast.ForEachStatement:
		for _, s := range st.Body.Statements {
			c.checkStatement(s)
		}
	case *ast.RepeatStatement:
		for _, s := range st.Body.Statements {
			c.checkStatement(s)
		}
	case *ast.MainLoopStatement:
		for _, s := range st.Body.Statements {
			c.checkStatement(s)
		}
	case *ast.ActionDefinition:
		for _, s := range st.Body.Statements {
			c.checkStatement(s)
		}
	}
}

func (c *Checker) infer(expr ast.Expression) Kind {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return Number
	case *ast.TextLiteral:
		return Text
	case *ast.BooleanLiteral:
		return Boolean
	case *ast.NothingLiteral:
		return Nothing
	case *ast.ListLiteral:
		return List
	case *ast.MapLiteral:
		return Map
	case *ast.Identifier:
		if k, ok := c.reg.vars[e.Name]; ok {
			return k
		}
	}
	return Unknown
}

func (c *Checker) checkExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		c.checkExpr(e.Left)
		c.checkExpr(e.Right)
		lk, rk := c.infer(e.Left), c.infer(e.Right)
		if lk != Unknown && rk != Unknown && lk != rk {
			isArith := e.OpText == "plus" || e.OpText == "minus" || e.OpText == "times" ||
				e.OpText == "+" || e.OpText == "-" || e.OpText == "*"
			// text + anything is allowed (coerced to concatenation); every
			// other cross-kind arithmetic combination is a likely mistake.
			if isArith && !(lk == Text || rk == Text) {
				c.warn(diagnostics.Diagnostic{
					Pos:     e.Pos,
					Message: "operand kinds " + lk.String() + " and " + rk.String() + " likely mismatched for " + e.OpText,
				})
			}
		}
	case *ast.CallExpression:
		c.checkExpr(e.Callee)
		for _, a := range e.Arguments {
			c.checkExpr(a)
		}
		if id, ok := e.Callee.(*ast.Identifier); ok {
			if entry, ok := c.reg.arity[id.Name]; ok {
				n := len(e.Arguments)
				if n < entry.MinArg || (entry.MaxArg >= 0 && n > entry.MaxArg) {
					c.warn(diagnostics.Diagnostic{
						Pos:     e.Pos,
						Message: "call to \"" + id.Name + "\" passes " + strconv.Itoa(n) + " argument(s), expected " + arityRange(entry),
					})
				}
			}
		}
	}
}

func arityRange(e ArityEntry) string {
	if e.MaxArg < 0 {
		return "at least " + strconv.Itoa(e.MinArg)
	}
	if e.MinArg == e.MaxArg {
		return strconv.Itoa(e.MinArg)
	}
	return strconv.Itoa(e.MinArg) + "-" + strconv.Itoa(e.MaxArg)
}
