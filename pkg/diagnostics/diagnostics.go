// Package diagnostics renders compiler/runtime errors and warnings with
// caret-under-span source context, in the style of CWBudde-go-dws's
// internal/errors package.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/wflang/wfl/pkg/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "hint"
	}
}

// Category groups diagnostics by pipeline stage, per spec.md §7's taxonomy.
type Category string

const (
	CategoryLex      Category = "lex"
	CategoryParse    Category = "parse"
	CategoryImport   Category = "import"
	CategoryAnalyze  Category = "analyze"
	CategoryType     Category = "type"
	CategoryRuntime  Category = "runtime"
	CategoryStyle    Category = "style"
	CategoryConfig   Category = "config"
)

// Diagnostic is one reported issue anchored to a source span.
type Diagnostic struct {
	Severity Severity
	Category Category
	Message  string
	File     string
	Pos      token.Position
	Length   int // span length in runes, for underlining beyond one char
	Source   string
	Hint     string // optional suggested fix, shown as a trailing note
}

// severityColor picks the fatih/color attribute set for d's severity,
// matching the red/yellow/cyan convention most CLI linters use.
func severityColor(s Severity) *color.Color {
	switch s {
	case Error:
		return color.New(color.FgRed, color.Bold)
	case Warning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan, color.Bold)
	}
}

// Format renders a single diagnostic with a caret-underlined source
// context line, matching CWBudde-go-dws's FormatWithContext output
// shape. When useColor is set, the severity tag and caret underline are
// colored via fatih/color; terminal-capability detection is the
// caller's responsibility (e.g. gating on an --no-color flag or
// isatty), not this package's.
func (d Diagnostic) Format(useColor bool) string {
	sevText := d.Severity.String()
	caret := "^"
	if useColor {
		c := severityColor(d.Severity)
		sevText = c.Sprint(sevText)
		caret = c.Sprint("^")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n", d.File, d.Pos.Line, d.Pos.Column, sevText, d.Message)

	line := sourceLine(d.Source, d.Pos.Line)
	if line != "" {
		sb.WriteString("    " + line + "\n")
		pad := strings.Repeat(" ", 4+max0(d.Pos.Column-1))
		length := d.Length
		if length < 1 {
			length = 1
		}
		sb.WriteString(pad + strings.Repeat(caret, length) + "\n")
	}
	if d.Hint != "" {
		sb.WriteString("    hint: " + d.Hint + "\n")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func sourceLine(source string, line int) string {
	lines := strings.Split(source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a slice of diagnostics in order.
func FormatAll(diags []Diagnostic, color bool) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(d.Format(color))
	}
	return sb.String()
}

// HasErrors reports whether any diagnostic in diags is an Error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// UnifiedDiff renders a unified diff between two texts, used by the
// `wfl lint --diff` and `wfl fix --diff` CLI flags to preview autofixes
// without writing them.
func UnifiedDiff(filename, before, after string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: filename,
		ToFile:   filename + " (fixed)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
