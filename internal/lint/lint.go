// Package lint implements WFL's style linter and autofixer (spec.md
// §6.1's --lint/--fix/--in-place/--check/--diff flags), checking the
// style keys declared in internal/config (max_line_length,
// max_nesting_depth, snake_case_variables, trailing_whitespace,
// consistent_keyword_case) against the raw source text and its token
// stream. indent_size is not checked; only Fix applies it.
package lint

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/wflang/wfl/internal/config"
	"github.com/wflang/wfl/internal/lexer"
	"github.com/wflang/wfl/pkg/diagnostics"
	"github.com/wflang/wfl/pkg/token"
)

// blockOpeners approximates nesting depth from source text alone (lint
// works line-by-line, grounded on CWBudde-go-dws's source-line-oriented
// diagnostics rather than a full AST walk): any statement that opens a
// block ending in `end` increases depth by one.
var blockOpeners = []string{
	"check if", "count ", "for each", "repeat", "main loop",
	"define action", "create container", "try",
}

var varDeclPattern = regexp.MustCompile(`(?i)^(?:store|change)\s+([A-Za-z_][A-Za-z0-9_]*)\s+(?:as|to)\b`)

// Check scans source against cfg's style rules.
func Check(file, source string, cfg *config.Config) []diagnostics.Diagnostic {
	lines := strings.Split(source, "\n")
	var diags []diagnostics.Diagnostic

	depth := 0
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if cfg.MaxLineLength > 0 && len([]rune(line)) > cfg.MaxLineLength {
			diags = append(diags, warn(file, source, lineNo,
				"line exceeds max_line_length"))
		}

		if cfg.TrailingWhitespace {
			if r := strings.TrimRight(line, " \t"); r != line {
				diags = append(diags, warn(file, source, lineNo, "trailing whitespace"))
			}
		}

		if cfg.SnakeCaseVariables {
			if m := varDeclPattern.FindStringSubmatch(trimmed); m != nil {
				name := m[1]
				if !isSnakeCase(name) {
					diags = append(diags, warn(file, source, lineNo,
						"variable \""+name+"\" should be snake_case"))
				}
			}
		}

		if cfg.MaxNestingDepth > 0 {
			opens := startsBlock(lower)
			if lower == "end" {
				if depth > 0 {
					depth--
				}
			} else if opens && depth > cfg.MaxNestingDepth {
				diags = append(diags, warn(file, source, lineNo,
					"nesting exceeds max_nesting_depth"))
			}
			if opens {
				depth++
			}
		}
	}

	if cfg.ConsistentKeywordCase {
		diags = append(diags, checkKeywordCase(file, source)...)
	}

	return diags
}

func startsBlock(lower string) bool {
	for _, kw := range blockOpeners {
		if strings.HasPrefix(lower, kw) {
			return true
		}
	}
	return false
}

func isSnakeCase(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// checkKeywordCase re-lexes source and flags any keyword token whose
// literal spelling doesn't match its canonical lowercase form (spec.md
// §6.2's keyword table is given in a single case).
func checkKeywordCase(file, source string) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	scan := lexer.NewScanner(file, source)
	for {
		tok := scan.Next()
		if tok.Type == token.EOF {
			break
		}
		if !tok.Type.IsKeyword() {
			continue
		}
		if tok.Literal != strings.ToLower(tok.Literal) {
			diags = append(diags, diagnostics.Diagnostic{
				Severity: diagnostics.Warning,
				Category: diagnostics.CategoryStyle,
				Message:  "keyword \"" + tok.Literal + "\" does not match its canonical lowercase spelling",
				File:     file,
				Pos:      tok.Pos,
				Length:   len(tok.Literal),
				Source:   source,
			})
		}
	}
	return diags
}

func warn(file, source string, line int, msg string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Severity: diagnostics.Warning,
		Category: diagnostics.CategoryStyle,
		Message:  msg,
		File:     file,
		Pos:      token.Position{Line: line, Column: 1},
		Source:   source,
	}
}

// Fix applies the mechanical, unambiguous subset of style rules:
// trailing whitespace and tabs replaced with indent_size spaces.
// Nesting-depth, snake_case, and keyword-case violations are reported
// but not auto-fixed — renaming a variable or rewriting keyword case
// can change meaning or collide with another binding, a judgment call
// left to the author.
func Fix(source string, cfg *config.Config) string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", cfg.IndentSize))
		lines[i] = line
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}
