package interp

import (
	"regexp"

	"github.com/wflang/wfl/internal/runtime"
	"github.com/wflang/wfl/pkg/ast"
)

// CompilePattern turns a WFL pattern literal (a restricted natural
// vocabulary like "one or more digit then a dash") into a compiled
// regular expression. evalExpr has no PatternLiteral case and does not
// call it, so a pattern literal in a program is not evaluated.
func CompilePattern(lit *ast.PatternLiteral) (runtime.Value, error) {
	re, err := regexp.Compile(translatePattern(lit.Pattern))
	if err != nil {
		return runtime.Nothing, errf("invalid pattern %q: %v", lit.Pattern, err)
	}
	pat := &runtime.Pattern{
		Source: lit.Pattern,
		Match: func(s string) (bool, map[string]string) {
			m := re.FindStringSubmatch(s)
			if m == nil {
				return false, nil
			}
			groups := make(map[string]string)
			for i, name := range re.SubexpNames() {
				if i != 0 && name != "" {
					groups[name] = m[i]
				}
			}
			return true, groups
		},
	}
	return runtime.Value{Kind: runtime.KindPattern, Pat: pat}, nil
}

// translatePattern is a small, literal-word translator from WFL's
// pattern vocabulary to RE2 syntax. Unrecognized words pass through as
// literal text, escaped.
func translatePattern(src string) string {
	// A full natural-language pattern grammar is out of scope for this
	// minimal translator; common vocabulary words map directly.
	replacer := map[string]string{
		"digit":        `[0-9]`,
		"letter":       `[A-Za-z]`,
		"whitespace":   `\s`,
		"one or more":  "+",
		"zero or more": "*",
		"optional":     "?",
		"anything":     ".*",
	}
	out := regexp.QuoteMeta(src)
	for word, re := range replacer {
		out = regexpReplaceAllLiteral(out, word, re)
	}
	return out
}

func regexpReplaceAllLiteral(s, old, new string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(old))
	return re.ReplaceAllString(s, new)
}
