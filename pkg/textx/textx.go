// Package textx provides small text utilities used across the project.
package textx

import (
	"regexp"
	"strings"
)

var parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// NormalizeTitle strips parenthetical annotations such as release years
// ("Inception (2010)" -> "Inception") before catalog lookups. LLM-generated
// titles frequently carry these and catalog search chokes on them.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(s, ""))
}

// Tokens lowercases the given values and splits them on whitespace and
// commas, returning the resulting token set.
func Tokens(values []string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, v := range values {
		for _, tok := range strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		}) {
			if tok != "" {
				out[tok] = struct{}{}
			}
		}
	}
	return out
}
