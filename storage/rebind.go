package storage

import (
	"strconv"
	"strings"
)

// Rebind rewrites "?" placeholders into the form expected by dialect.
// Question marks inside quoted literals or identifiers are left alone.
func Rebind(dialect Dialect, text string) string {
	if dialect != Postgres || !strings.Contains(text, "?") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)
	n := 0
	scanUnquoted(text, func(r rune, quoted bool) {
		if r == '?' && !quoted {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			return
		}
		b.WriteRune(r)
	})
	return b.String()
}

// CountPlaceholders counts "?" placeholders outside quoted sections.
func CountPlaceholders(text string) int {
	n := 0
	scanUnquoted(text, func(r rune, quoted bool) {
		if r == '?' && !quoted {
			n++
		}
	})
	return n
}

func splitStatements(script string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	scanUnquoted(script, func(r rune, quoted bool) {
		if r == ';' && !quoted {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			return
		}
		cur.WriteRune(r)
	})
	parts = append(parts, strings.TrimSpace(cur.String()))
	return parts
}

// scanUnquoted calls fn for every rune of text, reporting whether the rune sits
// inside a single- or double-quoted section. The quote characters themselves
// are reported as quoted.
func scanUnquoted(text string, fn func(r rune, quoted bool)) {
	var quote rune
	for _, r := range text {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			fn(r, true)
		case r == '\'' || r == '"' || r == '`':
			quote = r
			fn(r, true)
		default:
			fn(r, false)
		}
	}
}
