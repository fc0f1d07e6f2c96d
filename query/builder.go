package query

import (
	"fmt"
	"strings"

	"ledgerdash/storage"
)

// Marker separates fragments in the text form accepted by Template.
const Marker = "${}"

// Statement is compiled SQL with "?" placeholders and its ordered parameters.
type Statement struct {
	SQL    string
	Params []any
}

// Build compiles a tagged template. Every value becomes one placeholder placed
// between its surrounding fragments, and is appended to Params in order.
func Build(fragments []string, values ...any) (Statement, error) {
	if len(fragments) != len(values)+1 {
		return Statement{}, fmt.Errorf("%w: %d fragments, %d values", ErrTemplateShape, len(fragments), len(values))
	}

	var b strings.Builder
	b.WriteString(fragments[0])
	params := make([]any, 0, len(values))
	for i, v := range values {
		b.WriteByte('?')
		b.WriteString(fragments[i+1])
		params = append(params, v)
	}
	return Statement{SQL: b.String(), Params: params}, nil
}

// Template splits text on Marker and builds the result.
func Template(text string, values ...any) (Statement, error) {
	return Build(Split(text), values...)
}

// Split returns the literal fragments of a Marker template.
func Split(text string) []string {
	return strings.Split(text, Marker)
}

// Placeholders counts the placeholders in the compiled SQL.
func (s Statement) Placeholders() int {
	return storage.CountPlaceholders(s.SQL)
}
