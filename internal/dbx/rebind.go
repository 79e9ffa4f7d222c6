package dbx

import (
	"strconv"
	"strings"
)

// Placeholder is the bind-parameter style a driver expects.
type Placeholder int

const (
	// Question is SQLite's '?' style.
	Question Placeholder = iota
	// Dollar is PostgreSQL's '$1, $2, ...' style.
	Dollar
)

// Rebind rewrites the '?' markers of query into the given style. Question
// marks inside single-quoted literals are left alone.
func Rebind(p Placeholder, query string) string {
	if p != Dollar {
		return query
	}

	var (
		b       strings.Builder
		n       int
		literal bool
	)
	b.Grow(len(query) + 8)

	for _, r := range query {
		switch {
		case r == '\'':
			literal = !literal
			b.WriteRune(r)
		case r == '?' && !literal:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
