// Package search filters tabular projections of topics, notes and problems
// by a free-text query.
package search

import (
	"iter"
	"slices"
	"strings"
)

// Row is anything with textual columns to match against.
type Row interface {
	Columns() []string
}

// separator joins columns so a match never spans two of them.
const separator = "\x1f"

// Filter returns the rows matching query, in their original order. A query
// that is empty or only whitespace matches every row. Matching is a
// case-insensitive substring test over the columns of a row, joined with a
// unit separator (0x1f), so a match never spans two columns.
func Filter[R Row](rows []R, query string) []R {
	if strings.TrimSpace(query) == "" {
		return rows
	}
	return slices.Collect(Seq(rows, query))
}

// Seq is the lazy form of Filter. The sequence may be ranged over more
// than once.
func Seq[R Row](rows []R, query string) iter.Seq[R] {
	needle := strings.ToLower(query)
	all := strings.TrimSpace(query) == ""

	return func(yield func(R) bool) {
		for _, row := range rows {
			if !all && !Matches(row, needle) {
				continue
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Matches reports whether row contains the lower-cased needle.
func Matches(row Row, needle string) bool {
	haystack := strings.ToLower(strings.Join(row.Columns(), separator))
	return strings.Contains(haystack, needle)
}
