package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// WhereBuilder collects positional-argument filters for dynamic queries.
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Add appends a clause; every "?" in it is replaced by the next $n placeholder.
func (w *WhereBuilder) Add(clause string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		clause = strings.Replace(clause, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.clauses = append(w.clauses, clause)
}

// SQL returns " WHERE ..." or "" when there are no clauses.
func (w *WhereBuilder) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + JoinWithAnd(w.clauses)
}

func (w *WhereBuilder) Args() []any {
	return w.args
}

// Next returns the placeholder for an argument appended after the filters.
func (w *WhereBuilder) Next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}
