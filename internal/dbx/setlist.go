package dbx

import (
	"fmt"
	"strings"
)

// SetList accumulates "column = $n" assignments for a partial UPDATE.
// Placeholders are numbered in the order columns are added, so the
// arguments for the WHERE clause follow at Next().
type SetList struct {
	parts []string
	args  []any
}

// Add appends an assignment of v to col.
func (s *SetList) Add(col string, v any) {
	s.args = append(s.args, v)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

// AddRaw appends an assignment whose right-hand side is an SQL expression,
// e.g. AddRaw("updated_at", "now()").
func (s *SetList) AddRaw(col, expr string) {
	s.parts = append(s.parts, col+" = "+expr)
}

// Len returns the number of parameterized assignments.
func (s *SetList) Len() int { return len(s.args) }

// Next returns the number of the next free placeholder.
func (s *SetList) Next() int { return len(s.args) + 1 }

func (s *SetList) String() string { return strings.Join(s.parts, ", ") }

// Args returns the assignment arguments followed by extra.
func (s *SetList) Args(extra ...any) []any {
	out := make([]any, 0, len(s.args)+len(extra))
	out = append(out, s.args...)
	return append(out, extra...)
}
