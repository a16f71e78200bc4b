package db

import (
	"strconv"
	"strings"
)

// Filter accumulates WHERE conditions with positional pgx arguments.
type Filter struct {
	conds []string
	args  []any
}

// Arg registers a value and returns its placeholder.
func (f *Filter) Arg(v any) string {
	f.args = append(f.args, v)
	return "$" + strconv.Itoa(len(f.args))
}

// Where adds a condition built from placeholders returned by Arg.
func (f *Filter) Where(cond string) {
	f.conds = append(f.conds, cond)
}

// SQL renders the WHERE clause, or an empty string when no conditions were added.
func (f *Filter) SQL() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// Args returns the accumulated arguments.
func (f *Filter) Args() []any {
	return append([]any(nil), f.args...)
}

// Page appends LIMIT/OFFSET placeholders and returns the clause.
func (f *Filter) Page(limit, offset int) string {
	return " LIMIT " + f.Arg(limit) + " OFFSET " + f.Arg(offset)
}

// OrderBy whitelists a sort column, falling back to def.
func OrderBy(sortBy, dir string, allowed map[string]string, def string) string {
	col, ok := allowed[sortBy]
	if !ok {
		col = def
	}
	return " ORDER BY " + col + " " + dir
}
