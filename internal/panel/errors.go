package panel

import (
	"fmt"
	"strings"
)

// ParseError reports a date value that could not be parsed. Dates are never
// guessed or dropped: a wrong date would corrupt every downstream grouping,
// so the run aborts instead.
type ParseError struct {
	Column string
	Value  string
	Line   int // 1-based data row number
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date column %q line %d: unrecognized value %q", e.Column, e.Line, e.Value)
}

// RoleRef names one unresolved semantic role: the canonical output column,
// the source column that was looked for, and the flag that configures it.
type RoleRef struct {
	Role   string // canonical column name
	Source string // configured source column
	Flag   string // CLI flag that sets the source column
}

// MissingRoleError aggregates every semantic role that could not be resolved
// to a column. All problems are reported in one failure.
type MissingRoleError struct {
	Missing []RoleRef
}

func (e *MissingRoleError) Error() string {
	parts := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		parts[i] = fmt.Sprintf("%s (looked for column %q, set with %s)", m.Role, m.Source, m.Flag)
	}
	return "missing required columns: " + strings.Join(parts, "; ")
}
