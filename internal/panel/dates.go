package panel

import (
	"strings"
	"time"

	"panelprep/internal/table"
)

// dateLayouts are the candidate layouts tried per value when no explicit
// layout is configured. Order matters: ISO first, then the day-first forms
// common in the source feeds, then month-first as a last resort.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01/02/2006",
}

// parseDateLoose tries each candidate layout in order and reports the first
// match along with the layout that produced it.
func parseDateLoose(s string) (time.Time, string, bool) {
	s = strings.TrimSpace(s)
	for _, lay := range dateLayouts {
		if t, err := time.Parse(lay, s); err == nil {
			return t, lay, true
		}
	}
	return time.Time{}, "", false
}

// NormalizeDates parses every value in the date column into a calendar date.
// With cfg.DateLayout set, only that layout is accepted. Otherwise each
// value's layout is inferred from the candidate list. Unlike numeric
// coercion, a date that does not parse is fatal: a wrong or dropped date
// corrupts all downstream grouping, so the run aborts with a *ParseError
// naming the column, value, and data row.
func NormalizeDates(cfg Config, t *table.Table) (*table.Table, error) {
	cfg = cfg.withDefaults()

	ci := t.ColumnIndex(cfg.DateColumn)
	if ci < 0 {
		ci = t.ColumnIndex(RoleDate)
	}
	if ci < 0 {
		return t.Clone(), nil
	}

	out := t.Clone()
	for r := 0; r < out.NumRows(); r++ {
		v := out.Row(r)[ci]
		if _, ok := v.Time(); ok {
			continue
		}
		s := v.String()

		var parsed time.Time
		var ok bool
		if cfg.DateLayout != "" {
			if d, err := time.Parse(cfg.DateLayout, strings.TrimSpace(s)); err == nil {
				parsed, ok = d, true
			}
		} else {
			parsed, _, ok = parseDateLoose(s)
		}
		if !ok {
			return nil, &ParseError{Column: out.Columns()[ci], Value: s, Line: r + 1}
		}
		out.Row(r)[ci] = table.Date(parsed)
	}
	return out, nil
}
