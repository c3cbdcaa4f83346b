package panel

import (
	"strconv"
	"strings"

	"panelprep/internal/table"
)

// Normalize coerces textual numeric-like values into numbers and cleans up
// column names. Spreadsheet exports frequently carry an auto-generated
// positional index column (named "Unnamed..." or empty); those are dropped.
// Every column except the date and geo keys is coerced: values are trimmed,
// a trailing percent sign is stripped (the magnitude is kept, "5.9%" becomes
// 5.9), the configured thousands separator is removed and the decimal
// separator replaced, then the value is parsed. A value that fails to parse
// becomes missing rather than an error; the second return value counts those
// coercions.
func Normalize(cfg Config, t *table.Table) (*table.Table, int) {
	cfg = cfg.withDefaults()

	var keep []string
	for _, c := range t.Columns() {
		name := strings.TrimSpace(c)
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		keep = append(keep, c)
	}

	out := table.New(trimmedNames(keep))
	srcIdx := make([]int, len(keep))
	for i, c := range keep {
		srcIdx[i] = t.ColumnIndex(c)
	}

	coerced := 0
	for r := 0; r < t.NumRows(); r++ {
		row := make([]table.Value, len(keep))
		for i, c := range keep {
			v := t.Row(r)[srcIdx[i]]
			name := strings.TrimSpace(c)
			if name == cfg.DateColumn || name == RoleDate || name == cfg.GeoColumn {
				row[i] = trimTextValue(v)
				continue
			}
			nv, ok := coerceNumeric(v, cfg.DecimalSep, cfg.ThousandsSep)
			if !ok {
				coerced++
			}
			row[i] = nv
		}
		out.AppendRow(row)
	}
	return out, coerced
}

func trimmedNames(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func trimTextValue(v table.Value) table.Value {
	if s, ok := v.Str(); ok {
		return table.Text(strings.TrimSpace(s))
	}
	return v
}

// coerceNumeric parses one cell. ok is false only for a genuine parse
// failure: missing input and already-numeric input pass through untouched,
// and an empty string becomes missing without counting as a coercion.
func coerceNumeric(v table.Value, decimalSep, thousandsSep string) (table.Value, bool) {
	switch v.Kind() {
	case table.KindMissing, table.KindNumber, table.KindDate:
		return v, true
	}

	s, _ := v.Str()
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Missing(), true
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if thousandsSep != "" {
		s = strings.ReplaceAll(s, thousandsSep, "")
	}
	if decimalSep != "." {
		s = strings.ReplaceAll(s, decimalSep, ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return table.Missing(), false
	}
	return table.Number(f), true
}
