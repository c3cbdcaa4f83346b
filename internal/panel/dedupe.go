package panel

import "panelprep/internal/table"

// Dedupe removes all but the first occurrence of each distinct key tuple.
// An unresolved duplicate key would Cartesian-expand during the inner join,
// so duplicates are removed per input beforehand. The drop is a documented
// lenient policy: no error, the second return value counts removed rows.
func Dedupe(t *table.Table, keyColumns []string) (*table.Table, int) {
	colIdx := make([]int, 0, len(keyColumns))
	for _, k := range keyColumns {
		if i := t.ColumnIndex(k); i >= 0 {
			colIdx = append(colIdx, i)
		}
	}
	if len(colIdx) == 0 {
		return t.Clone(), 0
	}

	out := table.New(t.Columns())
	seen := make(map[string]bool, t.NumRows())
	dropped := 0
	for r := 0; r < t.NumRows(); r++ {
		k := t.RowKey(r, colIdx)
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		out.AppendRow(append([]table.Value(nil), t.Row(r)...))
	}
	return out, dropped
}
