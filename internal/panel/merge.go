package panel

import "panelprep/internal/table"

// KeyColumns returns the join/grouping key for a pair of tables: the date
// column always, plus the geo column iff both tables carry it.
func KeyColumns(cfg Config, left, right *table.Table) []string {
	cfg = cfg.withDefaults()
	keys := []string{cfg.DateColumn}
	if left.HasColumn(cfg.GeoColumn) && right.HasColumn(cfg.GeoColumn) {
		keys = append(keys, cfg.GeoColumn)
	}
	return keys
}

// Merge inner-joins two key-unique tables. A row is emitted only when its
// key tuple exists in both inputs; unmatched keys on either side are dropped
// without error, since partial coverage across two sources is expected. The
// output carries all left columns followed by the right table's non-key
// columns, and the second return value counts the dropped rows (both sides).
//
// Both inputs must already be deduplicated on the key, so the join never
// multiplies rows.
func Merge(left, right *table.Table, keyColumns []string) (*table.Table, int) {
	leftKeyIdx := columnIndexes(left, keyColumns)
	rightKeyIdx := columnIndexes(right, keyColumns)

	rightKeySet := make(map[string]bool, len(keyColumns))
	for _, k := range keyColumns {
		rightKeySet[k] = true
	}
	var rightExtra []string
	var rightExtraIdx []int
	for i, c := range right.Columns() {
		if !rightKeySet[c] {
			rightExtra = append(rightExtra, c)
			rightExtraIdx = append(rightExtraIdx, i)
		}
	}

	byKey := make(map[string]int, right.NumRows())
	for r := 0; r < right.NumRows(); r++ {
		byKey[right.RowKey(r, rightKeyIdx)] = r
	}

	out := table.New(append(append([]string(nil), left.Columns()...), rightExtra...))
	matched := 0
	for r := 0; r < left.NumRows(); r++ {
		rr, ok := byKey[left.RowKey(r, leftKeyIdx)]
		if !ok {
			continue
		}
		matched++
		row := make([]table.Value, 0, len(out.Columns()))
		row = append(row, left.Row(r)...)
		for _, i := range rightExtraIdx {
			row = append(row, right.Row(rr)[i])
		}
		out.AppendRow(row)
	}

	dropped := (left.NumRows() - matched) + (right.NumRows() - matched)
	return out, dropped
}

func columnIndexes(t *table.Table, names []string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = t.ColumnIndex(n)
	}
	return out
}
