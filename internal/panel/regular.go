package panel

import (
	"sort"
	"time"

	"panelprep/internal/table"
)

// inferStepDays infers a group's sampling interval from the day gaps between
// consecutive sorted dates: the most frequent gap wins, ties break toward
// the smallest gap, and when every gap is unique the first observed gap is
// used. Real feeds have noisy gaps (holidays, late submissions), so the
// step cannot be assumed constant.
func inferStepDays(diffs []int) int {
	counts := make(map[int]int, len(diffs))
	for _, d := range diffs {
		counts[d]++
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount <= 1 {
		return diffs[0]
	}

	best := 0
	for d, c := range counts {
		if c == maxCount && (best == 0 || d < best) {
			best = d
		}
	}
	return best
}

// Regularize makes every geo group's date index a complete arithmetic
// progression. Per group it sorts the distinct dates, infers the step from
// the gap distribution, and reindexes onto the full range from the group's
// minimum to maximum date: existing dates keep their rows, newly introduced
// dates get rows with every non-key column missing (filled later by Impute)
// and the group's geo value. Groups with fewer than two distinct dates are
// left untouched, since no step can be inferred from one point.
//
// The date column must hold parsed dates. On return it is canonicalized to
// YYYY-MM-DD text; the second return value counts inserted rows.
func Regularize(cfg Config, t *table.Table) (*table.Table, int) {
	cfg = cfg.withDefaults()

	dateIdx := t.ColumnIndex(cfg.DateColumn)
	if dateIdx < 0 {
		dateIdx = t.ColumnIndex(RoleDate)
	}
	if dateIdx < 0 {
		return t.Clone(), 0
	}
	geoIdx := t.ColumnIndex(cfg.GeoColumn)

	// Partition row indexes by geo, preserving first-seen group order.
	groups := make(map[string][]int)
	var groupOrder []string
	for r := 0; r < t.NumRows(); r++ {
		k := ""
		if geoIdx >= 0 {
			k = t.Row(r)[geoIdx].Key()
		}
		if _, ok := groups[k]; !ok {
			groupOrder = append(groupOrder, k)
		}
		groups[k] = append(groups[k], r)
	}

	out := table.New(t.Columns())
	inserted := 0
	for _, gk := range groupOrder {
		rows := groups[gk]

		// One row per distinct date, first occurrence wins, sorted by date.
		byDate := make(map[string]int, len(rows))
		var dates []time.Time
		for _, r := range rows {
			d, ok := t.Row(r)[dateIdx].Time()
			if !ok {
				continue
			}
			k := d.Format("2006-01-02")
			if _, seen := byDate[k]; !seen {
				byDate[k] = r
				dates = append(dates, d)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		if len(dates) < 2 {
			for _, r := range rows {
				out.AppendRow(canonicalDateRow(t.Row(r), dateIdx))
			}
			continue
		}

		diffs := make([]int, len(dates)-1)
		for i := 1; i < len(dates); i++ {
			diffs[i-1] = int(dates[i].Sub(dates[i-1]).Hours() / 24)
		}
		step := inferStepDays(diffs)
		if step < 1 {
			step = 1
		}

		var geo table.Value
		if geoIdx >= 0 {
			geo = t.Row(rows[0])[geoIdx]
		}

		for d := dates[0]; !d.After(dates[len(dates)-1]); d = d.AddDate(0, 0, step) {
			if r, ok := byDate[d.Format("2006-01-02")]; ok {
				out.AppendRow(canonicalDateRow(t.Row(r), dateIdx))
				continue
			}
			row := make([]table.Value, len(t.Columns()))
			row[dateIdx] = table.Text(d.Format("2006-01-02"))
			if geoIdx >= 0 {
				row[geoIdx] = geo
			}
			out.AppendRow(row)
			inserted++
		}
	}
	return out, inserted
}

// canonicalDateRow copies a row, rendering its date cell as YYYY-MM-DD text.
func canonicalDateRow(row []table.Value, dateIdx int) []table.Value {
	out := append([]table.Value(nil), row...)
	if d, ok := out[dateIdx].Time(); ok {
		out[dateIdx] = table.Text(d.Format("2006-01-02"))
	}
	return out
}
