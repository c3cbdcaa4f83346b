package panel

import (
	"sort"
	"time"

	"panelprep/internal/table"
)

// weekStart returns the Monday beginning d's calendar week.
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
}

// AggregateWeekly collapses rows to one per (geo, week-start-Monday) bucket.
// Rate-metric columns (the configured mean set, plus discount-prefix
// matches) aggregate by arithmetic mean; every other numeric column
// aggregates by sum. Missing cells are skipped by both: a sum over an empty
// bucket is 0, a mean over an empty bucket stays missing. Non-numeric
// columns outside the key do not survive aggregation.
//
// Applying the aggregator to data already at week granularity is a no-op:
// each bucket then holds a single row, and mean or sum over one value
// returns that value.
//
// The date column must hold parsed dates (run NormalizeDates first).
func AggregateWeekly(cfg Config, sch Schema, t *table.Table) *table.Table {
	cfg = cfg.withDefaults()

	dateIdx := t.ColumnIndex(cfg.DateColumn)
	if dateIdx < 0 {
		dateIdx = t.ColumnIndex(RoleDate)
	}
	if dateIdx < 0 {
		return t.Clone()
	}
	geoIdx := t.ColumnIndex(cfg.GeoColumn)

	// Survivors: both keys, plus every column whose non-missing values are
	// all numeric.
	var cols []string
	var colIdx []int
	for i, c := range t.Columns() {
		if i == dateIdx || i == geoIdx || numericColumn(t, i) {
			cols = append(cols, c)
			colIdx = append(colIdx, i)
		}
	}

	type bucket struct {
		geo  table.Value
		week time.Time
		sum  []float64
		n    []int
	}

	buckets := make(map[string]*bucket)
	var order []string
	for r := 0; r < t.NumRows(); r++ {
		d, ok := t.Row(r)[dateIdx].Time()
		if !ok {
			continue
		}
		wk := weekStart(d)

		geo := table.Missing()
		key := "d:" + wk.Format("2006-01-02")
		if geoIdx >= 0 {
			geo = t.Row(r)[geoIdx]
			key = geo.Key() + "\x1f" + key
		}

		b := buckets[key]
		if b == nil {
			b = &bucket{geo: geo, week: wk, sum: make([]float64, len(cols)), n: make([]int, len(cols))}
			buckets[key] = b
			order = append(order, key)
		}
		for j, i := range colIdx {
			if i == dateIdx || i == geoIdx {
				continue
			}
			if f, ok := t.Row(r)[i].Float(); ok {
				b.sum[j] += f
				b.n[j]++
			}
		}
	}

	// Group keys come out sorted, as a reader of the output expects.
	sort.Strings(order)

	out := table.New(cols)
	for _, key := range order {
		b := buckets[key]
		row := make([]table.Value, len(cols))
		for j, i := range colIdx {
			switch {
			case i == dateIdx:
				row[j] = table.Date(b.week)
			case i == geoIdx:
				row[j] = b.geo
			case sch.Role(cols[j]) == RoleRateMetric:
				if b.n[j] == 0 {
					row[j] = table.Missing()
				} else {
					row[j] = table.Number(b.sum[j] / float64(b.n[j]))
				}
			default:
				row[j] = table.Number(b.sum[j])
			}
		}
		out.AppendRow(row)
	}
	return out
}

// numericColumn reports whether every non-missing value in column i is a
// number. Empty columns count as numeric.
func numericColumn(t *table.Table, i int) bool {
	for r := 0; r < t.NumRows(); r++ {
		v := t.Row(r)[i]
		if v.IsMissing() {
			continue
		}
		if _, ok := v.Float(); !ok {
			return false
		}
	}
	return true
}
