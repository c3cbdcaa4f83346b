package panel

import "panelprep/internal/metrics"

// Stats counts the outcomes of the lenient policies so that silent behavior
// (dropped duplicates, dropped unmatched keys, coerced values) stays
// observable. A single Stats value accumulates across one Run.
type Stats struct {
	// DuplicatesDropped counts rows removed because their key tuple already
	// occurred earlier in the same input table.
	DuplicatesDropped int
	// UnmatchedDropped counts rows discarded by the inner join because
	// their key existed in only one input.
	UnmatchedDropped int
	// CoercedMissing counts textual values that failed numeric parsing and
	// became missing.
	CoercedMissing int
	// RowsInserted counts rows synthesized by the time-index regularizer.
	RowsInserted int
	// ValuesImputed counts missing cells replaced by the sentinel fill.
	ValuesImputed int
}

func (s *Stats) publish() {
	metrics.IncCounter("prep_records_total", float64(s.DuplicatesDropped), metrics.Labels{"kind": "duplicate_dropped"})
	metrics.IncCounter("prep_records_total", float64(s.UnmatchedDropped), metrics.Labels{"kind": "unmatched_dropped"})
	metrics.IncCounter("prep_records_total", float64(s.CoercedMissing), metrics.Labels{"kind": "coerced_missing"})
	metrics.IncCounter("prep_records_total", float64(s.RowsInserted), metrics.Labels{"kind": "row_inserted"})
	metrics.IncCounter("prep_records_total", float64(s.ValuesImputed), metrics.Labels{"kind": "value_imputed"})
}
