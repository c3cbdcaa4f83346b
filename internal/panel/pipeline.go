package panel

import (
	"time"

	"panelprep/internal/metrics"
	"panelprep/internal/table"
)

// Result is the outcome of one full pipeline run.
type Result struct {
	Panel *table.Table
	Stats Stats
}

// Run executes the full reconciliation pipeline over the media and extra
// tables: normalize both inputs, dedupe, parse dates, inner-join, optional
// weekly aggregation, regularize the time index per geo group, resolve the
// semantic roles, and impute the remainder. The run is a pure batch
// transformation: either a fully regularized, fully imputed panel comes
// back, or a fatal error (*ParseError or *MissingRoleError) and no output.
func Run(cfg Config, media, extra *table.Table) (*Result, error) {
	cfg = cfg.withDefaults()

	var st Stats
	defer st.publish()

	media, extra, err := prepare(cfg, &st, media, extra)
	if err != nil {
		return nil, err
	}

	keys := KeyColumns(cfg, media, extra)

	merged, unmatched := stageT("merge", func() (*table.Table, int) {
		return Merge(media, extra, keys)
	})
	st.UnmatchedDropped += unmatched
	cfg.logf("stage=merge rows=%d unmatched_dropped=%d", merged.NumRows(), unmatched)

	if cfg.AggregateWeekly {
		sch := ResolveSchema(cfg, merged)
		start := time.Now()
		merged = AggregateWeekly(cfg, sch, merged)
		observeStage("aggregate_weekly", start)
		cfg.logf("stage=aggregate_weekly rows=%d", merged.NumRows())
	}

	regular, inserted := stageT("regularize", func() (*table.Table, int) {
		return Regularize(cfg, merged)
	})
	st.RowsInserted += inserted
	cfg.logf("stage=regularize rows=%d rows_inserted=%d", regular.NumRows(), inserted)

	withPop := EnsurePopulation(cfg, regular)

	start := time.Now()
	mapped, err := MapRoles(cfg, withPop)
	if err != nil {
		observeStageStatus("map_roles", start, "error")
		return nil, err
	}
	observeStage("map_roles", start)

	sch := ResolveSchema(cfg, mapped)
	final, imputed := stageT("impute", func() (*table.Table, int) {
		return Impute(cfg, sch, mapped)
	})
	st.ValuesImputed += imputed
	cfg.logf("stage=impute values_imputed=%d", imputed)

	return &Result{Panel: final, Stats: st}, nil
}

// prepare runs the per-input stages (normalize, dedupe, date parsing) over
// both tables.
func prepare(cfg Config, st *Stats, media, extra *table.Table) (*table.Table, *table.Table, error) {
	start := time.Now()

	out := make([]*table.Table, 2)
	coerced := make([]int, 2)
	for i, in := range []*table.Table{media, extra} {
		out[i], coerced[i] = Normalize(cfg, in)
		st.CoercedMissing += coerced[i]

		// The date column is the join key; without it every later stage
		// is meaningless, so fail the way an unresolved role does.
		if !out[i].HasColumn(cfg.DateColumn) {
			observeStageStatus("prepare", start, "error")
			return nil, nil, &MissingRoleError{Missing: []RoleRef{{
				Role:   RoleDate,
				Source: cfg.DateColumn,
				Flag:   "-date-column",
			}}}
		}
	}

	// The dedupe key is the join key of the pair: geo participates only
	// when both inputs carry it, even for the input that has it.
	keys := KeyColumns(cfg, out[0], out[1])

	for i, t := range out {
		t, dupes := Dedupe(t, keys)
		st.DuplicatesDropped += dupes

		t, err := NormalizeDates(cfg, t)
		if err != nil {
			observeStageStatus("prepare", start, "error")
			return nil, nil, err
		}

		cfg.logf("stage=prepare input=%d rows=%d coerced_missing=%d duplicates_dropped=%d",
			i, t.NumRows(), coerced[i], dupes)
		out[i] = t
	}

	observeStage("prepare", start)
	return out[0], out[1], nil
}

func stageT(name string, fn func() (*table.Table, int)) (*table.Table, int) {
	start := time.Now()
	t, n := fn()
	observeStage(name, start)
	return t, n
}

func observeStage(name string, start time.Time) {
	observeStageStatus(name, start, "ok")
}

func observeStageStatus(name string, start time.Time, status string) {
	labels := metrics.Labels{"stage": name, "status": status}
	metrics.IncCounter("prep_stage_total", 1, labels)
	metrics.ObserveHistogram("prep_stage_duration_seconds", time.Since(start).Seconds(), labels)
}
