package panel

import "panelprep/internal/table"

// EnsurePopulation synthesizes a constant population column of 1 when the
// table carries neither the configured source column nor the canonical one.
// It runs before MapRoles, so the population role always resolves even for
// national-level data with no population feed.
func EnsurePopulation(cfg Config, t *table.Table) *table.Table {
	cfg = cfg.withDefaults()
	if t.HasColumn(cfg.PopulationColumn) || t.HasColumn(RolePopulation) {
		return t.Clone()
	}
	return t.WithColumn(cfg.PopulationColumn, func(int) table.Value { return table.Number(1) })
}

// Impute replaces every remaining missing value outside the date key with
// the sentinel fill. The sentinel is a small positive constant rather than
// zero so that media-intensity columns (impression/spend/investment-like)
// never produce division or log singularities downstream; the same value is
// then applied to all other columns, since by this point missing only means
// "no observation" (regularizer-inserted rows, failed numeric coercions,
// empty cells). The second return value counts the filled cells.
func Impute(cfg Config, sch Schema, t *table.Table) (*table.Table, int) {
	cfg = cfg.withDefaults()

	out := t.Clone()
	filled := 0
	for r := 0; r < out.NumRows(); r++ {
		row := out.Row(r)
		for i, col := range out.Columns() {
			if sch.Role(col) == RoleDateKey {
				continue
			}
			if row[i].IsMissing() {
				row[i] = table.Number(cfg.SentinelFill)
				filled++
			}
		}
	}
	return out, filled
}
