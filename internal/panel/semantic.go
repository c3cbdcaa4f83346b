package panel

import "panelprep/internal/table"

// MapRoles renames the configured source columns to the canonical names the
// downstream model expects: kpi to "conversions", revenue to
// "revenue_per_conversion", population to "population", and the date key to
// "date". With cfg.ComputePerConversion set, the revenue column is divided
// by the kpi column before renaming; a ratio over a missing or zero kpi
// stays missing.
//
// A role whose source column is absent is satisfied by a column already
// bearing the canonical name, which makes the mapper idempotent. Roles
// satisfied by neither accumulate into one *MissingRoleError listing every
// problem and the flag that fixes it, rather than failing one at a time.
func MapRoles(cfg Config, t *table.Table) (*table.Table, error) {
	cfg = cfg.withDefaults()

	out := t.Clone()

	if cfg.ComputePerConversion &&
		out.HasColumn(cfg.RevenueColumn) &&
		out.HasColumn(cfg.KPIColumn) {
		ri := out.ColumnIndex(cfg.RevenueColumn)
		ki := out.ColumnIndex(cfg.KPIColumn)
		out = out.WithColumn(cfg.RevenueColumn, func(r int) table.Value {
			rev, okR := out.Row(r)[ri].Float()
			kpi, okK := out.Row(r)[ki].Float()
			if !okR || !okK || kpi == 0 {
				return table.Missing()
			}
			return table.Number(rev / kpi)
		})
	}

	var missing []RoleRef
	for _, m := range []struct {
		source    string
		canonical string
		flag      string
	}{
		{cfg.DateColumn, RoleDate, "-date-column"},
		{cfg.KPIColumn, RoleConversions, "-kpi-column"},
		{cfg.RevenueColumn, RoleRevenuePerConversion, "-revenue-column"},
		{cfg.PopulationColumn, RolePopulation, "-population-column"},
	} {
		switch {
		case m.source != m.canonical && out.HasColumn(m.source):
			out = out.Renamed(m.source, m.canonical)
		case out.HasColumn(m.canonical):
			// Role already satisfied.
		default:
			missing = append(missing, RoleRef{Role: m.canonical, Source: m.source, Flag: m.flag})
		}
	}
	if len(missing) > 0 {
		return nil, &MissingRoleError{Missing: missing}
	}
	return out, nil
}
