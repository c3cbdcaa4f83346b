package panel

import (
	"strings"

	"panelprep/internal/table"
)

// Canonical output column names expected by the downstream model.
const (
	RoleDate                 = "date"
	RoleConversions          = "conversions"
	RoleRevenuePerConversion = "revenue_per_conversion"
	RolePopulation           = "population"
)

// Role tags a column with its semantic purpose, independent of its source
// name. Role-based decisions (what to average, what to sentinel-fill) are
// made against this tag instead of repeated name-pattern matching.
type Role int

const (
	RoleGenericNumeric Role = iota
	RoleDateKey
	RoleGeoKey
	RoleKPI
	RoleRevenue
	RolePopulationCol
	RoleMediaIntensity
	RoleRateMetric
)

func (r Role) String() string {
	switch r {
	case RoleDateKey:
		return "date"
	case RoleGeoKey:
		return "geo"
	case RoleKPI:
		return "kpi"
	case RoleRevenue:
		return "revenue"
	case RolePopulationCol:
		return "population"
	case RoleMediaIntensity:
		return "media-intensity"
	case RoleRateMetric:
		return "rate-metric"
	default:
		return "generic-numeric"
	}
}

// Schema maps every column of a table to its resolved role.
type Schema struct {
	roles map[string]Role
}

// Role returns the role for the named column, defaulting to generic-numeric
// for columns the schema has not seen.
func (s Schema) Role(column string) Role {
	if r, ok := s.roles[column]; ok {
		return r
	}
	return RoleGenericNumeric
}

// mediaIntensityTokens mark spend-like columns whose missing values must not
// be treated as zero downstream.
var mediaIntensityTokens = []string{"impression", "spend", "investment"}

func isMediaIntensity(column string) bool {
	lc := strings.ToLower(column)
	for _, tok := range mediaIntensityTokens {
		if strings.Contains(lc, tok) {
			return true
		}
	}
	return false
}

// ResolveSchema computes the role of every column once, at pipeline entry.
// Resolution order matters: key and configured-role matches win over the
// name-pattern roles, and an explicit mean-set entry wins over the
// media-intensity name patterns.
func ResolveSchema(cfg Config, t *table.Table) Schema {
	cfg = cfg.withDefaults()

	mean := make(map[string]bool, len(cfg.MeanColumns))
	for _, c := range cfg.MeanColumns {
		mean[c] = true
	}

	roles := make(map[string]Role, len(t.Columns()))
	for _, col := range t.Columns() {
		switch {
		case col == cfg.DateColumn || col == RoleDate:
			roles[col] = RoleDateKey
		case col == cfg.GeoColumn:
			roles[col] = RoleGeoKey
		case col == cfg.KPIColumn || col == RoleConversions:
			roles[col] = RoleKPI
		case col == cfg.RevenueColumn || col == RoleRevenuePerConversion:
			roles[col] = RoleRevenue
		case col == cfg.PopulationColumn || col == RolePopulation:
			roles[col] = RolePopulationCol
		case mean[col] || strings.HasPrefix(strings.ToLower(col), strings.ToLower(cfg.DiscountPrefix)):
			roles[col] = RoleRateMetric
		case isMediaIntensity(col):
			roles[col] = RoleMediaIntensity
		default:
			roles[col] = RoleGenericNumeric
		}
	}
	return Schema{roles: roles}
}
