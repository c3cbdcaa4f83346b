// Package panel implements the reconciliation pipeline that turns two
// independently sourced tabular time series into one regular, gap-free panel
// indexed by date and, when present, a geo unit. Stages are pure functions
// from Table to Table; Run wires them together in order.
package panel

// Logger is the minimal logging interface used by the pipeline.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// DefaultMeanColumns are the survey-style indices the original data feed
// carries; weekly aggregation averages these instead of summing.
var DefaultMeanColumns = []string{
	"nps",
	"ins",
	"ces",
	"gqv",
	"haceb_marca_proximas_comprar",
	"haceb_marca_top_of_heart",
	"haceb_recordacion_top_of_mind",
}

// Config controls a pipeline run. Zero fields fall back to the defaults the
// downstream model expects; see withDefaults.
type Config struct {
	// DateColumn is the date key in both input tables. Default "time".
	DateColumn string
	// GeoColumn names the geographic unit column. It participates in keys
	// only when present in both inputs. Default "geo".
	GeoColumn string

	// Source column names for the three semantic roles.
	KPIColumn        string // default "conversions"
	RevenueColumn    string // default "revenue_per_conversion"
	PopulationColumn string // default "population"

	// ComputePerConversion divides the revenue column by the kpi column
	// before renaming it to the canonical revenue name.
	ComputePerConversion bool

	// AggregateWeekly enables the weekly aggregation stage.
	AggregateWeekly bool

	// DecimalSep and ThousandsSep describe how numeric text is written in
	// the inputs. DecimalSep defaults to ".". ThousandsSep defaults to none.
	DecimalSep   string
	ThousandsSep string

	// DateLayout is an explicit Go time layout for the date column. When
	// empty the layout is inferred per value from a fixed candidate list.
	DateLayout string

	// MeanColumns are averaged rather than summed by the weekly aggregator.
	// Nil means DefaultMeanColumns; an explicit empty slice means none.
	MeanColumns []string
	// DiscountPrefix marks additional mean columns by case-insensitive
	// name prefix.
	// Default "descuento".
	DiscountPrefix string

	// SentinelFill replaces values still missing after all prior stages.
	// Zero means the default 0.001.
	SentinelFill float64

	// Logger receives stage progress lines. Nil disables logging.
	Logger Logger
}

func (c Config) withDefaults() Config {
	if c.DateColumn == "" {
		c.DateColumn = "time"
	}
	if c.GeoColumn == "" {
		c.GeoColumn = "geo"
	}
	if c.KPIColumn == "" {
		c.KPIColumn = RoleConversions
	}
	if c.RevenueColumn == "" {
		c.RevenueColumn = RoleRevenuePerConversion
	}
	if c.PopulationColumn == "" {
		c.PopulationColumn = RolePopulation
	}
	if c.DecimalSep == "" {
		c.DecimalSep = "."
	}
	if c.MeanColumns == nil {
		c.MeanColumns = DefaultMeanColumns
	}
	if c.DiscountPrefix == "" {
		c.DiscountPrefix = "descuento"
	}
	if c.SentinelFill == 0 {
		c.SentinelFill = 0.001
	}
	return c
}

func (c Config) logf(format string, v ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}
