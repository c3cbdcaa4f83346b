package panel

import (
	"testing"
	"time"

	"panelprep/internal/table"
)

// TestWeekStart verifies Monday bucketing across a full week and a year
// boundary.
func TestWeekStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"2023-01-02", "2023-01-02"}, // Monday maps to itself
		{"2023-01-03", "2023-01-02"},
		{"2023-01-08", "2023-01-02"}, // Sunday closes the week
		{"2023-01-09", "2023-01-09"},
		{"2023-01-01", "2022-12-26"}, // Sunday before the first Monday of the year
	}
	for _, tc := range tests {
		d, _ := time.Parse("2006-01-02", tc.in)
		if got := weekStart(d).Format("2006-01-02"); got != tc.want {
			t.Fatalf("weekStart(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

// TestAggregateWeekly verifies the mixed sum/mean policy: discount-prefix
// columns average, everything else numeric sums.
func TestAggregateWeekly(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	in := table.New([]string{"time", "geo", "descuento_x", "spend"})
	// Two rows in the week of Monday 2023-01-02.
	in.AppendRow([]table.Value{day(3), table.Text("A"), table.Number(10), table.Number(100)})
	in.AppendRow([]table.Value{day(5), table.Text("A"), table.Number(20), table.Number(200)})
	// One row in the following week.
	in.AppendRow([]table.Value{day(9), table.Text("A"), table.Number(30), table.Number(300)})

	out := AggregateWeekly(cfg, ResolveSchema(cfg, in), in)

	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NumRows())
	}
	d, _ := out.Cell(0, "time").Time()
	if d.Format("2006-01-02") != "2023-01-02" {
		t.Fatalf("week start = %v", d)
	}
	if f, _ := out.Cell(0, "descuento_x").Float(); f != 15 {
		t.Fatalf("descuento_x = %v, want mean 15", out.Cell(0, "descuento_x"))
	}
	if f, _ := out.Cell(0, "spend").Float(); f != 300 {
		t.Fatalf("spend = %v, want sum 300", out.Cell(0, "spend"))
	}
	if s, _ := out.Cell(0, "geo").Str(); s != "A" {
		t.Fatalf("geo = %v", out.Cell(0, "geo"))
	}
}

// TestAggregateWeeklyMeanSet verifies the configured mean set applies by
// exact name.
func TestAggregateWeeklyMeanSet(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	in := table.New([]string{"time", "nps", "visits"})
	in.AppendRow([]table.Value{day(3), table.Number(40), table.Number(5)})
	in.AppendRow([]table.Value{day(4), table.Number(60), table.Number(7)})

	out := AggregateWeekly(cfg, ResolveSchema(cfg, in), in)

	if out.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", out.NumRows())
	}
	if f, _ := out.Cell(0, "nps").Float(); f != 50 {
		t.Fatalf("nps = %v, want mean 50", out.Cell(0, "nps"))
	}
	if f, _ := out.Cell(0, "visits").Float(); f != 12 {
		t.Fatalf("visits = %v, want sum 12", out.Cell(0, "visits"))
	}
}

// TestAggregateWeeklyIdempotent verifies re-aggregating already-weekly data
// changes nothing.
func TestAggregateWeeklyIdempotent(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	in := table.New([]string{"time", "geo", "descuento_x", "spend"})
	in.AppendRow([]table.Value{day(2), table.Text("A"), table.Number(15), table.Number(300)})
	in.AppendRow([]table.Value{day(9), table.Text("A"), table.Number(30), table.Number(300)})

	once := AggregateWeekly(cfg, ResolveSchema(cfg, in), in)
	twice := AggregateWeekly(cfg, ResolveSchema(cfg, once), once)

	if once.NumRows() != twice.NumRows() {
		t.Fatalf("row count changed: %d -> %d", once.NumRows(), twice.NumRows())
	}
	for r := 0; r < once.NumRows(); r++ {
		for _, c := range once.Columns() {
			if !once.Cell(r, c).Equal(twice.Cell(r, c)) {
				t.Fatalf("cell (%d,%s) changed: %v -> %v", r, c, once.Cell(r, c), twice.Cell(r, c))
			}
		}
	}
}

// TestAggregateWeeklyMissingHandling verifies missing cells are skipped: an
// all-missing mean bucket stays missing, an all-missing sum bucket is 0.
func TestAggregateWeeklyMissingHandling(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	in := table.New([]string{"time", "nps", "spend"})
	in.AppendRow([]table.Value{day(3), table.Missing(), table.Missing()})
	in.AppendRow([]table.Value{day(4), table.Missing(), table.Missing()})

	out := AggregateWeekly(cfg, ResolveSchema(cfg, in), in)
	if out.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", out.NumRows())
	}
	if !out.Cell(0, "nps").IsMissing() {
		t.Fatalf("nps = %v, want missing", out.Cell(0, "nps"))
	}
	if f, _ := out.Cell(0, "spend").Float(); f != 0 {
		t.Fatalf("spend = %v, want 0", out.Cell(0, "spend"))
	}
}

// TestAggregateWeeklyDropsTextColumns verifies non-numeric non-key columns
// do not survive aggregation.
func TestAggregateWeeklyDropsTextColumns(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	in := table.New([]string{"time", "note", "spend"})
	in.AppendRow([]table.Value{day(3), table.Text("hello"), table.Number(1)})

	out := AggregateWeekly(cfg, ResolveSchema(cfg, in), in)
	if out.HasColumn("note") {
		t.Fatalf("text column should be dropped, got %v", out.Columns())
	}
	if !out.HasColumn("spend") || !out.HasColumn("time") {
		t.Fatalf("columns = %v", out.Columns())
	}
}
