package panel

import (
	"errors"
	"strings"
	"testing"

	"panelprep/internal/table"
)

// TestMapRoles covers source renaming and the per-conversion derivation.
func TestMapRoles(t *testing.T) {
	t.Parallel()

	cfg := Config{
		KPIColumn:            "conv_count",
		RevenueColumn:        "total_rev",
		ComputePerConversion: true,
	}

	in := table.New([]string{"time", "conv_count", "total_rev", "population"})
	in.AppendRow([]table.Value{table.Text("2023-01-01"), table.Number(4), table.Number(100), table.Number(1)})
	in.AppendRow([]table.Value{table.Text("2023-01-02"), table.Number(0), table.Number(50), table.Number(1)})
	in.AppendRow([]table.Value{table.Text("2023-01-03"), table.Missing(), table.Number(50), table.Number(1)})

	out, err := MapRoles(cfg, in)
	if err != nil {
		t.Fatalf("MapRoles: %v", err)
	}

	wantCols := []string{"date", "conversions", "revenue_per_conversion", "population"}
	for i, c := range out.Columns() {
		if c != wantCols[i] {
			t.Fatalf("columns = %v, want %v", out.Columns(), wantCols)
		}
	}

	if f, _ := out.Cell(0, "revenue_per_conversion").Float(); f != 25 {
		t.Fatalf("revenue_per_conversion = %v, want 25", out.Cell(0, "revenue_per_conversion"))
	}
	// Division by a zero or missing kpi yields missing, not Inf/NaN.
	if !out.Cell(1, "revenue_per_conversion").IsMissing() {
		t.Fatalf("ratio over zero kpi = %v, want missing", out.Cell(1, "revenue_per_conversion"))
	}
	if !out.Cell(2, "revenue_per_conversion").IsMissing() {
		t.Fatalf("ratio over missing kpi = %v, want missing", out.Cell(2, "revenue_per_conversion"))
	}
	if f, _ := out.Cell(0, "conversions").Float(); f != 4 {
		t.Fatalf("conversions = %v, want 4", out.Cell(0, "conversions"))
	}
}

// TestMapRolesIdempotent verifies canonical names satisfy their roles
// without modification.
func TestMapRolesIdempotent(t *testing.T) {
	t.Parallel()

	cfg := Config{KPIColumn: "conv_count"}

	in := table.New([]string{"date", "conversions", "revenue_per_conversion", "population"})
	in.AppendRow([]table.Value{table.Text("2023-01-01"), table.Number(4), table.Number(25), table.Number(1)})

	out, err := MapRoles(cfg, in)
	if err != nil {
		t.Fatalf("MapRoles: %v", err)
	}
	for i, c := range out.Columns() {
		if c != in.Columns()[i] {
			t.Fatalf("columns changed: %v", out.Columns())
		}
	}
	for _, c := range out.Columns() {
		if !out.Cell(0, c).Equal(in.Cell(0, c)) {
			t.Fatalf("cell %s changed: %v", c, out.Cell(0, c))
		}
	}
}

// TestMapRolesMissingAggregated verifies every unresolved role lands in one
// error, each naming its source column and flag.
func TestMapRolesMissingAggregated(t *testing.T) {
	t.Parallel()

	cfg := Config{KPIColumn: "conv_count", RevenueColumn: "total_rev"}

	in := table.New([]string{"time", "spend"})
	in.AppendRow([]table.Value{table.Text("2023-01-01"), table.Number(1)})

	_, err := MapRoles(cfg, in)
	var mre *MissingRoleError
	if !errors.As(err, &mre) {
		t.Fatalf("err = %v, want *MissingRoleError", err)
	}
	if len(mre.Missing) != 3 {
		t.Fatalf("missing roles = %+v, want 3 entries", mre.Missing)
	}

	msg := err.Error()
	for _, want := range []string{"conversions", "conv_count", "-kpi-column", "revenue_per_conversion", "total_rev", "-revenue-column", "population", "-population-column"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error message missing %q: %s", want, msg)
		}
	}
}
