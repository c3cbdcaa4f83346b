package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"panelprep/internal/table"
)

func TestRegisterPanics(t *testing.T) {
	t.Parallel()

	mustPanic := func(t *testing.T, fn func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		fn()
	}

	mustPanic(t, func() { Register("", func(context.Context, string) (Repository, error) { return nil, nil }) })
	mustPanic(t, func() { Register("x", nil) })

	Register("dup-test", func(context.Context, string) (Repository, error) { return nil, nil })
	mustPanic(t, func() { Register("dup-test", func(context.Context, string) (Repository, error) { return nil, nil }) })
}

func TestNewUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty kind")
	}
	if _, err := New(context.Background(), Config{Kind: "nope", DSN: "x"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestColumnName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"date", "date"},
		{"TV Spend ($)", "tv_spend"},
		{"Medellín", "medellin"},
		{"región--éxito", "region_exito"},
		{"2023 total", "c_2023_total"},
		{"___", "col"},
		{"", "col"},
	}
	for _, tc := range cases {
		if got := ColumnName(tc.in); got != tc.want {
			t.Errorf("ColumnName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSpecFor(t *testing.T) {
	t.Parallel()

	tbl := table.New([]string{"date", "geo", "conversions", "TV Spend"})
	spec := SpecFor("panel", tbl, "date", "geo")

	want := TableSpec{
		Name: "panel",
		Columns: []ColumnSpec{
			{Name: "date", Type: TypeText},
			{Name: "geo", Type: TypeText},
			{Name: "conversions", Type: TypeFloat},
			{Name: "tv_spend", Type: TypeFloat},
		},
		KeyColumns: []string{"date", "geo"},
	}
	if !reflect.DeepEqual(spec, want) {
		t.Fatalf("spec = %+v, want %+v", spec, want)
	}

	// A custom geo column name must still key and type as text.
	custom := table.New([]string{"date", "region", "conversions"})
	spec = SpecFor("panel", custom, "date", "region")
	if got, want := spec.KeyColumns, []string{"date", "region"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("key columns = %v, want %v", got, want)
	}
	if spec.Columns[1].Type != TypeText {
		t.Fatalf("region typed %q, want %q", spec.Columns[1].Type, TypeText)
	}
}

func TestRowsFor(t *testing.T) {
	t.Parallel()

	tbl := table.New([]string{"date", "geo", "conversions"})
	tbl.AppendRow([]table.Value{
		table.Date(time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)),
		table.Text("north"),
		table.Number(4),
	})
	tbl.AppendRow([]table.Value{table.Text("2023-01-09"), table.Text("north"), table.Missing()})

	got := RowsFor(tbl)
	want := [][]any{
		{"2023-01-02", "north", 4.0},
		{"2023-01-09", "north", nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
}
