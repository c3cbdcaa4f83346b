package panel

import (
	"errors"
	"testing"
	"time"

	"panelprep/internal/table"
)

// TestParseDateLoose covers the candidate layout list and precedence.
func TestParseDateLoose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string // YYYY-MM-DD, empty means not parseable
		layout string
	}{
		{in: "2023-04-05", want: "2023-04-05", layout: "2006-01-02"},
		{in: "05.04.2023", want: "2023-04-05", layout: "02.01.2006"},
		{in: "05/04/2023", want: "2023-04-05", layout: "02/01/2006"},
		// Day-first wins over month-first for ambiguous values.
		{in: "03/04/2023", want: "2023-04-03", layout: "02/01/2006"},
		// Month-first is the only fit when the day field exceeds 12.
		{in: "04/13/2023", want: "2023-04-13", layout: "01/02/2006"},
		{in: " 2023-04-05 ", want: "2023-04-05", layout: "2006-01-02"},
		{in: "not a date", want: ""},
		{in: "2023-13-01", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			d, layout, ok := parseDateLoose(tc.in)
			if tc.want == "" {
				if ok {
					t.Fatalf("parseDateLoose(%q) ok, want failure", tc.in)
				}
				return
			}
			if !ok {
				t.Fatalf("parseDateLoose(%q) failed", tc.in)
			}
			if got := d.Format("2006-01-02"); got != tc.want {
				t.Fatalf("parseDateLoose(%q) = %s, want %s", tc.in, got, tc.want)
			}
			if layout != tc.layout {
				t.Fatalf("parseDateLoose(%q) layout = %s, want %s", tc.in, layout, tc.layout)
			}
		})
	}
}

// TestNormalizeDates verifies per-value inference, explicit layouts, and the
// fatal parse error.
func TestNormalizeDates(t *testing.T) {
	t.Parallel()

	t.Run("inferred", func(t *testing.T) {
		t.Parallel()
		in := table.New([]string{"time", "spend"})
		in.AppendRow([]table.Value{table.Text("2023-01-01"), table.Number(1)})
		in.AppendRow([]table.Value{table.Text("02.01.2023"), table.Number(2)})

		out, err := NormalizeDates(Config{}, in)
		if err != nil {
			t.Fatalf("NormalizeDates: %v", err)
		}
		d0, _ := out.Cell(0, "time").Time()
		d1, _ := out.Cell(1, "time").Time()
		if d0.Format("2006-01-02") != "2023-01-01" || d1.Format("2006-01-02") != "2023-01-02" {
			t.Fatalf("dates = %v, %v", d0, d1)
		}
	})

	t.Run("explicit_layout", func(t *testing.T) {
		t.Parallel()
		in := table.New([]string{"time"})
		in.AppendRow([]table.Value{table.Text("01-02-2023")})

		out, err := NormalizeDates(Config{DateLayout: "02-01-2006"}, in)
		if err != nil {
			t.Fatalf("NormalizeDates: %v", err)
		}
		d, _ := out.Cell(0, "time").Time()
		if d.Format("2006-01-02") != "2023-02-01" {
			t.Fatalf("date = %v", d)
		}
	})

	t.Run("explicit_layout_rejects_other_forms", func(t *testing.T) {
		t.Parallel()
		in := table.New([]string{"time"})
		in.AppendRow([]table.Value{table.Text("2023-01-01")})

		_, err := NormalizeDates(Config{DateLayout: "02.01.2006"}, in)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("err = %v, want *ParseError", err)
		}
	})

	t.Run("parse_error_names_column_value_line", func(t *testing.T) {
		t.Parallel()
		in := table.New([]string{"time"})
		in.AppendRow([]table.Value{table.Text("2023-01-01")})
		in.AppendRow([]table.Value{table.Text("bogus")})

		_, err := NormalizeDates(Config{}, in)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("err = %v, want *ParseError", err)
		}
		if pe.Column != "time" || pe.Value != "bogus" || pe.Line != 2 {
			t.Fatalf("ParseError = %+v", pe)
		}
	})

	t.Run("already_parsed_passthrough", func(t *testing.T) {
		t.Parallel()
		in := table.New([]string{"time"})
		in.AppendRow([]table.Value{table.Date(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))})

		out, err := NormalizeDates(Config{}, in)
		if err != nil {
			t.Fatalf("NormalizeDates: %v", err)
		}
		if _, ok := out.Cell(0, "time").Time(); !ok {
			t.Fatalf("parsed date should pass through")
		}
	})
}
