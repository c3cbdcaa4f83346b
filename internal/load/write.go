package load

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"panelprep/internal/table"
)

// WriteOptions controls CSV output.
type WriteOptions struct {
	// Comma is the field separator. Zero means ','.
	Comma rune
	// DecimalSep substitutes the decimal point in numeric cells on the way
	// out, mirroring the separator convention of the consumer. "." and ""
	// leave numbers untouched.
	DecimalSep string
}

// WriteCSV serializes the table in column order. Numbers use the shortest
// round-trip decimal form, dates render as YYYY-MM-DD, and missing cells
// render empty.
func WriteCSV(w io.Writer, t *table.Table, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("load: write header: %w", err)
	}

	rec := make([]string, len(t.Columns()))
	for r := 0; r < t.NumRows(); r++ {
		for i, v := range t.Row(r) {
			rec[i] = formatCell(v, opts.DecimalSep)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("load: write row %d: %w", r+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v table.Value, decimalSep string) string {
	if f, ok := v.Float(); ok {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if decimalSep != "" && decimalSep != "." {
			s = strings.Replace(s, ".", decimalSep, 1)
		}
		return s
	}
	return v.String()
}
