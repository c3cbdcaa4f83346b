package load

import (
	"strings"
	"testing"
)

// TestReadHTMLTable verifies first-table extraction with a th header.
func TestReadHTMLTable(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<p>quarterly covariates</p>
<table>
  <tr><th>time</th><th> nps </th></tr>
  <tr><td>2023-01-01</td><td>40</td></tr>
  <tr><td>2023-01-02</td><td></td></tr>
  <tr><td>ragged</td></tr>
</table>
<table><tr><th>other</th></tr></table>
</body></html>`

	got, err := ReadHTMLTable(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}

	wantCols := []string{"time", "nps"}
	for i, c := range got.Columns() {
		if c != wantCols[i] {
			t.Fatalf("columns = %v, want %v", got.Columns(), wantCols)
		}
	}
	if got.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (ragged row skipped)", got.NumRows())
	}
	if s, _ := got.Cell(0, "nps").Str(); s != "40" {
		t.Fatalf("nps = %v", got.Cell(0, "nps"))
	}
	if !got.Cell(1, "nps").IsMissing() {
		t.Fatalf("empty td should load as missing")
	}
}

// TestReadHTMLTableHeaderlessRows verifies a td-only first row serves as the
// header.
func TestReadHTMLTableHeaderlessRows(t *testing.T) {
	t.Parallel()

	html := `<table><tr><td>time</td><td>x</td></tr><tr><td>2023-01-01</td><td>1</td></tr></table>`
	got, err := ReadHTMLTable(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ReadHTMLTable: %v", err)
	}
	if got.Columns()[1] != "x" || got.NumRows() != 1 {
		t.Fatalf("columns = %v rows = %d", got.Columns(), got.NumRows())
	}
}

// TestReadHTMLTableMissing verifies the no-table error.
func TestReadHTMLTableMissing(t *testing.T) {
	t.Parallel()

	if _, err := ReadHTMLTable(strings.NewReader("<html><body><p>nope</p></body></html>")); err == nil {
		t.Fatalf("expected error when no table present")
	}
}
