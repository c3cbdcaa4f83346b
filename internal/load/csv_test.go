package load

import (
	"strings"
	"testing"
)

// TestReadCSV covers header cleanup, tolerance, and empty-cell handling.
func TestReadCSV(t *testing.T) {
	t.Parallel()

	in := "\uFEFF time ,geo,spend\n" +
		"2023-01-01,A,100\n" +
		"short,row\n" + // wrong field count, skipped
		"2023-01-02,B,\n"

	got, err := ReadCSV(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	wantCols := []string{"time", "geo", "spend"}
	for i, c := range got.Columns() {
		if c != wantCols[i] {
			t.Fatalf("columns = %v, want %v", got.Columns(), wantCols)
		}
	}
	if got.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", got.NumRows())
	}
	if s, _ := got.Cell(0, "spend").Str(); s != "100" {
		t.Fatalf("spend = %v", got.Cell(0, "spend"))
	}
	if !got.Cell(1, "spend").IsMissing() {
		t.Fatalf("empty cell should load as missing")
	}
}

// TestReadCSVSemicolon verifies the configurable separator.
func TestReadCSVSemicolon(t *testing.T) {
	t.Parallel()

	in := "time;spend\n2023-01-01;1,5\n"
	got, err := ReadCSV(strings.NewReader(in), Options{Comma: ';'})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if s, _ := got.Cell(0, "spend").Str(); s != "1,5" {
		t.Fatalf("spend = %v, want raw text 1,5", got.Cell(0, "spend"))
	}
}

// TestReadCSVLatin1 verifies single-byte charset decoding.
func TestReadCSVLatin1(t *testing.T) {
	t.Parallel()

	// "Medellín" with í as the Latin-1 byte 0xED.
	raw := []byte("geo,spend\nMedell\xedn,1\n")
	got, err := ReadCSV(strings.NewReader(string(raw)), Options{Charset: "latin1"})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if s, _ := got.Cell(0, "geo").Str(); s != "Medellín" {
		t.Fatalf("geo = %q, want Medellín", s)
	}
}

// TestReadCSVUnsupportedCharset verifies the error path.
func TestReadCSVUnsupportedCharset(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("a\n1\n"), Options{Charset: "ebcdic"})
	if err == nil || !strings.Contains(err.Error(), "unsupported charset") {
		t.Fatalf("err = %v, want unsupported charset", err)
	}
}

// TestReadCSVEmpty verifies empty input errors rather than returning a nil
// table.
func TestReadCSVEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ReadCSV(strings.NewReader(""), Options{}); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
