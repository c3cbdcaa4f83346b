// Package load reads raw input tables from the formats the marketing feeds
// arrive in (delimited text, Excel workbooks, HTML tables) and writes the
// finished panel back out as CSV. Loaders hand every cell over as text; all
// numeric and date interpretation belongs to the pipeline, not the reader.
package load

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"panelprep/internal/table"
)

// Options controls delimited-text reading.
type Options struct {
	// Comma is the field separator. Zero means sniff it from the input.
	Comma rune
	// Charset names the input encoding: "utf-8" passes bytes through,
	// "latin1"/"iso-8859-1" and "windows-1252" are decoded. Empty means
	// sniff: valid UTF-8 passes through, anything else reads as
	// windows-1252.
	Charset string
}

func decodingFor(charset string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("load: unsupported charset %q", charset)
	}
}

// ReadCSV reads a delimited file into a table of text cells. The reader is
// tolerant the way a probe of real-world exports has to be: quotes are lazy,
// a UTF-8 BOM on the first header is stripped, header names and values are
// trimmed, rows with the wrong field count are skipped, and empty cells
// become missing values.
func ReadCSV(r io.Reader, opts Options) (*table.Table, error) {
	br := bufio.NewReaderSize(r, 8192)
	sample, _ := br.Peek(8192)

	charset := opts.Charset
	if charset == "" {
		charset = sniffCharset(sample)
	}
	dec, err := decodingFor(charset)
	if err != nil {
		return nil, err
	}
	var in io.Reader = br
	if dec != nil {
		in = transform.NewReader(br, dec)
	}

	cr := csv.NewReader(in)
	cr.Comma = opts.Comma
	if cr.Comma == 0 {
		cr.Comma = sniffComma(sample)
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("load: empty input")
		}
		return nil, fmt.Errorf("load: read header: %w", err)
	}
	for i := range header {
		if i == 0 {
			header[i] = strings.TrimPrefix(header[i], "\uFEFF")
		}
		header[i] = strings.TrimSpace(header[i])
	}

	out := table.New(header)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load: read row: %w", err)
		}
		if len(rec) != len(header) {
			continue
		}
		row := make([]table.Value, len(rec))
		for i, v := range rec {
			row[i] = cellValue(v)
		}
		out.AppendRow(row)
	}
	return out, nil
}

func cellValue(s string) table.Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return table.Missing()
	}
	return table.Text(s)
}
