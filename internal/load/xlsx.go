package load

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"panelprep/internal/table"
)

// ReadXLSX reads the first sheet of an Excel workbook into a table of text
// cells. Short rows are padded with missing values; rows longer than the
// header are truncated.
func ReadXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("load: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("load: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("load: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("load: sheet %q is empty", sheets[0])
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := table.New(header)
	for _, rec := range rows[1:] {
		row := make([]table.Value, len(header))
		for i := range header {
			if i < len(rec) {
				row[i] = cellValue(rec[i])
			}
		}
		out.AppendRow(row)
	}
	return out, nil
}
