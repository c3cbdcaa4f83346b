package load

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"panelprep/internal/table"
)

// ReadHTMLTable extracts the first <table> of an HTML document into a table
// of text cells. The header comes from the first row's <th> cells, or its
// <td> cells when the table has no header row. Covariate feeds are often
// published as HTML pages rather than files, so this keeps them loadable
// without a manual export step.
func ReadHTMLTable(r io.Reader) (*table.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("load: parse html: %w", err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("load: document has no table")
	}

	trs := tbl.Find("tr")
	if trs.Length() == 0 {
		return nil, fmt.Errorf("load: table has no rows")
	}

	var header []string
	trs.First().Find("th, td").Each(func(_ int, s *goquery.Selection) {
		header = append(header, strings.TrimSpace(s.Text()))
	})
	if len(header) == 0 {
		return nil, fmt.Errorf("load: table has no header cells")
	}

	out := table.New(header)
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, s *goquery.Selection) {
			cells = append(cells, s.Text())
		})
		if len(cells) != len(header) {
			return
		}
		row := make([]table.Value, len(cells))
		for i, v := range cells {
			row[i] = cellValue(v)
		}
		out.AppendRow(row)
	})
	return out, nil
}
