package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/ballotmap/models"
)

// RowSelector matches the county name cells of the contest summary table.
const RowSelector = "table.vts-data > tbody > tr > td.alignLeft:not(.total)"

var rowMatcher = cascadia.MustCompile(RowSelector)

// CountyRow is a county cell found on the summary page. Index is the cell's
// position among all RowSelector matches, which is what Driver.ClickDetail
// expects.
type CountyRow struct {
	Index int
	ID    string
}

// ParseCountyRows lists the county cells in html. The cell's first link
// carries the county name as its id. Cells without an id, or labelled
// "Total", are not counties and are skipped.
func ParseCountyRows(html string) ([]CountyRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, models.NewPipelineError(
			models.ErrCodeParse,
			"failed to parse summary page",
			err,
		)
	}

	var rows []CountyRow
	doc.FindMatcher(rowMatcher).Each(func(i int, cell *goquery.Selection) {
		links := cell.Find("a")
		id, _ := links.First().Attr("id")
		id = strings.TrimSpace(id)
		if id == "" || strings.EqualFold(id, "total") {
			return
		}
		if strings.EqualFold(strings.TrimSpace(cell.Text()), "total") {
			return
		}
		rows = append(rows, CountyRow{Index: i, ID: id})
	})
	return rows, nil
}

// BaseURL strips the last two path segments from a detail page URL,
// leaving the directory the JSON documents are served from.
func BaseURL(current string) string {
	parts := strings.Split(current, "/")
	if len(parts) <= 2 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "/")
}
