// Document table extraction for published HTML documents
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/docmatch/internal/models"
	"github.com/desertthunder/docmatch/internal/shared"
)

// TableCountError reports a document that did not contain exactly one table.
type TableCountError struct {
	Count int
}

func (e *TableCountError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%v: no tables found", shared.ErrInputShape)
	}
	return fmt.Sprintf("%v: expected exactly one table, found %d", shared.ErrInputShape, e.Count)
}

func (e *TableCountError) Unwrap() error { return shared.ErrInputShape }

// DocumentService implements [DocumentSource] for HTML documents served over HTTP or read from disk.
type DocumentService struct {
	httpClient *http.Client
	required   []string
}

// NewDocumentService creates a document fetcher. A nil client falls back to [http.DefaultClient].
//
// The required columns default to [models.RequiredColumns].
func NewDocumentService(c *http.Client, required ...string) *DocumentService {
	if c == nil {
		c = http.DefaultClient
	}
	if len(required) == 0 {
		required = models.RequiredColumns
	}
	return &DocumentService{httpClient: c, required: required}
}

// FetchTable retrieves the document at source and extracts its single table, using headerRow for column names.
//
// Source is an http(s) URL, a file:// URL, or a local path.
func (d *DocumentService) FetchTable(ctx context.Context, source string, headerRow int) (*models.Table, error) {
	data, err := d.read(ctx, source)
	if err != nil {
		return nil, err
	}
	return ParseTable(data, headerRow, d.required...)
}

func (d *DocumentService) read(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return d.get(ctx, source)
	}

	path := source
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDocumentFetch, err)
	}
	return data, nil
}

func (d *DocumentService) get(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDocumentFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", shared.ErrDocumentFetch, source, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", shared.ErrDocumentFetch, err)
	}
	return data, nil
}

// ParseTable extracts the only table in html.
//
// Row headerRow (zero-based, counted across thead, tbody and tfoot) names the columns.
// Rows above it are dropped and blank rows below it are skipped.
// Every name in required must be present among the columns.
func ParseTable(html []byte, headerRow int, required ...string) (*models.Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", shared.ErrInputShape, err)
	}

	tables := doc.Find("table")
	if tables.Length() != 1 {
		return nil, &TableCountError{Count: tables.Length()}
	}

	grid := readGrid(tables.First())
	if headerRow < 0 || headerRow >= len(grid) {
		return nil, fmt.Errorf("%w: header row %d is outside the table (%d rows)", shared.ErrInputShape, headerRow, len(grid))
	}

	columns := headerNames(grid[headerRow])

	var records [][]string
	for _, rec := range grid[headerRow+1:] {
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}

	table := models.NewTable(columns, records)
	if missing := table.MissingColumns(required...); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s not found in header row %d (columns: %s)",
			shared.ErrMissingColumns, quoteAll(missing), headerRow, quoteAll(columns))
	}

	return table, nil
}

type span struct {
	text string
	left int
}

// readGrid flattens a table into rows of cell text, repeating colspan and rowspan cells into every slot they cover.
func readGrid(table *goquery.Selection) [][]string {
	var rows []*goquery.Selection
	for _, section := range []string{"thead", "tbody", "tfoot"} {
		table.ChildrenFiltered(section).ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
			rows = append(rows, tr)
		})
	}

	var grid [][]string
	above := map[int]span{}

	for _, tr := range rows {
		var out []string
		col := 0
		next := map[int]span{}

		take := func(at int) {
			p := above[at]
			delete(above, at)
			out = append(out, p.text)
			if p.left > 1 {
				next[col] = span{text: p.text, left: p.left - 1}
			}
			col++
		}

		carry := func() {
			for {
				if _, ok := above[col]; !ok {
					return
				}
				take(col)
			}
		}

		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			carry()
			text := cellText(cell)
			colspan := spanAttr(cell, "colspan")
			rowspan := spanAttr(cell, "rowspan")
			for range colspan {
				out = append(out, text)
				if rowspan > 1 {
					next[col] = span{text: text, left: rowspan - 1}
				}
				col++
			}
		})

		// Spans from above a short row still occupy their column.
		for _, at := range slices.Sorted(maps.Keys(above)) {
			for col < at {
				out = append(out, "")
				col++
			}
			take(at)
		}

		grid = append(grid, out)
		above = next
	}

	return grid
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// headerNames names blank header cells "Unnamed: N" and suffixes repeats with ".1", ".2", ...
func headerNames(row []string) []string {
	names := make([]string, len(row))
	seen := make(map[string]int, len(row))

	for i, name := range row {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}

	return names
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = strconv.Quote(s)
	}
	return strings.Join(q, ", ")
}
