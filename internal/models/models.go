package models

// Column names the reference document must provide.
const (
	ColumnTitle     = "Title"
	ColumnVersion   = "Version"
	ColumnOpinion   = "What do you think?"
	ColumnIssues    = "Issues"
	ColumnReference = "Reference"
)

// RequiredColumns lists the columns printed for every match, in output order.
var RequiredColumns = []string{ColumnTitle, ColumnVersion, ColumnOpinion, ColumnIssues, ColumnReference}

// Track represents a playlist entry from any catalog service
type Track struct {
	Title  string `json:"title"`
	Artist string `json:"artist"` // first listed artist
}

// DocRow is one data row of the reference table.
type DocRow struct {
	columns map[string]int
	cells   []string
}

// NewDocRow builds a row whose cells line up with the given column index.
func NewDocRow(columns map[string]int, cells []string) DocRow {
	return DocRow{columns: columns, cells: cells}
}

// Get returns the cell text for the named column, or an empty string when the column is unknown or the row is short.
func (r DocRow) Get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Cells returns a copy of the row's cells in column order.
func (r DocRow) Cells() []string {
	return append([]string(nil), r.cells...)
}

// Table is the tabular structure extracted from the reference document.
type Table struct {
	Columns []string
	Rows    []DocRow
}

// NewTable indexes columns by name and wraps each record in a [DocRow].
//
// When a name repeats, the first occurrence wins.
func NewTable(columns []string, records [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; !ok {
			index[c] = i
		}
	}

	rows := make([]DocRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewDocRow(index, rec))
	}

	return &Table{Columns: columns, Rows: rows}
}

// MissingColumns returns the names from want that the table does not have, in the order given.
func (t *Table) MissingColumns(want ...string) []string {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = true
	}

	var missing []string
	for _, w := range want {
		if !have[w] {
			missing = append(missing, w)
		}
	}
	return missing
}

// MatchResult pairs a track with a document row whose title scored at or above the threshold.
type MatchResult struct {
	Track Track
	Row   DocRow
	Score float64
}
