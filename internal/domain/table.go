package domain

import "strings"

// The markup adapter reduces a fetched HTML page to this flat table contract
// so the resolver and extractor never depend on a DOM library.

// Link is an outgoing anchor inside a cell. Href is absolute: the adapter
// resolves relative targets against the page URL before handing over.
type Link struct {
	Text string
	Href string
}

// Cell is one table cell: its visible text plus any outgoing links.
type Cell struct {
	Text  string
	Links []Link
}

// Row is one table row in source order.
type Row struct {
	Cells []Cell
}

// Table is one table's rows, header included, in source order.
type Table struct {
	Rows []Row
}

// Document holds every table found on one fetched page, in document order.
type Document struct {
	Tables []Table
}

// Text returns the aggregate cell text of the table, space-joined. Used to
// probe tables for known column labels without caring about structure.
func (t Table) Text() string {
	var b strings.Builder
	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			b.WriteString(cell.Text)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// rowText joins the text of all cells in a row.
func rowText(r Row) string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Text
	}
	return strings.Join(parts, " ")
}
