package domain

import (
	"regexp"
	"sort"
	"strings"
)

// detailLinkMarker identifies hrefs that point at a storm's track page.
const detailLinkMarker = "name=v04r01-"

var (
	// dateFragmentRe matches continuation lines like "Aug 3" that the index
	// interleaves with storm names in link-less cells.
	dateFragmentRe = regexp.MustCompile(`^[A-Z][a-z]{2}\s+\d`)

	// monthRangeRe and crossMonthRangeRe strip trailing embedded date ranges
	// from link text, e.g. "KATRINA Aug 23-31" and "ZETA Dec 30-Jan 7".
	monthRangeRe      = regexp.MustCompile(`\s+[A-Z][a-z]{2}\s+\d{1,2}-\d{1,2}`)
	crossMonthRangeRe = regexp.MustCompile(`\s+[A-Z][a-z]{2}\s+\d{1,2}-[A-Z][a-z]{2}\s+\d{1,2}`)
)

// ResolveCatalog extracts one basin's storm catalog from a year-index
// document. A missing index table or header row yields an empty catalog,
// not an error: sparse historical years legitimately have nothing to list.
func ResolveCatalog(basin Basin, doc Document) []CatalogEntry {
	table, ok := findIndexTable(doc)
	if !ok {
		return nil
	}

	headerIdx, ok := findBasinHeaderRow(table, basin)
	if !ok {
		return nil
	}

	var entries []CatalogEntry
	for _, row := range table.Rows[headerIdx+1:] {
		// Short rows are tolerated, not fatal.
		if len(row.Cells) <= basin.ColumnIndex {
			continue
		}
		entries = append(entries, entriesFromCell(basin, row.Cells[basin.ColumnIndex])...)
	}

	entries = dedupeEntries(entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StormName < entries[j].StormName
	})
	return entries
}

// findIndexTable picks the table whose aggregate text names at least three
// basin columns, disambiguating the catalog from incidental page tables.
func findIndexTable(doc Document) (Table, bool) {
	for _, table := range doc.Tables {
		text := table.Text()
		count := 0
		for _, b := range Basins {
			if strings.Contains(text, b.ColumnLabel) {
				count++
			}
		}
		if count >= 3 {
			return table, true
		}
	}
	return Table{}, false
}

// findBasinHeaderRow returns the index of the first row naming the basin's
// column label.
func findBasinHeaderRow(table Table, basin Basin) (int, bool) {
	for i, row := range table.Rows {
		if strings.Contains(rowText(row), basin.ColumnLabel) {
			return i, true
		}
	}
	return -1, false
}

// entriesFromCell turns one basin-column cell into catalog entries. Cells
// with links yield one entry per detail-page link; link-less cells yield
// text-only entries with no locator.
func entriesFromCell(basin Basin, cell Cell) []CatalogEntry {
	if len(cell.Links) > 0 {
		var entries []CatalogEntry
		for _, link := range cell.Links {
			if !strings.Contains(link.Href, detailLinkMarker) {
				continue
			}
			name := cleanStormName(link.Text)
			if name == "" {
				name = strings.TrimSpace(link.Text)
			}
			if name == "" {
				continue
			}
			entries = append(entries, CatalogEntry{
				DisplayName: name,
				StormName:   name,
				Locator:     link.Href,
				BasinCode:   basin.Code,
			})
		}
		return entries
	}

	text := strings.TrimSpace(cell.Text)
	if text == "" || text == "-" || text == "UNNAMED" {
		return nil
	}

	var entries []CatalogEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || dateFragmentRe.MatchString(line) {
			continue
		}
		name := cleanStormName(line)
		if len(name) <= 1 {
			continue
		}
		entries = append(entries, CatalogEntry{
			DisplayName: name + " (No track data)",
			StormName:   name,
			BasinCode:   basin.Code,
		})
	}
	return entries
}

// cleanStormName strips asterisk annotations and trailing embedded date
// ranges, which are formatting noise from the index, not part of the name.
func cleanStormName(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	s = monthRangeRe.ReplaceAllString(s, "")
	s = crossMonthRangeRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// dedupeEntries collapses duplicates by (upper(name), basin), keeping the
// first occurrence. Overlapping index cells produce exact repeats.
func dedupeEntries(entries []CatalogEntry) []CatalogEntry {
	seen := make(map[string]struct{}, len(entries))
	unique := entries[:0]
	for _, e := range entries {
		key := strings.ToUpper(e.StormName) + "|" + e.BasinCode
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, e)
	}
	return unique
}
