package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// fullTimestampRe matches a complete "YYYY-MM-DD HH:MM:SS" value; its
	// date part becomes the context for subsequent bare-time rows.
	fullTimestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+\d{2}:\d{2}:\d{2}`)
	bareTimeRe      = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}`)
	hourRe          = regexp.MustCompile(`(\d{2}):\d{2}:\d{2}`)
)

// columnMap holds the resolved column index per semantic field.
// Unresolved fields are -1; lat and lon are mandatory.
type columnMap struct {
	lat, lon, wind, pressure, time int
}

func (c columnMap) max() int {
	m := c.lat
	for _, v := range []int{c.lon, c.wind, c.pressure, c.time} {
		if v > m {
			m = v
		}
	}
	return m
}

// ExtractTrack pulls the ordered fix sequence out of a storm detail
// document. It fails with ErrTableNotFound, ErrRequiredColumnsMissing, or
// ErrNoValidFixes; individual malformed rows are recovered silently.
func ExtractTrack(doc Document) (StormTrack, error) {
	table, ok := findTrackTable(doc)
	if !ok {
		return StormTrack{}, ErrTableNotFound
	}

	cols := mapColumns(table.Rows[0])
	if cols.lat < 0 || cols.lon < 0 {
		return StormTrack{}, ErrRequiredColumnsMissing
	}

	var fixes []TrackFix
	currentDate := ""
	for _, row := range table.Rows[1:] {
		fix, ok := parseFixRow(row, cols, &currentDate)
		if !ok {
			continue
		}
		if !synopticHour(fix.Time) {
			continue
		}
		fixes = append(fixes, fix)
	}

	if len(fixes) == 0 {
		return StormTrack{}, ErrNoValidFixes
	}
	return StormTrack{Fixes: fixes}, nil
}

// findTrackTable picks the table whose header row names lat, lon, and wind
// columns, case-insensitively.
func findTrackTable(doc Document) (Table, bool) {
	for _, table := range doc.Tables {
		if len(table.Rows) == 0 {
			continue
		}
		header := strings.ToLower(rowText(table.Rows[0]))
		if strings.Contains(header, "lat") &&
			strings.Contains(header, "lon") &&
			strings.Contains(header, "wind") {
			return table, true
		}
	}
	return Table{}, false
}

// mapColumns binds header cells to semantic fields by substring,
// first-match-wins per field. Only "usa wind" binds the wind column:
// it is the authoritative intensity among possibly several wind columns.
func mapColumns(header Row) columnMap {
	cols := columnMap{lat: -1, lon: -1, wind: -1, pressure: -1, time: -1}
	for i, cell := range header.Cells {
		h := strings.ToLower(strings.TrimSpace(cell.Text))
		switch {
		case strings.Contains(h, "lat") && cols.lat < 0:
			cols.lat = i
		case strings.Contains(h, "lon") && cols.lon < 0:
			cols.lon = i
		case strings.Contains(h, "usa wind") && cols.wind < 0:
			cols.wind = i
		case containsAny(h, "pressure", "pres", "slp", "mslp") && cols.pressure < 0:
			cols.pressure = i
		case (strings.Contains(h, "iso_time") || strings.Contains(h, "time")) && cols.time < 0:
			cols.time = i
		}
	}
	return cols
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// parseFixRow parses one data row. A bad latitude or longitude drops the
// whole row; a bad or placeholder wind/pressure only leaves that field
// unknown. currentDate carries the date context across bare-time rows.
func parseFixRow(row Row, cols columnMap, currentDate *string) (TrackFix, bool) {
	if len(row.Cells) <= cols.max() {
		return TrackFix{}, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[cols.lat].Text), 64)
	if err != nil {
		return TrackFix{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row.Cells[cols.lon].Text), 64)
	if err != nil {
		return TrackFix{}, false
	}

	fix := TrackFix{Lat: lat, Lon: lon}
	if cols.wind >= 0 {
		fix.Wind = parseOptionalFloat(row.Cells[cols.wind].Text)
	}
	if cols.pressure >= 0 {
		fix.Pressure = parseOptionalFloat(row.Cells[cols.pressure].Text)
	}
	if cols.time >= 0 {
		fix.Time = reconstructTimestamp(row.Cells[cols.time].Text, currentDate)
	}
	return fix, true
}

// parseOptionalFloat parses a numeric cell, returning nil for placeholders
// ("-" or empty) and unparseable values.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// reconstructTimestamp handles the two source encodings: a full timestamp
// sets the date context, a bare time inherits it, anything else is kept
// as raw text.
func reconstructTimestamp(s string, currentDate *string) string {
	s = strings.TrimSpace(s)
	if m := fullTimestampRe.FindStringSubmatch(s); m != nil {
		*currentDate = m[1]
		return s
	}
	if bareTimeRe.MatchString(s) && *currentDate != "" {
		return *currentDate + " " + s
	}
	return s
}

// synopticHour reports whether the fix falls on a standard observation hour
// (00, 06, 12, 18 UTC). Fixes whose hour cannot be read are kept: there is
// nothing to filter on.
func synopticHour(timestamp string) bool {
	m := hourRe.FindStringSubmatch(timestamp)
	if m == nil {
		return true
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return true
	}
	return hour == 0 || hour == 6 || hour == 12 || hour == 18
}
