package domain

import "strings"

// Basin identifies one of the six oceanic regions covered by the IBTrACS
// year-index page. ColumnIndex is the basin's fixed position in the index
// table; the layout is stable across years, so the position is load-bearing
// and never inferred from header order.
type Basin struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ColumnLabel string `json:"-"`
	ColumnIndex int    `json:"-"`
}

// Basins lists the six tracked basins in year-index column order.
var Basins = []Basin{
	{Code: "NATL", Name: "Atlantic", ColumnLabel: "Northern Atlantic", ColumnIndex: 0},
	{Code: "EPAC", Name: "East/Central Pacific", ColumnLabel: "Eastern Pacific", ColumnIndex: 1},
	{Code: "WPAC", Name: "West Pacific", ColumnLabel: "Western Pacific", ColumnIndex: 2},
	{Code: "NIO", Name: "Northern Indian Ocean", ColumnLabel: "Northern Indian", ColumnIndex: 3},
	{Code: "SIO", Name: "Southern Indian Ocean", ColumnLabel: "Southern Indian", ColumnIndex: 4},
	{Code: "AUS", Name: "Australian Region", ColumnLabel: "Southern Pacific", ColumnIndex: 5},
}

// BasinByCode looks up a basin by its canonical code, case-insensitively.
func BasinByCode(code string) (Basin, bool) {
	for _, b := range Basins {
		if strings.EqualFold(b.Code, code) {
			return b, true
		}
	}
	return Basin{}, false
}

// MinYear is the first year with IBTrACS records.
const MinYear = 1842

// MaxYear returns the newest selectable year. Derived from the clock rather
// than a hardcoded constant so the range tracks the current season.
func MaxYear() int {
	return clock.Now().UTC().Year()
}

// ValidYear reports whether year falls inside the selectable range.
func ValidYear(year int) bool {
	return year >= MinYear && year <= MaxYear()
}
