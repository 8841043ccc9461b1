package domain

// CatalogEntry is one storm in a basin/year catalog. Constructed fresh per
// query and never mutated afterward. Entries are unique by
// (upper(StormName), BasinCode).
type CatalogEntry struct {
	DisplayName string `json:"display_name"`
	StormName   string `json:"storm_name"`
	Locator     string `json:"locator,omitempty"` // absolute detail-page URL; empty means no track data
	BasinCode   string `json:"basin"`
}

// TrackFix is a single best-track observation. Latitude and longitude are
// required (a fix missing either is never emitted); wind and pressure are
// nil when the source reports them as unknown.
type TrackFix struct {
	Lat      float64  `json:"lat"`  // degrees, south negative
	Lon      float64  `json:"lon"`  // degrees, west negative
	Wind     *float64 `json:"wind,omitempty"`     // sustained 1-min wind, knots
	Pressure *float64 `json:"pressure,omitempty"` // minimum sea-level pressure, mb
	Time     string   `json:"time,omitempty"`     // reconstructed timestamp, may be raw source text
}

// StormTrack is the ordered fix sequence for one storm. Non-empty by
// construction: extraction fails rather than produce an empty track.
// Order is source table order, assumed chronological.
type StormTrack struct {
	Fixes []TrackFix `json:"fixes"`
}
