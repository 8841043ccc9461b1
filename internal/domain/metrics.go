package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// tropicalStormWind is the TS threshold in knots; fixes below it do not
// contribute to ACE.
const tropicalStormWind = 34

// knotsPerMPH converts sustained wind from knots to statute miles per hour.
const knotsToMPHFactor = 1.15078

// categoryOrder lists the intensity bands from weakest to strongest, used
// for the distribution table. "No Data" fixes are excluded there.
var categoryOrder = []string{"TD", "TS", "Cat1", "Cat2", "Cat3", "Cat4", "Cat5"}

// Category maps a sustained wind to its Saffir-Simpson style band. Lower
// bounds are inclusive: wind=34 is TS, wind=64 is Cat1. A nil wind is
// "No Data".
func Category(wind *float64) string {
	if wind == nil {
		return "No Data"
	}
	switch w := *wind; {
	case w < 34:
		return "TD"
	case w < 64:
		return "TS"
	case w < 83:
		return "Cat1"
	case w < 96:
		return "Cat2"
	case w < 113:
		return "Cat3"
	case w < 137:
		return "Cat4"
	default:
		return "Cat5"
	}
}

// StormType labels a track by the geographic center of its bounding box.
// A coarse basin heuristic, not a meteorological determination.
func StormType(latCenter, lonCenter float64) string {
	if latCenter < 0 {
		return "Cyclone"
	}
	if lonCenter < -30 {
		return "Hurricane"
	}
	if lonCenter > 100 {
		return "Typhoon"
	}
	return "Cyclone"
}

// ACE is the accumulated cyclone energy: Σ wind²/10⁴ over fixes with known
// wind at tropical-storm strength or greater.
func ACE(fixes []TrackFix) float64 {
	var ace float64
	for _, f := range fixes {
		if f.Wind != nil && *f.Wind >= tropicalStormWind {
			ace += *f.Wind * *f.Wind / 10000
		}
	}
	return ace
}

// KnotsToMPH converts knots to whole miles per hour, truncating.
func KnotsToMPH(knots float64) int {
	return int(knots * knotsToMPHFactor)
}

// Extent is a closed min/max range over one coordinate axis.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// CategoryCount is one row of the intensity distribution: how many fixes a
// track spent in a band, and the equivalent hours at the synoptic interval.
type CategoryCount struct {
	Category string `json:"category"`
	Points   int    `json:"points"`
	Hours    int    `json:"hours"`
}

// DerivedMetrics summarizes one StormTrack. Recomputed fresh per request,
// never cached or mutated. Pointer fields are nil when no fix carries the
// underlying value ("N/A" to the caller).
type DerivedMetrics struct {
	StormType     string          `json:"storm_type"`
	MaxWind       *float64        `json:"max_wind,omitempty"`
	MaxWindMPH    *int            `json:"max_wind_mph,omitempty"`
	MinPressure   *float64        `json:"min_pressure,omitempty"`
	ACE           float64         `json:"ace"`
	TrackPoints   int             `json:"track_points"`
	DurationHours int             `json:"duration_hours"`
	DurationDays  float64         `json:"duration_days"`
	LatExtent     Extent          `json:"lat_extent"`
	LonExtent     Extent          `json:"lon_extent"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	Categories    []string        `json:"categories"`
	Distribution  []CategoryCount `json:"intensity_distribution,omitempty"`
}

// DeriveMetrics computes the summary statistics for a non-empty track.
func DeriveMetrics(track StormTrack) DerivedMetrics {
	fixes := track.Fixes

	latExt := Extent{Min: fixes[0].Lat, Max: fixes[0].Lat}
	lonExt := Extent{Min: fixes[0].Lon, Max: fixes[0].Lon}
	for _, f := range fixes[1:] {
		latExt.Min = min(latExt.Min, f.Lat)
		latExt.Max = max(latExt.Max, f.Lat)
		lonExt.Min = min(lonExt.Min, f.Lon)
		lonExt.Max = max(lonExt.Max, f.Lon)
	}

	m := DerivedMetrics{
		StormType:     StormType((latExt.Min+latExt.Max)/2, (lonExt.Min+lonExt.Max)/2),
		ACE:           ACE(fixes),
		TrackPoints:   len(fixes),
		DurationHours: len(fixes) * 6,
		DurationDays:  float64(len(fixes)*6) / 24,
		LatExtent:     latExt,
		LonExtent:     lonExt,
		StartTime:     FormatFixTime(fixes[0].Time),
		EndTime:       FormatFixTime(fixes[len(fixes)-1].Time),
		Categories:    make([]string, 0, len(fixes)),
	}

	for _, f := range fixes {
		m.Categories = append(m.Categories, Category(f.Wind))
		if f.Wind != nil && (m.MaxWind == nil || *f.Wind > *m.MaxWind) {
			w := *f.Wind
			m.MaxWind = &w
		}
		if f.Pressure != nil && (m.MinPressure == nil || *f.Pressure < *m.MinPressure) {
			p := *f.Pressure
			m.MinPressure = &p
		}
	}
	if m.MaxWind != nil {
		mph := KnotsToMPH(*m.MaxWind)
		m.MaxWindMPH = &mph
	}
	m.Distribution = intensityDistribution(m.Categories)

	return m
}

// intensityDistribution counts fixes per band in band order, dropping empty
// bands and "No Data" fixes.
func intensityDistribution(categories []string) []CategoryCount {
	counts := make(map[string]int, len(categoryOrder))
	for _, c := range categories {
		counts[c]++
	}
	var dist []CategoryCount
	for _, band := range categoryOrder {
		if n := counts[band]; n > 0 {
			dist = append(dist, CategoryCount{Category: band, Points: n, Hours: n * 6})
		}
	}
	return dist
}

var fixTimeRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})\s+(\d{2}):(\d{2}):(\d{2})`)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// FormatFixTime renders a reconstructed fix timestamp for display, e.g.
// "August 1st at 00:00 UTC". Placeholders come back as "N/A"; anything
// unrecognized is passed through truncated.
func FormatFixTime(ts string) string {
	if ts == "" || ts == "-" {
		return "N/A"
	}
	m := fixTimeRe.FindStringSubmatch(ts)
	if m == nil {
		if len(ts) > 25 {
			return ts[:25]
		}
		return ts
	}

	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	name := fmt.Sprintf("Month%s", m[2])
	if month >= 1 && month <= 12 {
		name = monthNames[month-1]
	}
	return fmt.Sprintf("%s %d%s at %s:%s UTC", name, day, ordinalSuffix(day), m[4], m[5])
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
