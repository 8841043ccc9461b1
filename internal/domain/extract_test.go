package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRow(cells ...string) Row {
	r := Row{Cells: make([]Cell, len(cells))}
	for i, text := range cells {
		r.Cells[i] = Cell{Text: text}
	}
	return r
}

func textTable(rows ...Row) Table {
	return Table{Rows: rows}
}

func TestExtractTrack(t *testing.T) {
	t.Run("filters non-synoptic fixes and derives metrics", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "USA Wind", "Pressure", "ISO_TIME"),
			textRow("25.0", "-75.0", "40", "1005", "2020-08-01 00:00:00"),
			textRow("25.5", "-75.5", "70", "995", "06:00:00"),
			textRow("25.8", "-75.8", "75", "990", "09:00:00"),
		)}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 2)

		assert.Equal(t, TrackFix{
			Lat: 25.0, Lon: -75.0,
			Wind: fptr(40), Pressure: fptr(1005),
			Time: "2020-08-01 00:00:00",
		}, track.Fixes[0])
		// Bare time inherits the date context from the previous full timestamp.
		assert.Equal(t, "2020-08-01 06:00:00", track.Fixes[1].Time)

		m := DeriveMetrics(track)
		assert.Equal(t, 70.0, *m.MaxWind)
		assert.InDelta(t, 0.65, m.ACE, 1e-9)
		assert.Equal(t, []string{"TS", "Cat1"}, m.Categories)
		assert.Equal(t, 0.5, m.DurationDays)
	})

	t.Run("no track table", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Storm", "Season", "Notes"),
			textRow("ALPHA", "2020", "-"),
		)}}

		_, err := ExtractTrack(doc)
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("lon never bound to its own column", func(t *testing.T) {
		// The combined header mentions lat, lon, and wind, so the table is
		// found, but no single cell binds the longitude column.
		doc := Document{Tables: []Table{textTable(
			textRow("Lat & Lon", "USA Wind"),
			textRow("25.0", "40"),
		)}}

		_, err := ExtractTrack(doc)
		assert.ErrorIs(t, err, ErrRequiredColumnsMissing)
	})

	t.Run("no parseable rows", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "USA Wind"),
			textRow("n/a", "n/a", "40"),
			textRow("", "", ""),
		)}}

		_, err := ExtractTrack(doc)
		assert.ErrorIs(t, err, ErrNoValidFixes)
	})

	t.Run("malformed rows are skipped, not fatal", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "USA Wind"),
			textRow("25.0", "-75.0", "40"),
			textRow("bad", "-75.5", "45"),
			textRow("26.0"), // too short
			textRow("26.5", "-76.5", "50"),
		)}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 2)
		assert.Equal(t, 26.5, track.Fixes[1].Lat)
	})

	t.Run("placeholder wind and pressure become unknown", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "USA Wind", "Pressure"),
			textRow("10.0", "120.0", "-", ""),
			textRow("10.5", "121.0", "65", "980"),
		)}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 2)
		assert.Nil(t, track.Fixes[0].Wind)
		assert.Nil(t, track.Fixes[0].Pressure)
		assert.Equal(t, 65.0, *track.Fixes[1].Wind)
	})

	t.Run("generic wind column is not authoritative", func(t *testing.T) {
		// A plain "Wind" header lets the table be found but never binds the
		// wind column; fixes come back with unknown intensity.
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "Wind"),
			textRow("25.0", "-75.0", "40"),
		)}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 1)
		assert.Nil(t, track.Fixes[0].Wind)
	})

	t.Run("unreadable hour is kept", func(t *testing.T) {
		doc := Document{Tables: []Table{textTable(
			textRow("Lat", "Lon", "USA Wind", "ISO_TIME"),
			textRow("25.0", "-75.0", "40", "landfall"),
		)}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 1)
		assert.Equal(t, "landfall", track.Fixes[0].Time)
	})

	t.Run("picks the track table among several", func(t *testing.T) {
		doc := Document{Tables: []Table{
			textTable(textRow("Name", "Season")),
			textTable(
				textRow("Lat", "Lon", "USA Wind"),
				textRow("12.0", "88.0", "55"),
			),
		}}

		track, err := ExtractTrack(doc)
		require.NoError(t, err)
		require.Len(t, track.Fixes, 1)
		assert.Equal(t, 12.0, track.Fixes[0].Lat)
	})
}

func TestMapColumns(t *testing.T) {
	t.Run("first match wins per field", func(t *testing.T) {
		cols := mapColumns(textRow("Lat", "Lat2", "Lon", "USA Wind", "Other Wind", "MSLP", "ISO_TIME"))
		assert.Equal(t, 0, cols.lat)
		assert.Equal(t, 2, cols.lon)
		assert.Equal(t, 3, cols.wind)
		assert.Equal(t, 5, cols.pressure)
		assert.Equal(t, 6, cols.time)
	})

	t.Run("pressure aliases", func(t *testing.T) {
		for _, alias := range []string{"Pressure", "Pres", "SLP", "MSLP"} {
			cols := mapColumns(textRow("Lat", "Lon", alias))
			assert.Equal(t, 2, cols.pressure, alias)
		}
	})

	t.Run("unbound fields stay -1", func(t *testing.T) {
		cols := mapColumns(textRow("Lat", "Lon"))
		assert.Equal(t, -1, cols.wind)
		assert.Equal(t, -1, cols.pressure)
		assert.Equal(t, -1, cols.time)
	})
}

func TestReconstructTimestamp(t *testing.T) {
	currentDate := ""

	got := reconstructTimestamp("2020-08-01 00:00:00", &currentDate)
	assert.Equal(t, "2020-08-01 00:00:00", got)
	assert.Equal(t, "2020-08-01", currentDate)

	got = reconstructTimestamp("06:00:00", &currentDate)
	assert.Equal(t, "2020-08-01 06:00:00", got)

	// A new full timestamp moves the context forward.
	got = reconstructTimestamp("2020-08-02 12:00:00", &currentDate)
	assert.Equal(t, "2020-08-02 12:00:00", got)
	got = reconstructTimestamp("18:00:00", &currentDate)
	assert.Equal(t, "2020-08-02 18:00:00", got)

	// Raw text passes through untouched.
	assert.Equal(t, "landfall", reconstructTimestamp("landfall", &currentDate))

	// A bare time with no prior context stays bare.
	empty := ""
	assert.Equal(t, "06:00:00", reconstructTimestamp("06:00:00", &empty))
}

func TestSynopticHour(t *testing.T) {
	tests := []struct {
		timestamp string
		expected  bool
	}{
		{"2020-08-01 00:00:00", true},
		{"2020-08-01 06:00:00", true},
		{"2020-08-01 12:00:00", true},
		{"2020-08-01 18:00:00", true},
		{"2020-08-01 03:00:00", false},
		{"2020-08-01 21:00:00", false},
		{"09:00:00", false},
		{"18:00:00", true},
		{"no hour here", true},
		{"", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, synopticHour(tt.timestamp), tt.timestamp)
	}
}
