// Package domain models IBTrACS best-track data for tropical cyclones.
//
// # Data Source
//
// Track records come from the IBTrACS (International Best Track Archive for
// Climate Stewardship) browse pages at https://ncics.org/ibtracs/. Two page
// kinds matter:
//
//	Year index:  index.php?name=YearBasin-<year>
//	Storm page:  linked from the index, href contains "name=v04r01-<storm id>"
//
// The year index is a single table with one column per basin, in a fixed
// order (Northern Atlantic, Eastern Pacific, Western Pacific, Northern
// Indian, Southern Indian, Southern Pacific). Cells hold storm links and,
// for storms without archived tracks, bare text lines. Date fragments like
// "Aug 3" are interleaved as continuation rows and are not storm names.
//
// # Track Table Conventions
//
// A storm page carries one table whose header names latitude, longitude,
// and wind columns. Header text varies across years, so columns are bound
// by substring ("lat", "lon", "usa wind", pressure synonyms, "iso_time").
// Only the "USA Wind" column is authoritative for intensity; other wind
// columns are ignored.
//
// Timestamps use two encodings in the same column: a full
// "YYYY-MM-DD HH:MM:SS" value on the first row of a day, then bare
// "HH:MM:SS" values that inherit the most recent date. Observations are
// kept at synoptic hours only (00, 06, 12, 18 UTC) when an hour can be
// read; fixes with unreadable timestamps are kept unconditionally.
//
// Unknown wind or pressure is encoded as "-" or an empty cell.
//
// # Derived Metrics
//
//	ACE:       Σ wind²/10⁴ over fixes with known wind ≥ 34 kt.
//	Category:  Saffir-Simpson bands in knots, lower bound inclusive:
//	           TD <34 | TS 34–63 | Cat1 64–82 | Cat2 83–95 |
//	           Cat3 96–112 | Cat4 113–136 | Cat5 ≥137.
//	Duration:  fix count × 6 h (synoptic-interval assumption, not
//	           timestamp deltas).
//
// The storm-type label (Hurricane/Typhoon/Cyclone) is a coarse geographic
// heuristic over the track's bounding-box center, not a meteorological
// basin attribution. It is kept exactly as the archive browser renders it
// because changing it would change observable output.
package domain
