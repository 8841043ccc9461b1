// Command genmock writes mock IBTrACS HTML fixtures: one year-index page
// plus a detail page per linked storm. The generated pages are re-parsed
// through the actual resolver and extractor so the fixtures are guaranteed
// to round-trip, and the derived metrics are printed for updating test
// assertions.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -year 2005
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/ibtracs"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
)

const mockBaseURL = "https://ncics.org/ibtracs"

// mockStorm describes one synthetic storm: where its track starts, how it
// moves per fix, and its wind curve.
type mockStorm struct {
	name      string
	basin     string // basin code; decides the index column
	startLat  float64
	startLon  float64
	stepLat   float64
	stepLon   float64
	winds     []float64 // knots per fix; <0 means unknown
	startDate string    // YYYY-MM-DD of the first fix
	noTrack   bool      // listed in the index without a detail link
}

var mockStorms = []mockStorm{
	{
		name: "KATRINA", basin: "NATL",
		startLat: 23.1, startLon: -75.1, stepLat: 0.4, stepLon: -0.5,
		winds:     []float64{30, 35, 45, 60, 70, 85, 100, 120, 150, 145, 110, 75, 40},
		startDate: "2005-08-24",
	},
	{
		name: "RITA", basin: "NATL",
		startLat: 22.0, startLon: -70.0, stepLat: 0.3, stepLon: -0.6,
		winds:     []float64{25, 40, 55, 90, 130, 155, 120, 80, -1, 35},
		startDate: "2005-09-18",
	},
	{
		name: "ADRIAN", basin: "EPAC",
		startLat: 11.0, startLon: -88.0, stepLat: 0.5, stepLon: 0.3,
		winds:     []float64{30, 45, 60, 70, 55, 35},
		startDate: "2005-05-17",
	},
	{
		name: "HAITANG", basin: "WPAC",
		startLat: 15.0, startLon: 145.0, stepLat: 0.4, stepLon: -0.8,
		winds:     []float64{35, 50, 75, 95, 115, 140, 130, 100, 60},
		startDate: "2005-07-12",
	},
	{
		name: "BERTIE", basin: "SIO",
		startLat: -10.0, startLon: 92.0, stepLat: -0.5, stepLon: -0.4,
		winds:     []float64{30, 40, 55, 70, 65, 45},
		startDate: "2005-11-20",
	},
	{name: "GALVESTON", basin: "NATL", noTrack: true},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for HTML fixtures")
	year := flag.Int("year", 2005, "season year for the index page")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	indexPath := filepath.Join(*outDir, fmt.Sprintf("yearbasin-%d.html", *year))
	if err := os.WriteFile(indexPath, []byte(renderIndexPage(*year)), 0o600); err != nil {
		return fmt.Errorf("writing index fixture: %w", err)
	}
	log.Printf("wrote index fixture: %s", indexPath)

	for _, storm := range mockStorms {
		if storm.noTrack {
			continue
		}
		path := filepath.Join(*outDir, detailFileName(storm.name))
		if err := os.WriteFile(path, []byte(renderDetailPage(storm)), 0o600); err != nil {
			return fmt.Errorf("writing detail fixture for %s: %w", storm.name, err)
		}
		log.Printf("wrote detail fixture: %s", path)
	}

	return printStats(indexPath, *outDir, *year)
}

func detailFileName(name string) string {
	return "v04r01-" + strings.ToLower(name) + ".html"
}

// renderIndexPage lays the storms out in the six-column year-index table.
func renderIndexPage(year int) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "<h1>IBTrACS %d</h1>\n", year)
	b.WriteString("<table>\n<tr>")
	for _, basin := range domain.Basins {
		fmt.Fprintf(&b, "<th>%s</th>", basin.ColumnLabel)
	}
	b.WriteString("</tr>\n")

	// Linked storms and no-track storms go in separate rows: a cell that
	// carries links never falls back to its text.
	writeRow(&b, func(storm mockStorm) (string, bool) {
		if storm.noTrack {
			return "", false
		}
		return fmt.Sprintf(`<a href="index.php?name=v04r01-%s">%s*</a>`, storm.name, storm.name), true
	})
	writeRow(&b, func(storm mockStorm) (string, bool) {
		if !storm.noTrack {
			return "", false
		}
		return storm.name + "<br>Aug 3", true
	})

	b.WriteString("</table>\n</body></html>\n")
	return b.String()
}

func writeRow(b *strings.Builder, render func(mockStorm) (string, bool)) {
	b.WriteString("<tr>")
	for _, basin := range domain.Basins {
		b.WriteString("<td>")
		var parts []string
		for _, storm := range mockStorms {
			if storm.basin != basin.Code {
				continue
			}
			if part, ok := render(storm); ok {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			b.WriteString("-")
		} else {
			b.WriteString(strings.Join(parts, "<br>"))
		}
		b.WriteString("</td>")
	}
	b.WriteString("</tr>\n")
}

// renderDetailPage writes the storm's fix table. Every fourth fix reports a
// bare time to exercise date-context reconstruction, and unknown winds are
// rendered as the "-" placeholder.
func renderDetailPage(storm mockStorm) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", storm.name)
	b.WriteString("<table>\n<tr><th>ISO_TIME</th><th>Lat</th><th>Lon</th><th>USA Wind</th><th>Pressure</th></tr>\n")

	hours := []int{0, 6, 12, 18}
	day := 0
	for i, wind := range storm.winds {
		hour := hours[i%4]
		if i > 0 && hour == 0 {
			day++
		}

		ts := fmt.Sprintf("%s %02d:00:00", addDays(storm.startDate, day), hour)
		if i%4 == 3 {
			ts = fmt.Sprintf("%02d:00:00", hour)
		}

		windCell := "-"
		pressureCell := "-"
		if wind >= 0 {
			windCell = fmt.Sprintf("%.0f", wind)
			pressureCell = fmt.Sprintf("%.0f", 1013-wind/2)
		}

		fmt.Fprintf(&b, "<tr><td>%s</td><td>%.1f</td><td>%.1f</td><td>%s</td><td>%s</td></tr>\n",
			ts,
			storm.startLat+float64(i)*storm.stepLat,
			storm.startLon+float64(i)*storm.stepLon,
			windCell, pressureCell)
	}

	b.WriteString("</table>\n</body></html>\n")
	return b.String()
}

// addDays advances a YYYY-MM-DD date, assuming the track never crosses a
// month boundary. Fixture start dates are chosen to keep that true.
func addDays(date string, days int) string {
	if days == 0 {
		return date
	}
	var y, m, d int
	fmt.Sscanf(date, "%d-%d-%d", &y, &m, &d)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d+days)
}

// printStats re-parses the fixtures through the real resolver and extractor
// and prints the numbers the test suites assert on.
func printStats(indexPath, outDir string, year int) error {
	indexHTML, err := os.Open(indexPath)
	if err != nil {
		return err
	}
	defer indexHTML.Close()

	pageURL := fmt.Sprintf("%s/index.php?name=YearBasin-%d", mockBaseURL, year)
	doc, err := ibtracs.ParseDocument(indexHTML, pageURL)
	if err != nil {
		return fmt.Errorf("re-parse index fixture: %w", err)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, basin := range domain.Basins {
		entries := domain.ResolveCatalog(basin, doc)
		if len(entries) == 0 {
			continue
		}
		fmt.Printf("%s: %d storms\n", basin.Code, len(entries))
		for _, e := range entries {
			if e.Locator == "" {
				fmt.Printf("  %s\n", e.DisplayName)
				continue
			}
			if err := printTrackStats(outDir, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func printTrackStats(outDir string, entry domain.CatalogEntry) error {
	f, err := os.Open(filepath.Join(outDir, detailFileName(entry.StormName)))
	if err != nil {
		return fmt.Errorf("open detail fixture for %s: %w", entry.StormName, err)
	}
	defer f.Close()

	doc, err := ibtracs.ParseDocument(f, entry.Locator)
	if err != nil {
		return fmt.Errorf("re-parse detail fixture for %s: %w", entry.StormName, err)
	}
	track, err := domain.ExtractTrack(doc)
	if err != nil {
		return fmt.Errorf("extract %s: %w", entry.StormName, err)
	}

	m := domain.DeriveMetrics(track)
	maxWind := "N/A"
	if m.MaxWind != nil {
		maxWind = fmt.Sprintf("%g kt (%d mph)", *m.MaxWind, *m.MaxWindMPH)
	}
	fmt.Printf("  %s: %s, fixes=%d, max_wind=%s, ace=%.4f, duration=%.2fd, peak=%s\n",
		entry.StormName, m.StormType, m.TrackPoints, maxWind, m.ACE, m.DurationDays,
		peakCategory(m.Categories))
	return nil
}

func peakCategory(categories []string) string {
	rank := map[string]int{"TD": 1, "TS": 2, "Cat1": 3, "Cat2": 4, "Cat3": 5, "Cat4": 6, "Cat5": 7}
	peak := "No Data"
	for _, c := range categories {
		if rank[c] > rank[peak] {
			peak = c
		}
	}
	return peak
}
