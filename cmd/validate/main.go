// Command validate runs offline integrity checks over a directory of
// IBTrACS HTML fixtures: the index page must resolve to catalogs, every
// locator must have a detail page that extracts cleanly, and the derived
// metrics must be internally consistent.
//
// Usage:
//
//	go run ./cmd/validate -fixture-dir data/mock -year 2005
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/ibtracs"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
)

const fixtureBaseURL = "https://ncics.org/ibtracs"

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixtureDir := flag.String("fixture-dir", "", "directory containing HTML fixtures")
	year := flag.Int("year", 2005, "season year of the index fixture")
	flag.Parse()

	if *fixtureDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*fixtureDir, *year))
}

func run(fixtureDir string, year int) int {
	fmt.Println("=== IBTrACS Fixture Validation ===")
	fmt.Println()

	doc, err := parseFixture(
		filepath.Join(fixtureDir, fmt.Sprintf("yearbasin-%d.html", year)),
		fmt.Sprintf("%s/index.php?name=YearBasin-%d", fixtureBaseURL, year),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load index fixture: %v\n", err)
		return 1
	}

	catalogs := make(map[string][]domain.CatalogEntry, len(domain.Basins))
	for _, basin := range domain.Basins {
		catalogs[basin.Code] = domain.ResolveCatalog(basin, doc)
	}

	tracks := map[string]domain.StormTrack{}
	phases := []*phase{
		validateCatalogs(catalogs),
		validateTracks(catalogs, fixtureDir, tracks),
		validateMetrics(tracks),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func parseFixture(path, pageURL string) (domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, err
	}
	defer f.Close()
	return ibtracs.ParseDocument(f, pageURL)
}

// ── Phase 1: Catalog Resolution ──
// The index fixture must resolve at least one basin, every entry must carry
// a clean name, and locators must point back at the fixture site.

func validateCatalogs(catalogs map[string][]domain.CatalogEntry) *phase {
	p := &phase{name: "Phase 1: Catalog Resolution"}

	total := 0
	for _, basin := range domain.Basins {
		entries := catalogs[basin.Code]
		total += len(entries)

		seen := map[string]bool{}
		for _, e := range entries {
			if e.StormName == "" {
				p.errorf("%s: entry with empty storm name", basin.Code)
			}
			if strings.ContainsAny(e.StormName, "*") {
				p.errorf("%s: %q still carries annotation characters", basin.Code, e.StormName)
			}
			if e.BasinCode != basin.Code {
				p.errorf("%s: entry %q labeled %q", basin.Code, e.StormName, e.BasinCode)
			}
			if e.Locator != "" && !strings.HasPrefix(e.Locator, fixtureBaseURL) {
				p.errorf("%s: %q locator %q not under %s", basin.Code, e.StormName, e.Locator, fixtureBaseURL)
			}
			if e.Locator == "" && !strings.HasSuffix(e.DisplayName, "(No track data)") {
				p.errorf("%s: %q has no locator but display name %q lacks the no-data suffix", basin.Code, e.StormName, e.DisplayName)
			}
			key := strings.ToUpper(e.StormName)
			if seen[key] {
				p.errorf("%s: duplicate entry %q", basin.Code, e.StormName)
			}
			seen[key] = true
		}
	}
	if total == 0 {
		p.errorf("index fixture resolved zero storms across all basins")
	}
	return p
}

// ── Phase 2: Track Extraction ──
// Every locator must have a matching detail fixture that extracts to a
// non-empty, synoptic-only track.

func validateTracks(catalogs map[string][]domain.CatalogEntry, fixtureDir string, tracks map[string]domain.StormTrack) *phase {
	p := &phase{name: "Phase 2: Track Extraction"}

	for _, basin := range domain.Basins {
		for _, e := range catalogs[basin.Code] {
			if e.Locator == "" {
				continue
			}

			path := filepath.Join(fixtureDir, "v04r01-"+strings.ToLower(e.StormName)+".html")
			doc, err := parseFixture(path, e.Locator)
			if err != nil {
				p.errorf("%s: load detail fixture: %v", e.StormName, err)
				continue
			}

			track, err := domain.ExtractTrack(doc)
			if err != nil {
				p.errorf("%s: extract: %v", e.StormName, err)
				continue
			}
			tracks[e.StormName] = track

			for i, fix := range track.Fixes {
				if fix.Lat < -90 || fix.Lat > 90 {
					p.errorf("%s fix %d: latitude %g out of range", e.StormName, i, fix.Lat)
				}
				if fix.Lon < -180 || fix.Lon > 360 {
					p.errorf("%s fix %d: longitude %g out of range", e.StormName, i, fix.Lon)
				}
				if !strings.Contains(fix.Time, ":00:00") {
					p.errorf("%s fix %d: timestamp %q not on a synoptic hour", e.StormName, i, fix.Time)
				}
			}
		}
	}
	return p
}

// ── Phase 3: Metric Consistency ──
// Derived metrics must agree with the fixes they were derived from.

func validateMetrics(tracks map[string]domain.StormTrack) *phase {
	p := &phase{name: "Phase 3: Metric Consistency"}

	for name, track := range tracks {
		m := domain.DeriveMetrics(track)

		if m.TrackPoints != len(track.Fixes) {
			p.errorf("%s: track_points=%d but track has %d fixes", name, m.TrackPoints, len(track.Fixes))
		}
		if len(m.Categories) != len(track.Fixes) {
			p.errorf("%s: %d categories for %d fixes", name, len(m.Categories), len(track.Fixes))
		}
		if m.DurationHours != len(track.Fixes)*6 {
			p.errorf("%s: duration_hours=%d, expected %d", name, m.DurationHours, len(track.Fixes)*6)
		}

		var ace float64
		distPoints := 0
		for _, fix := range track.Fixes {
			if fix.Wind == nil {
				continue
			}
			if m.MaxWind == nil || *fix.Wind > *m.MaxWind {
				p.errorf("%s: fix wind %g exceeds max_wind", name, *fix.Wind)
			}
			if *fix.Wind >= 34 {
				ace += *fix.Wind * *fix.Wind / 10000
			}
		}
		if math.Abs(ace-m.ACE) > 1e-9 {
			p.errorf("%s: ace=%g, recomputed %g", name, m.ACE, ace)
		}
		for _, d := range m.Distribution {
			distPoints += d.Points
			if d.Hours != d.Points*6 {
				p.errorf("%s: band %s has %d points but %d hours", name, d.Category, d.Points, d.Hours)
			}
			if d.Category == "No Data" {
				p.errorf("%s: distribution includes the No Data band", name)
			}
		}
		known := 0
		for _, c := range m.Categories {
			if c != "No Data" {
				known++
			}
		}
		if distPoints != known {
			p.errorf("%s: distribution covers %d fixes, expected %d", name, distPoints, known)
		}
	}
	return p
}
