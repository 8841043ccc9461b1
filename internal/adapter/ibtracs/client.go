// Package ibtracs fetches IBTrACS browser pages and reduces their markup to
// the flat table contract the domain layer works on.
package ibtracs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/observability"
)

// Client fetches pages from the IBTrACS browser site.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an IBTrACS page client. baseURL carries no trailing slash.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// YearPageURL returns the year-index page listing every basin's storms for
// one season.
func (c *Client) YearPageURL(year int) string {
	return fmt.Sprintf("%s/index.php?name=YearBasin-%d", c.baseURL, year)
}

// FetchDocument fetches one page and returns its tables. Links inside cells
// come back with absolute hrefs, resolved against the page URL.
func (c *Client) FetchDocument(ctx context.Context, pageURL string) (domain.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.Document{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Document{}, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.FetchDuration.WithLabelValues(pageKind(pageURL)).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return domain.Document{}, fmt.Errorf("ibtracs returned status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := ParseDocument(resp.Body, pageURL)
	if err != nil {
		return domain.Document{}, err
	}
	c.logger.Debug("fetched page", "url", pageURL, "tables", len(doc.Tables))
	return doc, nil
}

// ParseDocument reduces one page of IBTrACS markup to the flat table
// contract. pageURL is the base for resolving relative hrefs.
func ParseDocument(r io.Reader, pageURL string) (domain.Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse page: %w", err)
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse page url: %w", err)
	}
	return reduceDocument(gq, base), nil
}

// pageKind labels a URL for the fetch-duration metric.
func pageKind(pageURL string) string {
	if strings.Contains(pageURL, "YearBasin-") {
		return "index"
	}
	return "detail"
}

// reduceDocument flattens every table on the page. Header and data rows are
// not distinguished here; the domain layer decides which row is a header.
func reduceDocument(gq *goquery.Document, base *url.URL) domain.Document {
	var doc domain.Document
	gq.Find("table").Each(func(_ int, table *goquery.Selection) {
		var t domain.Table
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var row domain.Row
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				row.Cells = append(row.Cells, reduceCell(cell, base))
			})
			if len(row.Cells) > 0 {
				t.Rows = append(t.Rows, row)
			}
		})
		if len(t.Rows) > 0 {
			doc.Tables = append(doc.Tables, t)
		}
	})
	return doc
}

func reduceCell(cell *goquery.Selection, base *url.URL) domain.Cell {
	c := domain.Cell{Text: cellText(cell)}
	cell.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		c.Links = append(c.Links, domain.Link{
			Text: strings.TrimSpace(a.Text()),
			Href: absoluteHref(base, href),
		})
	})
	return c
}

// cellText renders a cell's text with <br> runs as newlines, so multi-storm
// cells keep one storm per line the way a browser shows them.
func cellText(cell *goquery.Selection) string {
	html := cell.Clone()
	html.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})
	return strings.TrimSpace(html.Text())
}

func absoluteHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
