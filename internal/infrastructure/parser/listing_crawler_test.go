package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"SpimexTradingResults/internal/domain"
)

func TestBuildPageURL(t *testing.T) {
	t.Parallel()

	base := "https://spimex.com/markets/oil_products/trades/results/"
	u, err := buildPageURL(base, 3)
	if err != nil {
		t.Fatalf("buildPageURL returned error: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	if parsed.Host != "spimex.com" || parsed.Path != "/markets/oil_products/trades/results/" {
		t.Fatalf("unexpected url: %s", u)
	}
	if got := parsed.Query().Get("page"); got != "page-3" {
		t.Fatalf("expected page=page-3, got %s", got)
	}
}

// fakeListing serves canned pages keyed by page number.
type fakeListing struct {
	pages  map[int]string
	status int
	calls  []int
}

func (f *fakeListing) FetchListing(_ context.Context, page int) (int, string, error) {
	f.calls = append(f.calls, page)
	if f.status != 0 {
		return f.status, "", nil
	}
	return http.StatusOK, f.pages[page], nil
}

// staleAt reports dates at or before the stored one as stale.
type staleAt struct {
	stored time.Time
}

func (s staleAt) IsStale(_ context.Context, candidate time.Time) (bool, error) {
	return !s.stored.IsZero() && !candidate.After(s.stored), nil
}

func reportLink(stamp string) string {
	return fmt.Sprintf(`<a class="accordeon-inner__item-title link xls" href="/upload/reports/oil_xls/oil_xls_%s.xls?r=4721">report</a>`, stamp)
}

func page(stamps ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="accordeon-inner">`)
	b.WriteString(`<a href="/markets/oil_products/trades/results/">results</a>`)
	b.WriteString(`<a href="/upload/reports/oil_xls/oil_xls_20221230162000.xls">too old</a>`)
	for _, s := range stamps {
		b.WriteString(reportLink(s))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func newTestCrawler(t *testing.T, listing *fakeListing) *ListingCrawler {
	t.Helper()
	c, err := NewListingCrawler(listing, "https://spimex.com", "", nil, nil)
	if err != nil {
		t.Fatalf("NewListingCrawler: %v", err)
	}
	return c
}

func TestExtractReportLinks(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{pages: map[int]string{
		1: page("20240105162000", "20240105162000", "20240104162000"),
	}}
	c := newTestCrawler(t, listing)

	links, err := c.fetchLinks(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetchLinks: %v", err)
	}
	want := []string{
		"https://spimex.com/upload/reports/oil_xls/oil_xls_20240105162000",
		"https://spimex.com/upload/reports/oil_xls/oil_xls_20240104162000",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %v", len(want), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Fatalf("link %d: expected %s, got %s", i, want[i], links[i])
		}
	}
}

func TestDiscoverStopsAtStoredDate(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{pages: map[int]string{
		1: page("20240110162000", "20240109162000"),
		2: page("20240108162000", "20240105162000"),
		3: page("20240104162000", "20240103162000"),
	}}
	c := newTestCrawler(t, listing)

	stored := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC)
	res, err := c.Discover(context.Background(), staleAt{stored: stored})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	if res.Outcome != domain.CrawlNewData {
		t.Fatalf("expected new_data, got %s", res.Outcome)
	}
	if len(res.URLs) != 4 {
		t.Fatalf("expected 4 urls from pages 1-2, got %v", res.URLs)
	}
	if res.Pages != 3 {
		t.Fatalf("expected crawl to stop on page 3, got %d", res.Pages)
	}
	if res.NewestDate.Format("2006-01-02") != "2024-01-10" {
		t.Fatalf("unexpected newest date: %v", res.NewestDate)
	}
}

func TestDiscoverUpToDate(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{pages: map[int]string{
		1: page("20240110162000", "20240109162000"),
	}}
	c := newTestCrawler(t, listing)

	stored := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	res, err := c.Discover(context.Background(), staleAt{stored: stored})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if res.Outcome != domain.CrawlUpToDate || res.ShouldIngest() {
		t.Fatalf("expected up_to_date, got %s", res.Outcome)
	}
	if len(res.URLs) != 0 {
		t.Fatalf("expected no urls, got %v", res.URLs)
	}
	if len(listing.calls) != 1 {
		t.Fatalf("expected a single page request, got %v", listing.calls)
	}
}

func TestDiscoverStopsOnRepeatedPage(t *testing.T) {
	t.Parallel()

	// Past the last page the site keeps serving the last one.
	last := page("20240109162000", "20240108162000")
	listing := &fakeListing{pages: map[int]string{
		1: page("20240111162000", "20240110162000"),
		2: last,
		3: last,
	}}
	c := newTestCrawler(t, listing)

	res, err := c.Discover(context.Background(), staleAt{})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(res.URLs) != 4 {
		t.Fatalf("expected 4 unique urls, got %v", res.URLs)
	}
	if res.Pages != 3 {
		t.Fatalf("expected stop on page 3, got %d", res.Pages)
	}
}

func TestDiscoverNoLinks(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{pages: map[int]string{1: page()}}
	c := newTestCrawler(t, listing)

	res, err := c.Discover(context.Background(), staleAt{})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if res.Outcome != domain.CrawlNoLinks {
		t.Fatalf("expected no_links, got %s", res.Outcome)
	}
}

func TestDiscoverEmptyPageEndsCrawl(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{pages: map[int]string{
		1: page("20240111162000"),
		2: page(),
	}}
	c := newTestCrawler(t, listing)

	res, err := c.Discover(context.Background(), staleAt{})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if res.Outcome != domain.CrawlNewData || len(res.URLs) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDiscoverListingError(t *testing.T) {
	t.Parallel()

	listing := &fakeListing{status: http.StatusBadGateway}
	c := newTestCrawler(t, listing)

	if _, err := c.Discover(context.Background(), staleAt{}); err == nil {
		t.Fatalf("expected error on non-200 listing")
	}
}

func TestHTTPSourceAgainstServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Query().Get("page") {
		case "page-1":
			_, _ = w.Write([]byte(page("20240110162000")))
		default:
			_, _ = w.Write([]byte(page()))
		}
	}))
	defer server.Close()

	src := NewHTTPSource(server.Client(), server.URL+"/results/", "test-agent")
	c, err := NewListingCrawler(src, server.URL, "", nil, nil)
	if err != nil {
		t.Fatalf("NewListingCrawler: %v", err)
	}

	res, err := c.Discover(context.Background(), staleAt{})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(res.URLs) != 1 || !strings.HasPrefix(res.URLs[0], server.URL+"/upload/reports/oil_xls/") {
		t.Fatalf("unexpected urls: %v", res.URLs)
	}
}
