package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
	"SpimexTradingResults/internal/ports"
)

// DefaultHrefPattern matches oil products report links published from 2023 on.
const DefaultHrefPattern = `/upload/reports/oil_xls/oil_xls_202[3-9]\d*`

// ListingCrawler walks the paginated results listing and collects report links.
type ListingCrawler struct {
	fetcher ports.ListingFetcher
	base    *url.URL
	pattern *regexp.Regexp
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ ports.ReportCrawler = (*ListingCrawler)(nil)

// NewListingCrawler wires the listing fetcher; hrefs are resolved against baseURL.
// A nil limiter disables pacing.
func NewListingCrawler(fetcher ports.ListingFetcher, baseURL, hrefPattern string, limiter *rate.Limiter, log *slog.Logger) (*ListingCrawler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %s: %w", baseURL, err)
	}
	if hrefPattern == "" {
		hrefPattern = DefaultHrefPattern
	}
	pattern, err := regexp.Compile(hrefPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid href pattern: %w", err)
	}
	return &ListingCrawler{
		fetcher: fetcher,
		base:    base,
		pattern: pattern,
		limiter: limiter,
		logger:  log,
	}, nil
}

// Discover paginates from page 1 until the listing runs dry, repeats itself,
// or reaches a date that storage already holds.
func (c *ListingCrawler) Discover(ctx context.Context, checker ports.StalenessChecker) (domain.CrawlResult, error) {
	result := domain.CrawlResult{Outcome: domain.CrawlNewData}
	seen := map[string]struct{}{}

	for page := 1; ; page++ {
		links, err := c.fetchLinks(ctx, page)
		if err != nil {
			return domain.CrawlResult{}, err
		}
		result.Pages = page

		if len(links) == 0 {
			c.debug("page has no report links", "page", page)
			if page == 1 {
				result.Outcome = domain.CrawlNoLinks
			}
			break
		}

		newest, err := domain.DateFromStamp(links[0])
		if err != nil {
			return domain.CrawlResult{}, fmt.Errorf("page %d: %w", page, err)
		}
		if page == 1 {
			result.NewestDate = newest
		}

		stale, err := checker.IsStale(ctx, newest)
		if err != nil {
			return domain.CrawlResult{}, fmt.Errorf("check staleness: %w", err)
		}
		if stale {
			c.debug("listing reached stored date", "page", page, "date", newest.Format("2006-01-02"))
			if page == 1 {
				result.Outcome = domain.CrawlUpToDate
			}
			break
		}

		boundary := false
		for _, link := range links {
			if _, ok := seen[link]; ok {
				boundary = true
				continue
			}
			seen[link] = struct{}{}
			result.URLs = append(result.URLs, link)
		}

		c.debug("page crawled", "page", page, "links", len(links), "total", len(result.URLs))
		if boundary {
			break
		}
	}

	if result.Outcome == domain.CrawlNewData && len(result.URLs) == 0 {
		result.Outcome = domain.CrawlUpToDate
	}

	c.debug("crawl finished", "outcome", result.Outcome, "pages", result.Pages, "links", len(result.URLs))
	return result, nil
}

// fetchLinks returns the absolute report URLs of one page, in page order, without repeats.
func (c *ListingCrawler) fetchLinks(ctx context.Context, page int) ([]string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	status, body, err := c.fetcher.FetchListing(ctx, page)
	if err != nil {
		metrics.ListingPagesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch listing page %d: %w", page, err)
	}
	if status != http.StatusOK {
		metrics.ListingPagesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("listing page %d returned status %d", page, status)
	}
	metrics.ListingPagesTotal.WithLabelValues("ok").Inc()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing page %d: %w", page, err)
	}

	return extractReportLinks(doc, c.pattern, c.base), nil
}

func extractReportLinks(doc *goquery.Document, pattern *regexp.Regexp, base *url.URL) []string {
	var links []string
	onPage := map[string]struct{}{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		match := pattern.FindString(href)
		if match == "" {
			return
		}
		link := resolve(base, match)
		if _, dup := onPage[link]; dup {
			return
		}
		onPage[link] = struct{}{}
		links = append(links, link)
	})

	return links
}

func resolve(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (c *ListingCrawler) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
