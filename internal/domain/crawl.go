package domain

import "time"

// CrawlOutcome tells the orchestrator what the listing crawl found.
type CrawlOutcome string

const (
	// CrawlNewData means the listing has reports newer than storage.
	CrawlNewData CrawlOutcome = "new_data"
	// CrawlUpToDate means the newest listed report is already stored.
	CrawlUpToDate CrawlOutcome = "up_to_date"
	// CrawlNoLinks means the first listing page had no report links at all,
	// either nothing is published or the page layout changed.
	CrawlNoLinks CrawlOutcome = "no_links"
)

// CrawlResult is the state accumulated by one listing crawl.
type CrawlResult struct {
	Outcome    CrawlOutcome
	URLs       []string
	NewestDate time.Time
	Pages      int
}

// ShouldIngest reports whether the pipeline has to continue past the crawl.
func (r CrawlResult) ShouldIngest() bool {
	return r.Outcome == CrawlNewData
}

// FetchResult counts what one fetch pass did with the crawled links.
type FetchResult struct {
	Downloaded     int
	Skipped        int
	AlreadyPresent int
}
