package ports

import (
	"context"
	"time"

	"SpimexTradingResults/internal/domain"
)

//go:generate mockgen -destination=mocks/ports_mock.go -package=mocks SpimexTradingResults/internal/ports QueryRepository,Notifier,DateReader

// ListingFetcher loads one page of the trading results listing.
type ListingFetcher interface {
	FetchListing(ctx context.Context, page int) (status int, body string, err error)
}

// FileDownloader loads one report file.
type FileDownloader interface {
	Download(ctx context.Context, url string) (status int, body []byte, err error)
}

// FileStore is the local cache of downloaded report files.
type FileStore interface {
	Write(name string, data []byte) error
	List() ([]string, error)
	Path(name string) string
}

// SheetLoader reads the report columns B-F and O of the first sheet as a grid.
type SheetLoader interface {
	Load(path string) ([][]string, error)
}

// ReportCrawler discovers report links newer than what storage holds.
type ReportCrawler interface {
	Discover(ctx context.Context, checker StalenessChecker) (domain.CrawlResult, error)
}

// ReportFetcher downloads crawled reports missing from the local store.
type ReportFetcher interface {
	Fetch(ctx context.Context, urls []string, existing []string) (domain.FetchResult, error)
}

// TableNormalizer turns one local report file into numbered rows.
type TableNormalizer interface {
	NormalizeFile(path string, firstID int64) (domain.Table, error)
}

// DateReader exposes the newest stored trading date.
type DateReader interface {
	MaxDate(ctx context.Context) (time.Time, bool, error)
}

// StalenessChecker decides whether a listed report date is already in storage.
type StalenessChecker interface {
	IsStale(ctx context.Context, candidate time.Time) (bool, error)
}

// Session is one transactional unit of work against the results store.
type Session interface {
	DateReader
	ExistingIDs(ctx context.Context) (map[int64]struct{}, error)
	AddAll(ctx context.Context, results []domain.TradingResult) (int64, error)
	Commit(ctx context.Context) error
	// Close releases the session, rolling back anything not committed.
	Close(ctx context.Context) error
}

// SessionFactory opens a Session per pipeline run.
type SessionFactory interface {
	Begin(ctx context.Context) (Session, error)
}

// QueryRepository serves the read-side views over stored results.
type QueryRepository interface {
	LastTradingDates(ctx context.Context, amount int) ([]time.Time, error)
	Dynamics(ctx context.Context, filter domain.DynamicsFilter) ([]domain.TradingResult, error)
	LastResults(ctx context.Context, filter domain.TradingFilter) ([]domain.TradingResult, error)
}

// Notifier streams ingestion summaries to Telegram or other channels.
type Notifier interface {
	PublishRunSummary(ctx context.Context, summary string) error
}

// CacheInvalidator drops cached read responses once new data is stored.
type CacheInvalidator interface {
	Flush()
}

// Scheduler controls when jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
