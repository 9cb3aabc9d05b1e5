package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
	"SpimexTradingResults/internal/normalize"
	"SpimexTradingResults/internal/ports"
)

// Run outcomes reported by RunIngestionIfStale.
const (
	OutcomeUpToDate = "up_to_date"
	OutcomeNoLinks  = "no_links"
	OutcomeIngested = "ingested"
	outcomeFailed   = "failed"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Sessions   ports.SessionFactory
	Crawler    ports.ReportCrawler
	Fetcher    ports.ReportFetcher
	Store      ports.FileStore
	Normalizer ports.TableNormalizer
	Loader     *Loader
	Notifier   ports.Notifier
	Cache      ports.CacheInvalidator
	Logger     *slog.Logger
	Location   *time.Location
	Clock      func() time.Time
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	RunID      string
	Outcome    string
	Pages      int
	Links      int
	Downloaded int
	Skipped    int
	Files      int
	Rows       int
	Inserted   int
	Touched    int
	Duration   time.Duration
}

// Pipeline implements the trading results ingestion workflow.
type Pipeline struct {
	sessions   ports.SessionFactory
	crawler    ports.ReportCrawler
	fetcher    ports.ReportFetcher
	store      ports.FileStore
	normalizer ports.TableNormalizer
	loader     *Loader
	notifier   ports.Notifier
	cache      ports.CacheInvalidator
	logger     *slog.Logger
	location   *time.Location
	clock      func() time.Time

	mu sync.Mutex
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		sessions:   deps.Sessions,
		crawler:    deps.Crawler,
		fetcher:    deps.Fetcher,
		store:      deps.Store,
		normalizer: deps.Normalizer,
		loader:     deps.Loader,
		notifier:   deps.Notifier,
		cache:      deps.Cache,
		logger:     deps.Logger,
		location:   deps.Location,
		clock:      deps.Clock,
	}
	if p.loader == nil {
		p.loader = NewLoader(deps.Logger)
	}
	if p.location == nil {
		p.location = time.UTC
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// RunIngestionIfStale crawls the listing and, when it holds reports newer than
// storage, downloads, normalizes and loads them within one session.
// Concurrent calls are serialized.
func (p *Pipeline) RunIngestionIfStale(ctx context.Context) (report RunReport, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := p.clock()
	report.RunID = uuid.NewString()
	log := p.logger.With("run_id", report.RunID)

	defer func() {
		report.Duration = p.clock().Sub(started)
		metrics.RunDurationSeconds.Observe(report.Duration.Seconds())
		if err != nil {
			report.Outcome = outcomeFailed
			log.Error("ingestion failed", "err", err)
		}
		metrics.RunsTotal.WithLabelValues(report.Outcome).Inc()
	}()

	session, err := p.sessions.Begin(ctx)
	if err != nil {
		return report, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cErr := session.Close(ctx); cErr != nil {
			log.Warn("close session", "err", cErr)
		}
	}()

	crawl, err := p.crawler.Discover(ctx, NewStalenessDetector(session))
	if err != nil {
		return report, fmt.Errorf("crawl listing: %w", err)
	}
	report.Pages = crawl.Pages
	report.Links = len(crawl.URLs)

	if !crawl.ShouldIngest() {
		if crawl.Outcome == domain.CrawlNoLinks {
			report.Outcome = OutcomeNoLinks
			log.Warn("listing has no report links", "pages", crawl.Pages)
		} else {
			report.Outcome = OutcomeUpToDate
			log.Info("storage is up to date", "newest_listed", crawl.NewestDate.Format(time.DateOnly))
		}
		return report, nil
	}

	existing, err := p.store.List()
	if err != nil {
		return report, fmt.Errorf("list local reports: %w", err)
	}

	fetched, err := p.fetcher.Fetch(ctx, crawl.URLs, existing)
	if err != nil {
		return report, fmt.Errorf("fetch reports: %w", err)
	}
	report.Downloaded = fetched.Downloaded
	report.Skipped = fetched.Skipped

	files, err := p.store.List()
	if err != nil {
		return report, fmt.Errorf("list local reports: %w", err)
	}

	today := p.today()
	tables := make([]TableRecords, 0, len(files))
	nextID := int64(1)
	for _, name := range files {
		table, err := p.normalizer.NormalizeFile(p.store.Path(name), nextID)
		if err != nil {
			return report, err
		}
		results, err := normalize.Enrich(table.Rows, table.File, today)
		if err != nil {
			return report, err
		}
		nextID += int64(len(table.Rows))
		report.Rows += len(results)
		tables = append(tables, TableRecords{File: name, Results: results})
	}
	report.Files = len(tables)

	loaded, err := p.loader.Load(ctx, session, tables, today)
	if err != nil {
		return report, fmt.Errorf("load results: %w", err)
	}
	report.Inserted = loaded.Inserted
	report.Touched = loaded.Touched
	report.Outcome = OutcomeIngested

	log.Info("ingestion finished",
		"pages", report.Pages,
		"downloaded", report.Downloaded,
		"files", report.Files,
		"inserted", report.Inserted,
		"touched", report.Touched)

	if report.Inserted > 0 {
		if p.cache != nil {
			p.cache.Flush()
		}
		p.notify(ctx, log, report)
	}
	return report, nil
}

// today is the local calendar date as a UTC midnight, matching DATE columns.
func (p *Pipeline) today() time.Time {
	y, m, d := p.clock().In(p.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p *Pipeline) notify(ctx context.Context, log *slog.Logger, report RunReport) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.PublishRunSummary(ctx, buildRunSummary(report)); err != nil {
		log.Warn("publish run summary", "err", err)
	}
}

func buildRunSummary(report RunReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*SPIMEX ingestion* `%s`\n", report.RunID)
	fmt.Fprintf(&b, "Reports downloaded: %d\n", report.Downloaded)
	fmt.Fprintf(&b, "Files processed: %d\n", report.Files)
	fmt.Fprintf(&b, "Rows inserted: %d\n", report.Inserted)
	if report.Skipped > 0 {
		fmt.Fprintf(&b, "Downloads skipped: %d\n", report.Skipped)
	}
	return b.String()
}
