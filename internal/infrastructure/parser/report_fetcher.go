package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
	"SpimexTradingResults/internal/ports"
)

// downloadOutcome is the fate of a single report download.
type downloadOutcome int

const (
	downloadFailed downloadOutcome = iota
	downloadWritten
	downloadSkipped
)

func (o downloadOutcome) String() string {
	switch o {
	case downloadWritten:
		return "written"
	case downloadSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ReportFetcher downloads crawled reports that are not yet in the local store.
type ReportFetcher struct {
	downloader ports.FileDownloader
	store      ports.FileStore
	logger     *slog.Logger
}

var _ ports.ReportFetcher = (*ReportFetcher)(nil)

// NewReportFetcher wires the downloader with the local file store.
func NewReportFetcher(downloader ports.FileDownloader, store ports.FileStore, log *slog.Logger) *ReportFetcher {
	return &ReportFetcher{downloader: downloader, store: store, logger: log}
}

// Fetch downloads every url whose local name is absent from existing.
// Non-200 responses are skipped; a transport failure aborts the whole pass.
func (f *ReportFetcher) Fetch(ctx context.Context, urls []string, existing []string) (domain.FetchResult, error) {
	present := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		present[name] = struct{}{}
	}

	var (
		result    domain.FetchResult
		mu        sync.Mutex
		queued    = map[string]struct{}{}
		malformed int
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, u := range urls {
		file, err := domain.NewReportFile(u)
		if err != nil {
			f.warn("skip malformed report url", "url", u, "err", err)
			malformed++
			continue
		}
		if _, ok := present[file.LocalName]; ok {
			result.AlreadyPresent++
			continue
		}
		if _, ok := queued[file.LocalName]; ok {
			continue
		}
		queued[file.LocalName] = struct{}{}

		g.Go(func() error {
			outcome, err := f.fetchOne(gctx, file)
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case downloadWritten:
				result.Downloaded++
			case downloadSkipped:
				result.Skipped++
			}
			return err
		})
	}

	err := g.Wait()
	result.Skipped += malformed
	if err != nil {
		return result, err
	}

	if result.Downloaded == 0 {
		f.info("all reports already downloaded", "present", result.AlreadyPresent)
	} else {
		f.info("reports downloaded", "downloaded", result.Downloaded, "skipped", result.Skipped)
	}
	return result, nil
}

func (f *ReportFetcher) fetchOne(ctx context.Context, file domain.ReportFile) (outcome downloadOutcome, err error) {
	defer func() {
		metrics.ReportDownloadsTotal.WithLabelValues(outcome.String()).Inc()
	}()

	status, body, err := f.downloader.Download(ctx, file.RemoteURL)
	if err != nil {
		return downloadFailed, fmt.Errorf("download %s: %w", file.RemoteURL, err)
	}
	if status != http.StatusOK {
		f.warn("report not downloaded", "url", file.RemoteURL, "status", status)
		return downloadSkipped, nil
	}

	if err := f.store.Write(file.LocalName, body); err != nil {
		return downloadFailed, fmt.Errorf("store %s: %w", file.LocalName, err)
	}
	return downloadWritten, nil
}

func (f *ReportFetcher) info(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Info(msg, args...)
	}
}

func (f *ReportFetcher) warn(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
