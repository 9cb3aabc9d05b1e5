package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"SpimexTradingResults/internal/config"
	"SpimexTradingResults/internal/infrastructure/filestore"
	"SpimexTradingResults/internal/infrastructure/httpapi"
	"SpimexTradingResults/internal/infrastructure/parser"
	"SpimexTradingResults/internal/infrastructure/scheduler"
	"SpimexTradingResults/internal/infrastructure/sheet"
	"SpimexTradingResults/internal/infrastructure/storage"
	"SpimexTradingResults/internal/infrastructure/telegram"
	"SpimexTradingResults/internal/logging"
	"SpimexTradingResults/internal/normalize"
	"SpimexTradingResults/internal/ports"
	"SpimexTradingResults/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	pool      *pgxpool.Pool
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *http.Server
}

// New connects storage and builds every component of the ingester and the query API.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.OpenDB(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	pool, err := storage.NewPool(ctx, cfg.Database.DSN, int32(cfg.Database.MaxConns))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &Application{cfg: cfg, logger: baseLogger, db: db, pool: pool}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Application) wire() error {
	cfg, log := a.cfg, a.logger

	store, err := filestore.NewLocal(cfg.Storage.TablesDir)
	if err != nil {
		return err
	}

	source := parser.NewHTTPSource(&http.Client{Timeout: cfg.Source.RequestTimeout}, cfg.Source.ListingURL, cfg.Source.UserAgent)

	var limiter *rate.Limiter
	if cfg.Source.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Source.RequestsPerSecond), 1)
	}
	crawler, err := parser.NewListingCrawler(source, cfg.Source.BaseURL, cfg.Source.HrefPattern, limiter, logging.Component(log, "crawler"))
	if err != nil {
		return err
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID); tg.Enabled() {
		notifier = tg
	}

	readCache := cache.New(cfg.HTTP.CacheTTL, 2*cfg.HTTP.CacheTTL)

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Sessions:   storage.NewPgSessionFactory(a.pool),
		Crawler:    crawler,
		Fetcher:    parser.NewReportFetcher(source, store, logging.Component(log, "fetcher")),
		Store:      store,
		Normalizer: normalize.NewNormalizer(sheet.NewXLSLoader(), logging.Component(log, "normalizer")),
		Loader:     usecase.NewLoader(logging.Component(log, "loader")),
		Notifier:   notifier,
		Cache:      readCache,
		Logger:     logging.Component(log, "pipeline"),
		Location:   cfg.Scheduler.Location(),
	})

	ingest, err := scheduler.NewDailyScheduler(cfg.Scheduler.IngestAt, cfg.Scheduler.Location())
	if err != nil {
		return err
	}
	flush, err := scheduler.NewDailyScheduler(cfg.Scheduler.CacheClearAt, cfg.Scheduler.Location())
	if err != nil {
		return err
	}
	a.scheduler = usecase.NewScheduler(ingest, flush, a.pipeline, readCache, logging.Component(log, "scheduler"))

	gin.SetMode(gin.ReleaseMode)
	query := usecase.NewQueryService(storage.NewPostgresRepository(a.db))
	handler := httpapi.NewHandler(query, readCache, logging.Component(log, "api"))
	a.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(handler, logging.Component(log, "http")),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// RunOnce migrates the schema and performs a single ingestion.
func (a *Application) RunOnce(ctx context.Context) error {
	if err := storage.Migrate(ctx, a.db); err != nil {
		return err
	}
	report, err := a.pipeline.RunIngestionIfStale(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("ingestion run", "run_id", report.RunID, "outcome", report.Outcome, "inserted", report.Inserted)
	return nil
}

// Run ingests once, then serves the query API and the daily jobs until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := storage.Migrate(ctx, a.db); err != nil {
		return err
	}

	if _, err := a.pipeline.RunIngestionIfStale(ctx); err != nil {
		a.logger.Warn("startup ingestion failed", "err", err)
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown", "err", err)
	}
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("scheduler stop", "err", err)
	}
	return runErr
}

// Close releases database handles.
func (a *Application) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
