package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"SpimexTradingResults/internal/ports"
)

// Scheduler wires the daily drivers with the ingestion pipeline and the read cache.
type Scheduler struct {
	ingest   ports.Scheduler
	flush    ports.Scheduler
	pipeline *Pipeline
	cache    ports.CacheInvalidator
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring jobs; nil drivers are skipped.
func NewScheduler(ingest, flush ports.Scheduler, pipeline *Pipeline, cache ports.CacheInvalidator, log *slog.Logger) *Scheduler {
	return &Scheduler{ingest: ingest, flush: flush, pipeline: pipeline, cache: cache, logger: log}
}

// Start registers ingestion and cache flushing with their drivers.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.ingest != nil && s.pipeline != nil {
		job := func(trigger time.Time) {
			if _, err := s.pipeline.RunIngestionIfStale(ctx); err != nil {
				s.warn("scheduled ingestion failed", "trigger", trigger, "err", err)
			}
		}
		if err := s.ingest.Start(ctx, job); err != nil {
			return err
		}
	}

	if s.flush != nil && s.cache != nil {
		job := func(trigger time.Time) {
			s.cache.Flush()
			s.info("read cache flushed", "trigger", trigger)
		}
		if err := s.flush.Start(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// Stop gracefully tears down the underlying schedulers.
func (s *Scheduler) Stop(ctx context.Context) error {
	var errs []error
	for _, d := range []ports.Scheduler{s.ingest, s.flush} {
		if d == nil {
			continue
		}
		if err := d.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) info(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Scheduler) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
