package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SpimexTradingResults/internal/ports"
)

// DailyScheduler fires a job once a day at a fixed wall-clock time.
type DailyScheduler struct {
	hour, minute int
	loc          *time.Location
	now          func() time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler parses at as HH:MM in loc; a nil loc means UTC.
func NewDailyScheduler(at string, loc *time.Location) (*DailyScheduler, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("invalid daily time %q: %w", at, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DailyScheduler{hour: t.Hour(), minute: t.Minute(), loc: loc, now: time.Now}, nil
}

// Next returns the first run time strictly after from.
func (d *DailyScheduler) Next(from time.Time) time.Time {
	local := from.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, d.hour, d.minute, 0, 0, d.loc)
	}
	return next
}

// Start runs job at every occurrence of the configured time until ctx ends or Stop is called.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return nil
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop, d.done = stop, done

	go func() {
		defer close(done)
		for {
			now := d.now()
			timer := time.NewTimer(d.Next(now).Sub(now))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the timer goroutine and waits for a running job to return.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.stop, d.done = nil, nil
	d.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
