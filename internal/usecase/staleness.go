package usecase

import (
	"context"
	"fmt"
	"time"

	"SpimexTradingResults/internal/ports"
)

// StalenessDetector compares a listed report date with the newest stored date.
type StalenessDetector struct {
	dates ports.DateReader
}

var _ ports.StalenessChecker = (*StalenessDetector)(nil)

func NewStalenessDetector(dates ports.DateReader) *StalenessDetector {
	return &StalenessDetector{dates: dates}
}

// IsStale is true when candidate equals the newest stored trading date.
// An empty store is never stale.
func (d *StalenessDetector) IsStale(ctx context.Context, candidate time.Time) (bool, error) {
	stored, ok, err := d.dates.MaxDate(ctx)
	if err != nil {
		return false, fmt.Errorf("read newest stored date: %w", err)
	}
	if !ok {
		return false, nil
	}
	return sameDay(stored, candidate), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
