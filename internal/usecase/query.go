package usecase

import (
	"context"
	"time"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/ports"
)

// QueryService validates read requests before they reach the repository.
type QueryService struct {
	repo ports.QueryRepository
}

func NewQueryService(repo ports.QueryRepository) *QueryService {
	return &QueryService{repo: repo}
}

// LastTradingDates returns up to amount most recent distinct trading dates, newest first.
func (s *QueryService) LastTradingDates(ctx context.Context, amount int) ([]time.Time, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	return s.repo.LastTradingDates(ctx, amount)
}

// Dynamics returns results traded between filter.Start and filter.End inclusive.
func (s *QueryService) Dynamics(ctx context.Context, filter domain.DynamicsFilter) ([]domain.TradingResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Dynamics(ctx, filter)
}

// LastResults returns the results of the newest stored trading date.
func (s *QueryService) LastResults(ctx context.Context, filter domain.TradingFilter) ([]domain.TradingResult, error) {
	return s.repo.LastResults(ctx, filter)
}
