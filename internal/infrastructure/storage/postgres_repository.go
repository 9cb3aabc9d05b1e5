package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/ports"
)

// PostgresRepository serves the read-side queries over stored results.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.QueryRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LastTradingDates returns distinct trading dates, newest first.
func (r *PostgresRepository) LastTradingDates(ctx context.Context, amount int) ([]time.Time, error) {
	query, args, err := lastDatesQuery(amount).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build last dates query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query last dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return dates, nil
}

func (r *PostgresRepository) Dynamics(ctx context.Context, filter domain.DynamicsFilter) ([]domain.TradingResult, error) {
	return r.selectResults(ctx, dynamicsQuery(filter))
}

func (r *PostgresRepository) LastResults(ctx context.Context, filter domain.TradingFilter) ([]domain.TradingResult, error) {
	return r.selectResults(ctx, lastResultsQuery(filter))
}

func (r *PostgresRepository) selectResults(ctx context.Context, q sq.SelectBuilder) ([]domain.TradingResult, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build results query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.TradingResult, 0)
	for rows.Next() {
		var (
			res     domain.TradingResult
			updated sql.NullTime
		)
		if err := rows.Scan(
			&res.ID,
			&res.ExchangeProductID,
			&res.ExchangeProductName,
			&res.OilID,
			&res.DeliveryBasisID,
			&res.DeliveryBasisName,
			&res.DeliveryTypeID,
			&res.Volume,
			&res.Total,
			&res.Count,
			&res.Date,
			&res.CreatedOn,
			&updated,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if updated.Valid {
			t := updated.Time
			res.UpdatedOn = &t
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return results, nil
}
