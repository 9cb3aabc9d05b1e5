package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/ports"
)

// NewPool connects a pgx pool; maxConns <= 0 keeps the pgx default.
func NewPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pool: %w", err)
	}
	return pool, nil
}

// sessionIdleTimeout bounds how long an ingestion transaction may sit idle
// while the run crawls and downloads; Postgres terminates it past that.
const sessionIdleTimeout = 10 * time.Minute

func idleTimeoutStatement(d time.Duration) string {
	return fmt.Sprintf("SET LOCAL idle_in_transaction_session_timeout = %d", d.Milliseconds())
}

// PgSessionFactory opens one transaction per ingestion run.
type PgSessionFactory struct {
	pool *pgxpool.Pool
}

var _ ports.SessionFactory = (*PgSessionFactory)(nil)

func NewPgSessionFactory(pool *pgxpool.Pool) *PgSessionFactory {
	return &PgSessionFactory{pool: pool}
}

func (f *PgSessionFactory) Begin(ctx context.Context) (ports.Session, error) {
	tx, err := f.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.Exec(ctx, idleTimeoutStatement(sessionIdleTimeout)); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("set idle timeout: %w", err)
	}
	return &PgSession{tx: tx}, nil
}

// PgSession wraps a pgx transaction. Close rolls back whatever was not committed.
type PgSession struct {
	tx        pgx.Tx
	committed bool
}

var _ ports.Session = (*PgSession)(nil)

func (s *PgSession) MaxDate(ctx context.Context) (time.Time, bool, error) {
	query, args, err := maxDateQuery().ToSql()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build max date query: %w", err)
	}

	var newest *time.Time
	if err := s.tx.QueryRow(ctx, query, args...).Scan(&newest); err != nil {
		return time.Time{}, false, fmt.Errorf("query max date: %w", err)
	}
	if newest == nil {
		return time.Time{}, false, nil
	}
	return *newest, true, nil
}

func (s *PgSession) ExistingIDs(ctx context.Context) (map[int64]struct{}, error) {
	query, args, err := existingIDsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ids query: %w", err)
	}

	rows, err := s.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan ids: %w", err)
	}

	result := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		result[id] = struct{}{}
	}
	return result, nil
}

// AddAll stages results with COPY inside the session transaction.
func (s *PgSession) AddAll(ctx context.Context, results []domain.TradingResult) (int64, error) {
	if len(results) == 0 {
		return 0, nil
	}

	rows := make([][]interface{}, len(results))
	for i, r := range results {
		rows[i] = resultRow(r)
	}

	count, err := s.tx.CopyFrom(
		ctx,
		pgx.Identifier{resultsTable},
		resultColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copy results: %w", err)
	}
	return count, nil
}

func (s *PgSession) Commit(ctx context.Context) error {
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	s.committed = true
	return nil
}

func (s *PgSession) Close(ctx context.Context) error {
	if s.committed {
		return nil
	}
	if err := s.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback tx: %w", err)
	}
	return nil
}
