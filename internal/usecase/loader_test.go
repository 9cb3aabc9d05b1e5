package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SpimexTradingResults/internal/domain"
)

// memSession is an in-memory results store; staged rows become visible on Commit.
type memSession struct {
	mu      sync.Mutex
	rows    map[int64]domain.TradingResult
	staged  []domain.TradingResult
	commits int
	closed  int
	idCalls int
	addErr  error
	maxDate time.Time
	hasDate bool
}

func newMemSession() *memSession {
	return &memSession{rows: map[int64]domain.TradingResult{}}
}

func (s *memSession) MaxDate(context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasDate {
		return s.maxDate, true, nil
	}
	var newest time.Time
	for _, r := range s.rows {
		if r.Date.After(newest) {
			newest = r.Date
		}
	}
	return newest, !newest.IsZero(), nil
}

func (s *memSession) ExistingIDs(context.Context) (map[int64]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idCalls++
	ids := make(map[int64]struct{}, len(s.rows))
	for id := range s.rows {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *memSession) AddAll(_ context.Context, results []domain.TradingResult) (int64, error) {
	if s.addErr != nil {
		return 0, s.addErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, results...)
	return int64(len(results)), nil
}

func (s *memSession) Commit(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.staged {
		s.rows[r.ID] = r
	}
	s.staged = nil
	s.commits++
	return nil
}

func (s *memSession) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
	s.closed++
	return nil
}

func (s *memSession) ids() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func results(ids ...int64) []domain.TradingResult {
	out := make([]domain.TradingResult, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.TradingResult{
			ID:                id,
			ExchangeProductID: "A592ANK060F",
			Date:              time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func TestLoaderInsertsOnlyNewIDs(t *testing.T) {
	session := newMemSession()
	today := time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)
	loader := NewLoader(nil)

	first, err := loader.Load(context.Background(), session, []TableRecords{
		{File: "a.xls", Results: results(1, 2, 3)},
	}, today)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Inserted: 3}, first)

	tables := []TableRecords{
		{File: "a.xls", Results: results(1, 2, 3)},
		{File: "b.xls", Results: results(4, 5)},
	}
	second, err := loader.Load(context.Background(), session, tables, today)
	require.NoError(t, err)
	assert.Equal(t, LoadResult{Inserted: 2, Touched: 3}, second)

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, session.ids())
	assert.Equal(t, 2, session.idCalls, "existing ids are read once per load")
	assert.Equal(t, 2, session.commits)

	require.NotNil(t, tables[0].Results[0].UpdatedOn)
	assert.Equal(t, today, *tables[0].Results[0].UpdatedOn)
	assert.Nil(t, session.rows[4].UpdatedOn)
	assert.Equal(t, today, session.rows[4].CreatedOn)
}

func TestLoaderIsIdempotent(t *testing.T) {
	session := newMemSession()
	today := time.Date(2024, time.January, 11, 0, 0, 0, 0, time.UTC)
	loader := NewLoader(nil)
	tables := []TableRecords{{File: "a.xls", Results: results(1, 2)}}

	_, err := loader.Load(context.Background(), session, tables, today)
	require.NoError(t, err)
	again, err := loader.Load(context.Background(), session, []TableRecords{{File: "a.xls", Results: results(1, 2)}}, today)
	require.NoError(t, err)

	assert.Equal(t, 0, again.Inserted)
	assert.Equal(t, 2, again.Touched)
	assert.Len(t, session.rows, 2)
}

func TestLoaderStageFailureSkipsCommit(t *testing.T) {
	session := newMemSession()
	session.addErr = errors.New("copy failed")

	_, err := NewLoader(nil).Load(context.Background(), session, []TableRecords{{Results: results(1)}}, time.Now())
	require.Error(t, err)
	assert.Equal(t, 0, session.commits)
	assert.Empty(t, session.rows)
}
