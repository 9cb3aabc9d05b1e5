package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
	"SpimexTradingResults/internal/ports"
)

// TableRecords are the enriched results of one report file.
type TableRecords struct {
	File    string
	Results []domain.TradingResult
}

// LoadResult counts rows inserted and rows that already existed.
type LoadResult struct {
	Inserted int
	Touched  int
}

// Loader persists enriched tables, skipping ids that are already stored.
type Loader struct {
	logger *slog.Logger
}

func NewLoader(log *slog.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads the stored ids once, stages every new row and commits them
// together. Rows with a stored id get today's UpdatedOn but are not written.
func (l *Loader) Load(ctx context.Context, session ports.Session, tables []TableRecords, today time.Time) (LoadResult, error) {
	existing, err := session.ExistingIDs(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("load existing ids: %w", err)
	}

	var (
		result LoadResult
		batch  []domain.TradingResult
	)
	for _, table := range tables {
		for i := range table.Results {
			row := table.Results[i]
			if _, ok := existing[row.ID]; ok {
				touched := today
				row.UpdatedOn = &touched
				table.Results[i] = row
				result.Touched++
				continue
			}
			row.UpdatedOn = nil
			row.CreatedOn = today
			existing[row.ID] = struct{}{}
			batch = append(batch, row)
		}
	}

	if len(batch) > 0 {
		n, err := session.AddAll(ctx, batch)
		if err != nil {
			return LoadResult{}, fmt.Errorf("stage %d rows: %w", len(batch), err)
		}
		result.Inserted = int(n)
	}

	if err := session.Commit(ctx); err != nil {
		return LoadResult{}, fmt.Errorf("commit: %w", err)
	}

	metrics.RowsLoadedTotal.WithLabelValues("inserted").Add(float64(result.Inserted))
	metrics.RowsLoadedTotal.WithLabelValues("touched").Add(float64(result.Touched))
	if l.logger != nil {
		l.logger.Info("tables loaded", "tables", len(tables), "inserted", result.Inserted, "touched", result.Touched)
	}
	return result, nil
}
