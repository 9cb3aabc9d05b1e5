package normalize

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"SpimexTradingResults/internal/domain"
)

// Enrich stamps rows with the trading date encoded in sourceFileName and with
// today as creation date, then derives the product sub-codes.
func Enrich(rows []domain.NormalizedRow, sourceFileName string, today time.Time) ([]domain.TradingResult, error) {
	name := filepath.Base(sourceFileName)
	date, err := domain.DateFromFileName(name)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", name, err)
	}

	results := make([]domain.TradingResult, 0, len(rows))
	for _, row := range rows {
		res, err := domain.NewTradingResult(row, date, today)
		if err != nil {
			var recErr *domain.RecordError
			if errors.As(err, &recErr) && recErr.ID == 0 {
				recErr.ID = row.ID
			}
			return nil, fmt.Errorf("enrich %s: %w", name, err)
		}
		results = append(results, res)
	}
	return results, nil
}
