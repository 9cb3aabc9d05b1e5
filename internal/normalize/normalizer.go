// Package normalize turns raw report grids into typed trading result rows.
package normalize

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/metrics"
	"SpimexTradingResults/internal/ports"
)

const (
	// MetricTonMarker precedes the section priced in metric tons.
	MetricTonMarker   = "Единица измерения: Метрическая тонна"
	productCodeHeader = "Код Инструмента"
	noDeals           = "-"
)

// productCode matches exchange instrument codes; totals and notes below the table do not.
var productCode = regexp.MustCompile(`^[A-Z][A-Z0-9-]*[A-Z][A-Z0-9-]*\b`)

// Normalizer reads report files through a SheetLoader.
type Normalizer struct {
	loader ports.SheetLoader
	logger *slog.Logger
}

var _ ports.TableNormalizer = (*Normalizer)(nil)

func NewNormalizer(loader ports.SheetLoader, log *slog.Logger) *Normalizer {
	return &Normalizer{loader: loader, logger: log}
}

// NormalizeFile loads path and normalizes its metric ton section.
func (n *Normalizer) NormalizeFile(path string, firstID int64) (domain.Table, error) {
	name := filepath.Base(path)
	grid, err := n.loader.Load(path)
	if err != nil {
		return domain.Table{}, &domain.ParseError{File: name, Err: err}
	}

	rows, err := Normalize(grid, firstID)
	if err != nil {
		return domain.Table{}, &domain.ParseError{File: name, Err: err}
	}

	metrics.RowsNormalizedTotal.Add(float64(len(rows)))
	if n.logger != nil {
		n.logger.Debug("table normalized", "file", name, "rows", len(rows), "first_id", firstID)
	}
	return domain.Table{File: name, Rows: rows}, nil
}

// Normalize extracts the metric ton rows of a B-F,O grid and numbers them from firstID.
func Normalize(grid [][]string, firstID int64) ([]domain.NormalizedRow, error) {
	marker := findMarker(grid)
	if marker < 0 {
		return nil, domain.ErrMarkerNotFound
	}

	header := marker + 1
	if header >= len(grid) || collapse(cell(grid[header], 0)) != productCodeHeader {
		return nil, fmt.Errorf("%w: header row %d", domain.ErrLayoutMismatch, header)
	}

	start := marker + 3
	if start > len(grid) {
		start = len(grid)
	}
	data := grid[start:]

	boundary := len(data)
	for i, r := range data {
		if !productCode.MatchString(strings.TrimSpace(cell(r, 0))) {
			boundary = i
			break
		}
	}
	// The row above the first non-code row is the section total.
	keep := boundary - 1
	if keep < 0 {
		keep = 0
	}

	rows := make([]domain.NormalizedRow, 0, keep)
	id := firstID
	for _, r := range data[:keep] {
		count := strings.TrimSpace(cell(r, 5))
		if count == noDeals {
			continue
		}
		rows = append(rows, domain.NormalizedRow{
			ID:                  id,
			ExchangeProductID:   strings.TrimSpace(cell(r, 0)),
			ExchangeProductName: strings.TrimSpace(cell(r, 1)),
			DeliveryBasisName:   strings.TrimSpace(cell(r, 2)),
			Volume:              strings.TrimSpace(cell(r, 3)),
			Total:               strings.TrimSpace(cell(r, 4)),
			Count:               count,
		})
		id++
	}
	return rows, nil
}

func findMarker(grid [][]string) int {
	for i, r := range grid {
		for _, c := range r {
			if strings.TrimSpace(c) == MetricTonMarker {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
