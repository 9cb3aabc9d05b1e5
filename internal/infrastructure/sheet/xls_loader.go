// Package sheet reads legacy .xls trading reports into plain string grids.
package sheet

import (
	"fmt"
	"os"

	"github.com/extrame/xls"

	"SpimexTradingResults/internal/ports"
)

// ReportColumns are the zero-based sheet columns B, C, D, E, F and O.
var ReportColumns = []int{1, 2, 3, 4, 5, 14}

// XLSLoader reads the first sheet of a BIFF workbook.
type XLSLoader struct {
	columns []int
}

var _ ports.SheetLoader = (*XLSLoader)(nil)

func NewXLSLoader() *XLSLoader {
	return &XLSLoader{columns: ReportColumns}
}

// Load returns one row per sheet row, blank rows included, so row offsets match the sheet.
func (l *XLSLoader) Load(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	if wb == nil {
		return nil, fmt.Errorf("workbook %s has no Workbook stream", path)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	// WorkSheet.Row panics on rows without records; ReadAllCells leaves them nil.
	// Capping at the first sheet's height keeps later sheets out of the grid.
	rows := wb.ReadAllCells(int(ws.MaxRow) + 1)

	grid := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(l.columns))
		for j, col := range l.columns {
			if col < len(row) {
				cells[j] = row[col]
			}
		}
		grid = append(grid, cells)
	}
	return grid, nil
}
