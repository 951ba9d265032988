package reports

import (
	"fmt"
	"path/filepath"

	"github.com/tealeg/xlsx"
)

// ReadXLSX loads the first sheet of an .xlsx file into a Table. The
// first row containing any non-empty cell becomes the header; everything
// below it is data.
func ReadXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadXLSX: opening %s: %w", path, err)
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("ReadXLSX: %s has no sheets", path)
	}
	sheet := f.Sheets[0]

	t := &Table{File: filepath.Base(path)}
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		empty := true
		for i, cell := range row.Cells {
			cells[i] = cell.Value
			if cell.Value != "" {
				empty = false
			}
		}
		if t.Header == nil {
			if empty {
				continue
			}
			t.Header = cells
			continue
		}
		if empty {
			continue
		}
		t.Rows = append(t.Rows, cells)
	}
	if t.Header == nil {
		return nil, fmt.Errorf("ReadXLSX: %s has no header row", path)
	}
	return t, nil
}
