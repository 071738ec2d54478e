package engine

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// Workbook binds an xlsx file to the analysis core. It implements both
// Snapshotter and Editor and is safe for concurrent use.
type Workbook struct {
	mu   sync.Mutex
	f    *excelize.File
	path string
}

// OpenWorkbook opens an xlsx file.
func OpenWorkbook(path string) (*Workbook, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// NewWorkbook creates an empty in-memory workbook with one default sheet.
func NewWorkbook() *Workbook {
	return &Workbook{f: excelize.NewFile()}
}

// Reload re-reads the workbook from disk, picking up edits made by
// other processes. Only workbooks opened from a path can reload.
func (w *Workbook) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.path == "" {
		return fmt.Errorf("workbook has no backing file")
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	w.f.Close()
	w.f = f
	return nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// SaveAs writes the workbook to disk.
func (w *Workbook) SaveAs(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.SaveAs(path)
}

// Sheets returns the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.GetSheetList()
}

// AddSheet creates a sheet if it does not exist yet.
func (w *Workbook) AddSheet(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.f.NewSheet(name)
	return err
}

// Snapshot reads one sheet into a grid. Cell values arrive as the sheet
// formats them, numbers are parsed back out, and formula text is kept
// alongside the cached result.
func (w *Workbook) Snapshot(sheet string) (models.Grid, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, NewSnapshotError(sheet, ErrNoSheet)
	}

	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, NewSnapshotError(sheet, err)
	}

	g := models.NewGrid()
	for r, row := range rows {
		for c, raw := range row {
			ref, refErr := excelize.CoordinatesToCellName(c+1, r+1)
			if refErr != nil {
				continue
			}
			formula, _ := w.f.GetCellFormula(sheet, ref)
			if raw == "" && formula == "" {
				continue
			}
			var value interface{}
			if raw != "" {
				value = parseValue(raw)
			}
			if formula != "" {
				g.SetFormula(r, c, formula, value)
			} else {
				g.Set(r, c, value)
			}
		}
	}
	return g, nil
}

// SetValue writes a literal value. Multi-cell refs fill the whole range
// with the same value.
func (w *Workbook) SetValue(sheet, ref string, value interface{}) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for row := b.StartRow; row <= b.EndRow; row++ {
		for col := b.StartCol; col <= b.EndCol; col++ {
			if err := w.f.SetCellValue(sheet, models.CellRef(row, col), value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetFormula writes a formula to a single cell. A leading "=" is
// tolerated and stripped.
func (w *Workbook) SetFormula(sheet, ref, formula string) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	if b.Width() != 1 || b.Height() != 1 {
		return fmt.Errorf("formula target %q must be a single cell", ref)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.SetCellFormula(sheet, models.CellRef(b.StartRow, b.StartCol), stripEquals(formula))
}

// SetBackground fills the range with a solid background color ("FFFF00"
// or "#FFFF00").
func (w *Workbook) SetBackground(sheet, ref, hexColor string) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	if len(hexColor) > 0 && hexColor[0] == '#' {
		hexColor = hexColor[1:]
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	styleID, err := w.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor}},
	})
	if err != nil {
		return err
	}
	start := models.CellRef(b.StartRow, b.StartCol)
	end := models.CellRef(b.EndRow, b.EndCol)
	return w.f.SetCellStyle(sheet, start, end, styleID)
}

// Clear removes values and formulas across the range. Styles stay.
func (w *Workbook) Clear(sheet, ref string) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for row := b.StartRow; row <= b.EndRow; row++ {
		for col := b.StartCol; col <= b.EndCol; col++ {
			cell := models.CellRef(row, col)
			if err := w.f.SetCellFormula(sheet, cell, ""); err != nil {
				return err
			}
			if err := w.f.SetCellValue(sheet, cell, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func stripEquals(formula string) string {
	if len(formula) > 0 && formula[0] == '=' {
		return formula[1:]
	}
	return formula
}

// parseValue attempts to parse a formatted cell string as a number.
// Returns int64 for integers, float64 for decimals, or the original
// string. Currency and date strings stay strings; the profiler reads
// them as such.
func parseValue(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
