package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Bounds is an inclusive rectangular region of the grid, 0-based.
type Bounds struct {
	// StartRow is the first row of the region (0-based).
	StartRow int `json:"start_row"`
	// StartCol is the first column of the region (0-based).
	StartCol int `json:"start_col"`
	// EndRow is the last row of the region (0-based, inclusive).
	EndRow int `json:"end_row"`
	// EndCol is the last column of the region (0-based, inclusive).
	EndCol int `json:"end_col"`
}

// Width returns the number of columns covered.
func (b Bounds) Width() int {
	return b.EndCol - b.StartCol + 1
}

// Height returns the number of rows covered.
func (b Bounds) Height() int {
	return b.EndRow - b.StartRow + 1
}

// Contains reports whether (row, col) lies inside the region.
func (b Bounds) Contains(row, col int) bool {
	return row >= b.StartRow && row <= b.EndRow && col >= b.StartCol && col <= b.EndCol
}

// Range returns the region in "A1:C10" notation. Single-cell regions
// collapse to "A1".
func (b Bounds) Range() string {
	start := CellRef(b.StartRow, b.StartCol)
	end := CellRef(b.EndRow, b.EndCol)
	if start == end {
		return start
	}
	return start + ":" + end
}

// CellRef returns the A1-style reference for (row, col), 0-based.
func CellRef(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return name
}

// ColumnLetter returns the spreadsheet letter for a 0-based column index.
func ColumnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}

// ColumnIndex returns the 0-based index for a column letter, or -1 when
// the letter is not a valid column name.
func ColumnIndex(letter string) int {
	n, err := excelize.ColumnNameToNumber(strings.ToUpper(letter))
	if err != nil {
		return -1
	}
	return n - 1
}

// ParseRange parses "A1:D10" (or a single "A1") into Bounds. Absolute
// markers ($) are tolerated. Malformed input is a caller error.
func ParseRange(ref string) (Bounds, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if ref == "" {
		return Bounds{}, fmt.Errorf("parse range: empty reference")
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return Bounds{}, fmt.Errorf("parse range %q: too many separators", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Bounds{}, fmt.Errorf("parse range %q: %w", ref, err)
	}
	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Bounds{}, fmt.Errorf("parse range %q: %w", ref, err)
		}
	}

	if endRow < startRow || endCol < startCol {
		return Bounds{}, fmt.Errorf("parse range %q: end precedes start", ref)
	}

	return Bounds{
		StartRow: startRow - 1,
		StartCol: startCol - 1,
		EndRow:   endRow - 1,
		EndCol:   endCol - 1,
	}, nil
}
