// Package analyzer implements the heuristic passes that turn a raw grid
// snapshot into tables, column profiles, free-space maps, and semantics.
package analyzer

import "github.com/gridsense/gridsense-go/pkg/gridsense/models"

// UsedBounds scans every populated cell once and returns the used
// rectangle of the grid. An empty grid yields all bounds set to -1.
// A cell counts only if it holds a non-nil, non-empty-string value.
func UsedBounds(g models.Grid) models.Bounds {
	b := models.Bounds{StartRow: -1, StartCol: -1, EndRow: -1, EndCol: -1}

	for row, cols := range g {
		for col, cell := range cols {
			if cell.IsEmpty() {
				continue
			}
			if b.StartRow < 0 || row < b.StartRow {
				b.StartRow = row
			}
			if row > b.EndRow {
				b.EndRow = row
			}
			if b.StartCol < 0 || col < b.StartCol {
				b.StartCol = col
			}
			if col > b.EndCol {
				b.EndCol = col
			}
		}
	}

	return b
}
