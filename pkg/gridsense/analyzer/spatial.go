package analyzer

import (
	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// SpatialParams bounds the free-space scans around a table.
type SpatialParams struct {
	// ColumnLookahead is how many columns right of a table are scanned.
	ColumnLookahead int
	// RowLookahead is how many rows below a table are scanned.
	RowLookahead int
}

// DefaultSpatialParams returns the spatial defaults.
func DefaultSpatialParams() SpatialParams {
	return SpatialParams{
		ColumnLookahead: 5,
		RowLookahead:    10,
	}
}

// AnalyzeSpace measures the contiguous free space to the right of and
// below a table. A column counts only if it is empty across the table's
// entire row span, a row only if it is empty across the entire column
// span, and both scans stop at the first occupied lane so the reported
// space never hides an obstacle.
func AnalyzeSpace(g models.Grid, b models.Bounds, p SpatialParams) models.SpatialInfo {
	info := models.SpatialInfo{
		NextColumn: models.ColumnLetter(b.EndCol + 1),
		NextRow:    b.EndRow + 1,
	}

	for col := b.EndCol + 1; col <= b.EndCol+p.ColumnLookahead; col++ {
		if !columnEmpty(g, col, b.StartRow, b.EndRow) {
			break
		}
		info.EmptyColumnsRight = append(info.EmptyColumnsRight, models.ColumnLetter(col))
	}

	for row := b.EndRow + 1; row <= b.EndRow+p.RowLookahead; row++ {
		if !rowEmpty(g, row, b.StartCol, b.EndCol) {
			break
		}
		info.EmptyRowsBelow = append(info.EmptyRowsBelow, row)
	}

	info.CanExpandRight = len(info.EmptyColumnsRight) > 0
	info.CanExpandDown = len(info.EmptyRowsBelow) > 0
	return info
}

// PlacementZones derives ranked writable regions from the per-table
// spatial info. Zones come out in table order with each table's right
// zone before its below zone, so the first zone is the preferred spot
// for derived output next to the primary table.
func PlacementZones(tables []*models.Table) []models.Zone {
	var zones []models.Zone
	for _, t := range tables {
		if t.Spatial.CanExpandRight {
			zones = append(zones, models.Zone{
				Bounds: models.Bounds{
					StartRow: t.Bounds.StartRow,
					StartCol: t.Bounds.EndCol + 1,
					EndRow:   t.Bounds.EndRow,
					EndCol:   t.Bounds.EndCol + len(t.Spatial.EmptyColumnsRight),
				},
				Side:    "right",
				TableID: t.ID,
			})
		}
		if t.Spatial.CanExpandDown {
			zones = append(zones, models.Zone{
				Bounds: models.Bounds{
					StartRow: t.Bounds.EndRow + 1,
					StartCol: t.Bounds.StartCol,
					EndRow:   t.Bounds.EndRow + len(t.Spatial.EmptyRowsBelow),
					EndCol:   t.Bounds.EndCol,
				},
				Side:    "below",
				TableID: t.ID,
			})
		}
	}
	return zones
}

func columnEmpty(g models.Grid, col, startRow, endRow int) bool {
	for row := startRow; row <= endRow; row++ {
		if cell, ok := g.Cell(row, col); ok && !cell.IsEmpty() {
			return false
		}
	}
	return true
}

func rowEmpty(g models.Grid, row, startCol, endCol int) bool {
	cols, ok := g[row]
	if !ok {
		return true
	}
	for col := startCol; col <= endCol; col++ {
		if cell, ok := cols[col]; ok && !cell.IsEmpty() {
			return false
		}
	}
	return true
}
