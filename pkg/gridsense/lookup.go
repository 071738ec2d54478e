package gridsense

import (
	"strings"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// DefaultAnchor is the placement of last resort on a sheet with no
// detected tables.
const DefaultAnchor = "A1"

// FindTable returns the table with the given ID, the primary table when
// id is empty, or nil when nothing matches. Absence is not an error.
func FindTable(ctx *models.SheetContext, id string) *models.Table {
	if id == "" {
		return ctx.Primary
	}
	return ctx.Table(id)
}

// FindColumn locates a column by case-insensitive substring match on its
// name, or by exact match on its column letter. With a table ID only
// that table is searched; otherwise all tables are, primary first. The
// letter pass runs over every candidate table before any name matching,
// so a letter query is never shadowed by a name that contains it.
// Returns the owning table and the column, or nils.
func FindColumn(ctx *models.SheetContext, name, tableID string) (*models.Table, *models.Column) {
	tables := ctx.Tables
	if tableID != "" {
		t := ctx.Table(tableID)
		if t == nil {
			return nil, nil
		}
		tables = []*models.Table{t}
	}

	for _, t := range tables {
		if c := columnByLetter(t, name); c != nil {
			return t, c
		}
	}
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil, nil
	}
	for _, t := range tables {
		if c := columnByName(t, query); c != nil {
			return t, c
		}
	}
	return nil, nil
}

func columnByLetter(t *models.Table, letter string) *models.Column {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Letter, letter) {
			return &t.Columns[i]
		}
	}
	return nil
}

func columnByName(t *models.Table, query string) *models.Column {
	for i := range t.Columns {
		if strings.Contains(strings.ToLower(t.Columns[i].Name), query) {
			return &t.Columns[i]
		}
	}
	return nil
}

// SumFormula builds a sum over a column's data rows, header excluded:
// "=SUM(C2:C10)". It returns "" when the column cannot be found, never
// an error; callers must check for the empty string.
func SumFormula(ctx *models.SheetContext, column, tableID string) string {
	t, c := FindColumn(ctx, column, tableID)
	if t == nil || c == nil {
		return ""
	}
	db := t.DataBounds()
	start := models.CellRef(db.StartRow, c.Index)
	end := models.CellRef(db.EndRow, c.Index)
	if start == end {
		return "=SUM(" + start + ")"
	}
	return "=SUM(" + start + ":" + end + ")"
}

// OptimalPlacement returns the range of a width x height block placed
// where it cannot collide: anchored at the first ranked zone that fits,
// else immediately right of the primary table, else at DefaultAnchor.
func OptimalPlacement(ctx *models.SheetContext, width, height int) string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	for _, z := range ctx.Zones {
		if z.Bounds.Width() >= width && z.Bounds.Height() >= height {
			return blockRange(z.Bounds.StartRow, z.Bounds.StartCol, width, height)
		}
	}
	if ctx.Primary != nil {
		return blockRange(ctx.Primary.Bounds.StartRow, ctx.Primary.Bounds.EndCol+1, width, height)
	}
	anchor, err := models.ParseRange(DefaultAnchor)
	if err != nil {
		return DefaultAnchor
	}
	return blockRange(anchor.StartRow, anchor.StartCol, width, height)
}

func blockRange(row, col, width, height int) string {
	b := models.Bounds{
		StartRow: row,
		StartCol: col,
		EndRow:   row + height - 1,
		EndCol:   col + width - 1,
	}
	return b.Range()
}
