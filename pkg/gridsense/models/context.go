package models

import "time"

// SheetContext is the sheet-wide analysis bundle: the used extent, every
// detected table, and cross-table links. One live instance exists per
// sheet; it is replaced wholesale on refresh, never patched in place.
type SheetContext struct {
	// Sheet is the sheet name, "" when the source has no notion of one.
	Sheet string `json:"sheet,omitempty"`
	// Bounds is the used rectangle of the grid. Empty grids have
	// StartRow == EndRow == -1.
	Bounds Bounds `json:"bounds"`
	// Tables lists detected tables in detection order.
	Tables []*Table `json:"tables"`
	// Primary is the first detected table, nil for an empty grid.
	Primary *Table `json:"-"`
	// Links lists shared-column relationships between tables.
	Links []TableLink `json:"links,omitempty"`
	// Zones lists safe placement regions, best first.
	Zones []Zone `json:"zones,omitempty"`
	// Strategy names the detection pass that produced the tables.
	Strategy string `json:"strategy,omitempty"`
	// BuiltAt is when the analysis pass ran.
	BuiltAt time.Time `json:"built_at"`
}

// Table returns the table with the given ID, or nil.
func (c *SheetContext) Table(id string) *Table {
	for _, t := range c.Tables {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Empty reports whether the analysis found nothing to work with.
func (c *SheetContext) Empty() bool {
	return len(c.Tables) == 0
}
