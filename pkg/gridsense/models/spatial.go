package models

// SpatialInfo records the free space adjacent to a table. Emptiness is
// contiguous: scanning stops at the first occupied column or row, so a
// zone reported here is safe to write into without a collision check.
type SpatialInfo struct {
	// NextColumn is the letter of the first column right of the table.
	NextColumn string `json:"next_column"`
	// NextRow is the 0-based index of the first row below the table.
	NextRow int `json:"next_row"`
	// EmptyColumnsRight lists contiguous empty column letters to the
	// right, bounded lookahead.
	EmptyColumnsRight []string `json:"empty_columns_right,omitempty"`
	// EmptyRowsBelow lists contiguous empty 0-based row indexes below,
	// bounded lookahead.
	EmptyRowsBelow []int `json:"empty_rows_below,omitempty"`
	// CanExpandRight is true when at least one empty column adjoins the
	// table on the right.
	CanExpandRight bool `json:"can_expand_right"`
	// CanExpandDown is true when at least one empty row adjoins the
	// table below.
	CanExpandDown bool `json:"can_expand_down"`
}

// Zone is a candidate placement region for a new artifact (totals block,
// pivot output, chart anchor), ranked by the spatial analysis.
type Zone struct {
	// Bounds is the writable region.
	Bounds Bounds `json:"bounds"`
	// Side is where the zone sits relative to its table: "right" or "below".
	Side string `json:"side"`
	// TableID is the table the zone adjoins.
	TableID string `json:"table_id"`
}
