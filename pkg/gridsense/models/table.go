package models

// DataType classifies the dominant value kind of a column.
type DataType string

const (
	// TypeText marks free-text columns, the safe default for mixed data.
	TypeText DataType = "text"
	// TypeNumber marks plain numeric columns.
	TypeNumber DataType = "number"
	// TypeDate marks date-valued columns.
	TypeDate DataType = "date"
	// TypeFormula marks columns dominated by computed cells.
	TypeFormula DataType = "formula"
	// TypeCurrency marks numeric columns carrying a currency symbol.
	TypeCurrency DataType = "currency"
	// TypeEmpty marks columns with no sampled values at all.
	TypeEmpty DataType = "empty"
)

// Column describes one table column: identity, inferred type, and the
// flags downstream tools branch on.
type Column struct {
	// Name is the header text (synthesized when the header cell was blank).
	Name string `json:"name"`
	// Letter is the spreadsheet column letter ("A", "B", ...).
	Letter string `json:"letter"`
	// Index is the 0-based absolute column index in the grid.
	Index int `json:"index"`
	// DataType is the majority-vote classification of sampled values.
	DataType DataType `json:"data_type"`
	// SampleValues holds up to the sampled values as display strings.
	SampleValues []string `json:"sample_values,omitempty"`
	// HasFormulas is true when any sampled cell is formula-backed.
	HasFormulas bool `json:"has_formulas"`
	// IsNumeric is true for number and currency columns.
	IsNumeric bool `json:"is_numeric"`
	// IsCurrency is true for currency columns.
	IsCurrency bool `json:"is_currency"`
	// IsCalculable is true when the column is numeric or its name
	// suggests an aggregatable quantity.
	IsCalculable bool `json:"is_calculable"`
}

// Table is one detected table: a header row plus the rectangular data
// body below it, with per-column profiles and derived analysis attached.
type Table struct {
	// ID identifies the table; it equals Range.
	ID string `json:"id"`
	// Range is the full extent in "A1:C10" notation, header included.
	Range string `json:"range"`
	// Bounds is the full extent in grid coordinates, header included.
	Bounds Bounds `json:"bounds"`
	// HeaderRow is the 0-based row holding the headers.
	HeaderRow int `json:"header_row"`
	// Headers lists the header texts left to right.
	Headers []string `json:"headers"`
	// RowCount is the number of data rows (header excluded), always >= 1.
	RowCount int `json:"row_count"`
	// Columns holds one descriptor per header, same order.
	Columns []Column `json:"columns"`
	// SyntheticHeaders is true when the headers were generated rather
	// than read from the sheet; the header row then belongs to the data.
	SyntheticHeaders bool `json:"synthetic_headers,omitempty"`
	// Spatial describes free space around the table.
	Spatial SpatialInfo `json:"spatial"`
	// Semantics describes the inferred meaning of the table.
	Semantics SemanticInfo `json:"semantics"`
}

// DataBounds returns the bounds of the data body. The header row is
// excluded unless it is synthetic, in which case it holds data too.
func (t *Table) DataBounds() Bounds {
	start := t.HeaderRow + 1
	if t.SyntheticHeaders {
		start = t.HeaderRow
	}
	return Bounds{
		StartRow: start,
		StartCol: t.Bounds.StartCol,
		EndRow:   t.Bounds.EndRow,
		EndCol:   t.Bounds.EndCol,
	}
}

// Column returns the descriptor at the given absolute grid column index,
// or nil when the index falls outside the table.
func (t *Table) Column(index int) *Column {
	for i := range t.Columns {
		if t.Columns[i].Index == index {
			return &t.Columns[i]
		}
	}
	return nil
}
