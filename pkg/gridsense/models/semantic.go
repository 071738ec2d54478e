package models

// SemanticInfo is the header-text-only interpretation of a table. No cell
// values are consulted when deriving it.
type SemanticInfo struct {
	// TableType is the inferred table kind: inventory, financial,
	// customer, temporal, or general.
	TableType string `json:"table_type"`
	// BusinessDomain is the inferred domain: sales, hr, logistics,
	// finance, or general.
	BusinessDomain string `json:"business_domain"`
	// KeyColumns lists headers that look like row identifiers.
	KeyColumns []string `json:"key_columns,omitempty"`
	// CalculableColumns lists headers judged aggregatable.
	CalculableColumns []string `json:"calculable_columns,omitempty"`
	// Relationships lists cross-column derivations suggested by header
	// pairs (e.g. price + quantity).
	Relationships []Relationship `json:"relationships,omitempty"`
}

// Relationship links columns whose headers jointly suggest a derived
// quantity.
type Relationship struct {
	// Type names the derivation: total_value, profit_margin, ...
	Type string `json:"type"`
	// Columns are the participating header names.
	Columns []string `json:"columns"`
}

// TableLink records a shared-column relationship between two tables on
// the same sheet.
type TableLink struct {
	// LeftTable and RightTable are table IDs.
	LeftTable  string `json:"left_table"`
	RightTable string `json:"right_table"`
	// Columns are the header names (lower-cased) both tables carry.
	Columns []string `json:"columns"`
}
