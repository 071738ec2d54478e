// Package models defines data structures for sheet analysis.
package models

// Cell holds one cell's committed value and, when the cell is computed,
// the formula text behind it.
type Cell struct {
	// Value is the displayed value: string, float64, int64, bool, or nil.
	Value interface{} `json:"value"`
	// Formula is the formula text without the leading "=" ("SUM(A2:A5)"),
	// empty for literal cells.
	Formula string `json:"formula,omitempty"`
}

// IsEmpty reports whether the cell carries no value. An explicit empty
// string counts as empty.
func (c Cell) IsEmpty() bool {
	if c.Value == nil {
		return c.Formula == ""
	}
	if s, ok := c.Value.(string); ok && s == "" {
		return c.Formula == ""
	}
	return false
}

// HasFormula reports whether the cell is formula-backed.
func (c Cell) HasFormula() bool {
	return c.Formula != ""
}

// IsText reports whether the value is a non-empty string.
func (c Cell) IsText() bool {
	s, ok := c.Value.(string)
	return ok && s != ""
}

// IsNumber reports whether the value is numeric.
func (c Cell) IsNumber() bool {
	switch c.Value.(type) {
	case float64, int64, int:
		return true
	}
	return false
}

// Float returns the value as float64 and whether the conversion applied.
func (c Cell) Float() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Text returns the value as a string, or "" for non-string values.
func (c Cell) Text() string {
	s, _ := c.Value.(string)
	return s
}
