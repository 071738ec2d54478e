package models

// Grid is a sparse cell matrix keyed row -> column -> Cell, both 0-based.
// Size is derived from content, never assumed. The external spreadsheet
// engine owns cell storage; a Grid is a read-only snapshot of it.
type Grid map[int]map[int]Cell

// NewGrid returns an empty grid.
func NewGrid() Grid {
	return make(Grid)
}

// Cell returns the cell at (row, col) and whether it is present.
func (g Grid) Cell(row, col int) (Cell, bool) {
	r, ok := g[row]
	if !ok {
		return Cell{}, false
	}
	c, ok := r[col]
	return c, ok
}

// Value returns the value at (row, col), nil when absent.
func (g Grid) Value(row, col int) interface{} {
	c, ok := g.Cell(row, col)
	if !ok {
		return nil
	}
	return c.Value
}

// Formula returns the formula at (row, col), "" when absent.
func (g Grid) Formula(row, col int) string {
	c, ok := g.Cell(row, col)
	if !ok {
		return ""
	}
	return c.Formula
}

// CellEmpty reports whether (row, col) holds no usable value.
func (g Grid) CellEmpty(row, col int) bool {
	c, ok := g.Cell(row, col)
	return !ok || c.IsEmpty()
}

// Set stores a literal value at (row, col). Used by engine bindings and
// tests when assembling snapshots; analysis code never mutates a grid.
func (g Grid) Set(row, col int, value interface{}) {
	r, ok := g[row]
	if !ok {
		r = make(map[int]Cell)
		g[row] = r
	}
	c := r[col]
	c.Value = value
	r[col] = c
}

// SetFormula stores a formula (and optional computed value) at (row, col).
func (g Grid) SetFormula(row, col int, formula string, value interface{}) {
	r, ok := g[row]
	if !ok {
		r = make(map[int]Cell)
		g[row] = r
	}
	r[col] = Cell{Value: value, Formula: formula}
}

// HasData reports whether any populated cell exists.
func (g Grid) HasData() bool {
	for _, row := range g {
		for _, c := range row {
			if !c.IsEmpty() {
				return true
			}
		}
	}
	return false
}

// CellCount returns the number of populated cells.
func (g Grid) CellCount() int {
	n := 0
	for _, row := range g {
		for _, c := range row {
			if !c.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Clone returns an independent copy of the grid.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for r, row := range g {
		cp := make(map[int]Cell, len(row))
		for c, cell := range row {
			cp[c] = cell
		}
		out[r] = cp
	}
	return out
}
