package engine

import (
	"fmt"
	"sync"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// Memory is an in-process grid source for tests and embedders that do
// not go through a file. Snapshots are isolated copies: edits made after
// a snapshot never leak into it. Implements Snapshotter and Editor.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string]models.Grid
	styles map[string]map[string]string
}

// NewMemory returns an empty in-process source.
func NewMemory() *Memory {
	return &Memory{
		sheets: make(map[string]models.Grid),
		styles: make(map[string]map[string]string),
	}
}

// Put replaces a whole sheet. The grid is copied in.
func (m *Memory) Put(sheet string, g models.Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = g.Clone()
}

// Snapshot returns an isolated copy of the sheet.
func (m *Memory) Snapshot(sheet string) (models.Grid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.sheets[sheet]
	if !ok {
		return nil, NewSnapshotError(sheet, ErrNoSheet)
	}
	return g.Clone(), nil
}

// SetValue writes a literal value. Multi-cell refs fill the whole range.
// Sheets spring into existence on first write.
func (m *Memory) SetValue(sheet, ref string, value interface{}) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.sheet(sheet)
	for row := b.StartRow; row <= b.EndRow; row++ {
		for col := b.StartCol; col <= b.EndCol; col++ {
			g.Set(row, col, value)
		}
	}
	return nil
}

// SetFormula writes a formula to a single cell. A leading "=" is
// tolerated and stripped. The cached value stays unset; recalculation
// belongs to a real engine.
func (m *Memory) SetFormula(sheet, ref, formula string) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	if b.Width() != 1 || b.Height() != 1 {
		return fmt.Errorf("formula target %q must be a single cell", ref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.sheet(sheet)
	g.SetFormula(b.StartRow, b.StartCol, stripEquals(formula), nil)
	return nil
}

// SetBackground records a fill color for the range. Styling never
// affects snapshots; it exists so mutation hooks fire like they would on
// a real engine.
func (m *Memory) SetBackground(sheet, ref, hexColor string) error {
	if _, err := models.ParseRange(ref); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.styles[sheet]
	if !ok {
		s = make(map[string]string)
		m.styles[sheet] = s
	}
	s[ref] = hexColor
	return nil
}

// Clear removes values and formulas across the range.
func (m *Memory) Clear(sheet, ref string) error {
	b, err := models.ParseRange(ref)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.sheets[sheet]
	if !ok {
		return nil
	}
	for row := b.StartRow; row <= b.EndRow; row++ {
		for col := b.StartCol; col <= b.EndCol; col++ {
			if cols, ok := g[row]; ok {
				delete(cols, col)
			}
		}
	}
	return nil
}

// Background returns the fill recorded for a range, "" when none.
func (m *Memory) Background(sheet, ref string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.styles[sheet][ref]
}

// sheet returns the named grid, creating it if needed. Callers must
// hold m.mu.
func (m *Memory) sheet(name string) models.Grid {
	g, ok := m.sheets[name]
	if !ok {
		g = models.NewGrid()
		m.sheets[name] = g
	}
	return g
}
