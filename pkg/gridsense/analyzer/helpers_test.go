package analyzer

import (
	"testing"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// set writes a literal value at an A1-style ref.
func set(t *testing.T, g models.Grid, ref string, value interface{}) {
	t.Helper()
	b, err := models.ParseRange(ref)
	if err != nil {
		t.Fatalf("bad ref %q: %v", ref, err)
	}
	g.Set(b.StartRow, b.StartCol, value)
}

// setFormula writes a formula cell at an A1-style ref.
func setFormula(t *testing.T, g models.Grid, ref, formula string, value interface{}) {
	t.Helper()
	b, err := models.ParseRange(ref)
	if err != nil {
		t.Fatalf("bad ref %q: %v", ref, err)
	}
	g.SetFormula(b.StartRow, b.StartCol, formula, value)
}

// detect runs the cascade with default params over the grid's used range.
func detect(g models.Grid) []RawTable {
	return DetectTables(g, UsedBounds(g), DefaultDetectionParams())
}
