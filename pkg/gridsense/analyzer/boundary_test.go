package analyzer

import (
	"testing"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

func TestUsedBoundsEmpty(t *testing.T) {
	b := UsedBounds(models.NewGrid())
	if b.StartRow != -1 || b.StartCol != -1 || b.EndRow != -1 || b.EndCol != -1 {
		t.Errorf("Expected all bounds -1 for empty grid, got %+v", b)
	}
}

func TestUsedBounds(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "B2", "x")
	set(t, g, "D7", 42)
	set(t, g, "C4", "y")

	b := UsedBounds(g)
	want := models.Bounds{StartRow: 1, StartCol: 1, EndRow: 6, EndCol: 3}
	if b != want {
		t.Errorf("Expected bounds %+v, got %+v", want, b)
	}
}

func TestUsedBoundsIgnoresEmptyCells(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "x")
	set(t, g, "F9", "")  // explicit empty string
	set(t, g, "H3", nil) // nil value

	b := UsedBounds(g)
	want := models.Bounds{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 0}
	if b != want {
		t.Errorf("Expected bounds %+v, got %+v", want, b)
	}
}
