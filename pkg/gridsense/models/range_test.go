package models

import "testing"

func TestParseRange(t *testing.T) {
	tests := []struct {
		ref      string
		expected Bounds
	}{
		{"A1:D10", Bounds{StartRow: 0, StartCol: 0, EndRow: 9, EndCol: 3}},
		{"A1", Bounds{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 0}},
		{"C3", Bounds{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}},
		{"$B$2:$C$5", Bounds{StartRow: 1, StartCol: 1, EndRow: 4, EndCol: 2}},
		{" E5:F6 ", Bounds{StartRow: 4, StartCol: 4, EndRow: 5, EndCol: 5}},
		{"AA1:AB2", Bounds{StartRow: 0, StartCol: 26, EndRow: 1, EndCol: 27}},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.ref)
		if err != nil {
			t.Errorf("ParseRange(%q) failed: %v", tt.ref, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseRange(%q) = %+v, expected %+v", tt.ref, got, tt.expected)
		}
	}
}

func TestParseRangeRejectsMalformed(t *testing.T) {
	for _, ref := range []string{"", "1A", "A1:B2:C3", "D5:A1", "hello"} {
		if _, err := ParseRange(ref); err == nil {
			t.Errorf("ParseRange(%q) should fail", ref)
		}
	}
}

func TestBoundsRange(t *testing.T) {
	b := Bounds{StartRow: 0, StartCol: 0, EndRow: 9, EndCol: 3}
	if got := b.Range(); got != "A1:D10" {
		t.Errorf("Expected A1:D10, got %s", got)
	}
	single := Bounds{StartRow: 2, StartCol: 2, EndRow: 2, EndCol: 2}
	if got := single.Range(); got != "C3" {
		t.Errorf("Single cell should collapse, got %s", got)
	}
}

func TestBoundsGeometry(t *testing.T) {
	b := Bounds{StartRow: 1, StartCol: 2, EndRow: 4, EndCol: 5}
	if b.Width() != 4 || b.Height() != 4 {
		t.Errorf("Expected 4x4, got %dx%d", b.Width(), b.Height())
	}
	if !b.Contains(1, 2) || !b.Contains(4, 5) {
		t.Error("Corners should be inside")
	}
	if b.Contains(0, 2) || b.Contains(1, 6) {
		t.Error("Neighbors should be outside")
	}
}

func TestCellRef(t *testing.T) {
	tests := []struct {
		row, col int
		expected string
	}{
		{0, 0, "A1"},
		{9, 3, "D10"},
		{0, 26, "AA1"},
	}
	for _, tt := range tests {
		if got := CellRef(tt.row, tt.col); got != tt.expected {
			t.Errorf("CellRef(%d, %d) = %s, expected %s", tt.row, tt.col, got, tt.expected)
		}
	}
}

func TestColumnLetterAndIndex(t *testing.T) {
	letters := []struct {
		index  int
		letter string
	}{
		{0, "A"}, {25, "Z"}, {26, "AA"}, {51, "AZ"},
	}
	for _, tt := range letters {
		if got := ColumnLetter(tt.index); got != tt.letter {
			t.Errorf("ColumnLetter(%d) = %s, expected %s", tt.index, got, tt.letter)
		}
		if got := ColumnIndex(tt.letter); got != tt.index {
			t.Errorf("ColumnIndex(%s) = %d, expected %d", tt.letter, got, tt.index)
		}
	}

	if got := ColumnIndex("z"); got != 25 {
		t.Errorf("Lowercase letters should resolve, got %d", got)
	}
	if got := ColumnIndex("5"); got != -1 {
		t.Errorf("Invalid letters should return -1, got %d", got)
	}
}
