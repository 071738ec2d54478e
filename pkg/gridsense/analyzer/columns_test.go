package analyzer

import (
	"fmt"
	"testing"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

func profile(g models.Grid, rt RawTable) []models.Column {
	return ProfileColumns(g, rt, DefaultProfileParams())
}

func TestProfileColumnTypes(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "Product")
	set(t, g, "B1", "Price")
	set(t, g, "C1", "Date")
	set(t, g, "D1", "Count")
	set(t, g, "E1", "Derived")
	for i := 0; i < 4; i++ {
		row := i + 2
		set(t, g, ref(t, "A", row), "item")
		set(t, g, ref(t, "B", row), "$10.50")
		set(t, g, ref(t, "C", row), "2024-03-01")
		set(t, g, ref(t, "D", row), i+1)
		setFormula(t, g, ref(t, "E", row), fmt.Sprintf("B%d*D%d", row, row), nil)
	}

	rt := RawTable{
		HeaderRow: 0, StartCol: 0, EndCol: 4, EndRow: 4,
		Headers: []string{"Product", "Price", "Date", "Count", "Derived"},
	}
	cols := profile(g, rt)
	if len(cols) != 5 {
		t.Fatalf("Expected 5 columns, got %d", len(cols))
	}

	wantTypes := []models.DataType{
		models.TypeText,
		models.TypeCurrency,
		models.TypeDate,
		models.TypeNumber,
		models.TypeFormula,
	}
	for i, want := range wantTypes {
		if cols[i].DataType != want {
			t.Errorf("Column %q: expected type %s, got %s", cols[i].Name, want, cols[i].DataType)
		}
	}

	price := cols[1]
	if !price.IsCurrency || !price.IsNumeric || !price.IsCalculable {
		t.Errorf("Price column flags wrong: %+v", price)
	}
	if cols[0].IsNumeric || cols[0].IsCalculable {
		t.Errorf("Product column flags wrong: %+v", cols[0])
	}
	if !cols[4].HasFormulas {
		t.Error("Derived column should report formulas")
	}
	if cols[3].Letter != "D" || cols[3].Index != 3 {
		t.Errorf("Count column identity wrong: %+v", cols[3])
	}
}

func TestMajorityVote(t *testing.T) {
	tests := []struct {
		name     string
		values   []interface{}
		expected models.DataType
	}{
		{"mostly numbers", []interface{}{1, 2, 3, 4, 5, 6, 7, "a", "b", "c"}, models.TypeNumber},
		{"numbers below half", []interface{}{1, 2, 3, 4, "a", "b", "c", "d", "e", "f"}, models.TypeText},
		{"currency minority wins", []interface{}{"$1", "$2", "$3", 4, 5, 6, 7, 8, 9, 10}, models.TypeCurrency},
		{"currency below threshold", []interface{}{"$1", "$2", "a", "b", "c", "d", "e", "f", "g", "h"}, models.TypeText},
		{"dates at half", []interface{}{"2024-01-01", "2024-01-02", "x", "y"}, models.TypeDate},
		{"all text", []interface{}{"a", "b", "c"}, models.TypeText},
	}

	for _, tt := range tests {
		g := models.NewGrid()
		set(t, g, "A1", "Col")
		for i, v := range tt.values {
			g.Set(i+1, 0, v)
		}
		rt := RawTable{HeaderRow: 0, StartCol: 0, EndCol: 0, EndRow: len(tt.values), Headers: []string{"Col"}}
		cols := profile(g, rt)
		if cols[0].DataType != tt.expected {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.expected, cols[0].DataType)
		}
	}
}

func TestEmptyColumnType(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "Name")
	set(t, g, "B1", "Blank")
	set(t, g, "A2", "x")
	set(t, g, "A3", "y")

	rt := RawTable{HeaderRow: 0, StartCol: 0, EndCol: 1, EndRow: 2, Headers: []string{"Name", "Blank"}}
	cols := profile(g, rt)
	if cols[1].DataType != models.TypeEmpty {
		t.Errorf("Expected empty type, got %s", cols[1].DataType)
	}
	if cols[1].IsCalculable {
		t.Error("Empty unnamed-quantity column should not be calculable")
	}
}

func TestCalculableByNameAlone(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "Amount")
	set(t, g, "B1", "Notes")
	set(t, g, "A2", "n/a")
	set(t, g, "B2", "n/a")

	rt := RawTable{HeaderRow: 0, StartCol: 0, EndCol: 1, EndRow: 1, Headers: []string{"Amount", "Notes"}}
	cols := profile(g, rt)
	if !cols[0].IsCalculable {
		t.Error("Text column named Amount should be calculable by name")
	}
	if cols[0].IsNumeric {
		t.Error("Text column named Amount must not be numeric")
	}
	if cols[1].IsCalculable {
		t.Error("Notes column should not be calculable")
	}
}

func TestSamplingBounds(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "Value")
	// First ten data rows numeric, later rows text: only the sample
	// window decides the type.
	for i := 1; i <= 10; i++ {
		g.Set(i, 0, i)
	}
	for i := 11; i <= 15; i++ {
		g.Set(i, 0, "spill")
	}
	// A formula beyond the formula sample window must go unseen.
	g.SetFormula(16, 0, "A1+1", nil)

	rt := RawTable{HeaderRow: 0, StartCol: 0, EndCol: 0, EndRow: 16, Headers: []string{"Value"}}
	cols := profile(g, rt)
	if cols[0].DataType != models.TypeNumber {
		t.Errorf("Expected number from sampled window, got %s", cols[0].DataType)
	}
	if cols[0].HasFormulas {
		t.Error("Formula outside the check window should not be reported")
	}
	if len(cols[0].SampleValues) != 3 {
		t.Errorf("Expected 3 sample values, got %d", len(cols[0].SampleValues))
	}
}

func TestHasFormulasWithinWindow(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", "Calc")
	set(t, g, "A2", 1)
	setFormula(t, g, "A3", "A2*2", 2)
	set(t, g, "A4", 3)

	rt := RawTable{HeaderRow: 0, StartCol: 0, EndCol: 0, EndRow: 3, Headers: []string{"Calc"}}
	cols := profile(g, rt)
	if !cols[0].HasFormulas {
		t.Error("Formula in the check window should be reported")
	}
}

func TestSyntheticTableSamplesHeaderRow(t *testing.T) {
	g := models.NewGrid()
	set(t, g, "A1", 10)
	set(t, g, "B1", 20)

	rt := RawTable{
		HeaderRow: 0, StartCol: 0, EndCol: 1, EndRow: 0,
		Headers: []string{"Column A", "Column B"}, Synthetic: true,
	}
	cols := profile(g, rt)
	if cols[0].DataType != models.TypeNumber {
		t.Errorf("Synthetic table should sample its first row, got %s", cols[0].DataType)
	}
}

func TestClassifyStrings(t *testing.T) {
	tests := []struct {
		value    string
		expected models.DataType
	}{
		{"$1,200.50", models.TypeCurrency},
		{"99 €", models.TypeCurrency},
		{"£5", models.TypeCurrency},
		{"2024-01-15", models.TypeDate},
		{"15/01/2024", models.TypeDate},
		{"42", models.TypeNumber},
		{"-3.5", models.TypeNumber},
		{"$", models.TypeText},
		{"1,200", models.TypeText},
		{"hello", models.TypeText},
	}
	for _, tt := range tests {
		got := classifyValue(models.Cell{Value: tt.value})
		if got != tt.expected {
			t.Errorf("classifyValue(%q) = %s, expected %s", tt.value, got, tt.expected)
		}
	}
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		value    interface{}
		expected string
	}{
		{nil, ""},
		{"x", "x"},
		{int64(7), "7"},
		{3, "3"},
		{2.5, "2.5"},
		{true, "TRUE"},
	}
	for _, tt := range tests {
		if got := DisplayString(tt.value); got != tt.expected {
			t.Errorf("DisplayString(%v) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

// ref builds an A1-style reference from a column letter and 1-based row.
func ref(t *testing.T, col string, row int) string {
	t.Helper()
	return fmt.Sprintf("%s%d", col, row)
}
