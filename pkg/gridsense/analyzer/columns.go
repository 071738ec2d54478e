package analyzer

import (
	"strconv"
	"strings"
	"time"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// ProfileParams holds sampling bounds for column profiling.
type ProfileParams struct {
	// SampleRows is how many data rows feed the type vote per column.
	SampleRows int
	// FormulaRows is how many data rows are checked for formulas.
	FormulaRows int
	// MaxSampleValues caps the display samples kept per column.
	MaxSampleValues int
}

// DefaultProfileParams returns the profiling defaults.
func DefaultProfileParams() ProfileParams {
	return ProfileParams{
		SampleRows:      10,
		FormulaRows:     5,
		MaxSampleValues: 3,
	}
}

// Thresholds for the majority vote, as fractions of the non-empty
// sample. Currency is deliberately low: mixed money columns often carry
// plain numbers too.
const (
	formulaRatio  = 0.5
	currencyRatio = 0.3
	dateRatio     = 0.5
	numberRatio   = 0.5
)

// calculableKeywords mark a column as aggregatable by name alone, so
// that text-typed columns like "Amount" still offer SUM suggestions.
var calculableKeywords = []string{
	"price", "cost", "amount", "weight", "quantity", "total", "sum", "value",
}

// dateLayouts are the accepted string date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
}

// currencySymbols lead or trail a currency value.
var currencySymbols = []string{"$", "€", "£", "¥"}

// ProfileColumns classifies every column of a detected region by
// sampling its data rows. The returned slice has exactly one entry per
// column of the region, in column order.
func ProfileColumns(g models.Grid, rt RawTable, p ProfileParams) []models.Column {
	dataStart := rt.HeaderRow + 1
	if rt.Synthetic {
		dataStart = rt.HeaderRow
	}

	columns := make([]models.Column, 0, rt.EndCol-rt.StartCol+1)
	for col := rt.StartCol; col <= rt.EndCol; col++ {
		name := ""
		if i := col - rt.StartCol; i < len(rt.Headers) {
			name = rt.Headers[i]
		}
		c := profileColumn(g, col, dataStart, rt.EndRow, name, p)
		columns = append(columns, c)
	}
	return columns
}

func profileColumn(g models.Grid, col, firstRow, lastRow int, name string, p ProfileParams) models.Column {
	var (
		sampled  int
		formulas int
		currency int
		dates    int
		numbers  int
		samples  []string
	)

	hasFormulas := false
	formulaEnd := firstRow + p.FormulaRows - 1
	if formulaEnd > lastRow {
		formulaEnd = lastRow
	}
	for row := firstRow; row <= formulaEnd; row++ {
		if cell, ok := g.Cell(row, col); ok && cell.Formula != "" {
			hasFormulas = true
			break
		}
	}

	for row := firstRow; row <= lastRow && sampled < p.SampleRows; row++ {
		cell, ok := g.Cell(row, col)
		if !ok || cell.IsEmpty() {
			continue
		}
		sampled++
		switch classifyValue(cell) {
		case models.TypeFormula:
			formulas++
		case models.TypeCurrency:
			currency++
		case models.TypeDate:
			dates++
		case models.TypeNumber:
			numbers++
		}
		if len(samples) < p.MaxSampleValues {
			samples = append(samples, DisplayString(cell.Value))
		}
	}

	dt := voteType(sampled, formulas, currency, dates, numbers)

	c := models.Column{
		Name:         name,
		Letter:       models.ColumnLetter(col),
		Index:        col,
		DataType:     dt,
		SampleValues: samples,
		HasFormulas:  hasFormulas,
	}
	c.IsCurrency = dt == models.TypeCurrency
	c.IsNumeric = dt == models.TypeNumber || dt == models.TypeCurrency
	c.IsCalculable = c.IsNumeric || nameSuggestsCalculable(name)
	return c
}

// voteType resolves the sampled counts into one column type. Ties and
// unmatched majorities fall back to text; an all-empty sample is empty.
func voteType(sampled, formulas, currency, dates, numbers int) models.DataType {
	if sampled == 0 {
		return models.TypeEmpty
	}
	n := float64(sampled)
	switch {
	case float64(formulas)/n >= formulaRatio:
		return models.TypeFormula
	case float64(currency)/n >= currencyRatio:
		return models.TypeCurrency
	case float64(dates)/n >= dateRatio:
		return models.TypeDate
	case float64(numbers)/n >= numberRatio:
		return models.TypeNumber
	default:
		return models.TypeText
	}
}

// classifyValue types a single populated cell.
func classifyValue(c models.Cell) models.DataType {
	if c.HasFormula() {
		return models.TypeFormula
	}
	switch v := c.Value.(type) {
	case float64, int64, int:
		return models.TypeNumber
	case time.Time:
		return models.TypeDate
	case string:
		s := strings.TrimSpace(v)
		switch {
		case isCurrencyString(s):
			return models.TypeCurrency
		case isDateString(s):
			return models.TypeDate
		case isNumberString(s):
			return models.TypeNumber
		}
	}
	return models.TypeText
}

// isCurrencyString accepts a currency symbol leading or trailing a
// numeric body, tolerating thousands separators: "$1,200.50", "99 €".
func isCurrencyString(s string) bool {
	if s == "" {
		return false
	}
	body := s
	found := false
	for _, sym := range currencySymbols {
		if strings.HasPrefix(body, sym) {
			body = strings.TrimSpace(strings.TrimPrefix(body, sym))
			found = true
			break
		}
		if strings.HasSuffix(body, sym) {
			body = strings.TrimSpace(strings.TrimSuffix(body, sym))
			found = true
			break
		}
	}
	if !found {
		return false
	}
	body = strings.ReplaceAll(body, ",", "")
	return isNumberString(body)
}

func isDateString(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isNumberString(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// nameSuggestsCalculable matches header names against the calculable
// vocabulary, case-insensitively and by substring, so that "Unit Price"
// and "TotalCost" both qualify.
func nameSuggestsCalculable(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range calculableKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DisplayString renders a cell value the way the sheet shows it.
func DisplayString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return t.Format("2006-01-02")
	}
	return ""
}
