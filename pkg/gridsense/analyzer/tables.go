package analyzer

import (
	"strings"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// DetectionParams holds tunables for table detection.
type DetectionParams struct {
	// MinHeaderRun is the minimum number of column-consecutive text
	// cells required to qualify as a header run.
	MinHeaderRun int
	// GapLookahead is how many rows past an empty row detection scans
	// for resuming data before ending the table.
	GapLookahead int
	// SummaryMinRows is how many data rows must precede a summary/total
	// row before detection stops at it.
	SummaryMinRows int
	// EmergencyRowCap limits the emergency header search to the first
	// N rows of the used range.
	EmergencyRowCap int
	// FallbackRowCap limits the desperate-fallback header search to the
	// first N rows of the used range.
	FallbackRowCap int
}

// DefaultDetectionParams returns the detection defaults.
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		MinHeaderRun:    2,
		GapLookahead:    3,
		SummaryMinRows:  3,
		EmergencyRowCap: 20,
		FallbackRowCap:  10,
	}
}

// summaryWords end a table when matched as a whole word in a row that
// follows enough data rows.
var summaryWords = []string{"total", "sum", "subtotal", "grand"}

// RawTable is a detected table region before profiling: the header
// position, the column span, and the extent of the data body.
type RawTable struct {
	// HeaderRow is the 0-based row the headers sit on.
	HeaderRow int
	// StartCol and EndCol bound the column span, inclusive.
	StartCol int
	EndCol   int
	// EndRow is the last row of the data body.
	EndRow int
	// Headers holds one name per column, synthesized where blank.
	Headers []string
	// Synthetic is true when the headers were generated and the header
	// row is itself data (whole-rectangle fallback).
	Synthetic bool
	// Strategy names the detection pass that produced the region.
	Strategy string
}

// Bounds returns the full table extent, header row included.
func (r RawTable) Bounds() models.Bounds {
	return models.Bounds{StartRow: r.HeaderRow, StartCol: r.StartCol, EndRow: r.EndRow, EndCol: r.EndCol}
}

// strategy is one detection pass. Passes are pure functions of the grid;
// they are tried in order until one yields at least one region.
type strategy struct {
	name string
	fn   func(g models.Grid, used models.Bounds, p DetectionParams) []RawTable
}

func strategies() []strategy {
	return []strategy{
		{"standard", detectStandard},
		{"emergency", detectEmergency},
		{"fallback", detectFallback},
	}
}

// DetectTables locates table regions in the grid. For any grid with data
// at least one region is returned; an empty slice means the grid itself
// is empty. Detection never fails: each strategy degrades to the next.
func DetectTables(g models.Grid, used models.Bounds, p DetectionParams) []RawTable {
	if used.EndRow < 0 || used.EndCol < 0 {
		return nil
	}
	for _, s := range strategies() {
		tables := s.fn(g, used, p)
		if len(tables) == 0 {
			continue
		}
		for i := range tables {
			tables[i].Strategy = s.name
		}
		return tables
	}
	return nil
}

// detectStandard finds header runs (>= MinHeaderRun consecutive
// non-formula text cells) row by row, then walks downward under each run
// while data continues. Single empty rows are tolerated up to
// GapLookahead rows; a summary row after SummaryMinRows data rows ends
// the table without swallowing it. Runs inside an already-claimed region
// are data, not headers.
func detectStandard(g models.Grid, used models.Bounds, p DetectionParams) []RawTable {
	var tables []RawTable
	var claimed []models.Bounds

	for row := used.StartRow; row <= used.EndRow; row++ {
		for _, run := range headerRuns(g, row, used, p.MinHeaderRun) {
			if regionClaimed(claimed, row, run) {
				continue
			}
			endRow := scanDataRows(g, row, run.start, run.end, used.EndRow, p)
			if endRow <= row {
				continue
			}
			t := RawTable{
				HeaderRow: row,
				StartCol:  run.start,
				EndCol:    run.end,
				EndRow:    endRow,
				Headers:   headerTexts(g, row, run),
			}
			tables = append(tables, t)
			claimed = append(claimed, t.Bounds())
		}
	}
	return tables
}

// detectEmergency retries the header-run logic over the first
// EmergencyRowCap rows with a looser data rule: a row counts if anything
// anywhere in it is populated, and a single empty row only ends the
// table after more than two consecutive data rows.
func detectEmergency(g models.Grid, used models.Bounds, p DetectionParams) []RawTable {
	var tables []RawTable
	var claimed []models.Bounds

	limit := used.StartRow + p.EmergencyRowCap - 1
	if limit > used.EndRow {
		limit = used.EndRow
	}

	for row := used.StartRow; row <= limit; row++ {
		for _, run := range headerRuns(g, row, used, p.MinHeaderRun) {
			if regionClaimed(claimed, row, run) {
				continue
			}
			endRow := row
			consecutive := 0
			for r := row + 1; r <= used.EndRow; r++ {
				if rowHasData(g, r, used.StartCol, used.EndCol) {
					consecutive++
					endRow = r
					continue
				}
				if consecutive > 2 {
					break
				}
				consecutive = 0
			}
			if endRow <= row {
				continue
			}
			t := RawTable{
				HeaderRow: row,
				StartCol:  run.start,
				EndCol:    run.end,
				EndRow:    endRow,
				Headers:   headerTexts(g, row, run),
			}
			tables = append(tables, t)
			claimed = append(claimed, t.Bounds())
		}
	}
	return tables
}

// detectFallback takes the first row within FallbackRowCap rows holding
// at least two populated cells of any type as headers, synthesizing
// names for blanks. When no such row has data below it, one table
// covering the whole used rectangle is synthesized so that callers are
// never left without a table on a non-empty grid.
func detectFallback(g models.Grid, used models.Bounds, p DetectionParams) []RawTable {
	limit := used.StartRow + p.FallbackRowCap - 1
	if limit > used.EndRow {
		limit = used.EndRow
	}

	for row := used.StartRow; row <= limit; row++ {
		first, last, count := populatedSpan(g, row, used)
		if count < 2 {
			continue
		}
		endRow := row
		for r := row + 1; r <= used.EndRow; r++ {
			if rowHasData(g, r, first, last) {
				endRow = r
			}
		}
		if endRow <= row {
			continue
		}
		return []RawTable{{
			HeaderRow: row,
			StartCol:  first,
			EndCol:    last,
			EndRow:    endRow,
			Headers:   fallbackHeaders(g, row, first, last),
		}}
	}

	// Nothing header-like anywhere: the whole used rectangle becomes one
	// table with generated names. The first row stays part of the data.
	headers := make([]string, 0, used.Width())
	for col := used.StartCol; col <= used.EndCol; col++ {
		headers = append(headers, "Column "+models.ColumnLetter(col))
	}
	return []RawTable{{
		HeaderRow: used.StartRow,
		StartCol:  used.StartCol,
		EndCol:    used.EndCol,
		EndRow:    used.EndRow,
		Headers:   headers,
		Synthetic: true,
	}}
}

// colRun is a column-consecutive run of cells in one row.
type colRun struct {
	start, end int
}

// headerRuns returns the qualifying header runs in a row: maximal runs
// of column-consecutive, text-valued, non-formula cells of at least
// minRun cells.
func headerRuns(g models.Grid, row int, used models.Bounds, minRun int) []colRun {
	var runs []colRun
	runStart, prev := -1, -2

	flush := func() {
		if runStart >= 0 && prev-runStart+1 >= minRun {
			runs = append(runs, colRun{runStart, prev})
		}
	}

	for col := used.StartCol; col <= used.EndCol; col++ {
		cell, ok := g.Cell(row, col)
		if !ok || !cell.IsText() || cell.HasFormula() {
			continue
		}
		if col != prev+1 {
			flush()
			runStart = col
		}
		prev = col
	}
	flush()
	return runs
}

// headerTexts returns the header cell texts across a run.
func headerTexts(g models.Grid, row int, run colRun) []string {
	headers := make([]string, 0, run.end-run.start+1)
	for col := run.start; col <= run.end; col++ {
		cell, _ := g.Cell(row, col)
		headers = append(headers, strings.TrimSpace(cell.Text()))
	}
	return headers
}

// fallbackHeaders names the columns of a loose header row, keeping any
// populated cell's display text and synthesizing "Column X" for blanks.
func fallbackHeaders(g models.Grid, row, startCol, endCol int) []string {
	headers := make([]string, 0, endCol-startCol+1)
	for col := startCol; col <= endCol; col++ {
		cell, ok := g.Cell(row, col)
		if !ok || cell.IsEmpty() {
			headers = append(headers, "Column "+models.ColumnLetter(col))
			continue
		}
		headers = append(headers, DisplayString(cell.Value))
	}
	return headers
}

// scanDataRows walks rows below a header run and returns the last row of
// the table body, or the header row itself when no data follows.
func scanDataRows(g models.Grid, headerRow, startCol, endCol, maxRow int, p DetectionParams) int {
	lastData := headerRow
	dataRows := 0

	row := headerRow + 1
	for row <= maxRow {
		if rowHasData(g, row, startCol, endCol) {
			if dataRows >= p.SummaryMinRows && isSummaryRow(g, row, startCol, endCol, headerRow+1) {
				break
			}
			dataRows++
			lastData = row
			row++
			continue
		}

		// Empty row: sparse tables resume within the lookahead window,
		// anything further apart is a separate block.
		resume := -1
		for ahead := row + 1; ahead <= row+p.GapLookahead && ahead <= maxRow; ahead++ {
			if rowHasData(g, ahead, startCol, endCol) {
				resume = ahead
				break
			}
		}
		if resume < 0 {
			break
		}
		row = resume
	}

	return lastData
}

// isSummaryRow reports whether a row reads as a totals row for the given
// column span: a summary word in any cell, or a SUM formula covering the
// column's data body.
func isSummaryRow(g models.Grid, row, startCol, endCol, firstDataRow int) bool {
	for col := startCol; col <= endCol; col++ {
		cell, ok := g.Cell(row, col)
		if !ok || cell.IsEmpty() {
			continue
		}
		if containsSummaryWord(cell.Text()) {
			return true
		}
		if cell.Formula != "" && sumSpansBody(cell.Formula, firstDataRow, row-1) {
			return true
		}
	}
	return false
}

// containsSummaryWord matches whole words only, so "Total" and
// "Grand Total:" qualify while "Totango" does not.
func containsSummaryWord(text string) bool {
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ":.,()")
		for _, w := range summaryWords {
			if word == w {
				return true
			}
		}
	}
	return false
}

// sumSpansBody reports whether a formula sums a range covering the rows
// firstDataRow..lastDataRow.
func sumSpansBody(formula string, firstDataRow, lastDataRow int) bool {
	upper := strings.ToUpper(formula)
	i := strings.Index(upper, "SUM(")
	if i < 0 {
		return false
	}
	rest := upper[i+len("SUM("):]
	j := strings.Index(rest, ")")
	if j < 0 {
		return false
	}
	b, err := models.ParseRange(rest[:j])
	if err != nil {
		return false
	}
	return b.StartRow <= firstDataRow && b.EndRow >= lastDataRow
}

// rowHasData reports whether any cell in the column span is populated.
func rowHasData(g models.Grid, row, startCol, endCol int) bool {
	cols, ok := g[row]
	if !ok {
		return false
	}
	for col := startCol; col <= endCol; col++ {
		if cell, ok := cols[col]; ok && !cell.IsEmpty() {
			return true
		}
	}
	return false
}

// populatedSpan returns the first and last populated columns in a row
// and how many populated cells it holds.
func populatedSpan(g models.Grid, row int, used models.Bounds) (first, last, count int) {
	first, last = -1, -1
	for col := used.StartCol; col <= used.EndCol; col++ {
		cell, ok := g.Cell(row, col)
		if !ok || cell.IsEmpty() {
			continue
		}
		if first < 0 {
			first = col
		}
		last = col
		count++
	}
	return first, last, count
}

// regionClaimed reports whether any cell of the run at the given row is
// already covered by a detected table.
func regionClaimed(claimed []models.Bounds, row int, run colRun) bool {
	for _, b := range claimed {
		if row >= b.StartRow && row <= b.EndRow && run.start <= b.EndCol && run.end >= b.StartCol {
			return true
		}
	}
	return false
}
