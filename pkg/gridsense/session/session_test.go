package session

import (
	"fmt"
	"testing"
)

func TestNewSessionsAreDistinct(t *testing.T) {
	a, b := New(), New()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("Sessions need distinct IDs, got %q and %q", a.ID(), b.ID())
	}
	if a.StartedAt().IsZero() {
		t.Error("StartedAt should be stamped")
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := New()
	s.Record("add_totals", "C5", "sum of Revenue")
	s.Record("write_cell", "D1", "")
	s.Record("highlight", "A1:C1", "header fill")

	recent := s.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 actions, got %d", len(recent))
	}
	if recent[0].Kind != "highlight" || recent[1].Kind != "write_cell" {
		t.Errorf("Expected newest first, got %v", recent)
	}
	if recent[0].At.IsZero() {
		t.Error("Actions should be timestamped")
	}

	if got := s.Recent(10); len(got) != 3 {
		t.Errorf("Asking for more than recorded should cap, got %d", len(got))
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	s := New()
	for i := 0; i < MaxActions+10; i++ {
		s.Record("step", fmt.Sprintf("A%d", i+1), "")
	}

	all := s.Recent(MaxActions + 10)
	if len(all) != MaxActions {
		t.Fatalf("Expected log capped at %d, got %d", MaxActions, len(all))
	}
	if all[0].Ref != fmt.Sprintf("A%d", MaxActions+10) {
		t.Errorf("Newest action missing, got %s", all[0].Ref)
	}
	if all[len(all)-1].Ref != "A11" {
		t.Errorf("Oldest surviving action should be A11, got %s", all[len(all)-1].Ref)
	}
}

func TestPlacementMemory(t *testing.T) {
	s := New()
	if s.LastPlacement() != "" {
		t.Error("Fresh session should have no placement")
	}
	s.SetLastPlacement("E1:F4")
	if got := s.LastPlacement(); got != "E1:F4" {
		t.Errorf("Expected E1:F4, got %s", got)
	}
}

func TestTotalsMemory(t *testing.T) {
	s := New()
	s.RememberTotal("Revenue", "C10")
	s.RememberTotal("Qty", "B10")

	if got := s.TotalFor("Revenue"); got != "C10" {
		t.Errorf("Expected C10, got %s", got)
	}
	if got := s.TotalFor("Margin"); got != "" {
		t.Errorf("Unknown column should return empty, got %s", got)
	}

	totals := s.Totals()
	if len(totals) != 2 {
		t.Errorf("Expected 2 totals, got %v", totals)
	}
	// The returned map is a copy.
	totals["Revenue"] = "Z99"
	if got := s.TotalFor("Revenue"); got != "C10" {
		t.Errorf("Mutating the copy must not leak back, got %s", got)
	}
}

func TestClear(t *testing.T) {
	s := New()
	id := s.ID()
	s.Record("step", "A1", "")
	s.SetLastPlacement("B2")
	s.RememberTotal("Qty", "B10")

	s.Clear()

	if s.ID() != id {
		t.Error("Clear must keep the session identity")
	}
	if len(s.Recent(10)) != 0 || s.LastPlacement() != "" || s.TotalFor("Qty") != "" {
		t.Error("Clear must drop all accumulated state")
	}
}
