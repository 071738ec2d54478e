package gridsense

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// fakeSource serves a fixed grid and counts snapshots. An optional gate
// holds every snapshot open until released.
type fakeSource struct {
	mu    sync.Mutex
	grid  models.Grid
	err   error
	calls int
	last  string
	gate  chan struct{}
}

func (f *fakeSource) Snapshot(sheet string) (models.Grid, error) {
	f.mu.Lock()
	f.calls++
	f.last = sheet
	err := f.err
	grid := f.grid
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return grid.Clone(), nil
}

func (f *fakeSource) snapshots() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) lastSheet() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func newTestManager(t *testing.T, opts ...ManagerOption) (*Manager, *fakeSource) {
	t.Helper()
	src := &fakeSource{grid: salesGrid(t)}
	return NewManager(src, "Sheet1", opts...), src
}

func TestContextCachedWithinTTL(t *testing.T) {
	m, src := newTestManager(t)

	first, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	second, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}

	if first != second {
		t.Error("Within the TTL both calls must return the same context pointer")
	}
	if src.snapshots() != 1 {
		t.Errorf("Expected 1 snapshot, got %d", src.snapshots())
	}

	s := m.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.Rebuilds != 1 {
		t.Errorf("Unexpected stats: %+v", s)
	}
	if !s.Valid || s.BuiltAt.IsZero() {
		t.Errorf("Cache should be valid and stamped: %+v", s)
	}
}

func TestContextExpiresAfterTTL(t *testing.T) {
	m, src := newTestManager(t)
	current := time.Now()
	m.now = func() time.Time { return current }

	first, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}

	current = current.Add(DefaultTTL + time.Second)
	second, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}

	if first == second {
		t.Error("Expired cache must be rebuilt, not served")
	}
	if src.snapshots() != 2 {
		t.Errorf("Expected 2 snapshots, got %d", src.snapshots())
	}
}

func TestZeroTTLDisablesExpiry(t *testing.T) {
	m, src := newTestManager(t, WithTTL(0))
	current := time.Now()
	m.now = func() time.Time { return current }

	first, _ := m.Context(false)
	current = current.Add(24 * time.Hour)
	second, _ := m.Context(false)

	if first != second {
		t.Error("Zero TTL should leave only explicit invalidation")
	}
	if src.snapshots() != 1 {
		t.Errorf("Expected 1 snapshot, got %d", src.snapshots())
	}
}

func TestInvalidateForcesRebuild(t *testing.T) {
	m, src := newTestManager(t)

	first, _ := m.Context(false)
	m.Invalidate()
	second, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}

	if first == second {
		t.Error("Invalidation must force a rebuild inside the TTL")
	}
	if src.snapshots() != 2 {
		t.Errorf("Expected 2 snapshots, got %d", src.snapshots())
	}
	if s := m.Stats(); s.Invalidations != 1 {
		t.Errorf("Expected 1 invalidation, got %d", s.Invalidations)
	}
}

func TestOnMutationInvalidates(t *testing.T) {
	m, src := newTestManager(t)

	first, _ := m.Context(false)
	m.OnMutation()
	second, _ := m.Context(false)

	if first == second {
		t.Error("A mutation must invalidate the cached context")
	}
	if src.snapshots() != 2 {
		t.Errorf("Expected 2 snapshots, got %d", src.snapshots())
	}
}

func TestForceRefresh(t *testing.T) {
	m, src := newTestManager(t)

	m.Context(false)
	m.Context(true)

	if src.snapshots() != 2 {
		t.Errorf("Force must bypass a fresh cache, got %d snapshots", src.snapshots())
	}
}

func TestSetSheet(t *testing.T) {
	m, src := newTestManager(t)

	m.Context(false)
	m.SetSheet("Sheet2")

	if m.Sheet() != "Sheet2" {
		t.Errorf("Expected active sheet Sheet2, got %s", m.Sheet())
	}
	ctx, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if ctx.Sheet != "Sheet2" {
		t.Errorf("Context should carry the new sheet, got %s", ctx.Sheet)
	}
	if src.lastSheet() != "Sheet2" {
		t.Errorf("Snapshot should target the new sheet, got %s", src.lastSheet())
	}

	// Re-selecting the active sheet is a no-op.
	before := m.Stats().Invalidations
	m.SetSheet("Sheet2")
	if after := m.Stats().Invalidations; after != before {
		t.Error("Re-selecting the active sheet must not invalidate")
	}
}

func TestSnapshotErrorPropagates(t *testing.T) {
	m, src := newTestManager(t)
	boom := errors.New("boom")
	src.setErr(boom)

	ctx, err := m.Context(false)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected snapshot error, got %v", err)
	}
	if ctx != nil {
		t.Error("Failed rebuild must not return a context")
	}
	if s := m.Stats(); s.Valid {
		t.Error("Cache must stay invalid after a failed rebuild")
	}

	// The source recovering heals the manager on the next call.
	src.setErr(nil)
	if _, err := m.Context(false); err != nil {
		t.Fatalf("Recovered source should rebuild, got %v", err)
	}
}

func TestConcurrentContextSharesOneRebuild(t *testing.T) {
	src := &fakeSource{grid: salesGrid(t), gate: make(chan struct{})}
	m := NewManager(src, "Sheet1")

	const n = 10
	var wg sync.WaitGroup
	results := make([]*models.SheetContext, n)
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Context(false)
		}(i)
	}

	// Let every goroutine miss the cache and pile up on the gated
	// snapshot before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Context %d failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Error("Concurrent requests must share one snapshot")
		}
	}
	if src.snapshots() != 1 {
		t.Errorf("Expected 1 shared snapshot, got %d", src.snapshots())
	}
}

func TestInvalidateDuringRebuildNotLost(t *testing.T) {
	src := &fakeSource{grid: salesGrid(t), gate: make(chan struct{})}
	m := NewManager(src, "Sheet1")

	done := make(chan *models.SheetContext, 1)
	go func() {
		ctx, _ := m.Context(false)
		done <- ctx
	}()

	// Wait for the rebuild to be holding its snapshot open, then
	// invalidate while it is in flight.
	deadline := time.Now().Add(2 * time.Second)
	for src.snapshots() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Rebuild never started")
		}
		time.Sleep(time.Millisecond)
	}
	m.Invalidate()
	close(src.gate)
	stale := <-done

	// The in-flight caller still gets its snapshot, but the cache must
	// not have been re-validated by it: the next call re-snapshots.
	if s := m.Stats(); s.Valid {
		t.Error("A rebuild finishing after an invalidation must not validate the cache")
	}
	next, err := m.Context(false)
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if next == stale {
		t.Error("Post-invalidation context must come from a fresh snapshot")
	}
	if src.snapshots() != 2 {
		t.Errorf("Expected 2 snapshots, got %d", src.snapshots())
	}
}

func TestManagerLookupDelegates(t *testing.T) {
	m, _ := newTestManager(t)

	tbl, err := m.FindTable("")
	if err != nil || tbl == nil {
		t.Fatalf("FindTable failed: %v, %v", tbl, err)
	}
	col, err := m.FindColumn("revenue", "")
	if err != nil || col == nil || col.Name != "Revenue" {
		t.Fatalf("FindColumn failed: %+v, %v", col, err)
	}
	formula, err := m.SumFormula("revenue", "")
	if err != nil || formula != "=SUM(C2:C3)" {
		t.Fatalf("SumFormula = %q, %v", formula, err)
	}
	placement, err := m.OptimalPlacement(2, 2)
	if err != nil || placement != "D1:E2" {
		t.Fatalf("OptimalPlacement = %q, %v", placement, err)
	}
}

func TestManagerDelegatesSurfaceSnapshotErrors(t *testing.T) {
	m, src := newTestManager(t)
	src.setErr(errors.New("offline"))

	if _, err := m.FindTable(""); err == nil {
		t.Error("FindTable should surface snapshot errors")
	}
	if _, err := m.SumFormula("revenue", ""); err == nil {
		t.Error("SumFormula should surface snapshot errors")
	}
}
