package gridsense

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gridsense/gridsense-go/pkg/gridsense/logging"
	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// DefaultTTL is how long a built context stays fresh without an
// explicit invalidation.
const DefaultTTL = 5 * time.Second

// Snapshotter hands out read-only grid snapshots. The snapshot must
// reflect the latest committed edits at call time; flushing pending
// writes first is the caller's responsibility.
type Snapshotter interface {
	Snapshot(sheet string) (models.Grid, error)
}

// Manager serves sheet context from a TTL cache, rebuilding on expiry,
// on explicit invalidation, and on mutation events. It is safe for
// concurrent use; concurrent requests during a rebuild share one
// snapshot instead of racing the source.
type Manager struct {
	source Snapshotter
	opts   Options
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	sheet   string
	cached  *models.SheetContext
	builtAt time.Time
	valid   bool
	gen     uint64
	stats   Stats

	group singleflight.Group
	now   func() time.Time
}

// Stats is a point-in-time snapshot of cache behavior.
type Stats struct {
	// Hits counts context requests served from the cache.
	Hits uint64 `json:"hits"`
	// Misses counts requests that triggered or joined a rebuild.
	Misses uint64 `json:"misses"`
	// Rebuilds counts completed detection passes.
	Rebuilds uint64 `json:"rebuilds"`
	// Invalidations counts explicit invalidations, mutations and sheet
	// switches included.
	Invalidations uint64 `json:"invalidations"`
	// BuiltAt is when the cached context was last rebuilt.
	BuiltAt time.Time `json:"built_at"`
	// Valid reports whether the cached context is currently usable.
	Valid bool `json:"valid"`
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the cache TTL. Zero or negative disables the time-based
// expiry, leaving only explicit invalidation.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithAnalysis sets the analysis options used on rebuild.
func WithAnalysis(opts Options) ManagerOption {
	return func(m *Manager) {
		m.opts = opts
	}
}

// WithLogger sets the event logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a manager bound to one grid source and one active
// sheet.
func NewManager(source Snapshotter, sheet string, opts ...ManagerOption) *Manager {
	m := &Manager{
		source: source,
		sheet:  sheet,
		opts:   DefaultOptions(),
		ttl:    DefaultTTL,
		logger: logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.opts.Logger == nil {
		m.opts.Logger = m.logger
	}
	return m
}

// Sheet returns the active sheet name.
func (m *Manager) Sheet() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sheet
}

// SetSheet switches the active sheet. A switch counts as mutation: the
// cached context is dropped and the next Context call rebuilds.
func (m *Manager) SetSheet(sheet string) {
	m.mu.Lock()
	if m.sheet == sheet {
		m.mu.Unlock()
		return
	}
	m.sheet = sheet
	m.valid = false
	m.gen++
	m.stats.Invalidations++
	m.mu.Unlock()

	contextInvalidations.Inc()
	m.logger.Debug("context.sheet_switch", "sheet", sheet)
}

// Context returns the sheet context, rebuilding when the cache has
// expired, has been invalidated, or force is true. Within the TTL and
// absent invalidation, callers get the same context pointer back, so
// consecutive tool calls observe one consistent snapshot.
func (m *Manager) Context(force bool) (*models.SheetContext, error) {
	m.mu.Lock()
	if !force && m.fresh() {
		m.stats.Hits++
		ctx := m.cached
		m.mu.Unlock()
		contextCacheHits.Inc()
		return ctx, nil
	}
	m.stats.Misses++
	sheet, gen := m.sheet, m.gen
	m.mu.Unlock()
	contextCacheMisses.Inc()

	// Concurrent misses for the same sheet state join one rebuild and
	// all receive the same snapshot. The generation in the key keeps
	// callers arriving after an invalidation off a pass whose snapshot
	// predates it.
	key := fmt.Sprintf("%s@%d", sheet, gen)
	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		return m.rebuild(sheet, gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.SheetContext), nil
}

// fresh reports cache validity. Callers must hold m.mu.
func (m *Manager) fresh() bool {
	if !m.valid || m.cached == nil {
		return false
	}
	return m.ttl <= 0 || m.now().Sub(m.builtAt) < m.ttl
}

func (m *Manager) rebuild(sheet string, gen uint64) (*models.SheetContext, error) {
	start := m.now()
	grid, err := m.source.Snapshot(sheet)
	if err != nil {
		m.logger.Warn("context.snapshot_failed", "sheet", sheet, "error", err.Error())
		return nil, err
	}

	ctx := Analyze(grid, m.opts)
	ctx.Sheet = sheet
	elapsed := m.now().Sub(start)

	m.mu.Lock()
	m.stats.Rebuilds++
	// An invalidation that landed mid-rebuild outdates this snapshot:
	// hand it to the callers already waiting on it, but leave the cache
	// invalid so the next request sees the mutation.
	if m.gen == gen {
		m.cached = ctx
		m.builtAt = m.now()
		m.valid = true
		m.stats.BuiltAt = m.builtAt
	}
	m.mu.Unlock()

	contextRebuildDuration.Observe(elapsed.Seconds())
	tablesPerRebuild.Observe(float64(len(ctx.Tables)))
	m.logger.Info("context.rebuild",
		"sheet", sheet,
		"tables", len(ctx.Tables),
		"strategy", ctx.Strategy,
		"duration_ms", elapsed.Milliseconds(),
	)
	return ctx, nil
}

// Invalidate marks the cached context invalid. The next Context call
// rebuilds regardless of age; a rebuild already in flight cannot
// re-validate the cache past this point.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.valid = false
	m.gen++
	m.stats.Invalidations++
	sheet := m.sheet
	m.mu.Unlock()

	contextInvalidations.Inc()
	m.logger.Debug("context.invalidate", "sheet", sheet)
}

// OnMutation is the invalidation hook for mutating tools: call it after
// a write lands and before the next tool in the same turn runs, so a
// TTL that has not expired cannot serve the pre-write context.
func (m *Manager) OnMutation() {
	m.logger.Debug("context.mutation", "sheet", m.Sheet())
	m.Invalidate()
}

// Stats returns current cache counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Valid = m.fresh()
	return s
}

// FindTable returns the table with the given ID, the primary table when
// id is empty, or nil. The error reports snapshot failures only.
func (m *Manager) FindTable(id string) (*models.Table, error) {
	ctx, err := m.Context(false)
	if err != nil {
		return nil, err
	}
	return FindTable(ctx, id), nil
}

// FindColumn locates a column by name or letter, nil when absent.
func (m *Manager) FindColumn(name, tableID string) (*models.Column, error) {
	ctx, err := m.Context(false)
	if err != nil {
		return nil, err
	}
	_, c := FindColumn(ctx, name, tableID)
	return c, nil
}

// SumFormula builds a sum over a column's data rows, "" when the column
// cannot be found.
func (m *Manager) SumFormula(column, tableID string) (string, error) {
	ctx, err := m.Context(false)
	if err != nil {
		return "", err
	}
	return SumFormula(ctx, column, tableID), nil
}

// OptimalPlacement returns the collision-free range for a width x height
// block.
func (m *Manager) OptimalPlacement(width, height int) (string, error) {
	ctx, err := m.Context(false)
	if err != nil {
		return "", err
	}
	return OptimalPlacement(ctx, width, height), nil
}
