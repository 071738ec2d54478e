// Package session holds per-chat-session interaction state. The state
// object is created when a session starts, passed by reference to tool
// handlers, and cleared when the session ends; nothing in it is global.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxActions bounds the action log. Older entries fall off the front.
const MaxActions = 50

// Action is one recorded tool action.
type Action struct {
	// Kind names the action ("add_totals", "write_cell", ...).
	Kind string `json:"kind"`
	// Ref is the cell or range the action touched, when it touched one.
	Ref string `json:"ref,omitempty"`
	// Detail carries free-form context for prompt building.
	Detail string `json:"detail,omitempty"`
	// At is when the action ran.
	At time.Time `json:"at"`
}

// State is the per-session interaction record: what ran, where output
// was last placed, and which totals were written. Safe for concurrent
// use.
type State struct {
	id        string
	startedAt time.Time

	mu            sync.Mutex
	actions       []Action
	lastPlacement string
	totals        map[string]string
}

// New returns a fresh session state.
func New() *State {
	return &State{
		id:        uuid.NewString(),
		startedAt: time.Now(),
		totals:    make(map[string]string),
	}
}

// ID returns the session identifier.
func (s *State) ID() string {
	return s.id
}

// StartedAt returns when the session began.
func (s *State) StartedAt() time.Time {
	return s.startedAt
}

// Record appends an action to the log, evicting the oldest entry once
// MaxActions is reached.
func (s *State) Record(kind, ref, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, Action{Kind: kind, Ref: ref, Detail: detail, At: time.Now()})
	if len(s.actions) > MaxActions {
		s.actions = s.actions[len(s.actions)-MaxActions:]
	}
}

// Recent returns up to n actions, newest first.
func (s *State) Recent(n int) []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.actions) {
		n = len(s.actions)
	}
	out := make([]Action, 0, n)
	for i := len(s.actions) - 1; i >= len(s.actions)-n; i-- {
		out = append(out, s.actions[i])
	}
	return out
}

// SetLastPlacement records where output was most recently placed.
func (s *State) SetLastPlacement(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPlacement = ref
}

// LastPlacement returns the most recent placement, "" when none.
func (s *State) LastPlacement() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPlacement
}

// RememberTotal records the cell a column's total was written to, so a
// later turn can update instead of duplicating it.
func (s *State) RememberTotal(column, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[column] = ref
}

// TotalFor returns the recorded total cell for a column, "" when none.
func (s *State) TotalFor(column string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals[column]
}

// Totals returns a copy of all recorded totals.
func (s *State) Totals() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.totals))
	for k, v := range s.totals {
		out[k] = v
	}
	return out
}

// Clear empties the session record. The identity survives; everything
// accumulated during the session goes.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = nil
	s.lastPlacement = ""
	s.totals = make(map[string]string)
}
