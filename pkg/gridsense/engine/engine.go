// Package engine binds external spreadsheet sources to the analysis
// core: an excelize-backed workbook, an in-process grid store, and a
// file watcher for on-disk change detection. The core never talks to a
// source directly; it sees snapshots and a fixed editing capability set.
package engine

import (
	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// Op identifies a mutation kind.
type Op string

const (
	// OpValue is a literal cell write.
	OpValue Op = "value"
	// OpFormula is a formula cell write.
	OpFormula Op = "formula"
	// OpStyle is a presentation-only change.
	OpStyle Op = "style"
	// OpClear removes cell contents.
	OpClear Op = "clear"
)

// Mutation describes one applied edit.
type Mutation struct {
	// Sheet is the sheet the edit landed on.
	Sheet string `json:"sheet"`
	// Ref is the cell or range written, in A1 notation.
	Ref string `json:"ref"`
	// Op is the kind of edit.
	Op Op `json:"op"`
}

// Hook receives each successful mutation, in application order.
type Hook func(Mutation)

// Snapshotter hands out read-only grid snapshots of one sheet.
type Snapshotter interface {
	Snapshot(sheet string) (models.Grid, error)
}

// Editor is the fixed capability set mutating tools go through. Bindings
// implement it once; the core never probes a source for what it can do.
type Editor interface {
	SetValue(sheet, ref string, value interface{}) error
	SetFormula(sheet, ref, formula string) error
	SetBackground(sheet, ref, hexColor string) error
	Clear(sheet, ref string) error
}

// WithMutationHook wraps an editor so hook runs after every successful
// mutation. Failed mutations do not fire the hook.
func WithMutationHook(e Editor, hook Hook) Editor {
	return &hookedEditor{inner: e, hook: hook}
}

type hookedEditor struct {
	inner Editor
	hook  Hook
}

func (h *hookedEditor) SetValue(sheet, ref string, value interface{}) error {
	if err := h.inner.SetValue(sheet, ref, value); err != nil {
		return err
	}
	h.hook(Mutation{Sheet: sheet, Ref: ref, Op: OpValue})
	return nil
}

func (h *hookedEditor) SetFormula(sheet, ref, formula string) error {
	if err := h.inner.SetFormula(sheet, ref, formula); err != nil {
		return err
	}
	h.hook(Mutation{Sheet: sheet, Ref: ref, Op: OpFormula})
	return nil
}

func (h *hookedEditor) SetBackground(sheet, ref, hexColor string) error {
	if err := h.inner.SetBackground(sheet, ref, hexColor); err != nil {
		return err
	}
	h.hook(Mutation{Sheet: sheet, Ref: ref, Op: OpStyle})
	return nil
}

func (h *hookedEditor) Clear(sheet, ref string) error {
	if err := h.inner.Clear(sheet, ref); err != nil {
		return err
	}
	h.hook(Mutation{Sheet: sheet, Ref: ref, Op: OpClear})
	return nil
}
