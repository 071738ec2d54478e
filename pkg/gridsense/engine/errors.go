package engine

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the workbook file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNoSheet indicates the requested sheet does not exist.
var ErrNoSheet = errors.New("sheet not found")

// SnapshotError represents a failure to read a grid snapshot.
type SnapshotError struct {
	Sheet string
	Err   error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot error in sheet %q: %v", e.Sheet, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// NewSnapshotError creates a new SnapshotError.
func NewSnapshotError(sheet string, err error) *SnapshotError {
	return &SnapshotError{
		Sheet: sheet,
		Err:   err,
	}
}
