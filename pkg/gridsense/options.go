// Package gridsense infers table structure from raw spreadsheet grids
// and serves the result as cached, invalidation-aware sheet context.
package gridsense

import (
	"log/slog"

	"github.com/gridsense/gridsense-go/pkg/gridsense/analyzer"
	"github.com/gridsense/gridsense-go/pkg/gridsense/logging"
)

// Options configures a single analysis pass.
type Options struct {
	// Detection tunes the table detection cascade.
	Detection analyzer.DetectionParams
	// Profile tunes column type profiling.
	Profile analyzer.ProfileParams
	// Spatial tunes the free-space scans.
	Spatial analyzer.SpatialParams
	// IncludeSemantics specifies whether table semantics and cross-table
	// links are derived. If nil, defaults to true.
	IncludeSemantics *bool
	// IncludeZones specifies whether placement zones are ranked.
	// If nil, defaults to true.
	IncludeZones *bool
	// Logger receives analysis events. If nil, events are discarded.
	Logger *slog.Logger
}

// DefaultOptions returns default analysis options.
func DefaultOptions() Options {
	return Options{
		Detection: analyzer.DefaultDetectionParams(),
		Profile:   analyzer.DefaultProfileParams(),
		Spatial:   analyzer.DefaultSpatialParams(),
	}
}

// ShouldIncludeSemantics returns whether semantic analysis runs.
func (o Options) ShouldIncludeSemantics() bool {
	if o.IncludeSemantics != nil {
		return *o.IncludeSemantics
	}
	return true
}

// ShouldIncludeZones returns whether placement zones are ranked.
func (o Options) ShouldIncludeZones() bool {
	if o.IncludeZones != nil {
		return *o.IncludeZones
	}
	return true
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Nop()
}
