package gridsense

import (
	"time"

	"github.com/gridsense/gridsense-go/pkg/gridsense/analyzer"
	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

// Analyze runs the full detection pipeline over one grid snapshot:
// boundary scan, table detection, column profiling, spatial analysis,
// and semantic interpretation. It never fails; an empty grid yields a
// context with no tables.
func Analyze(g models.Grid, opts Options) *models.SheetContext {
	log := opts.logger()

	used := analyzer.UsedBounds(g)
	ctx := &models.SheetContext{
		Bounds:  used,
		BuiltAt: time.Now(),
	}
	if used.EndRow < 0 {
		log.Debug("analyze.empty_grid")
		return ctx
	}

	raws := analyzer.DetectTables(g, used, opts.Detection)
	for _, rt := range raws {
		ctx.Tables = append(ctx.Tables, buildTable(g, rt, opts))
	}
	if len(ctx.Tables) > 0 {
		ctx.Primary = ctx.Tables[0]
		ctx.Strategy = raws[0].Strategy
	}
	if ctx.Strategy != "" && ctx.Strategy != "standard" {
		log.Warn("analyze.fallback_strategy", "strategy", ctx.Strategy, "used_range", used.Range())
	}

	if opts.ShouldIncludeSemantics() {
		ctx.Links = analyzer.SharedColumns(ctx.Tables)
	}
	if opts.ShouldIncludeZones() {
		ctx.Zones = analyzer.PlacementZones(ctx.Tables)
	}

	log.Debug("analyze.complete",
		"tables", len(ctx.Tables),
		"strategy", ctx.Strategy,
		"links", len(ctx.Links),
		"zones", len(ctx.Zones),
	)
	return ctx
}

func buildTable(g models.Grid, rt analyzer.RawTable, opts Options) *models.Table {
	b := rt.Bounds()
	t := &models.Table{
		ID:               b.Range(),
		Range:            b.Range(),
		Bounds:           b,
		HeaderRow:        rt.HeaderRow,
		Headers:          rt.Headers,
		SyntheticHeaders: rt.Synthetic,
		Columns:          analyzer.ProfileColumns(g, rt, opts.Profile),
	}
	t.RowCount = t.DataBounds().Height()
	t.Spatial = analyzer.AnalyzeSpace(g, b, opts.Spatial)
	if opts.ShouldIncludeSemantics() {
		t.Semantics = analyzer.AnalyzeSemantics(t.Columns)
	}
	return t
}
