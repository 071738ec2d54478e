// Package main provides the CLI entry point for gridsense.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gridsense/gridsense-go/pkg/gridsense"
	"github.com/gridsense/gridsense-go/pkg/gridsense/engine"
	"github.com/gridsense/gridsense-go/pkg/gridsense/logging"
	"github.com/gridsense/gridsense-go/pkg/gridsense/models"
)

var (
	outputPath string
	pretty     bool
	sheetName  string
	configPath string
	watchFile  bool
	verbose    bool
	showStats  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridsense [input.xlsx]",
		Short: "Detect tables and spatial context in spreadsheets",
		Long: `gridsense analyzes a spreadsheet with no declared structure and infers
table boundaries, column types, semantics, and safe placement zones,
then outputs the sheet context as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to analyze (default: first sheet)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (YAML or JSON)")
	rootCmd.Flags().BoolVar(&watchFile, "watch", false, "Re-analyze when the file changes on disk")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log analysis events to stderr")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "Append cache stats to the output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := gridsense.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if sheetName != "" {
		cfg.Sheet = sheetName
	}

	logger := logging.Nop()
	if verbose {
		logger = logging.New(os.Stderr, true)
	}

	wb, err := engine.OpenWorkbook(inputPath)
	if err != nil {
		return err
	}
	defer wb.Close()

	sheet := cfg.Sheet
	if sheet == "" {
		sheets := wb.Sheets()
		if len(sheets) == 0 {
			return fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	mgr := gridsense.NewManager(wb, sheet,
		gridsense.WithTTL(cfg.Cache.TTL),
		gridsense.WithAnalysis(cfg.Options(logger)),
		gridsense.WithLogger(logger),
	)

	ctx, err := mgr.Context(true)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := emit(mgr, ctx); err != nil {
		return err
	}

	if !watchFile {
		return nil
	}
	return watch(inputPath, wb, mgr, logger)
}

func watch(path string, wb *engine.Workbook, mgr *gridsense.Manager, logger *slog.Logger) error {
	w, err := engine.WatchFile(path, engine.DefaultDebounce, func() {
		if err := wb.Reload(); err != nil {
			logger.Warn("watch.reload_failed", "error", err.Error())
			return
		}
		mgr.Invalidate()
		ctx, err := mgr.Context(false)
		if err != nil {
			logger.Warn("watch.analysis_failed", "error", err.Error())
			return
		}
		if err := emit(mgr, ctx); err != nil {
			logger.Warn("watch.output_failed", "error", err.Error())
		}
	}, logger)
	if err != nil {
		return err
	}
	defer w.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

func emit(mgr *gridsense.Manager, ctx *models.SheetContext) error {
	payload := any(ctx)
	if showStats {
		payload = struct {
			*models.SheetContext
			Stats gridsense.Stats `json:"stats"`
		}{ctx, mgr.Stats()}
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}
