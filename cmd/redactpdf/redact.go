package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/database"
	seclog "github.com/nao1215/redactpdf/internal/log"
	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/pipeline"
	"github.com/nao1215/redactpdf/internal/report"
)

// runRedactCmd executes the root command.
func runRedactCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := seclog.NewSecureLogger(cmd.ErrOrStderr(), seclog.Options{
		Verbose: cfg.Verbose,
		Terms:   cfg.ConfidentialTerms,
	})
	slog.SetDefault(logger)

	// Zone configuration is discovered once, here, and passed down.
	set, err := loadZoneConfig(cfg.ConfigFilePath)
	if err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	engine := pipeline.NewEngine(pipeline.WithEngineLogger(logger))
	return runRedact(ctx, cfg, set, engine, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the zone configuration path from the command or
// its parent. A command built on its own has no such flag.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.DocumentType, err = cmd.Flags().GetString("type")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	pages, err := cmd.Flags().GetString("pages")
	if err != nil {
		return nil, err
	}
	if pages != "" {
		cfg.PageRange, err = config.ParsePageRange(pages)
		if err != nil {
			return nil, err
		}
	}

	cfg.DPI, err = cmd.Flags().GetInt("dpi")
	if err != nil {
		return nil, err
	}

	noStamp, err := cmd.Flags().GetBool("no-stamp")
	if err != nil {
		return nil, err
	}
	cfg.Stamp = !noStamp

	cfg.ReportFormat, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("workers")
	if err != nil {
		return nil, err
	}

	cfg.SaveHistory, err = cmd.Flags().GetBool("history")
	if err != nil {
		return nil, err
	}

	cfg.ConfidentialTerms, err = cmd.Flags().GetStringSlice("mask")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath = getConfigFlag(cmd)
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Inputs = args

	return cfg, nil
}

// loadZoneConfig finds and loads the zone configuration.
// An explicit path that does not exist is an error, as is finding no file
// at all: without rules nothing can be redacted.
func loadZoneConfig(path string) (*model.ZoneConfigSet, error) {
	found := config.FindConfigFile(path)
	if found == "" {
		if path != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: no %s in the current directory, next to the binary or in %s (run 'redactpdf init' to create one)",
			config.ErrConfigNotFound, config.DefaultConfigFile, config.XDGConfigDir())
	}
	return config.LoadZoneConfig(found)
}

// runRedact processes every input and prints a summary per completed run.
// It returns an error if any run failed.
func runRedact(ctx context.Context, cfg *config.Config, set *model.ZoneConfigSet, engine *pipeline.Engine, out, errOut io.Writer, logger *slog.Logger) error {
	// Unknown types fail before any file is touched.
	if _, err := config.Resolve(set, cfg.DocumentType); err != nil {
		return err
	}

	var db *database.HistoryDB
	if cfg.SaveHistory {
		var err error
		db, err = database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		logger.Info("history database opened", "dir", cfg.HistoryDir)
	}

	reqs := make([]pipeline.Request, 0, len(cfg.Inputs))
	for _, input := range cfg.Inputs {
		reqs = append(reqs, pipeline.Request{
			PDFPath:      input,
			DocumentType: cfg.DocumentType,
			Configs:      set,
			OutputDir:    cfg.OutputDir,
			PageRange:    cfg.PageRange,
			DPI:          cfg.DPI,
			Stamp:        cfg.Stamp,
		})
	}

	startTime := time.Now()
	var results []pipeline.Result
	if len(reqs) == 1 {
		if cfg.ReportFormat == config.ReportText {
			reqs[0].Progress = progressPrinter(errOut)
		}
		fmt.Fprintf(errOut, "Redacting %s...\n", reqs[0].PDFPath)
		run, err := engine.Execute(ctx, reqs[0])
		results = []pipeline.Result{{Request: reqs[0], Run: run, Err: err}}
	} else {
		fmt.Fprintf(errOut, "Redacting %d documents (workers: %d)...\n", len(reqs), cfg.Workers)
		bp := pipeline.NewBatchProcessor(engine,
			pipeline.WithConcurrency(cfg.Workers),
			pipeline.WithBatchLogger(logger),
		)
		var err error
		results, err = bp.ProcessBatch(ctx, reqs)
		if err != nil {
			return err
		}
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(errOut, "Redaction failed for %s: %v\n", result.Request.PDFPath, result.Err)
			continue
		}

		summary := &report.Summary{OutputDir: result.Run.OutputDir, Log: result.Run.Log}
		if err := outputReport(cfg, out, summary); err != nil {
			logger.Error("report failed", "file", result.Request.PDFPath, "error", err)
		}

		if err := saveRun(ctx, db, summary, logger); err != nil {
			logger.Error("failed to record run", "file", result.Request.PDFPath, "error", err)
		}
	}

	fmt.Fprintf(errOut, "Completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// progressPrinter reports page progress on w.
func progressPrinter(w io.Writer) pipeline.ProgressFunc {
	return func(current, total int, message string) {
		fmt.Fprintf(w, "  [%d/%d] %s\n", current, total, message)
	}
}

// outputReport prints the summary in the requested format.
func outputReport(cfg *config.Config, out io.Writer, summary *report.Summary) error {
	var writer report.Writer
	switch cfg.ReportFormat {
	case config.ReportJSON:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	case config.ReportMarkdown:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
	_, err := writer.Write(summary)
	return err
}

// saveRun records the run in the history database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.HistoryDB, summary *report.Summary, logger *slog.Logger) error {
	if db == nil {
		return nil
	}
	if summary.Log == nil {
		return errors.New("run has no processing log")
	}

	id, err := db.SaveRun(ctx, summary.OutputDir, summary.Log)
	if err != nil {
		return err
	}

	logger.Info("run recorded", "id", id, "output", summary.OutputDir)
	return nil
}
