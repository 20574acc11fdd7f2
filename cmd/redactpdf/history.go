package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show runs recorded with --history",
		Long: `History lists redaction runs recorded with --history, newest first.

Examples:
  # List all recorded runs
  redactpdf history

  # Only batch production records
  redactpdf history --type BPR

  # Export to a spreadsheet
  redactpdf history --xlsx runs.xlsx`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("type", "t", "", "Only show runs of this document type")
	cmd.Flags().String("xlsx", "", "Write the runs to an XLSX workbook")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	docType, err := cmd.Flags().GetString("type")
	if err != nil {
		return err
	}
	xlsxPath, err := cmd.Flags().GetString("xlsx")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs recorded yet (use --history when redacting).")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), docType)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		data, err := database.ExportXLSX(runs)
		if err != nil {
			return fmt.Errorf("failed to export history: %w", err)
		}
		if err := os.WriteFile(xlsxPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", xlsxPath, err)
		}
		fmt.Fprintf(out, "Exported %d runs to %s\n", len(runs), xlsxPath)
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-8s  %-20s  %-10s  %-7s  %-7s  %-5s  %s\n",
		"ID", "Processed", "Type", "Pages", "Skipped", "Zones", "Source")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-8s  %-20s  %-10s  %-7d  %-7d  %-5d  %s\n",
			r.ID.String()[:8],
			r.ProcessedAt.Local().Format("2006-01-02 15:04:05"),
			r.DocumentType,
			r.Stats.RedactedPages,
			r.Stats.SkippedPages,
			r.Stats.TotalZonesApplied,
			r.SourceFile,
		)
	}
	return nil
}
