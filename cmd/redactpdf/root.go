package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/config"
)

// NewRootCmd creates the root command. Running it with PDF arguments
// redacts them.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redactpdf [pdf...]",
		Short: "Black out fixed zones of PDF documents",
		Long: `redactpdf rasterizes PDF documents and opaquely fills configured zones
(header band, footer band, cover page rectangles) so that identifying text
cannot be recovered. Each document type has its own rules in
redaction_config.json.

Output is a sibling directory <name>_redacted containing p001.png, p002.png...
and redaction_log.json. The log is written last: a directory without it is
an incomplete run.

Examples:
  # Redact a batch production record
  redactpdf record.pdf --type BPR

  # Redact pages 2 to 5 only, at 150 DPI, without the REDACTED caption
  redactpdf record.pdf --type BPR --pages 2-5 --dpi 150 --no-stamp

  # Redact several documents concurrently and keep a history
  redactpdf *.pdf --type COA --workers 4 --history

  # Print a Markdown report for review tickets
  redactpdf record.pdf --type BPR --report markdown`,
		Version:       getVersion(),
		Args:          cobra.ArbitraryArgs,
		RunE:          runRedactCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Zone configuration file (default: redaction_config.json in the current directory, next to the binary or in the XDG config directory)")

	// Redaction flags
	cmd.Flags().StringP("type", "t", "",
		"Document type key in the zone configuration (required)")
	cmd.Flags().StringP("output", "o", "",
		"Output directory (default: <pdfdir>/<name>_redacted; single PDF only)")
	cmd.Flags().StringP("pages", "p", "",
		"Page range to process, e.g. 2-5 (default: all pages)")
	cmd.Flags().Int("dpi", config.DefaultDPI,
		"Rasterization resolution; zone coordinates are pixels at this resolution")
	cmd.Flags().Bool("no-stamp", false,
		"Do not add the REDACTED caption to redacted pages")

	// Report and batch flags
	cmd.Flags().StringP("report", "r", config.ReportText,
		"Summary format: text, json or markdown")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of PDFs processed concurrently")
	cmd.Flags().Bool("history", false,
		"Record completed runs in the history database")
	cmd.Flags().StringSlice("mask", nil,
		"Confidential terms masked in log output (repeatable)")

	// Add subcommands
	cmd.AddCommand(NewTypesCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVerifyCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
