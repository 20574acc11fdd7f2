package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/audit"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <output-dir>...",
		Short: "Check redaction output against its processing log",
		Long: `Verify checks that an output directory is a complete, untampered run:

- redaction_log.json exists and parses
- every listed page file exists and matches its recorded digest
- no unlisted page files and no skipped pages are present
- page files carry no EXIF metadata

Exits with status 1 if any directory has a problem.

Examples:
  redactpdf verify record_redacted
  redactpdf verify out/*_redacted`,
		Args: cobra.MinimumNArgs(1),
		RunE: runVerifyCmd,
	}
}

// runVerifyCmd executes the verify command.
func runVerifyCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, dir := range args {
		result, err := audit.Verify(dir)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %s\n      %v\n", dir, err)
			continue
		}

		if result.OK() {
			fmt.Fprintf(out, "OK    %s (%d files checked)\n", dir, result.Checked)
			continue
		}

		failed++
		fmt.Fprintf(out, "FAIL  %s (%d problems)\n", dir, len(result.Problems))
		for _, p := range result.Problems {
			fmt.Fprintf(out, "      %s\n", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("verification failed for %d of %d directories", failed, len(args))
	}
	return nil
}
