package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/redact"
)

// NewTypesCmd creates the types command.
func NewTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types [document-type]",
		Short: "List document types and preview their rules",
		Long: `Types lists the document types defined in the zone configuration,
in file order, with a description of the zones each one redacts.

Examples:
  # List every document type
  redactpdf types

  # Preview the rules of one type
  redactpdf types BPR

  # Use a specific configuration file
  redactpdf types -c ./site/redaction_config.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTypesCmd,
	}
}

// runTypesCmd executes the types command.
func runTypesCmd(cmd *cobra.Command, args []string) error {
	set, err := loadZoneConfig(getConfigFlag(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		cfg, err := config.Resolve(set, args[0])
		if err != nil {
			return err
		}
		printType(out, args[0], cfg)
		return nil
	}

	if set.Len() == 0 {
		fmt.Fprintln(out, "No document types defined.")
		return nil
	}

	fmt.Fprintf(out, "Document types (%d):\n\n", set.Len())
	for _, docType := range set.Types() {
		cfg, _ := set.Lookup(docType)
		printType(out, docType, cfg)
		fmt.Fprintln(out)
	}
	return nil
}

// printType writes one type and its rule preview.
func printType(out io.Writer, docType string, cfg model.ZoneConfig) {
	if cfg.Description != "" {
		fmt.Fprintf(out, "%s - %s\n", docType, cfg.Description)
	} else {
		fmt.Fprintln(out, docType)
	}
	for _, line := range redact.Describe(cfg) {
		fmt.Fprintf(out, "  • %s\n", line)
	}
}
