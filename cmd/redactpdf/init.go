package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/redactpdf/internal/config"
)

//go:embed templates/redaction_config.json
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a zone configuration file",
		Long: `Initialize creates a redaction_config.json in the current directory.

The generated file defines example document types (BPR, COA, SOP) with
header and footer bands, cover page zones and skip pages. Adjust the
pixel coordinates to your documents at the DPI you redact with.

Examples:
  # Create redaction_config.json in current directory
  redactpdf init

  # Create config file at a specific path
  redactpdf init -o ~/.config/redactpdf/redaction_config.json

  # Force overwrite existing file
  redactpdf init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/redaction_config.json")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to define, per document type:")
	fmt.Fprintln(out, "  - Header and footer band heights")
	fmt.Fprintln(out, "  - Cover page rectangles")
	fmt.Fprintln(out, "  - Pages to drop from the output")

	return nil
}
