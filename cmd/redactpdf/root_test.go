package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/redactpdf/internal/config"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "redactpdf [pdf...]" {
			t.Errorf("expected use 'redactpdf [pdf...]', got %q", cmd.Use)
		}
	})

	t.Run("has descriptions and version", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" || cmd.Long == "" {
			t.Error("expected non-empty descriptions")
		}
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("has verbose and config flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if cmd.PersistentFlags().Lookup("config") == nil {
			t.Error("expected config flag")
		}
	})

	t.Run("has redaction flags with defaults", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			name     string
			defValue string
		}{
			{"type", ""},
			{"output", ""},
			{"pages", ""},
			{"dpi", "300"},
			{"no-stamp", "false"},
			{"report", "text"},
			{"workers", "4"},
			{"history", "false"},
		}
		for _, tt := range tests {
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Errorf("expected %s flag", tt.name)
				continue
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %s: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		want := map[string]bool{"types": false, "init": false, "verify": false, "history": false, "version": false}
		for _, sub := range cmd.Commands() {
			name := strings.Fields(sub.Use)[0]
			if _, ok := want[name]; ok {
				want[name] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected %s subcommand", name)
			}
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestRootCmd_Errors tests failures that happen before any rendering.
func TestRootCmd_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no arguments prints help", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Usage:") {
			t.Errorf("expected help output, got %q", buf.String())
		}
	})

	t.Run("missing type", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"doc.pdf", "-c", writeZoneConfig(t)})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrNoDocumentType) {
			t.Errorf("expected ErrNoDocumentType, got %v", err)
		}
	})

	t.Run("invalid page range", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"doc.pdf", "--type", "BPR", "--pages", "5-2"})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrInvalidPageRange) {
			t.Errorf("expected ErrInvalidPageRange, got %v", err)
		}
	})

	t.Run("explicit config file missing", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"doc.pdf", "--type", "BPR", "-c", filepath.Join(t.TempDir(), "none.json")})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("unknown document type creates nothing", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		pdf := filepath.Join(dir, "record.pdf")

		cmd := NewRootCmd()
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{pdf, "--type", "NOPE", "-c", writeZoneConfig(t)})

		err := cmd.Execute()
		if !errors.Is(err, config.ErrUnknownDocumentType) {
			t.Fatalf("expected ErrUnknownDocumentType, got %v", err)
		}
		if !strings.Contains(err.Error(), "BPR, COA") {
			t.Errorf("expected available types in error, got %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "record_redacted")); !os.IsNotExist(err) {
			t.Error("expected no output directory")
		}
	})
}
