package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestHistoryCmd tests listing and exporting recorded runs.
func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	// recorded returns a history directory holding one BPR and one COA run.
	recorded := func(t *testing.T) string {
		t.Helper()
		historyDir := t.TempDir()
		for _, docType := range []string{"BPR", "COA"} {
			cfg := redactConfig(t, docType, filepath.Join(t.TempDir(), strings.ToLower(docType)+".pdf"))
			cfg.SaveHistory = true
			cfg.HistoryDir = historyDir
			if _, _, err := redactOutput(t, cfg, 3); err != nil {
				t.Fatalf("failed to redact: %v", err)
			}
		}
		return historyDir
	}

	t.Run("no database yet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", filepath.Join(t.TempDir(), "none")})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded yet") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("lists runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", recorded(t)})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Recorded runs (2):") {
			t.Errorf("unexpected output %q", output)
		}
		if !strings.Contains(output, "bpr.pdf") || !strings.Contains(output, "coa.pdf") {
			t.Errorf("expected both sources, got %q", output)
		}
	})

	t.Run("filters by type", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", recorded(t), "--type", "COA"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "Recorded runs (1):") || strings.Contains(output, "bpr.pdf") {
			t.Errorf("unexpected output %q", output)
		}
	})

	t.Run("exports xlsx", func(t *testing.T) {
		t.Parallel()

		xlsx := filepath.Join(t.TempDir(), "runs.xlsx")

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", recorded(t), "--xlsx", xlsx})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, err := os.Stat(xlsx)
		if err != nil || info.Size() == 0 {
			t.Fatalf("expected workbook at %s: %v", xlsx, err)
		}
		if !strings.Contains(buf.String(), "Exported 2 runs") {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
