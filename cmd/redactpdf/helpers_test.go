package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/pipeline"
	"github.com/nao1215/redactpdf/internal/raster"
)

// testZoneConfig mirrors the three page scenario: header on every page,
// one cover zone and page 2 dropped.
const testZoneConfig = `{
  "_comment": "test configuration",
  "BPR": {
    "description": "Batch production record",
    "header": {"enabled": true, "height_px": 10},
    "footer": {"enabled": false},
    "cover_page_zones": [{"x": 0, "y": 20, "w": 30, "h": 8, "label": "name"}],
    "skip_pages": [2]
  },
  "COA": {
    "footer": {"enabled": true, "height_px": 5}
  }
}`

// writeZoneConfig writes testZoneConfig into a temporary directory.
func writeZoneConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	if err := os.WriteFile(path, []byte(testZoneConfig), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func loadTestZoneConfig(t *testing.T) *model.ZoneConfigSet {
	t.Helper()
	set, err := config.ParseZoneConfig([]byte(testZoneConfig))
	if err != nil {
		t.Fatalf("failed to parse test config: %v", err)
	}
	return set
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEngine renders n flat gray pages instead of calling pdftoppm.
func testEngine(n int) *pipeline.Engine {
	imgs := make([]image.Image, n)
	for i := range imgs {
		img := image.NewRGBA(image.Rect(0, 0, 60, 80))
		for y := 0; y < 80; y++ {
			for x := 0; x < 60; x++ {
				img.SetRGBA(x, y, color.RGBA{R: 0xc0, G: 0xc0, B: uint8(0xc0 + i), A: 0xff})
			}
		}
		imgs[i] = img
	}
	return pipeline.NewEngine(
		pipeline.WithRasterizer(raster.NewImageRasterizer(imgs...)),
		pipeline.WithClock(func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }),
		pipeline.WithEngineLogger(discardLogger()),
	)
}

// redactConfig returns a valid Config for the given inputs.
func redactConfig(t *testing.T, docType string, inputs ...string) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.DocumentType = docType
	cfg.Inputs = inputs
	cfg.HistoryDir = t.TempDir()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	return cfg
}

// redactOutput runs runRedact and returns stdout, stderr and the error.
func redactOutput(t *testing.T, cfg *config.Config, pages int) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runRedact(context.Background(), cfg, loadTestZoneConfig(t), testEngine(pages), &stdout, &stderr, discardLogger())
	return stdout.String(), stderr.String(), err
}
