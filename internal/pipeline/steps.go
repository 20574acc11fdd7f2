package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/raster"
	"github.com/nao1215/redactpdf/internal/redact"
	"github.com/nao1215/redactpdf/internal/report"
	"github.com/nao1215/redactpdf/internal/stamp"
)

// ProgressFunc observes a run after each page. It must not influence the
// run; the pipeline ignores what it does.
type ProgressFunc func(current, total int, message string)

// Progress numbers the events of one run across steps. Conversion is
// reported as (0, 1), then every rasterized page once, skipped or not,
// against Stats.TotalPages. A nil Progress or nil func reports nothing.
type Progress struct {
	fn   ProgressFunc
	done int
}

// NewProgress wraps fn for a single run.
func NewProgress(fn ProgressFunc) *Progress {
	return &Progress{fn: fn}
}

func (p *Progress) converting() {
	if p == nil || p.fn == nil {
		return
	}
	p.fn(0, 1, "converting PDF to images")
}

func (p *Progress) page(run *model.Run, message string) {
	if p == nil || p.fn == nil {
		return
	}
	p.done++
	p.fn(p.done, run.Stats.TotalPages, message)
}

// Clock returns the current time. Tests pin it to make the stamp date and
// the log timestamp reproducible.
type Clock func() time.Time

// RasterizeStep converts the source PDF into page images.
type RasterizeStep struct {
	rasterizer raster.Rasterizer
	progress   *Progress
}

// NewRasterizeStep creates a rasterization step.
func NewRasterizeStep(rasterizer raster.Rasterizer, progress *Progress) *RasterizeStep {
	return &RasterizeStep{rasterizer: rasterizer, progress: progress}
}

// Name returns the step name.
func (s *RasterizeStep) Name() string { return "rasterize" }

// State returns StateRasterizing.
func (s *RasterizeStep) State() model.State { return model.StateRasterizing }

// Do rasterizes run.SourceFile within run.PageRange at run.DPI.
func (s *RasterizeStep) Do(ctx context.Context, run *model.Run) error {
	s.progress.converting()
	pages, err := s.rasterizer.Rasterize(ctx, run.SourceFile, run.DPI, run.PageRange)
	if err != nil {
		return err
	}
	run.Pages = pages
	run.Stats.TotalPages = len(pages)
	return nil
}

// FilterStep drops pages listed in skip_pages.
type FilterStep struct {
	logger   *slog.Logger
	progress *Progress
}

// NewFilterStep creates a skip filtering step.
func NewFilterStep(logger *slog.Logger, progress *Progress) *FilterStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterStep{logger: logger, progress: progress}
}

// Name returns the step name.
func (s *FilterStep) Name() string { return "filter" }

// State returns StateFiltering.
func (s *FilterStep) State() model.State { return model.StateFiltering }

// Do removes skipped pages from run.Pages and counts them.
func (s *FilterStep) Do(_ context.Context, run *model.Run) error {
	skip := run.Config.SkipSet()
	kept := run.Pages[:0]
	for _, page := range run.Pages {
		if _, ok := skip[page.Number]; ok {
			s.logger.Debug("skipping page", "file", run.SourceFile, "page", page.Number)
			run.Stats.SkippedPages++
			s.progress.page(run, fmt.Sprintf("page %d: skipped", page.Number))
			continue
		}
		kept = append(kept, page)
	}
	clear(run.Pages[len(kept):])
	run.Pages = kept
	return nil
}

// RedactStep fills the configured zones on every retained page and stamps
// the pages that were modified.
type RedactStep struct {
	clock    Clock
	progress *Progress
}

// NewRedactStep creates a redaction step. A nil progress is allowed.
func NewRedactStep(clock Clock, progress *Progress) *RedactStep {
	if clock == nil {
		clock = time.Now
	}
	return &RedactStep{clock: clock, progress: progress}
}

// Name returns the step name.
func (s *RedactStep) Name() string { return "redact" }

// State returns StateRedacting.
func (s *RedactStep) State() model.State { return model.StateRedacting }

// Do applies zones page by page in source order.
func (s *RedactStep) Do(ctx context.Context, run *model.Run) error {
	date := s.clock()

	for _, page := range run.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, applied := redact.ApplyZones(page, run.Config)
		if run.Stamp {
			stamp.Stamp(page, run.DocumentType, date)
		}
		run.Stats.TotalZonesApplied += applied

		s.progress.page(run, fmt.Sprintf("page %d: %d zone(s) applied", page.Number, applied))
	}
	return nil
}

// PersistStep writes retained pages as PNG files into the output directory.
type PersistStep struct {
	logger *slog.Logger
}

// NewPersistStep creates a persistence step.
func NewPersistStep(logger *slog.Logger) *PersistStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string { return "persist" }

// State returns StatePersisting.
func (s *PersistStep) State() model.State { return model.StatePersisting }

// Do creates the output directory and writes p%03d.png for each page,
// releasing every page once it is on disk.
//
// A log left by an earlier run in the same directory is removed first, so
// a crash during this run cannot leave the directory looking complete.
func (s *PersistStep) Do(ctx context.Context, run *model.Run) error {
	if err := os.MkdirAll(run.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	stale := filepath.Join(run.OutputDir, model.LogFileName)
	if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove stale processing log: %w", err)
	}

	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	var buf bytes.Buffer

	for i, page := range run.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf.Reset()
		if err := encoder.Encode(&buf, page.Image); err != nil {
			return fmt.Errorf("failed to encode page %d: %w", page.Number, err)
		}

		name := page.FileName()
		path := filepath.Join(run.OutputDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // page images are shared with downstream tools
			return fmt.Errorf("failed to write page %d: %w", page.Number, err)
		}

		run.Stats.OutputFiles = append(run.Stats.OutputFiles, name)
		run.Digests = append(run.Digests, model.PageDigest{File: name, Digest: report.DigestBytes(buf.Bytes())})
		run.Stats.RedactedPages++
		run.Pages[i] = nil

		s.logger.Debug("page written", "file", path, "zones", page.AppliedZones)
	}

	run.Pages = nil
	return nil
}

// LogStep writes the processing log. It must be the last step.
type LogStep struct {
	clock Clock
}

// NewLogStep creates the log writing step.
func NewLogStep(clock Clock) *LogStep {
	if clock == nil {
		clock = time.Now
	}
	return &LogStep{clock: clock}
}

// Name returns the step name.
func (s *LogStep) Name() string { return "log" }

// State returns StatePersisting; the log is part of persisting the run.
func (s *LogStep) State() model.State { return model.StatePersisting }

// Do builds the processing log and commits it to the output directory.
func (s *LogStep) Do(_ context.Context, run *model.Run) error {
	log := report.BuildLog(run, s.clock())
	if _, err := report.WriteLog(run.OutputDir, log); err != nil {
		return err
	}
	run.Log = log
	return nil
}
