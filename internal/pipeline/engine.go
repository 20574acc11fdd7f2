package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
	"github.com/nao1215/redactpdf/internal/raster"
)

// OutputSuffix is appended to the PDF stem to name the default output directory.
const OutputSuffix = "_redacted"

// Request describes one redaction run.
type Request struct {
	// PDFPath is the source document.
	PDFPath string

	// DocumentType selects the rules in Configs.
	DocumentType string

	// Configs is the loaded zone configuration. It is read only.
	Configs *model.ZoneConfigSet

	// OutputDir overrides the default <pdfdir>/<stem>_redacted directory.
	OutputDir string

	// PageRange restricts rasterization. Nil means every page.
	PageRange *model.PageRange

	// DPI is the rasterization resolution. Zero means config.DefaultDPI.
	DPI int

	// Stamp enables the REDACTED caption on modified pages.
	Stamp bool

	// Progress is called once before conversion and once per rasterized
	// page. Nil is allowed.
	Progress ProgressFunc
}

// Engine runs redaction requests.
// An Engine holds no per-run state and may be used from several goroutines.
type Engine struct {
	rasterizer raster.Rasterizer
	clock      Clock
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRasterizer replaces the poppler rasterizer.
func WithRasterizer(r raster.Rasterizer) EngineOption {
	return func(e *Engine) {
		e.rasterizer = r
	}
}

// WithClock sets the time source for stamps and logs.
func WithClock(clock Clock) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithEngineLogger sets a custom logger for the engine and its pipelines.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine. Without options it renders with pdftoppm and
// uses the wall clock.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.rasterizer == nil {
		e.rasterizer = raster.NewPoppler(raster.WithLogger(e.logger))
	}
	return e
}

// Run executes a request with a default Engine and returns the output
// directory and the run statistics.
func Run(ctx context.Context, req Request) (string, model.Stats, error) {
	return NewEngine().Run(ctx, req)
}

// Run executes a request and returns the output directory and the run
// statistics.
func (e *Engine) Run(ctx context.Context, req Request) (string, model.Stats, error) {
	run, err := e.Execute(ctx, req)
	if run == nil {
		return "", model.Stats{}, err
	}
	return run.OutputDir, run.Stats, err
}

// Execute runs a request and returns the full run, including its final
// state and processing log.
//
// An unknown document type or an invalid page range returns a nil run:
// nothing was rasterized and nothing was created on disk.
func (e *Engine) Execute(ctx context.Context, req Request) (*model.Run, error) {
	cfg, err := config.Resolve(req.Configs, req.DocumentType)
	if err != nil {
		e.logger.Error("cannot start run", "file", req.PDFPath, "error", err)
		return nil, err
	}
	if req.PageRange != nil {
		if _, err := config.NewPageRange(req.PageRange.Start, req.PageRange.End); err != nil {
			e.logger.Error("cannot start run", "file", req.PDFPath, "error", err)
			return nil, err
		}
	}

	run := model.NewRun(req.PDFPath, req.DocumentType, cfg)
	run.OutputDir = req.OutputDir
	if run.OutputDir == "" {
		run.OutputDir = DefaultOutputDir(req.PDFPath)
	}
	run.PageRange = req.PageRange
	run.DPI = req.DPI
	if run.DPI <= 0 {
		run.DPI = config.DefaultDPI
	}
	run.Stamp = req.Stamp

	p := e.newPipeline(req.Progress)
	err = p.Execute(ctx, run)
	if err == nil {
		e.logger.Info("run complete",
			"file", run.SourceFile,
			"type", run.DocumentType,
			"output", run.OutputDir,
			"pages", run.Stats.RedactedPages,
			"skipped", run.Stats.SkippedPages,
			"zones", run.Stats.TotalZonesApplied,
		)
	}
	return run, err
}

// newPipeline assembles the fixed step sequence for one run.
func (e *Engine) newPipeline(fn ProgressFunc) *Pipeline {
	progress := NewProgress(fn)
	p := New(WithLogger(e.logger))
	p.AddSteps(
		NewRasterizeStep(e.rasterizer, progress),
		NewFilterStep(e.logger, progress),
		NewRedactStep(e.clock, progress),
		NewPersistStep(e.logger),
		NewLogStep(e.clock),
	)
	return p
}

// DefaultOutputDir returns the sibling directory <pdfdir>/<stem>_redacted.
func DefaultOutputDir(pdfPath string) string {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(pdfPath), stem+OutputSuffix)
}
