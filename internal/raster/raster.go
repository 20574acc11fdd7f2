package raster

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
)

// DefaultBinary is the poppler command used to render pages.
const DefaultBinary = "pdftoppm"

// Rasterizer converts a PDF into page images.
//
// The returned pages are in source order. Each page's Number is its
// 1-indexed position in the source document, so with a range starting at
// page 5 the first page is numbered 5.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, dpi int, pageRange *model.PageRange) ([]*model.Page, error)
}

// PageCounter returns the number of pages in a PDF.
type PageCounter func(pdfPath string) (int, error)

var disablePdfcpuConfig sync.Once

// CountPages reads the page tree with pdfcpu.
func CountPages(pdfPath string) (int, error) {
	disablePdfcpuConfig.Do(api.DisableConfigDir)
	return api.PageCountFile(pdfPath)
}

// Poppler renders pages with pdftoppm.
type Poppler struct {
	runner  Runner
	binary  string
	counter PageCounter
	tempDir string
	logger  *slog.Logger
}

// PopplerOption configures a Poppler rasterizer.
type PopplerOption func(*Poppler)

// WithRunner sets the command runner.
func WithRunner(r Runner) PopplerOption {
	return func(p *Poppler) {
		p.runner = r
	}
}

// WithBinary overrides the pdftoppm executable path.
func WithBinary(binary string) PopplerOption {
	return func(p *Poppler) {
		if binary != "" {
			p.binary = binary
		}
	}
}

// WithPageCounter replaces the pdfcpu page counter.
func WithPageCounter(counter PageCounter) PopplerOption {
	return func(p *Poppler) {
		p.counter = counter
	}
}

// WithTempDir sets the parent directory for intermediate page files.
func WithTempDir(dir string) PopplerOption {
	return func(p *Poppler) {
		p.tempDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) PopplerOption {
	return func(p *Poppler) {
		p.logger = logger
	}
}

// NewPoppler creates a pdftoppm-backed rasterizer.
func NewPoppler(opts ...PopplerOption) *Poppler {
	p := &Poppler{
		binary:  DefaultBinary,
		counter: CountPages,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.runner == nil {
		p.runner = NewExecRunner(p.logger)
	}
	return p
}

// Rasterize renders the requested pages of pdfPath at dpi.
func (p *Poppler) Rasterize(ctx context.Context, pdfPath string, dpi int, pageRange *model.PageRange) ([]*model.Page, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &ConversionError{Path: pdfPath, Err: err}
	}

	first, last, err := p.resolveRange(pdfPath, pageRange)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp(p.tempDir, "redactpdf-*")
	if err != nil {
		return nil, &ConversionError{Path: pdfPath, Err: err}
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png [-f N -l M] <in.pdf> <tmp/page>
	args := []string{"-r", strconv.Itoa(dpi), "-png"}
	if first > 0 {
		args = append(args, "-f", strconv.Itoa(first))
	}
	if last > 0 {
		args = append(args, "-l", strconv.Itoa(last))
	}
	args = append(args, pdfPath, prefix)

	_, stderr, err := p.runner.Run(ctx, p.binary, args...)
	if err != nil {
		convErr := &ConversionError{Path: pdfPath, Err: err, Stderr: string(stderr)}
		if errors.Is(err, exec.ErrNotFound) {
			convErr.Hint = popplerHint
		}
		return nil, convErr
	}

	pages, err := collectPages(prefix)
	if err != nil {
		return nil, &ConversionError{Path: pdfPath, Err: err}
	}

	p.logger.Debug("rasterized",
		"file", pdfPath,
		"dpi", dpi,
		"pages", len(pages),
	)
	return pages, nil
}

// resolveRange clamps the requested range to the document length.
// It returns zero for a bound that pdftoppm should leave at its default.
func (p *Poppler) resolveRange(pdfPath string, pageRange *model.PageRange) (int, int, error) {
	first, last := 0, 0
	if pageRange != nil {
		first, last = pageRange.Start, pageRange.End
	}

	if p.counter == nil {
		return first, last, nil
	}

	count, err := p.counter(pdfPath)
	if err != nil {
		// pdfcpu is stricter than poppler; let pdftoppm have the final word.
		p.logger.Warn("page count preflight failed", "file", pdfPath, "error", err)
		return first, last, nil
	}
	if count <= 0 {
		return 0, 0, &ConversionError{Path: pdfPath, Err: errors.New("document has no pages")}
	}

	if pageRange == nil {
		return 1, count, nil
	}
	if first > count {
		return 0, 0, fmt.Errorf("%w %d-%d: document has %d pages",
			config.ErrInvalidPageRange, pageRange.Start, pageRange.End, count)
	}
	if last > count {
		last = count
	}
	return first, last, nil
}

// collectPages decodes prefix-N.png files in page order.
// pdftoppm zero-pads N to the width of the document's page count.
func collectPages(prefix string) ([]*model.Page, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.New("pdftoppm produced no images")
	}

	type numbered struct {
		number int
		path   string
	}
	files := make([]numbered, 0, len(matches))
	for _, m := range matches {
		n, err := pageNumberFromName(m, prefix)
		if err != nil {
			return nil, err
		}
		files = append(files, numbered{number: n, path: m})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	pages := make([]*model.Page, 0, len(files))
	for _, f := range files {
		page, err := decodePage(f.path, f.number)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func pageNumberFromName(path, prefix string) (int, error) {
	digits := strings.TrimSuffix(strings.TrimPrefix(path, prefix+"-"), ".png")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("unexpected page file name %q", filepath.Base(path))
	}
	return n, nil
}

func decodePage(path string, number int) (*model.Page, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from our own temp dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", number, err)
	}
	return model.NewPage(number, img), nil
}
