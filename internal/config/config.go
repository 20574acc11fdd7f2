package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nao1215/redactpdf/internal/model"
)

// Default configuration values.
const (
	// DefaultDPI is the rasterization resolution. Zone coordinates in the
	// configuration file are pixels at this resolution.
	DefaultDPI = 300

	// MaxDPI bounds the resolution to keep page buffers within memory.
	// A Letter page at 1200 DPI is roughly 540 MB as RGBA.
	MaxDPI = 1200

	// DefaultWorkers is the number of PDFs processed concurrently in batch mode.
	DefaultWorkers = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "redactpdf"
)

// Report formats accepted by --report.
const (
	ReportText     = "text"
	ReportJSON     = "json"
	ReportMarkdown = "markdown"
)

// Config holds the options of one redactpdf invocation.
// It is populated from CLI flags and passed down explicitly.
type Config struct {
	// Inputs is the list of PDF files to redact.
	Inputs []string

	// DocumentType is the key into the zone configuration.
	DocumentType string

	// ConfigFilePath is an explicit zone configuration path.
	// When empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// OutputDir overrides the default <pdfdir>/<stem>_redacted directory.
	// Only valid with a single input.
	OutputDir string

	// PageRange restricts rasterization. Nil means every page.
	PageRange *model.PageRange

	// DPI is the rasterization resolution.
	DPI int

	// Stamp enables the REDACTED caption on redacted pages.
	Stamp bool

	// Verbose enables debug logging.
	Verbose bool

	// ReportFormat selects the summary printed after each run.
	ReportFormat string

	// Workers bounds batch concurrency when several PDFs are given.
	Workers int

	// SaveHistory records each completed run in the history database.
	SaveHistory bool

	// HistoryDir is the directory holding the history database.
	HistoryDir string

	// ConfidentialTerms are masked in log output (product or sponsor names).
	ConfidentialTerms []string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		DPI:          DefaultDPI,
		Stamp:        true,
		ReportFormat: ReportText,
		Workers:      DefaultWorkers,
		HistoryDir:   XDGDataDir(),
	}
}

// XDGDataDir returns the data directory (history database).
// On Linux: ~/.local/share/redactpdf
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the configuration directory searched for zone files.
// On Linux: ~/.config/redactpdf
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the options and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if strings.TrimSpace(c.DocumentType) == "" {
		return ErrNoDocumentType
	}
	if c.DPI <= 0 || c.DPI > MaxDPI {
		return ErrInvalidDPI
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.OutputDir != "" && len(c.Inputs) > 1 {
		return ErrConflictingOutput
	}
	switch c.ReportFormat {
	case ReportText, ReportJSON, ReportMarkdown:
	default:
		return ErrInvalidReportFormat
	}
	if c.PageRange != nil {
		if c.PageRange.Start < 1 || c.PageRange.End < c.PageRange.Start {
			return ErrInvalidPageRange
		}
	}
	return nil
}
