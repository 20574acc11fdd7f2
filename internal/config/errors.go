package config

import "errors"

// Zone configuration errors.
// They are terminal for a run and are matched with errors.Is; the wrapping
// error carries the file path, the offending key or the known keys.
var (
	// ErrConfigNotFound is returned when no zone configuration file exists
	// at the given or discovered location.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigParse is returned when the configuration is not well-formed
	// JSON/YAML or violates the zone schema.
	ErrConfigParse = errors.New("configuration parse error")

	// ErrUnknownDocumentType is returned when a document type key is not
	// present in the loaded configuration.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrInvalidPageRange is returned for non-numeric, non-positive or
	// inverted page ranges.
	ErrInvalidPageRange = errors.New("invalid page range")
)

// Run option validation errors, returned by Config.Validate.
var (
	// ErrNoInput is returned when no PDF path is given.
	ErrNoInput = errors.New("no input specified: provide at least one PDF file")

	// ErrNoDocumentType is returned when --type is missing.
	ErrNoDocumentType = errors.New("no document type specified: use --type")

	// ErrInvalidDPI is returned when the DPI is not in (0, MaxDPI].
	ErrInvalidDPI = errors.New("invalid dpi: must be between 1 and 1200")

	// ErrInvalidWorkers is returned when the batch worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrConflictingOutput is returned when --output is combined with
	// several input files.
	ErrConflictingOutput = errors.New("conflicting output: --output cannot be used with multiple PDF files")

	// ErrInvalidReportFormat is returned for an unknown --report value.
	ErrInvalidReportFormat = errors.New("invalid report format: must be text, json or markdown")
)
