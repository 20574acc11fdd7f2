package raster

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConversion matches every rasterization failure.
var ErrConversion = errors.New("PDF conversion failed")

// popplerHint is appended when the rendering backend is not installed.
const popplerHint = `pdftoppm (poppler) is required:
  macOS:   brew install poppler
  Debian:  apt install poppler-utils
  Windows: install poppler and add its bin directory to PATH`

// ConversionError wraps the underlying backend failure for one PDF.
type ConversionError struct {
	// Path is the PDF that failed to convert.
	Path string

	// Err is the underlying failure.
	Err error

	// Stderr is the backend's diagnostic output, if any.
	Stderr string

	// Hint is installation advice shown when the backend is missing.
	Hint string
}

// Error implements error.
func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %v", ErrConversion.Error(), e.Path, e.Err)
	if e.Stderr != "" {
		fmt.Fprintf(&b, " (%s)", strings.TrimSpace(e.Stderr))
	}
	if e.Hint != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// Unwrap returns the underlying failure.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConversion) true for every ConversionError.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
