package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/redactpdf/internal/model"
)

// ParsePageRange parses "start-end" or a single page number into an
// inclusive range. An empty string yields nil (all pages).
func ParsePageRange(s string) (*model.PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	startText, endText, found := strings.Cut(s, "-")
	if !found {
		endText = startText
	}

	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return nil, fmt.Errorf("%w %q: start is not a number", ErrInvalidPageRange, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return nil, fmt.Errorf("%w %q: end is not a number", ErrInvalidPageRange, s)
	}

	return NewPageRange(start, end)
}

// NewPageRange validates start and end and returns the range.
func NewPageRange(start, end int) (*model.PageRange, error) {
	if start < 1 {
		return nil, fmt.Errorf("%w %d-%d: pages are 1-indexed", ErrInvalidPageRange, start, end)
	}
	if end < start {
		return nil, fmt.Errorf("%w %d-%d: end precedes start", ErrInvalidPageRange, start, end)
	}
	return &model.PageRange{Start: start, End: end}, nil
}
