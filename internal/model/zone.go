package model

import (
	"image"
	"sort"
)

// Default band and zone sizes used when a rule is enabled but leaves the
// size unspecified.
const (
	// DefaultHeaderHeight is the header band height in pixels when
	// header.enabled is true and height_px is missing.
	DefaultHeaderHeight = 150

	// DefaultFooterHeight is the footer band height in pixels when
	// footer.enabled is true and height_px is missing.
	DefaultFooterHeight = 100

	// DefaultZoneWidth is the cover zone width when w is missing.
	DefaultZoneWidth = 500

	// DefaultZoneHeight is the cover zone height when h is missing.
	DefaultZoneHeight = 100
)

// Band is a full-width horizontal strip anchored to the top or bottom edge
// of every retained page.
type Band struct {
	// Enabled switches the band on. A missing band is the same as a disabled one.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Height is the band height in pixels at the run's DPI. Always >= 0.
	Height int `json:"height_px" yaml:"height_px"`
}

// Zone is a rectangle in top-left-origin pixel coordinates at the run's DPI.
// Width and Height are always positive once loaded.
type Zone struct {
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"w" yaml:"w"`
	Height int    `json:"h" yaml:"h"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Rect returns the zone as an image rectangle (unclamped).
func (z Zone) Rect() image.Rectangle {
	return image.Rect(z.X, z.Y, z.X+z.Width, z.Y+z.Height)
}

// ZoneConfig holds the redaction rules for one document type.
// The zero value redacts nothing: header off, footer off, no cover zones,
// no skipped pages.
type ZoneConfig struct {
	// Description is a human-readable name shown by the types command.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Header is filled on every retained page.
	Header Band `json:"header" yaml:"header"`

	// Footer is filled on every retained page.
	Footer Band `json:"footer" yaml:"footer"`

	// CoverZones are filled only on page 1, in order.
	CoverZones []Zone `json:"cover_page_zones" yaml:"cover_page_zones"`

	// SkipPages are 1-indexed page numbers excluded from the output.
	SkipPages []int `json:"skip_pages" yaml:"skip_pages"`
}

// SkipSet returns SkipPages as a set for constant-time membership checks.
func (c ZoneConfig) SkipSet() map[int]struct{} {
	set := make(map[int]struct{}, len(c.SkipPages))
	for _, p := range c.SkipPages {
		set[p] = struct{}{}
	}
	return set
}

// Skips reports whether the given page number is in the skip list.
func (c ZoneConfig) Skips(pageNumber int) bool {
	for _, p := range c.SkipPages {
		if p == pageNumber {
			return true
		}
	}
	return false
}

// SortedSkipPages returns a sorted, de-duplicated copy of SkipPages.
func (c ZoneConfig) SortedSkipPages() []int {
	set := c.SkipSet()
	pages := make([]int, 0, len(set))
	for p := range set {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// HasRules reports whether the configuration fills anything at all.
func (c ZoneConfig) HasRules() bool {
	return c.Header.Enabled || c.Footer.Enabled || len(c.CoverZones) > 0
}

// ZoneConfigSet maps document type keys to their ZoneConfig.
// It keeps the declaration order of the source so listings are stable.
// A ZoneConfigSet is read-only after loading and safe to share between runs.
type ZoneConfigSet struct {
	order   []string
	configs map[string]ZoneConfig
}

// NewZoneConfigSet creates an empty set.
func NewZoneConfigSet() *ZoneConfigSet {
	return &ZoneConfigSet{
		order:   make([]string, 0),
		configs: make(map[string]ZoneConfig),
	}
}

// Add registers a document type. Re-adding a key replaces its configuration
// but keeps its original position.
func (s *ZoneConfigSet) Add(docType string, cfg ZoneConfig) {
	if _, ok := s.configs[docType]; !ok {
		s.order = append(s.order, docType)
	}
	s.configs[docType] = cfg
}

// Lookup returns the configuration for a document type.
func (s *ZoneConfigSet) Lookup(docType string) (ZoneConfig, bool) {
	if s == nil {
		return ZoneConfig{}, false
	}
	cfg, ok := s.configs[docType]
	return cfg, ok
}

// Types returns the document type keys in declaration order.
func (s *ZoneConfigSet) Types() []string {
	if s == nil {
		return nil
	}
	types := make([]string, len(s.order))
	copy(types, s.order)
	return types
}

// Len returns the number of document types.
func (s *ZoneConfigSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// PageRange is an inclusive, 1-indexed page interval.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether n lies inside the range.
func (r PageRange) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

// RectKind names the rule that produced a fill rectangle.
type RectKind string

// Rule kinds, in the order they are applied to a page.
const (
	RectHeader RectKind = "header"
	RectFooter RectKind = "footer"
	RectCover  RectKind = "cover"
)

// Rect is one resolved fill rectangle, already clamped to page bounds.
type Rect struct {
	Kind   RectKind
	Label  string
	Bounds image.Rectangle
}
