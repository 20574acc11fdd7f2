package redact

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/nao1215/redactpdf/internal/model"
)

// FillColor is the opaque redaction color.
var FillColor = color.RGBA{A: 0xff}

// CoverPage is the page number that receives cover zones.
const CoverPage = 1

// ApplyZones fills every rectangle that applies to page and returns the page
// together with the number of rectangles filled. The count is also added
// to page.AppliedZones.
//
// ApplyZones mutates page.Image in place. The caller must own the page.
func ApplyZones(page *model.Page, cfg model.ZoneConfig) (*model.Page, int) {
	if page == nil || page.Image == nil {
		return page, 0
	}

	rects := Plan(cfg, page.Number, page.Bounds())
	src := image.NewUniform(FillColor)
	for _, r := range rects {
		draw.Draw(page.Image, r.Bounds, src, image.Point{}, draw.Src)
	}

	page.AppliedZones += len(rects)
	return page, len(rects)
}

// Plan resolves the rectangles that apply to a page of the given number and
// bounds. Every returned rectangle is non-empty and lies within bounds.
func Plan(cfg model.ZoneConfig, pageNumber int, bounds image.Rectangle) []model.Rect {
	rects := make([]model.Rect, 0, 2+len(cfg.CoverZones))
	add := func(kind model.RectKind, label string, r image.Rectangle) {
		r = r.Intersect(bounds)
		if r.Empty() {
			return
		}
		rects = append(rects, model.Rect{Kind: kind, Label: label, Bounds: r})
	}

	if cfg.Header.Enabled {
		add(model.RectHeader, "", image.Rect(
			bounds.Min.X, bounds.Min.Y,
			bounds.Max.X, bounds.Min.Y+cfg.Header.Height,
		))
	}

	if cfg.Footer.Enabled {
		add(model.RectFooter, "", image.Rect(
			bounds.Min.X, bounds.Max.Y-cfg.Footer.Height,
			bounds.Max.X, bounds.Max.Y,
		))
	}

	if pageNumber == CoverPage {
		for _, z := range cfg.CoverZones {
			add(model.RectCover, z.Label, z.Rect().Add(bounds.Min))
		}
	}

	return rects
}

// Describe returns human-readable lines summarizing what a configuration
// redacts. It never returns an empty slice.
func Describe(cfg model.ZoneConfig) []string {
	lines := make([]string, 0, 3+len(cfg.CoverZones))

	if cfg.Header.Enabled {
		lines = append(lines, fmt.Sprintf("Header: black-fill top %dpx on every page", cfg.Header.Height))
	}
	if cfg.Footer.Enabled {
		lines = append(lines, fmt.Sprintf("Footer: black-fill bottom %dpx on every page", cfg.Footer.Height))
	}
	for _, z := range cfg.CoverZones {
		label := z.Label
		if label == "" {
			label = "zone"
		}
		lines = append(lines, fmt.Sprintf("Cover: %s (x=%d, y=%d, %dx%dpx)", label, z.X, z.Y, z.Width, z.Height))
	}
	if skip := cfg.SortedSkipPages(); len(skip) > 0 {
		lines = append(lines, fmt.Sprintf("Skip pages: %v (excluded from output)", skip))
	}

	if len(lines) == 0 {
		lines = append(lines, "No redaction rules defined for this type.")
	}
	return lines
}
