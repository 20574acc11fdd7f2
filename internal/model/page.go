package model

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Page is an in-memory raster of one PDF page.
//
// A Page is owned by exactly one pipeline stage at a time. The rasterizer
// creates it, the redaction engine and the stamper mutate Image in place,
// and the persist step writes it out and drops it.
type Page struct {
	// Number is the 1-indexed page number within the source document,
	// not the position within the rasterized slice.
	Number int

	// Image holds the page pixels. Stages draw directly into it.
	Image *image.RGBA

	// AppliedZones counts the rectangles actually filled on this page.
	// Zero means the page is untouched and must not be stamped.
	AppliedZones int
}

// NewPage wraps an image as a page, converting it to RGBA when needed.
func NewPage(number int, img image.Image) *Page {
	return &Page{Number: number, Image: ToRGBA(img)}
}

// Bounds returns the page image bounds.
func (p *Page) Bounds() image.Rectangle {
	if p == nil || p.Image == nil {
		return image.Rectangle{}
	}
	return p.Image.Bounds()
}

// FileName returns the output file name for the page, zero-padded so that
// a lexical sort matches page order.
func (p *Page) FileName() string {
	return PageFileName(p.Number)
}

// PageFileName returns the output file name for a page number.
func PageFileName(number int) string {
	return fmt.Sprintf("p%03d.png", number)
}

// ToRGBA returns img as *image.RGBA, copying only when the concrete type differs.
// The copy always starts at the origin so zone coordinates stay page-relative.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
