package raster

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
)

// ImageRasterizer serves pre-rendered page images instead of rendering a PDF.
// Page i of the slice is page i+1 of the document. The pdfPath and dpi
// arguments of Rasterize are ignored; the images are used as they are.
//
// Every call returns fresh copies, so pages can be mutated freely.
type ImageRasterizer struct {
	images []image.Image
}

// NewImageRasterizer creates a rasterizer over the given page images.
func NewImageRasterizer(images ...image.Image) *ImageRasterizer {
	return &ImageRasterizer{images: images}
}

// Rasterize returns copies of the images within pageRange.
func (r *ImageRasterizer) Rasterize(ctx context.Context, pdfPath string, _ int, pageRange *model.PageRange) ([]*model.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	count := len(r.images)
	if count == 0 {
		return nil, &ConversionError{Path: pdfPath, Err: errors.New("document has no pages")}
	}

	first, last := 1, count
	if pageRange != nil {
		if pageRange.Start < 1 || pageRange.End < pageRange.Start {
			return nil, fmt.Errorf("%w %d-%d", config.ErrInvalidPageRange, pageRange.Start, pageRange.End)
		}
		if pageRange.Start > count {
			return nil, fmt.Errorf("%w %d-%d: document has %d pages",
				config.ErrInvalidPageRange, pageRange.Start, pageRange.End, count)
		}
		first, last = pageRange.Start, min(pageRange.End, count)
	}

	pages := make([]*model.Page, 0, last-first+1)
	for n := first; n <= last; n++ {
		pages = append(pages, &model.Page{Number: n, Image: cloneRGBA(r.images[n-1])})
	}
	return pages, nil
}

func cloneRGBA(img image.Image) *image.RGBA {
	src := model.ToRGBA(img)
	if src != img {
		return src
	}
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
