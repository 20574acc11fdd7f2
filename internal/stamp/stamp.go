// Package stamp marks redacted pages with a visible caption.
package stamp

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/redactpdf/internal/model"
)

const (
	// Margin is the padding in pixels between the caption text and its box.
	Margin = 10

	// DateLayout formats the date in the caption.
	DateLayout = "2006-01-02"

	// referenceWidth is the page width at which the caption is drawn at the
	// font's native size. Wider pages (higher DPI) scale it up.
	referenceWidth = 850
)

var (
	// Background is drawn under the caption so it stays legible on any content.
	Background = color.White

	// Foreground is the caption text color.
	Foreground = color.Gray{Y: 0x80}
)

// Text returns the caption for a page.
func Text(docType string, pageNumber int, date time.Time) string {
	return fmt.Sprintf("REDACTED | %s | p.%d | %s", ToASCII(docType), pageNumber, date.Format(DateLayout))
}

// Stamp draws the caption in the bottom-right corner of a page that had at
// least one zone applied. Untouched pages are returned unchanged, so a
// stamp always means the page was modified.
func Stamp(page *model.Page, docType string, date time.Time) *model.Page {
	if page == nil || page.Image == nil || page.AppliedZones == 0 {
		return page
	}

	caption := render(Text(docType, page.Number, date))
	scale := Scale(page.Bounds())

	bounds := page.Bounds()
	tw := caption.Bounds().Dx() * scale
	th := caption.Bounds().Dy() * scale

	box := image.Rect(
		bounds.Max.X-tw-2*Margin, bounds.Max.Y-th-2*Margin,
		bounds.Max.X, bounds.Max.Y,
	).Intersect(bounds)
	draw.Draw(page.Image, box, image.NewUniform(Background), image.Point{}, draw.Src)

	textRect := image.Rect(
		bounds.Max.X-tw-Margin, bounds.Max.Y-th-Margin,
		bounds.Max.X-Margin, bounds.Max.Y-Margin,
	)
	draw.NearestNeighbor.Scale(page.Image, textRect, caption, caption.Bounds(), draw.Src, nil)

	return page
}

// Scale returns the integer magnification applied to the caption for a page
// of the given bounds.
func Scale(bounds image.Rectangle) int {
	s := bounds.Dx() / referenceWidth
	if s < 1 {
		return 1
	}
	return s
}

// render draws text at the font's native size onto a background-filled image.
func render(text string) *image.RGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()

	w := font.MeasureString(face, text).Ceil()
	h := (metrics.Ascent + metrics.Descent).Ceil()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(Foreground),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}

// ToASCII folds s to printable ASCII. Accents are stripped and any other
// non-ASCII rune becomes '?', since the caption font covers ASCII only.
func ToASCII(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r > unicode.MaxASCII || !unicode.IsPrint(r) {
				return '?'
			}
			return r
		}),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return '?'
			}
			return r
		}, s)
	}
	return out
}
