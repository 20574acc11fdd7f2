package redact

import (
	"image"
	"image/color"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/redactpdf/internal/model"
)

// newPatternPage returns a page whose pixels are all distinct from FillColor.
func newPatternPage(number, w, h int) *model.Page {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x%200 + 20), G: uint8(y%200 + 20), B: 90, A: 0xff})
		}
	}
	return &model.Page{Number: number, Image: img}
}

func isFilled(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y) == FillColor
}

// TestApplyZonesNoRules tests that an empty configuration leaves pages untouched.
func TestApplyZonesNoRules(t *testing.T) {
	t.Parallel()

	configs := []model.ZoneConfig{
		{},
		{SkipPages: []int{2, 3}},
		{Header: model.Band{Height: 50}, Footer: model.Band{Height: 50}},
	}
	for _, cfg := range configs {
		for _, number := range []int{1, 2, 7} {
			page := newPatternPage(number, 40, 30)
			before := slices.Clone(page.Image.Pix)

			_, n := ApplyZones(page, cfg)
			if n != 0 || page.AppliedZones != 0 {
				t.Errorf("page %d: expected no zones, got %d", number, n)
			}
			if !slices.Equal(before, page.Image.Pix) {
				t.Errorf("page %d: pixels changed with no rules", number)
			}
		}
	}
}

// TestApplyZonesHeader tests that the header band fills rows [0, h) on every page.
func TestApplyZonesHeader(t *testing.T) {
	t.Parallel()

	for _, h := range []int{1, 5, 29, 30} {
		for _, number := range []int{1, 2, 10} {
			page := newPatternPage(number, 20, 30)
			_, n := ApplyZones(page, model.ZoneConfig{Header: model.Band{Enabled: true, Height: h}})
			if n != 1 {
				t.Fatalf("h=%d page=%d: expected 1 zone, got %d", h, number, n)
			}
			for y := 0; y < 30; y++ {
				for x := 0; x < 20; x++ {
					if got := isFilled(page.Image, x, y); got != (y < h) {
						t.Fatalf("h=%d page=%d: pixel (%d,%d) filled=%v", h, number, x, y, got)
					}
				}
			}
		}
	}
}

// TestApplyZonesFooter tests that the footer band fills the last rows.
func TestApplyZonesFooter(t *testing.T) {
	t.Parallel()

	page := newPatternPage(3, 10, 40)
	_, n := ApplyZones(page, model.ZoneConfig{Footer: model.Band{Enabled: true, Height: 8}})
	if n != 1 {
		t.Fatalf("expected 1 zone, got %d", n)
	}
	for y := 0; y < 40; y++ {
		if got := isFilled(page.Image, 5, y); got != (y >= 32) {
			t.Errorf("row %d filled=%v", y, got)
		}
	}
}

// TestApplyZonesCover tests that cover zones apply only to page 1.
func TestApplyZonesCover(t *testing.T) {
	t.Parallel()

	cfg := model.ZoneConfig{
		CoverZones: []model.Zone{
			{X: 2, Y: 3, Width: 4, Height: 5, Label: "name"},
			{X: 10, Y: 10, Width: 2, Height: 2, Label: "lot"},
		},
	}

	t.Run("page 1 receives every zone", func(t *testing.T) {
		t.Parallel()

		page := newPatternPage(1, 20, 20)
		_, n := ApplyZones(page, cfg)
		if n != 2 {
			t.Fatalf("expected 2 zones, got %d", n)
		}
		for y := 0; y < 20; y++ {
			for x := 0; x < 20; x++ {
				inFirst := x >= 2 && x < 6 && y >= 3 && y < 8
				inSecond := x >= 10 && x < 12 && y >= 10 && y < 12
				if got := isFilled(page.Image, x, y); got != (inFirst || inSecond) {
					t.Fatalf("pixel (%d,%d) filled=%v", x, y, got)
				}
			}
		}
	})

	t.Run("other pages are untouched", func(t *testing.T) {
		t.Parallel()

		for _, number := range []int{2, 3, 100} {
			page := newPatternPage(number, 20, 20)
			before := slices.Clone(page.Image.Pix)
			if _, n := ApplyZones(page, cfg); n != 0 {
				t.Errorf("page %d: expected 0 zones, got %d", number, n)
			}
			if !slices.Equal(before, page.Image.Pix) {
				t.Errorf("page %d: cover zones leaked onto a later page", number)
			}
		}
	})
}

// TestApplyZonesCounting tests that counts add up across rules and calls.
func TestApplyZonesCounting(t *testing.T) {
	t.Parallel()

	cfg := model.ZoneConfig{
		Header:     model.Band{Enabled: true, Height: 4},
		Footer:     model.Band{Enabled: true, Height: 4},
		CoverZones: []model.Zone{{X: 0, Y: 0, Width: 5, Height: 5}},
	}

	testCases := []struct {
		page     int
		expected int
	}{
		{1, 3},
		{2, 2},
	}
	for _, tc := range testCases {
		page := newPatternPage(tc.page, 10, 10)
		if _, n := ApplyZones(page, cfg); n != tc.expected {
			t.Errorf("page %d: got %d zones, expected %d", tc.page, n, tc.expected)
		}
		if page.AppliedZones != tc.expected {
			t.Errorf("page %d: AppliedZones = %d", tc.page, page.AppliedZones)
		}
	}

	page := newPatternPage(2, 10, 10)
	ApplyZones(page, cfg)
	ApplyZones(page, cfg)
	if page.AppliedZones != 4 {
		t.Errorf("expected AppliedZones to accumulate to 4, got %d", page.AppliedZones)
	}
}

// TestPlanClamping tests that out-of-bounds rules are clamped, never rejected.
func TestPlanClamping(t *testing.T) {
	t.Parallel()

	bounds := image.Rect(0, 0, 100, 50)

	testCases := []struct {
		name     string
		cfg      model.ZoneConfig
		page     int
		expected []image.Rectangle
	}{
		{
			name:     "header taller than page fills the page",
			cfg:      model.ZoneConfig{Header: model.Band{Enabled: true, Height: 500}},
			page:     2,
			expected: []image.Rectangle{bounds},
		},
		{
			name:     "footer taller than page fills the page",
			cfg:      model.ZoneConfig{Footer: model.Band{Enabled: true, Height: 51}},
			page:     2,
			expected: []image.Rectangle{bounds},
		},
		{
			name:     "zero height band is not counted",
			cfg:      model.ZoneConfig{Header: model.Band{Enabled: true}},
			page:     1,
			expected: []image.Rectangle{},
		},
		{
			name: "zone past the right edge is clipped",
			cfg: model.ZoneConfig{CoverZones: []model.Zone{
				{X: 90, Y: 10, Width: 500, Height: 10},
			}},
			page:     1,
			expected: []image.Rectangle{image.Rect(90, 10, 100, 20)},
		},
		{
			name: "zone with negative origin is clipped",
			cfg: model.ZoneConfig{CoverZones: []model.Zone{
				{X: -10, Y: -10, Width: 20, Height: 20},
			}},
			page:     1,
			expected: []image.Rectangle{image.Rect(0, 0, 10, 10)},
		},
		{
			name: "zone fully outside is dropped",
			cfg: model.ZoneConfig{CoverZones: []model.Zone{
				{X: 200, Y: 200, Width: 10, Height: 10},
				{X: 0, Y: 0, Width: 1, Height: 1},
			}},
			page:     1,
			expected: []image.Rectangle{image.Rect(0, 0, 1, 1)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rects := Plan(tc.cfg, tc.page, bounds)
			got := make([]image.Rectangle, 0, len(rects))
			for _, r := range rects {
				got = append(got, r.Bounds)
			}
			if !slices.Equal(got, tc.expected) {
				t.Errorf("got %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestPlanOrder tests the fixed header, footer, cover order.
func TestPlanOrder(t *testing.T) {
	t.Parallel()

	cfg := model.ZoneConfig{
		CoverZones: []model.Zone{{X: 1, Y: 1, Width: 1, Height: 1, Label: "a"}, {X: 2, Y: 2, Width: 1, Height: 1, Label: "b"}},
		Footer:     model.Band{Enabled: true, Height: 1},
		Header:     model.Band{Enabled: true, Height: 1},
	}
	rects := Plan(cfg, 1, image.Rect(0, 0, 10, 10))

	kinds := make([]string, 0, len(rects))
	for _, r := range rects {
		kinds = append(kinds, string(r.Kind)+":"+r.Label)
	}
	want := []string{"header:", "footer:", "cover:a", "cover:b"}
	if !slices.Equal(kinds, want) {
		t.Errorf("got %v, expected %v", kinds, want)
	}
}

// TestApplyZonesNilPage tests that a nil page is a no-op.
func TestApplyZonesNilPage(t *testing.T) {
	t.Parallel()

	if _, n := ApplyZones(nil, model.ZoneConfig{Header: model.Band{Enabled: true, Height: 1}}); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

// TestDescribe tests the preview lines.
func TestDescribe(t *testing.T) {
	t.Parallel()

	t.Run("all rules", func(t *testing.T) {
		t.Parallel()

		lines := Describe(model.ZoneConfig{
			Header:     model.Band{Enabled: true, Height: 150},
			Footer:     model.Band{Enabled: true, Height: 100},
			CoverZones: []model.Zone{{X: 10, Y: 20, Width: 300, Height: 40, Label: "Customer"}, {Width: 5, Height: 5}},
			SkipPages:  []int{3, 2},
		})
		joined := strings.Join(lines, "\n")
		for _, want := range []string{
			"Header: black-fill top 150px",
			"Footer: black-fill bottom 100px",
			"Cover: Customer (x=10, y=20, 300x40px)",
			"Cover: zone (x=0, y=0, 5x5px)",
			"Skip pages: [2 3]",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("expected %q in:\n%s", want, joined)
			}
		}
	})

	t.Run("no rules", func(t *testing.T) {
		t.Parallel()

		lines := Describe(model.ZoneConfig{})
		if len(lines) != 1 || !strings.Contains(lines[0], "No redaction rules") {
			t.Errorf("unexpected lines %v", lines)
		}
	})
}
