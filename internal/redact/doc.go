// Package redact implements the redaction rule engine.
//
// For every retained page the engine resolves which rules apply and fills
// the matching rectangles with opaque black, in a fixed order:
//
//  1. the header band, rows [0, header.height_px) on every page;
//  2. the footer band, the last footer.height_px rows on every page;
//  3. the cover zones, absolute rectangles on page 1 only.
//
// Rectangles are clamped to the page. A rule that extends past an edge
// fills up to the edge and is still counted; a rule that falls entirely
// outside the page (or has zero height) fills nothing and is not counted.
// Fills overwrite pixels with draw.Src, so nothing of the original content
// survives inside a rectangle.
package redact
