// Package raster converts PDF documents into ordered page images.
//
// The Poppler rasterizer shells out to pdftoppm through a Runner so tests
// can substitute the external command. Before rendering, pdfcpu reads the
// page tree to clamp the requested page range to the document length.
//
// Every failure is reported as a *ConversionError matching ErrConversion.
// Conversion is never retried: an unrenderable PDF stays unrenderable.
package raster
