// Package main provides the entry point for the redactpdf CLI.
//
// redactpdf rasterizes a PDF and blacks out the header band, the footer
// band and fixed zones of the cover page according to a per document type
// zone configuration, then writes one PNG per page and a processing log.
//
// Usage:
//
//	redactpdf record.pdf --type BPR
//	redactpdf a.pdf b.pdf --type COA --workers 2
//
// See --help for all available options.
package main

// main is the entry point for redactpdf.
func main() {
	Execute()
}
