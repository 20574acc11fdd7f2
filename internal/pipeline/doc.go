// Package pipeline sequences a redaction run.
//
// A run is a *model.Run handed through an ordered list of Steps:
//
//	RasterizeStep → FilterStep → RedactStep → PersistStep → LogStep
//
// Each step moves the run to its state (Rasterizing, Filtering, Redacting,
// Persisting) before it executes. The first error stops the pipeline and
// moves the run to Failed; there is no retry. A run that reaches Done has
// written every page file and, last, the processing log.
//
// The document type is resolved before the pipeline starts, so an unknown
// type fails without rasterizing and without creating the output directory.
// The output directory itself is only created by PersistStep, after
// rasterization succeeded.
//
// A single run is sequential. BatchProcessor runs independent PDFs
// concurrently with errgroup, each through its own pipeline.
package pipeline
