// Package model defines the core data structures shared by the redaction engine.
//
// This package contains the following main types:
//   - ZoneConfig: The redaction rules for one document type
//   - ZoneConfigSet: All document types loaded from a configuration source
//   - Page: A rasterized page image and its 1-indexed page number
//   - Run: The mutable state of a single pipeline run
//   - ProcessingLog: The audit record written at the end of a run
//
// Models live in their own package so that config, raster, redact, stamp,
// report and pipeline can all share them without import cycles. Every type
// that ends up in redaction_log.json carries explicit JSON tags.
package model
