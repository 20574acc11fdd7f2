package model

import "time"

// LogFileName is the name of the processing log inside an output directory.
// Its presence is the only signal that a run completed.
const LogFileName = "redaction_log.json"

// Stats aggregates what a run did.
type Stats struct {
	// TotalPages is the number of pages rasterized (inside the page range).
	TotalPages int `json:"total_pages"`

	// RedactedPages is the number of retained pages written to disk,
	// including pages where no rule matched.
	RedactedPages int `json:"redacted_pages"`

	// SkippedPages is the number of rasterized pages dropped by skip_pages.
	SkippedPages int `json:"skipped_pages"`

	// TotalZonesApplied is the sum of AppliedZones over all retained pages.
	TotalZonesApplied int `json:"total_zones_applied"`

	// OutputFiles lists written page files in page order.
	OutputFiles []string `json:"output_files"`
}

// PageDigest is the content hash of one output file.
type PageDigest struct {
	File   string `json:"file"`
	Digest string `json:"blake2b_256"`
}

// ProcessingLog is the audit record of one run.
// Apart from ProcessedAt it is a pure function of the source PDF, the
// document type, the configuration, the page range and the DPI.
type ProcessingLog struct {
	SourceFile    string       `json:"source_file"`
	DocumentType  string       `json:"document_type"`
	ProcessedAt   time.Time    `json:"processed_at"`
	DPI           int          `json:"dpi"`
	ConfigUsed    ZoneConfig   `json:"config_used"`
	Stats         Stats        `json:"stats"`
	OutputDigests []PageDigest `json:"output_digests,omitempty"`
}
