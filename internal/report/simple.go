package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text summaries.
// Plain ASCII formatting keeps the output readable when piped to a file.
type SimpleWriter struct {
	baseWriter

	// verbose lists every output file with its digest.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeStats(&sb, summary)
	w.writeFiles(&sb, summary)

	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	log := summary.Log

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         REDACTION SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Source:         %s\n", log.SourceFile))
	sb.WriteString(fmt.Sprintf("Document Type:  %s\n", log.DocumentType))
	sb.WriteString(fmt.Sprintf("Processed At:   %s\n", log.ProcessedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("DPI:            %d\n", log.DPI))
	sb.WriteString(fmt.Sprintf("Output:         %s\n", summary.OutputDir))
	sb.WriteString("\n")
}

// writeStats writes the page and zone counts.
func (w *SimpleWriter) writeStats(sb *strings.Builder, summary *Summary) {
	stats := summary.Log.Stats

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("STATISTICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Total pages:     %d\n", stats.TotalPages))
	sb.WriteString(fmt.Sprintf("  Redacted pages:  %d\n", stats.RedactedPages))
	sb.WriteString(fmt.Sprintf("  Skipped pages:   %d\n", stats.SkippedPages))
	sb.WriteString(fmt.Sprintf("  Zones applied:   %d\n", stats.TotalZonesApplied))
	sb.WriteString("\n")

	if stats.RedactedPages > 0 && stats.TotalZonesApplied == 0 {
		sb.WriteString("  [!] No zones were applied. Output pages equal the source.\n\n")
	}
}

// writeFiles lists output files in verbose mode.
func (w *SimpleWriter) writeFiles(sb *strings.Builder, summary *Summary) {
	if !w.verbose {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("OUTPUT FILES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	digests := digestIndex(summary)
	if len(summary.Log.Stats.OutputFiles) == 0 {
		sb.WriteString("  No pages written\n")
	}
	for _, file := range summary.Log.Stats.OutputFiles {
		if d, ok := digests[file]; ok {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", file, d))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s\n", file))
	}
	sb.WriteString("\n")
}

// digestIndex maps output file names to their digests.
func digestIndex(summary *Summary) map[string]string {
	index := make(map[string]string, len(summary.Log.OutputDigests))
	for _, d := range summary.Log.OutputDigests {
		index[d.File] = d.Digest
	}
	return index
}
