package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/redactpdf/internal/redact"
)

// MarkdownWriter outputs summaries in Markdown format.
// The output is meant to be attached to review tickets.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStats(md, summary)
	w.writeRules(md, summary)
	w.writeFiles(md, summary)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by redactpdf. `%s` marks a complete run.*", "redaction_log.json")

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	log := summary.Log

	md.H1("Redaction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", "`" + log.SourceFile + "`"},
			{"Document Type", log.DocumentType},
			{"Processed At", log.ProcessedAt.Format("2006-01-02 15:04:05 MST")},
			{"DPI", strconv.Itoa(log.DPI)},
			{"Output", "`" + summary.OutputDir + "`"},
		},
	})
	md.PlainText("")
}

// writeStats writes the statistics table, a page chart and an alert.
func (w *MarkdownWriter) writeStats(md *markdown.Markdown, summary *Summary) {
	stats := summary.Log.Stats

	md.H2("Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Total pages", strconv.Itoa(stats.TotalPages)},
			{"Redacted pages", strconv.Itoa(stats.RedactedPages)},
			{"Skipped pages", strconv.Itoa(stats.SkippedPages)},
			{"Zones applied", strconv.Itoa(stats.TotalZonesApplied)},
		},
	})
	md.PlainText("")

	if stats.TotalPages > 0 {
		w.writePieChart(md, summary)
	}

	switch {
	case stats.RedactedPages == 0:
		md.Warningf("No pages were written. All %d page(s) were skipped.", stats.SkippedPages)
	case stats.TotalZonesApplied == 0:
		md.Cautionf("No zones were applied. %d page(s) are identical to the source.", stats.RedactedPages)
	default:
		md.Note(fmt.Sprintf("%d zone(s) filled across %d page(s).", stats.TotalZonesApplied, stats.RedactedPages))
	}
	md.PlainText("")
}

// writePieChart writes a mermaid chart of written versus skipped pages.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	stats := summary.Log.Stats

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Disposition"),
		piechart.WithShowData(true),
	)
	if stats.RedactedPages > 0 {
		chart.LabelAndIntValue("Written", uint64(stats.RedactedPages))
	}
	if stats.SkippedPages > 0 {
		chart.LabelAndIntValue("Skipped", uint64(stats.SkippedPages))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRules writes the rules in effect.
func (w *MarkdownWriter) writeRules(md *markdown.Markdown, summary *Summary) {
	md.H2("Rules")
	md.PlainText("")
	md.BulletList(redact.Describe(summary.Log.ConfigUsed)...)
	md.PlainText("")
}

// writeFiles writes the output file table.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, summary *Summary) {
	md.H2("Output Files")
	md.PlainText("")

	files := summary.Log.Stats.OutputFiles
	if len(files) == 0 {
		md.PlainText("No page files were written.")
		md.PlainText("")
		return
	}

	digests := digestIndex(summary)
	rows := make([][]string, len(files))
	for i, f := range files {
		d := digests[f]
		if d == "" {
			d = "-"
		}
		rows[i] = []string{"`" + f + "`", "`" + truncateString(d, 19) + "`"}
	}

	md.Table(markdown.TableSet{
		Header: []string{"File", "BLAKE2b-256"},
		Rows:   rows,
	})
	md.PlainText("")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
