// Package report builds the processing log of a redaction run and prints
// run summaries.
//
// The processing log (redaction_log.json) is the durable audit record of a
// run. It is assembled by BuildLog once every page has been written and is
// committed by WriteLog with a rename, so a log file on disk is always
// complete. Its presence in an output directory is the only signal that the
// run finished.
//
// Summaries are printed to the terminal by one of the Writer
// implementations:
//   - SimpleWriter: plain text for terminal display
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: Markdown for review tickets and documentation
package report
