// Package database provides SQLite-based run history for redactpdf.
//
// Every completed run can be recorded with its processing log so that
// reviewers can answer "which documents of this type were redacted, when,
// and with which rules" without keeping the output directories around.
// The history is written by the CLI only; the redaction engine never reads
// it, and a run never depends on it.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// database is a single file under the XDG data directory.
package database
