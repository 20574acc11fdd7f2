// Package audit checks a redaction output directory against its processing
// log.
//
// Verify reports every page file that is missing, altered, unexpected or
// carrying embedded metadata. It never modifies the directory.
package audit
