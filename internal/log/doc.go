// Package log provides the application logger: a slog handler wrapper that
// keeps confidential text out of log output.
//
// Redaction runs log file paths, document types and zone labels. Those
// often carry the very names the redaction is meant to hide (a sponsor or
// product name in a file name, for example), so the SecureHandler replaces
// every configured confidential term with MaskValue in the record message
// and in every string attribute. Attributes whose key names a credential
// (password, token, secret) are masked as a whole.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, log.Options{
//	    Verbose: true,
//	    Terms:   []string{"Acme Pharma"},
//	})
//	logger.Info("rasterizing", "pdf", "/data/acme pharma BPR.pdf")
//	// pdf="/data/***REDACTED*** BPR.pdf"
package log
