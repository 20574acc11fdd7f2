package log

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

// TestSecureHandler_MasksTerms tests that confidential terms are masked in values.
func TestSecureHandler_MasksTerms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    any
		hidden   string
		expected string
	}{
		{
			name:     "term inside a path",
			key:      "pdf",
			value:    "/data/Acme Pharma BPR.pdf",
			hidden:   "Acme Pharma",
			expected: "/data/" + MaskValue + " BPR.pdf",
		},
		{
			name:     "term matched case-insensitively",
			key:      "label",
			value:    "ACME PHARMA logo",
			hidden:   "ACME PHARMA",
			expected: MaskValue + " logo",
		},
		{
			name:     "term inside an error",
			key:      "error",
			value:    errors.New("open Zentrix.pdf: no such file"),
			hidden:   "Zentrix",
			expected: "open " + MaskValue + ".pdf",
		},
		{
			name:     "term inside a stringer",
			key:      "dir",
			value:    fmt.Stringer(stringer("zentrix_redacted")),
			hidden:   "zentrix",
			expected: MaskValue + "_redacted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, Options{Verbose: true, Terms: []string{"Acme", "Acme Pharma", "Zentrix"}})

			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if strings.Contains(output, tt.hidden) {
				t.Errorf("expected %q to be masked, got: %s", tt.hidden, output)
			}
			if !strings.Contains(output, tt.expected) {
				t.Errorf("expected %q in output, got: %s", tt.expected, output)
			}
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

// TestSecureHandler_MasksMessage tests that the record message is masked.
func TestSecureHandler_MasksMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, Options{Verbose: true, Terms: []string{"Zentrix"}})

	logger.Warn("redacting Zentrix batch")

	output := buf.String()
	if strings.Contains(output, "Zentrix") {
		t.Errorf("expected term to be masked in message, got: %s", output)
	}
	if !strings.Contains(output, "redacting "+MaskValue+" batch") {
		t.Errorf("unexpected output: %s", output)
	}
}

// TestSecureHandler_NoTerms tests that values pass through without terms.
func TestSecureHandler_NoTerms(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, Options{Verbose: true, Terms: []string{"", "   "}})

	logger.Info("page written", "file", "p001.png", "zones", 3)

	output := buf.String()
	if !strings.Contains(output, "file=p001.png") || !strings.Contains(output, "zones=3") {
		t.Errorf("expected attributes untouched, got: %s", output)
	}
	if strings.Contains(output, MaskValue) {
		t.Errorf("expected nothing masked, got: %s", output)
	}
}

// TestSecureHandler_SanitizesSensitiveKeys tests that sensitive keys are sanitized.
func TestSecureHandler_SanitizesSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "password key is sanitized", key: "password", value: "hunter2", wantMask: true},
		{name: "Token key (uppercase) is sanitized", key: "Token", value: "abc123", wantMask: true},
		{name: "api_key key is sanitized", key: "api_key", value: "sk_live_1", wantMask: true},
		{name: "keyword inside key is sanitized", key: "smtp_password", value: "pw", wantMask: true},
		{name: "pdf key is NOT sanitized", key: "pdf", value: "/data/bpr.pdf", wantMask: false},
		{name: "type key is NOT sanitized", key: "type", value: "BPR", wantMask: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, Options{Verbose: true})

			logger.Info("test message", tt.key, tt.value)

			output := buf.String()
			if tt.wantMask {
				if strings.Contains(output, tt.value) {
					t.Errorf("expected value %q to be masked, but found in output: %s", tt.value, output)
				}
				if !strings.Contains(output, MaskValue) {
					t.Errorf("expected mask value in output, but not found: %s", output)
				}
			} else if !strings.Contains(output, tt.value) {
				t.Errorf("expected value %q to be present in output, but not found: %s", tt.value, output)
			}
		})
	}
}

// TestSecureHandler_LogLevels tests that log levels are respected.
func TestSecureHandler_LogLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		verbose    bool
		logLevel   slog.Level
		shouldShow bool
	}{
		{name: "debug shown in verbose mode", verbose: true, logLevel: slog.LevelDebug, shouldShow: true},
		{name: "debug hidden in non-verbose mode", verbose: false, logLevel: slog.LevelDebug, shouldShow: false},
		{name: "info hidden in non-verbose mode", verbose: false, logLevel: slog.LevelInfo, shouldShow: false},
		{name: "warn shown in non-verbose mode", verbose: false, logLevel: slog.LevelWarn, shouldShow: true},
		{name: "error shown in non-verbose mode", verbose: false, logLevel: slog.LevelError, shouldShow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := NewSecureLogger(&buf, Options{Verbose: tt.verbose})

			testMsg := "test_unique_message_12345"
			logger.Log(t.Context(), tt.logLevel, testMsg)

			hasMessage := strings.Contains(buf.String(), testMsg)
			if tt.shouldShow != hasMessage {
				t.Errorf("shouldShow=%v but output: %q", tt.shouldShow, buf.String())
			}
		})
	}
}

// TestSecureHandler_WithAttrsAndGroup tests that derived handlers keep masking.
func TestSecureHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, Options{Verbose: true, Terms: []string{"Zentrix"}})

	child := logger.With("source", "Zentrix.pdf").WithGroup("page")
	child.Info("written", "file", "p001.png", "owner", "zentrix")

	output := buf.String()
	if strings.Contains(strings.ToLower(output), "zentrix") {
		t.Errorf("expected term masked in With and group attrs, got: %s", output)
	}
	if !strings.Contains(output, "page.file=p001.png") {
		t.Errorf("expected grouped attribute, got: %s", output)
	}
}

// TestNewSecureLogger_JSON tests JSON logger creation.
func TestNewSecureLogger_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSecureLogger(&buf, Options{Verbose: true, JSON: true, Terms: []string{"Zentrix"}})

	logger.Info("test message", "pdf", "Zentrix.pdf")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Errorf("expected JSON format, but got: %s", output)
	}
	if !strings.Contains(output, `"pdf":"`+MaskValue+`.pdf"`) {
		t.Errorf("expected masked pdf attribute, got: %s", output)
	}
}

// TestContainsSensitiveKeyword tests the containsSensitiveKeyword helper.
func TestContainsSensitiveKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		expected bool
	}{
		{"user_password", true},
		{"api_token", true},
		{"secret_value", true},
		{"credential_file", true},
		{"pdf", false},
		{"output_dir", false},
		{"primary_key", false},
		{"sort_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			if got := containsSensitiveKeyword(tt.key); got != tt.expected {
				t.Errorf("containsSensitiveKeyword(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

// TestNewSecureHandler_NilHandler tests that nil handler is handled gracefully.
func TestNewSecureHandler_NilHandler(t *testing.T) {
	t.Parallel()

	handler := NewSecureHandler(nil)
	if handler == nil {
		t.Fatal("expected non-nil handler")
	}

	logger := slog.New(handler)
	logger.Info("test message")
}
