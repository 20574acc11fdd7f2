package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/nao1215/redactpdf/internal/model"
)

// ErrLogNotFound is returned by ReadLog when a directory has no processing
// log, which means the run that produced it did not complete.
var ErrLogNotFound = errors.New("processing log not found")

// BuildLog assembles the processing log of a finished run.
// Apart from processedAt the result depends only on the run inputs and
// what the steps recorded, so two runs over the same input yield the same
// log modulo the timestamp.
func BuildLog(run *model.Run, processedAt time.Time) *model.ProcessingLog {
	stats := run.Stats
	stats.OutputFiles = slices.Clone(run.Stats.OutputFiles)
	if stats.OutputFiles == nil {
		stats.OutputFiles = make([]string, 0)
	}

	cfg := run.Config
	cfg.CoverZones = slices.Clone(run.Config.CoverZones)
	cfg.SkipPages = slices.Clone(run.Config.SkipPages)
	if cfg.CoverZones == nil {
		cfg.CoverZones = make([]model.Zone, 0)
	}
	if cfg.SkipPages == nil {
		cfg.SkipPages = make([]int, 0)
	}

	return &model.ProcessingLog{
		SourceFile:    run.SourceFile,
		DocumentType:  run.DocumentType,
		ProcessedAt:   processedAt,
		DPI:           run.DPI,
		ConfigUsed:    cfg,
		Stats:         stats,
		OutputDigests: slices.Clone(run.Digests),
	}
}

// MarshalLog encodes a processing log with two-space indentation and a
// trailing newline.
func MarshalLog(log *model.ProcessingLog) ([]byte, error) {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteLog writes log to dir/redaction_log.json and returns the file path.
//
// The log is written to a temporary file in dir and renamed into place,
// so readers never observe a partial log.
func WriteLog(dir string, log *model.ProcessingLog) (string, error) {
	data, err := MarshalLog(log)
	if err != nil {
		return "", fmt.Errorf("failed to encode processing log: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".redaction_log-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create processing log: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write processing log: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to sync processing log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close processing log: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // the log is meant to be read by reviewers
		return "", fmt.Errorf("failed to set processing log permissions: %w", err)
	}

	path := filepath.Join(dir, model.LogFileName)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to commit processing log: %w", err)
	}
	committed = true
	return path, nil
}

// ReadLog loads the processing log from an output directory.
func ReadLog(dir string) (*model.ProcessingLog, error) {
	path := filepath.Join(dir, model.LogFileName)
	data, err := os.ReadFile(path) //nolint:gosec // output directory is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read processing log: %w", err)
	}

	var log model.ProcessingLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("failed to parse processing log %s: %w", path, err)
	}
	return &log, nil
}
