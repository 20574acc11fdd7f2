package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/redactpdf/internal/model"
)

// FileName is the database file name inside the history directory.
const FileName = "redactpdf.db"

var (
	// ErrRunNotFound is returned by GetRun for an unknown run ID.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when CreateIfNotExists is
	// false and no database exists yet.
	ErrDatabaseNotFound = errors.New("history database not found")
)

// timeLayout stores timestamps in UTC with fixed width so that text
// ordering equals time ordering.
const timeLayout = "2006-01-02 15:04:05.000000000"

// HistoryDB stores completed redaction runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging so that concurrent batch runs
	// can record history without blocking readers.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source_file TEXT NOT NULL,
		document_type TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		processed_at TEXT NOT NULL,
		dpi INTEGER NOT NULL,
		total_pages INTEGER NOT NULL,
		redacted_pages INTEGER NOT NULL,
		skipped_pages INTEGER NOT NULL,
		total_zones_applied INTEGER NOT NULL,
		log_json TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_type ON runs(document_type);
	CREATE INDEX IF NOT EXISTS idx_runs_processed ON runs(processed_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is one stored run.
type RunRecord struct {
	ID           uuid.UUID
	SourceFile   string
	DocumentType string
	OutputDir    string
	ProcessedAt  time.Time
	DPI          int
	Stats        model.Stats
	Log          *model.ProcessingLog
}

// SaveRun records a completed run and returns its new ID.
func (hdb *HistoryDB) SaveRun(ctx context.Context, outputDir string, log *model.ProcessingLog) (uuid.UUID, error) {
	logJSON, err := json.Marshal(log)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to serialize processing log: %w", err)
	}

	id := uuid.New()
	query := `
	INSERT INTO runs (id, source_file, document_type, output_dir, processed_at, dpi,
		total_pages, redacted_pages, skipped_pages, total_zones_applied, log_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		id.String(),
		log.SourceFile,
		log.DocumentType,
		outputDir,
		log.ProcessedAt.UTC().Format(timeLayout),
		log.DPI,
		log.Stats.TotalPages,
		log.Stats.RedactedPages,
		log.Stats.SkippedPages,
		log.Stats.TotalZonesApplied,
		string(logJSON),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save run: %w", err)
	}

	return id, nil
}

// ListRuns returns stored runs, newest first. An empty documentType lists
// every type.
func (hdb *HistoryDB) ListRuns(ctx context.Context, documentType string) ([]RunRecord, error) {
	query := `
	SELECT id, output_dir, processed_at, log_json
	FROM runs
	WHERE (? = '' OR document_type = ?)
	ORDER BY processed_at DESC, recorded_at DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, documentType, documentType)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var id, outputDir, processedAt, logJSON string
		if err := rows.Scan(&id, &outputDir, &processedAt, &logJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		record, err := newRunRecord(id, outputDir, processedAt, logJSON)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// GetRun retrieves a run by ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	query := `
	SELECT id, output_dir, processed_at, log_json
	FROM runs
	WHERE id = ?
	`

	var rid, outputDir, processedAt, logJSON string
	err := hdb.db.QueryRowContext(ctx, query, id.String()).Scan(&rid, &outputDir, &processedAt, &logJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return newRunRecord(rid, outputDir, processedAt, logJSON)
}

// newRunRecord decodes one row.
func newRunRecord(id, outputDir, processedAt, logJSON string) (*RunRecord, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", id, err)
	}

	var log model.ProcessingLog
	if err := json.Unmarshal([]byte(logJSON), &log); err != nil {
		return nil, fmt.Errorf("failed to parse processing log of run %s: %w", id, err)
	}

	return &RunRecord{
		ID:           rid,
		SourceFile:   log.SourceFile,
		DocumentType: log.DocumentType,
		OutputDir:    outputDir,
		ProcessedAt:  parseTimestamp(processedAt),
		DPI:          log.DPI,
		Stats:        log.Stats,
		Log:          &log,
	}, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	"2006-01-02 15:04:05",  // SQLite default datetime format
	"2006-01-02T15:04:05Z", // ISO 8601 with Z suffix
	time.RFC3339Nano,
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
