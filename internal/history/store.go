// Package history keeps a log of fluency scores per document.
//
// Runs are stored in SQLite so a writer can see whether revisions are
// improving a draft. The analyzer never touches this package; callers
// record a run after a successful analysis.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/quill/internal/fluency"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a document key has no recorded runs.
var ErrNotFound = errors.New("history: no runs recorded")

// Run is one recorded analysis.
type Run struct {
	ID          string                        `json:"id"`
	DocumentKey string                        `json:"document_key"`
	Source      string                        `json:"source"`
	Score       float64                       `json:"score"`
	Dimensions  map[fluency.Dimension]float64 `json:"dimensions"`
	Findings    int                           `json:"findings"`
	CharCount   int                           `json:"char_count"`
	ContentHash string                        `json:"content_hash"`
	CreatedAt   string                        `json:"created_at"`
}

// Time parses CreatedAt; zero on malformed values.
func (r Run) Time() time.Time {
	t, _ := time.Parse(timeLayout, r.CreatedAt)
	return t
}

// RecordParams is the input for Record.
type RecordParams struct {
	DocumentKey string
	Source      string // "mcp", "cli", "review"
	Text        string
	Report      *fluency.Report
}

// DocumentSummary is one row of Documents.
type DocumentSummary struct {
	DocumentKey string  `json:"document_key"`
	Runs        int     `json:"runs"`
	LastScore   float64 `json:"last_score"`
	LastRunAt   string  `json:"last_run_at"`
}

// Time parses LastRunAt; zero on malformed values.
func (d DocumentSummary) Time() time.Time {
	t, _ := time.Parse(timeLayout, d.LastRunAt)
	return t
}

// Config holds history store configuration.
type Config struct {
	DataDir string
	MaxRuns int // per document key; 0 keeps everything
}

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".quill"),
		MaxRuns: 200,
	}
}

// Store is the SQLite-backed run log.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite in WAL mode and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			seq          INTEGER PRIMARY KEY AUTOINCREMENT,
			id           TEXT    NOT NULL UNIQUE,
			document_key TEXT    NOT NULL,
			source       TEXT    NOT NULL DEFAULT 'mcp',
			score        REAL    NOT NULL,
			dimensions   TEXT    NOT NULL,
			findings     INTEGER NOT NULL DEFAULT 0,
			char_count   INTEGER NOT NULL DEFAULT 0,
			content_hash TEXT    NOT NULL,
			created_at   TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document_key, seq DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one run and prunes the key down to MaxRuns.
func (s *Store) Record(p RecordParams) (*Run, error) {
	if p.Report == nil {
		return nil, fmt.Errorf("history: record: nil report")
	}
	key := strings.TrimSpace(p.DocumentKey)
	hash := ContentHash(p.Text)
	if key == "" {
		key = DefaultKey(p.Text)
	}
	source := p.Source
	if source == "" {
		source = "mcp"
	}

	run := &Run{
		ID:          uuid.NewString(),
		DocumentKey: key,
		Source:      source,
		Score:       p.Report.Score,
		Dimensions:  p.Report.Breakdown(),
		Findings:    p.Report.FindingCount(),
		CharCount:   uniseg.GraphemeClusterCount(p.Text),
		ContentHash: hash,
		CreatedAt:   Now(),
	}

	dims, err := json.Marshal(run.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("history: encode dimensions: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, document_key, source, score, dimensions, findings, char_count, content_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.DocumentKey, run.Source, run.Score, string(dims),
		run.Findings, run.CharCount, run.ContentHash, run.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("history: insert run: %w", err)
	}

	if s.cfg.MaxRuns > 0 {
		if _, err := tx.Exec(
			`DELETE FROM runs WHERE document_key = ? AND seq NOT IN (
				SELECT seq FROM runs WHERE document_key = ? ORDER BY seq DESC LIMIT ?
			)`,
			key, key, s.cfg.MaxRuns,
		); err != nil {
			return nil, fmt.Errorf("history: prune: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("history: commit: %w", err)
	}
	return run, nil
}

// Recent returns the newest runs for key, newest first.
func (s *Store) Recent(key string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, document_key, source, score, dimensions, findings, char_count, content_hash, created_at
		 FROM runs WHERE document_key = ? ORDER BY seq DESC LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r    Run
			dims string
		)
		if err := rows.Scan(&r.ID, &r.DocumentKey, &r.Source, &r.Score, &dims,
			&r.Findings, &r.CharCount, &r.ContentHash, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(dims), &r.Dimensions); err != nil {
			return nil, fmt.Errorf("history: decode dimensions of %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Documents lists every key with its run count and latest score, most
// recently analyzed first.
func (s *Store) Documents(limit int) ([]DocumentSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT r.document_key, c.runs, r.score, r.created_at
		 FROM runs r
		 JOIN (SELECT document_key, COUNT(*) AS runs, MAX(seq) AS last_seq
		       FROM runs GROUP BY document_key) c
		   ON r.seq = c.last_seq
		 ORDER BY r.seq DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var d DocumentSummary
		if err := rows.Scan(&d.DocumentKey, &d.Runs, &d.LastScore, &d.LastRunAt); err != nil {
			return nil, fmt.Errorf("history: scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ContentHash returns the SHA-256 of text, hex encoded.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// DefaultKey derives a document key from content when the caller gives
// none. Edits produce a new key, so callers tracking revisions should
// pass their own.
func DefaultKey(text string) string {
	return "sha256:" + ContentHash(text)[:16]
}

const timeLayout = "2006-01-02 15:04:05"

// Now returns the current UTC time in the stored format.
func Now() string {
	return time.Now().UTC().Format(timeLayout)
}
