package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/raysh454/webcheck/internal/logging"
	"github.com/raysh454/webcheck/internal/model"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore mirrors the JSON store's semantics on a SQLite table: records
// are loaded once at open, appended in memory and inserted on Save. Only rows
// appended since the previous Save are written.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger

	mu      sync.Mutex
	records []model.Result
	saved   int
}

func NewSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: empty path")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("sqlite store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: apply schema: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.With(logging.Field{Key: "backend", Value: BackendSQLite}),
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("loaded result database",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "records", Value: len(s.records)})
	return s, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(`SELECT check_id, is_match, is_error, error_message, completed, task_responses
		FROM results ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("sqlite store: query: %w", err)
	}
	defer rows.Close()

	records := []model.Result{}
	for rows.Next() {
		var (
			r         model.Result
			msg, resp sql.NullString
			completed string
		)
		if err := rows.Scan(&r.Check, &r.Match, &r.Error, &msg, &completed, &resp); err != nil {
			return fmt.Errorf("sqlite store: scan: %w", err)
		}
		r.ErrorMessage = msg.String

		ts, err := time.Parse(time.RFC3339Nano, completed)
		if err != nil {
			return fmt.Errorf("sqlite store: completed %q: %w", completed, err)
		}
		r.Completed = model.Timestamp{Time: ts}

		if resp.Valid && resp.String != "" {
			r.TaskResponses = &model.TaskResponses{}
			if err := json.Unmarshal([]byte(resp.String), r.TaskResponses); err != nil {
				return fmt.Errorf("sqlite store: task responses: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite store: rows: %w", err)
	}

	s.records = records
	s.saved = len(records)
	return nil
}

func (s *SQLiteStore) Append(records ...model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Save inserts the pending records in one transaction.
func (s *SQLiteStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.records[s.saved:]
	if len(pending) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO results
		(check_id, is_match, is_error, error_message, completed, task_responses)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range pending {
		var resp sql.NullString
		if r.TaskResponses != nil {
			b, err := json.Marshal(r.TaskResponses)
			if err != nil {
				return fmt.Errorf("sqlite store: encode task responses: %w", err)
			}
			resp = sql.NullString{String: string(b), Valid: true}
		}
		msg := sql.NullString{String: r.ErrorMessage, Valid: r.ErrorMessage != ""}

		if _, err := stmt.Exec(r.Check, r.Match, r.Error, msg,
			r.Completed.Time.Format(time.RFC3339Nano), resp); err != nil {
			return fmt.Errorf("sqlite store: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	s.saved = len(s.records)

	s.logger.Debug("saved results", logging.Field{Key: "inserted", Value: len(pending)})
	return nil
}

func (s *SQLiteStore) ByCheck(checkID string) []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filterByCheck(s.records, checkID)
}

func (s *SQLiteStore) All() []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Result(nil), s.records...)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
