package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"werscore/internal/config"
)

const lockRetryDelay = 25 * time.Millisecond

// timestampLayout is fixed width so lexical order matches chronological order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

var (
	// ErrRunNotFound is returned when no run matches the requested id.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRunID is returned when an id prefix matches several runs.
	ErrAmbiguousRunID = errors.New("ambiguous run id")
)

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the history database under the configured
// data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryDBPath())
}

// OpenPath opens the history database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(dbPath + ".lock")}
	if err := store.withLock(context.Background(), func() error {
		return store.initSchema(context.Background())
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withLock runs fn while holding the cross-process writer lock.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	ok, err := s.lock.TryLockContext(ensureContext(ctx), lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire history lock: %s is held by another process", s.lock.Path())
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// Record stores a run and its utterance rows in one transaction and returns
// the stored run with its assigned id.
func (s *Store) Record(ctx context.Context, detail RunDetail) (*Run, error) {
	ctx = ensureContext(ctx)
	if detail.ID == "" {
		detail.ID = uuid.NewString()
	}
	if detail.CreatedAt.IsZero() {
		detail.CreatedAt = time.Now()
	}
	detail.CreatedAt = detail.CreatedAt.UTC()

	skippedJSON, err := json.Marshal(detail.Skipped)
	if err != nil {
		return nil, fmt.Errorf("marshal skipped: %w", err)
	}
	optionsJSON, err := json.Marshal(detail.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	err = s.withLock(ctx, func() error {
		return retryOnBusy(ctx, func() error {
			return s.insertRun(ctx, detail, string(skippedJSON), string(optionsJSON))
		})
	})
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	run := detail.Run
	return &run, nil
}

func (s *Store) insertRun(ctx context.Context, detail RunDetail, skippedJSON, optionsJSON string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
            id, created_at, reference_path, hypothesis_path, wer, reference_words,
            substitutions, deletions, insertions, utterance_count, skipped_json, options_json
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		detail.ID,
		detail.CreatedAt.Format(timestampLayout),
		nullableString(detail.ReferencePath),
		nullableString(detail.HypothesisPath),
		detail.WER,
		detail.ReferenceWords,
		detail.Substitutions,
		detail.Deletions,
		detail.Insertions,
		detail.UtteranceCount,
		skippedJSON,
		optionsJSON,
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_utterances (
            run_id, position, utterance_id, wer, reference_words, hypothesis_words,
            substitutions, deletions, insertions
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range detail.Utterances {
		if _, err := stmt.ExecContext(ctx,
			detail.ID, u.Position, u.UtteranceID, u.WER, u.ReferenceWords,
			u.HypothesisWords, u.Substitutions, u.Deletions, u.Insertions,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const runColumns = "id, created_at, reference_path, hypothesis_path, wer, reference_words, substitutions, deletions, insertions, utterance_count, skipped_json, options_json"

// List returns the most recent runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var runs []Run
	err := retryOnBusy(ctx, func() error {
		runs = runs[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			run, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, *run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get loads a run and its utterance rows. id may be a unique prefix of the
// full run id.
func (s *Store) Get(ctx context.Context, id string) (*RunDetail, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", fullID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", fullID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, utterance_id, wer, reference_words, hypothesis_words, substitutions, deletions, insertions
         FROM run_utterances WHERE run_id = ? ORDER BY position`, fullID)
	if err != nil {
		return nil, fmt.Errorf("load utterances for %s: %w", fullID, err)
	}
	defer rows.Close()

	detail := &RunDetail{Run: *run}
	for rows.Next() {
		var u UtteranceRow
		if err := rows.Scan(&u.Position, &u.UtteranceID, &u.WER, &u.ReferenceWords,
			&u.HypothesisWords, &u.Substitutions, &u.Deletions, &u.Insertions); err != nil {
			return nil, fmt.Errorf("scan utterance row: %w", err)
		}
		detail.Utterances = append(detail.Utterances, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate utterances for %s: %w", fullID, err)
	}
	return detail, nil
}

func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' LIMIT 2`, pattern)
	if err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRunID, prefix)
	}
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run        Run
		createdRaw string
		refPath    sql.NullString
		hypPath    sql.NullString
		skippedRaw sql.NullString
		optionsRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&createdRaw,
		&refPath,
		&hypPath,
		&run.WER,
		&run.ReferenceWords,
		&run.Substitutions,
		&run.Deletions,
		&run.Insertions,
		&run.UtteranceCount,
		&skippedRaw,
		&optionsRaw,
	); err != nil {
		return nil, err
	}

	created, err := time.Parse(timestampLayout, createdRaw)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	run.CreatedAt = created
	run.ReferencePath = refPath.String
	run.HypothesisPath = hypPath.String
	if skippedRaw.Valid && skippedRaw.String != "" && skippedRaw.String != "null" {
		if err := json.Unmarshal([]byte(skippedRaw.String), &run.Skipped); err != nil {
			return nil, fmt.Errorf("decode skipped ids: %w", err)
		}
	}
	if optionsRaw.Valid && optionsRaw.String != "" {
		if err := json.Unmarshal([]byte(optionsRaw.String), &run.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
