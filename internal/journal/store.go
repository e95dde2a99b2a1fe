package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"tidy/internal/config"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath opens the journal database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts a new journal entry and returns it with its identifier and
// timestamp populated.
func (s *Store) Record(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO journal_entries (
            request_id, source_path, dest_path, category, outcome, detail, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID,
		entry.SourcePath,
		nullableString(entry.DestPath),
		nullableString(entry.Category),
		string(entry.Outcome),
		nullableString(entry.Detail),
		nullableString(entry.ErrorMessage),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a journal entry by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Recent returns the newest entries first, optionally filtered by outcome.
// A non-positive limit returns everything.
func (s *Store) Recent(ctx context.Context, limit int, outcomes ...Outcome) ([]*Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	args := make([]any, 0, len(outcomes)+1)

	if len(outcomes) > 0 {
		query += ` WHERE outcome IN (` + makePlaceholders(len(outcomes)) + `)`
		for _, outcome := range outcomes {
			args = append(args, string(outcome))
		}
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats returns a count of entries grouped by outcome.
func (s *Store) Stats(ctx context.Context) (map[Outcome]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(1) FROM journal_entries GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats[Outcome(outcome)] = count
	}
	return stats, rows.Err()
}

// Clear removes entries. With no outcomes it removes everything.
func (s *Store) Clear(ctx context.Context, outcomes ...Outcome) (int64, error) {
	if len(outcomes) == 0 {
		res, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries`)
		if err != nil {
			return 0, fmt.Errorf("clear journal: %w", err)
		}
		return res.RowsAffected()
	}

	args := make([]any, 0, len(outcomes))
	for _, outcome := range outcomes {
		args = append(args, string(outcome))
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM journal_entries WHERE outcome IN (`+makePlaceholders(len(outcomes))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("clear journal outcomes: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = "id, request_id, source_path, dest_path, category, outcome, detail, error_message, created_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           int64
		requestID    string
		sourcePath   string
		destPath     sql.NullString
		category     sql.NullString
		outcome      string
		detail       sql.NullString
		errorMessage sql.NullString
		createdRaw   string
	)

	if err := scanner.Scan(
		&id,
		&requestID,
		&sourcePath,
		&destPath,
		&category,
		&outcome,
		&detail,
		&errorMessage,
		&createdRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           id,
		RequestID:    requestID,
		SourcePath:   sourcePath,
		DestPath:     destPath.String,
		Category:     category.String,
		Outcome:      Outcome(outcome),
		Detail:       detail.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
