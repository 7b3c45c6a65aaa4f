// Package storage provides SQLite-based persistence for save slots and play history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-pipes/internal/pipes/core"
	"github.com/vovakirdan/tui-pipes/internal/pipes/savefile"
)

// ErrNotFound is returned when a named slot does not exist.
var ErrNotFound = errors.New("storage: save not found")

// Store manages the SQLite database connection for saves.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Save describes one named save slot. The body is not included.
type Save struct {
	ID        string // UUID assigned when the slot is created
	Name      string
	Digest    string // BLAKE3 of the uncompressed body
	Size      int    // Uncompressed body length in bytes
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result is one recorded simulation run against a slot.
type Result struct {
	ID        int64
	SaveID    string
	Outcome   string
	At        int
	Steps     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, logger: log.New(io.Discard)}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// SetLogger replaces the store's logger. Nil restores the silent default.
func (s *Store) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	s.logger = l
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			digest TEXT NOT NULL,
			size INTEGER NOT NULL,
			body BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_saves_digest ON saves(digest);

		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			save_id TEXT NOT NULL REFERENCES saves(id) ON DELETE CASCADE,
			outcome TEXT NOT NULL,
			at_index INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_save_id ON results(save_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores body under name, creating the slot or replacing its contents.
// It reports changed=false when the slot already holds an identical body.
func (s *Store) Put(name string, body []byte) (save Save, changed bool, err error) {
	if name == "" {
		return Save{}, false, fmt.Errorf("storage: save name must not be empty")
	}
	digest := savefile.Digest(body)

	existing, err := s.lookup(name)
	found := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Save{}, false, err
	}
	if found && existing.Digest == digest {
		s.logger.Debug("save unchanged", "name", name, "digest", digest[:12])
		return existing, false, nil
	}

	compressed, err := compress(body)
	if err != nil {
		return Save{}, false, fmt.Errorf("storage: cannot compress save: %w", err)
	}

	if !found {
		id := uuid.New().String()
		_, err = s.db.Exec(
			"INSERT INTO saves (id, name, digest, size, body) VALUES (?, ?, ?, ?, ?)",
			id, name, digest, len(body), compressed,
		)
		if err != nil {
			return Save{}, false, fmt.Errorf("storage: cannot create save: %w", err)
		}
		s.logger.Info("save created", "name", name, "id", id, "digest", digest[:12])
	} else {
		_, err = s.db.Exec(
			`UPDATE saves SET digest = ?, size = ?, body = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			digest, len(body), compressed, existing.ID,
		)
		if err != nil {
			return Save{}, false, fmt.Errorf("storage: cannot update save: %w", err)
		}
		s.logger.Info("save updated", "name", name, "id", existing.ID, "digest", digest[:12])
	}

	save, err = s.lookup(name)
	if err != nil {
		return Save{}, false, err
	}
	return save, true, nil
}

// Get returns the body and metadata of a named slot.
func (s *Store) Get(name string) ([]byte, Save, error) {
	var save Save
	var compressed []byte
	var createdAt, updatedAt any

	err := s.db.QueryRow(
		`SELECT id, name, digest, size, body, created_at, updated_at
		 FROM saves WHERE name = ?`,
		name,
	).Scan(&save.ID, &save.Name, &save.Digest, &save.Size, &compressed, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, Save{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, Save{}, fmt.Errorf("storage: cannot query save: %w", err)
	}
	save.CreatedAt = parseTime(createdAt)
	save.UpdatedAt = parseTime(updatedAt)

	body, err := decompress(compressed)
	if err != nil {
		return nil, Save{}, fmt.Errorf("storage: cannot decompress save %s: %w", name, err)
	}
	if got := savefile.Digest(body); got != save.Digest {
		return nil, Save{}, fmt.Errorf("storage: save %s is corrupt: digest %s, want %s", name, got[:12], save.Digest[:12])
	}
	return body, save, nil
}

// List returns all slots, most recently updated first.
func (s *Store) List() ([]Save, error) {
	rows, err := s.db.Query(
		`SELECT id, name, digest, size, created_at, updated_at
		 FROM saves
		 ORDER BY updated_at DESC, name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []Save
	for rows.Next() {
		var save Save
		var createdAt, updatedAt any
		if err := rows.Scan(&save.ID, &save.Name, &save.Digest, &save.Size, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		save.CreatedAt = parseTime(createdAt)
		save.UpdatedAt = parseTime(updatedAt)
		saves = append(saves, save)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return saves, nil
}

// FindByDigest returns the first slot holding a body with the given digest.
// Returns nil if no slot matches.
func (s *Store) FindByDigest(digest string) (*Save, error) {
	var save Save
	var createdAt, updatedAt any

	err := s.db.QueryRow(
		`SELECT id, name, digest, size, created_at, updated_at
		 FROM saves WHERE digest = ?
		 ORDER BY name ASC LIMIT 1`,
		digest,
	).Scan(&save.ID, &save.Name, &save.Digest, &save.Size, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query digest: %w", err)
	}
	save.CreatedAt = parseTime(createdAt)
	save.UpdatedAt = parseTime(updatedAt)
	return &save, nil
}

// Delete removes a slot and its recorded results.
func (s *Store) Delete(name string) error {
	save, err := s.lookup(name)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results WHERE save_id = ?", save.ID); err != nil {
		return fmt.Errorf("storage: cannot delete results: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM saves WHERE id = ?", save.ID); err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}

	s.logger.Info("save deleted", "name", name, "id", save.ID)
	return nil
}

// RecordResult stores the outcome of a simulation run against a slot.
// Returns the ID of the inserted record.
func (s *Store) RecordResult(name string, out core.Outcome) (int64, error) {
	save, err := s.lookup(name)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Exec(
		"INSERT INTO results (save_id, outcome, at_index, steps) VALUES (?, ?, ?, ?)",
		save.ID, out.Kind.String(), out.At, out.Steps,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	s.logger.Debug("result recorded", "name", name, "outcome", out.String())
	return id, nil
}

// Results retrieves the most recent runs recorded against a slot.
func (s *Store) Results(name string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	save, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT id, save_id, outcome, at_index, steps, created_at
		 FROM results
		 WHERE save_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		save.ID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var createdAt any
		if err := rows.Scan(&r.ID, &r.SaveID, &r.Outcome, &r.At, &r.Steps, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// SaveStats contains aggregated play statistics for a slot.
type SaveStats struct {
	Name      string
	Runs      int
	Delivered int
	LastRun   time.Time
}

// Stats retrieves aggregated play statistics for a slot.
func (s *Store) Stats(name string) (*SaveStats, error) {
	save, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	stats := &SaveStats{Name: name}
	var lastRun any
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0), MAX(created_at)
		 FROM results WHERE save_id = ?`,
		core.OutcomeDelivered.String(), save.ID,
	).Scan(&stats.Runs, &stats.Delivered, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get save stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	return stats, nil
}

// lookup returns slot metadata by name.
func (s *Store) lookup(name string) (Save, error) {
	var save Save
	var createdAt, updatedAt any

	err := s.db.QueryRow(
		`SELECT id, name, digest, size, created_at, updated_at
		 FROM saves WHERE name = ?`,
		name,
	).Scan(&save.ID, &save.Name, &save.Digest, &save.Size, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return Save{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Save{}, fmt.Errorf("storage: cannot query save: %w", err)
	}
	save.CreatedAt = parseTime(createdAt)
	save.UpdatedAt = parseTime(updatedAt)
	return save, nil
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func compress(body []byte) ([]byte, error) {
	var compressed bytes.Buffer
	encoder, err := zstd.NewWriter(&compressed)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(body); err != nil {
		encoder.Close()
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}
	return compressed.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	body, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return body, nil
}
