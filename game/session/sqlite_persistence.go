package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/geocoin-carrier/game/service"
	_ "modernc.org/sqlite"
)

const createSavesTable = `
CREATE TABLE IF NOT EXISTS saves (
	id TEXT PRIMARY KEY,
	config_name TEXT NOT NULL,
	data BLOB NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLitePersistence implements SessionPersistence using a SQLite database.
// Each save is one row holding the full session snapshot as a JSON blob,
// same shape as the file store.
type SQLitePersistence struct {
	db            *sql.DB
	configManager service.ConfigManager
}

// NewSQLitePersistence opens (or creates) a SQLite-backed session store
func NewSQLitePersistence(path string, configManager service.ConfigManager) (*SQLitePersistence, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	if _, err := db.Exec(createSavesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create saves table: %w", err)
	}

	return &SQLitePersistence{db: db, configManager: configManager}, nil
}

// Save persists a session as a single-row snapshot
func (sp *SQLitePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data, err := snapshotSession(session, sp.configManager)
	if err != nil {
		return err
	}

	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = sp.db.Exec(`
		INSERT INTO saves (id, config_name, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			config_name = excluded.config_name,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		strings.ToLower(session.ID), data.ConfigName, blob,
		session.CreatedAt.UTC().Format(time.RFC3339Nano), now)
	if err != nil {
		return fmt.Errorf("failed to write save row: %w", err)
	}

	return nil
}

// Load retrieves a session snapshot by ID
func (sp *SQLitePersistence) Load(id string) (*service.Session, error) {
	var blob []byte
	err := sp.db.QueryRow(`SELECT data FROM saves WHERE id = ?`, strings.ToLower(id)).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read save row: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(blob, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return restoreSession(&data, sp.configManager)
}

// Delete removes a session row
func (sp *SQLitePersistence) Delete(id string) error {
	result, err := sp.db.Exec(`DELETE FROM saves WHERE id = ?`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete save row: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// ListAll returns all persisted session IDs
func (sp *SQLitePersistence) ListAll() ([]string, error) {
	rows, err := sp.db.Query(`SELECT id FROM saves ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Exists checks if a save row exists for the session
func (sp *SQLitePersistence) Exists(id string) bool {
	var one int
	err := sp.db.QueryRow(`SELECT 1 FROM saves WHERE id = ?`, strings.ToLower(id)).Scan(&one)
	return err == nil
}

// Close closes the underlying database
func (sp *SQLitePersistence) Close() error {
	if sp == nil || sp.db == nil {
		return nil
	}
	return sp.db.Close()
}
