package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS sessions (
    session_id    TEXT PRIMARY KEY,
    file_path     TEXT NOT NULL,
    repo_cwd      TEXT NOT NULL DEFAULT '',
    git_branch    TEXT NOT NULL DEFAULT '',
    summary       TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL DEFAULT '',
    updated_at    TEXT NOT NULL DEFAULT '',
    message_count INTEGER NOT NULL DEFAULT 0,
    has_backup    INTEGER NOT NULL DEFAULT 0,
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	d.migrateSchemaVersion()
	return d, nil
}

// schemaVersion should be bumped whenever summarization logic changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-index by resetting all session mtime/size to 0
		d.db.Exec("UPDATE sessions SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

type FileStamp struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileStamp(sessionID string) (*FileStamp, error) {
	var s FileStamp
	err := d.db.QueryRow(
		"SELECT mtime, size FROM sessions WHERE session_id = ?",
		sessionID,
	).Scan(&s.Mtime, &s.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *DB) AllSessionIDs() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT session_id FROM sessions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (d *DB) DeleteSession(sessionID string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	return err
}

func (d *DB) SessionCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

func (d *DB) BackupCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE has_backup = 1").Scan(&n)
	return n, err
}

type SessionRow struct {
	SessionID    string
	FilePath     string
	RepoCwd      string
	GitBranch    string
	Summary      string
	CreatedAt    string
	UpdatedAt    string
	MessageCount int
	HasBackup    bool
}

func (d *DB) GetSession(sessionID string) (*SessionRow, error) {
	var s SessionRow
	err := d.db.QueryRow(
		`SELECT session_id, file_path, repo_cwd, git_branch, summary, created_at, updated_at, message_count, has_backup
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&s.SessionID, &s.FilePath, &s.RepoCwd, &s.GitBranch, &s.Summary,
		&s.CreatedAt, &s.UpdatedAt, &s.MessageCount, &s.HasBackup)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
