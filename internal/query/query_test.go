package query

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-session-repair/internal/index"
)

func seedDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.OpenDB(filepath.Join(t.TempDir(), "aisr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rows := []struct {
		id, cwd, summary, updated string
		hasBackup                 int
	}{
		{"sess-old", "/work/api", "refactor the auth layer", "2025-11-01T09:00:00Z", 0},
		{"sess-mid", "/work/cli", "add a progress bar", "2026-01-10T09:00:00Z", 1},
		{"sess-new", "/work/api", "fix pagination bug", "2026-02-01T09:00:00Z", 0},
	}
	for _, r := range rows {
		_, err := db.Raw().Exec(
			`INSERT INTO sessions (session_id, file_path, repo_cwd, summary, updated_at, message_count, has_backup)
			 VALUES (?, ?, ?, ?, ?, 4, ?)`,
			r.id, "/tmp/"+r.id+".jsonl", r.cwd, r.summary, r.updated, r.hasBackup)
		require.NoError(t, err)
	}
	return db
}

func TestListNewestFirst(t *testing.T) {
	db := seedDB(t)

	results, err := List(db, Options{})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "sess-new", results[0].SessionID)
	require.Equal(t, "sess-old", results[2].SessionID)
}

func TestListFilters(t *testing.T) {
	db := seedDB(t)

	byCwd, err := List(db, Options{Filter: "/work/api"})
	require.NoError(t, err)
	require.Len(t, byCwd, 2)

	bySummary, err := List(db, Options{Filter: "progress bar"})
	require.NoError(t, err)
	require.Len(t, bySummary, 1)
	require.True(t, bySummary[0].HasBackup)

	since, err := List(db, Options{Since: "2026-01-01"})
	require.NoError(t, err)
	require.Len(t, since, 2)

	limited, err := List(db, Options{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "sess-new", limited[0].SessionID)
}
