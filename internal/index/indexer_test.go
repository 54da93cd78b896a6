package index

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sessionContent(sessionID string) string {
	return fmt.Sprintf(`{"parentUuid":null,"isSidechain":false,"userType":"external","cwd":"/tmp/proj","sessionId":%q,"version":"2.0.0","gitBranch":"main","type":"user","message":{"role":"user","content":"fix the flaky test"},"uuid":"u1","timestamp":"2026-01-01T10:00:00.000Z"}
{"parentUuid":"u1","type":"assistant","sessionId":%q,"message":{"role":"assistant","model":"claude-opus-4","content":[{"type":"text","text":"on it"}],"usage":{"input_tokens":5,"output_tokens":2}},"uuid":"a1","timestamp":"2026-01-01T10:00:05.000Z"}
`, sessionID, sessionID)
}

func setupRoot(t *testing.T, ids ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, id := range ids {
		path := filepath.Join(root, "proj", id+".jsonl")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(sessionContent(id)), 0o644))
	}
	return root
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "aisr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIndexAll(t *testing.T) {
	root := setupRoot(t, "sess-one", "sess-two")
	db := openTestDB(t)

	stats, err := IndexAll(db, root)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Scanned)
	require.Equal(t, 2, stats.Updated)

	row, err := db.GetSession("sess-one")
	require.NoError(t, err)
	require.NotNil(t, row)
	require.Equal(t, "/tmp/proj", row.RepoCwd)
	require.Equal(t, "main", row.GitBranch)
	require.Equal(t, 2, row.MessageCount)
	require.Contains(t, row.Summary, "flaky test")

	// unchanged files are skipped on the next pass
	stats, err = IndexAll(db, root)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Skipped)
	require.Equal(t, 0, stats.Updated)
}

func TestIndexAllPrunesDeletedSessions(t *testing.T) {
	root := setupRoot(t, "sess-one", "sess-two")
	db := openTestDB(t)

	_, err := IndexAll(db, root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "proj", "sess-two.jsonl")))

	stats, err := IndexAll(db, root)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Pruned)

	row, err := db.GetSession("sess-two")
	require.NoError(t, err)
	require.Nil(t, row)
}
