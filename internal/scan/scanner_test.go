package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanRootSkipsNonSessions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "proj", "aaaa-1111.jsonl"), "{}\n")
	writeFile(t, filepath.Join(root, "proj", "aaaa-1111.jsonl.backup"), "{}\n")
	writeFile(t, filepath.Join(root, "proj", "sessions-index.jsonl"), "{}\n")
	writeFile(t, filepath.Join(root, "proj", "subagents", "bbbb-2222.jsonl"), "{}\n")
	writeFile(t, filepath.Join(root, "proj", "notes.txt"), "hi")

	files, err := ScanRoot(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "aaaa-1111", files[0].SessionID)
	require.True(t, files[0].HasBackup)
}

func TestScanRootMissingRoot(t *testing.T) {
	files, err := ScanRoot(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestResolvePrefix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "abc123-session.jsonl"), "{}\n")
	writeFile(t, filepath.Join(root, "p", "abd456-session.jsonl"), "{}\n")

	path, err := Resolve(root, "abc")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "p", "abc123-session.jsonl"), path)

	_, err = Resolve(root, "ab")
	require.ErrorContains(t, err, "ambiguous")

	_, err = Resolve(root, "zzz")
	require.ErrorContains(t, err, "no session matches")
}

func TestResolveDirectPath(t *testing.T) {
	root := t.TempDir()
	direct := filepath.Join(root, "anywhere.jsonl")
	writeFile(t, direct, "{}\n")

	path, err := Resolve(root, direct)
	require.NoError(t, err)
	require.Equal(t, direct, path)
}
