package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Zuo-Peng/ai-session-repair/internal/repair"
)

type FileInfo struct {
	Path      string
	SessionID string
	Mtime     int64
	Size      int64
	HasBackup bool
}

// ScanRoot walks the Claude projects root collecting session files.
// Backup files, subagent transcripts, and index files are not sessions.
func ScanRoot(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if filepath.Base(path) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".jsonl" {
			return nil
		}
		base := filepath.Base(path)
		if strings.Contains(base, "sessions-index") || strings.Contains(base, repair.BackupSuffix) {
			return nil
		}
		hasBackup := false
		if _, statErr := os.Stat(repair.BackupPath(path)); statErr == nil {
			hasBackup = true
		}
		files = append(files, FileInfo{
			Path:      path,
			SessionID: strings.TrimSuffix(base, ".jsonl"),
			Mtime:     info.ModTime().Unix(),
			Size:      info.Size(),
			HasBackup: hasBackup,
		})
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}

// Resolve maps a CLI argument to a session file: either a path that
// exists on disk, or a session-id prefix matched against the root.
func Resolve(root, arg string) (string, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}

	files, err := ScanRoot(root)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", root, err)
	}

	var matches []string
	for _, f := range files {
		if strings.HasPrefix(f.SessionID, arg) {
			matches = append(matches, f.Path)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matches %q under %s", arg, root)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("session prefix %q is ambiguous (%d matches)", arg, len(matches))
	}
}
