package index

import (
	"fmt"

	"github.com/Zuo-Peng/ai-session-repair/internal/scan"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

func IndexAll(db *DB, claudeRoot string) (Stats, error) {
	var stats Stats

	files, err := scan.ScanRoot(claudeRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	// track which sessions we see, for pruning
	seen := make(map[string]struct{})

	for _, fi := range files {
		seen[fi.SessionID] = struct{}{}

		needs, err := needsUpdate(db, fi)
		if err != nil {
			stats.Errors++
			continue
		}
		if !needs {
			stats.Skipped++
			continue
		}

		summary, err := transcript.Summarize(fi.Path)
		if err != nil {
			stats.Errors++
			fmt.Printf("  WARN: summarize %s: %v\n", fi.Path, err)
			continue
		}
		if summary.MessageCount == 0 {
			continue
		}

		if err := upsertSession(db, fi, summary); err != nil {
			stats.Errors++
			fmt.Printf("  WARN: index %s: %v\n", fi.Path, err)
			continue
		}
		stats.Updated++
	}

	pruned, err := pruneSessions(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, fi scan.FileInfo) (bool, error) {
	stamp, err := db.GetFileStamp(fi.SessionID)
	if err != nil {
		return false, err
	}
	if stamp == nil {
		return true, nil // new session
	}
	return stamp.Mtime != fi.Mtime || stamp.Size != fi.Size, nil
}

func upsertSession(db *DB, fi scan.FileInfo, s *transcript.SessionSummary) error {
	hasBackup := 0
	if fi.HasBackup {
		hasBackup = 1
	}
	_, err := db.Raw().Exec(
		`INSERT OR REPLACE INTO sessions
		 (session_id, file_path, repo_cwd, git_branch, summary, created_at, updated_at, message_count, has_backup, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fi.SessionID,
		fi.Path,
		s.RepoCwd,
		s.GitBranch,
		s.Summary,
		s.CreatedAt.Format("2006-01-02T15:04:05Z"),
		s.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		s.MessageCount,
		hasBackup,
		fi.Mtime,
		fi.Size,
	)
	return err
}

func pruneSessions(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllSessionIDs()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for id := range all {
		if _, ok := seen[id]; !ok {
			if err := db.DeleteSession(id); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
