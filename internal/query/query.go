package query

import (
	"strings"

	"github.com/Zuo-Peng/ai-session-repair/internal/index"
)

type Result struct {
	SessionID    string
	FilePath     string
	RepoCwd      string
	Summary      string
	UpdatedAt    string
	MessageCount int
	HasBackup    bool
}

type Options struct {
	Filter string // substring match on summary, cwd, or session id
	Since  string // "" = no filter, e.g. "2024-01-01"
	Limit  int
}

// List returns sessions newest first, optionally filtered.
func List(db *index.DB, opts Options) ([]Result, error) {
	var conditions []string
	var args []interface{}

	if opts.Filter != "" {
		conditions = append(conditions,
			"(summary LIKE ? OR repo_cwd LIKE ? OR session_id LIKE ?)")
		pat := "%" + opts.Filter + "%"
		args = append(args, pat, pat, pat)
	}
	if opts.Since != "" {
		conditions = append(conditions, "updated_at >= ?")
		args = append(args, opts.Since)
	}

	q := `SELECT session_id, file_path, repo_cwd, summary, updated_at, message_count, has_backup
	      FROM sessions`
	if len(conditions) > 0 {
		q += " WHERE " + strings.Join(conditions, " AND ")
	}
	q += " ORDER BY updated_at DESC"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := db.Raw().Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(
			&r.SessionID, &r.FilePath, &r.RepoCwd, &r.Summary,
			&r.UpdatedAt, &r.MessageCount, &r.HasBackup,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
