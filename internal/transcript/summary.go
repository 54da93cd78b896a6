package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const maxSummaryLen = 200

// SessionSummary is the per-file metadata cached by the index.
type SessionSummary struct {
	SessionID    string
	FilePath     string
	RepoCwd      string
	GitBranch    string
	Summary      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	MessageCount int
	Mtime        time.Time
	Size         int64
}

// Summarize extracts session metadata from a session file.
func Summarize(path string) (*SessionSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	lines, err := ParseLines(f)
	if err != nil {
		return nil, err
	}

	s := &SessionSummary{
		SessionID: strings.TrimSuffix(filepath.Base(path), ".jsonl"),
		FilePath:  path,
		Mtime:     info.ModTime(),
		Size:      info.Size(),
	}

	var summaryFromRecord, firstUserText string
	for _, l := range lines {
		e := l.Entry
		if e == nil {
			continue
		}

		// summary records carry the session title
		if e.Type == "summary" {
			if v := gjson.GetBytes(e.raw, "summary"); v.String() != "" {
				summaryFromRecord = v.String()
			}
			continue
		}

		if e.Cwd != "" && s.RepoCwd == "" {
			s.RepoCwd = e.Cwd
		}
		if e.GitBranch != "" && s.GitBranch == "" {
			s.GitBranch = e.GitBranch
		}
		if e.SessionID != "" && s.SessionID == "" {
			s.SessionID = e.SessionID
		}

		if e.Type != "user" && e.Type != "assistant" {
			continue
		}
		s.MessageCount++

		if ts := ParseTimestamp(e.Timestamp); !ts.IsZero() {
			if s.CreatedAt.IsZero() {
				s.CreatedAt = ts
			}
			s.UpdatedAt = ts
		}

		if firstUserText == "" && e.Type == "user" && e.HasTextContentBlock() {
			firstUserText = e.FirstText()
		}
	}

	if summaryFromRecord != "" {
		s.Summary = summaryFromRecord
	} else {
		s.Summary = firstUserText
	}
	s.Summary = strings.ReplaceAll(s.Summary, "\n", " ")
	if len(s.Summary) > maxSummaryLen {
		s.Summary = s.Summary[:maxSummaryLen]
	}

	return s, nil
}
