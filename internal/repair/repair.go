// Package repair inserts synthetic rewind checkpoints into Claude Code
// session files without breaking the parentUuid chain.
package repair

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zuo-Peng/ai-session-repair/internal/chain"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

// DefaultMarkerChar leads the synthetic checkpoint text.
const DefaultMarkerChar = "⏪"

// MarkerContent builds the checkpoint message content for a marker char.
func MarkerContent(char string) string {
	if char == "" {
		char = DefaultMarkerChar
	}
	return char + " rewind checkpoint"
}

// AcceptanceCaveat is reported after every successful repair: whether
// Claude Code actually honors inserted checkpoints is decided by Claude
// Code, not by this tool.
const AcceptanceCaveat = "checkpoint acceptance is decided by Claude Code on resume and is not verified here"

// Options configures one repair run.
type Options struct {
	DryRun    bool
	Interval  int
	Marker    string
	MaxGap    time.Duration
	Verify    bool
	Successor SuccessorRule
}

// Result is the structured outcome of a repair run. Failures land in
// Errors rather than panics; policy outcomes land in Warnings.
type Result struct {
	Insertions   int
	BackupPath   string
	Restored     bool
	Candidates   []int
	ChainLength  int
	DeathIndex   int
	DeadExcluded int
	Errors       []string
	Warnings     []string
}

// Ok reports whether the run finished without errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) *Result {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	return r
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// StartFileIndex returns the line just after the last compact boundary.
// Segments behind a compaction boundary are never touched.
func StartFileIndex(lines []transcript.Line) int {
	start := 0
	for i, l := range lines {
		if l.Entry != nil && l.Entry.Type == "system" && l.Entry.Subtype == "compact_boundary" {
			start = i + 1
		}
	}
	return start
}

// hasMarker detects a pre-existing checkpoint. Heuristic only: the file
// may have been repaired by an older build with a different marker.
func hasMarker(lines []transcript.Line, marker string) bool {
	for _, l := range lines {
		if l.Entry != nil && l.Entry.Type == "user" && l.Entry.ContainsText(marker) {
			return true
		}
	}
	return false
}

// Run repairs one session file: restore from backup if present, parse,
// select break points, insert checkpoints, validate, write. Backup-first
// makes the whole pipeline idempotent.
func Run(path string, opts Options) *Result {
	res := &Result{}
	if opts.Marker == "" {
		opts.Marker = MarkerContent(DefaultMarkerChar)
	}

	restored, err := RestoreFromBackup(path)
	if err != nil {
		return res.errorf("restore: %v", err)
	}
	res.Restored = restored

	lines, err := transcript.ParseFile(path)
	if err != nil {
		return res.errorf("read session: %v", err)
	}
	if len(lines) == 0 {
		return res.errorf("session file is empty: %s", path)
	}

	if hasMarker(lines, opts.Marker) {
		res.warnf("file already contains checkpoint markers; repairing anyway")
	}

	meta, ok := ExtractMetadata(lines)
	if !ok {
		return res.errorf("no user entry with a sessionId found in %s", path)
	}

	nodes := chain.Build(lines)
	if len(nodes) == 0 {
		return res.errorf("no conversation chain could be built from %s", path)
	}
	res.ChainLength = len(nodes)

	sel := SelectBreaks(nodes, SelectOptions{
		Interval:       opts.Interval,
		StartFileIndex: StartFileIndex(lines),
		MaxGap:         opts.MaxGap,
		Successor:      opts.Successor,
	})
	res.DeathIndex = sel.DeathIndex
	res.DeadExcluded = sel.DeadExcluded
	res.Candidates = sel.Indices

	if sel.DeathIndex <= 1 {
		res.warnf("death zone covers the whole chain (death at %d); nothing to repair", sel.DeathIndex)
		return res
	}
	if len(sel.Indices) == 0 {
		res.warnf("no valid rewind points found; file left untouched")
		return res
	}

	if opts.DryRun {
		res.warnf("dry run: would insert %d checkpoint(s)", len(sel.Indices))
		return res
	}

	backup, err := CreateBackup(path)
	if err != nil {
		return res.errorf("backup: %v", err)
	}
	res.BackupPath = backup

	rebuilt, inserted, err := Insert(lines, nodes, sel.Indices, meta, opts.Marker)
	if err != nil {
		return res.errorf("insert: %v", err)
	}

	if opts.Verify {
		if v := Validate(rebuilt); !v.Valid {
			res.errorf("validation failed, file left unmodified: %s", strings.Join(v.Errors, "; "))
			return res
		}
	}

	if err := transcript.WriteFile(path, rebuilt); err != nil {
		return res.errorf("write repaired file: %v", err)
	}
	res.Insertions = inserted
	res.warnf("%s", AcceptanceCaveat)
	return res
}
