package repair

import (
	"fmt"

	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

// Validation is the outcome of a referential-integrity check.
type Validation struct {
	Valid  bool
	Errors []string
}

// Validate checks uuid uniqueness and parentUuid referential soundness
// across a line array. It never mutates; a failing validation makes the
// orchestrator discard its write. Line numbers in messages are 1-based.
func Validate(lines []transcript.Line) Validation {
	v := Validation{Valid: true}

	firstSeen := make(map[string]int)
	for i, l := range lines {
		if l.Entry == nil || l.Entry.UUID == "" {
			continue
		}
		id := l.Entry.UUID
		if prev, ok := firstSeen[id]; ok {
			v.Errors = append(v.Errors,
				fmt.Sprintf("line %d: duplicate uuid %s (first seen on line %d)", i+1, id, prev+1))
			continue
		}
		firstSeen[id] = i
	}

	firstEntry := true
	for i, l := range lines {
		if l.Entry == nil {
			continue
		}
		if firstEntry {
			firstEntry = false
			continue
		}
		parent := l.Entry.ParentUUID
		if parent == "" {
			continue
		}
		if _, ok := firstSeen[parent]; !ok {
			v.Errors = append(v.Errors,
				fmt.Sprintf("line %d: parentUuid %s references no existing uuid", i+1, parent))
		}
	}

	v.Valid = len(v.Errors) == 0
	return v
}
