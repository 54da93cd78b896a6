package repair

import (
	"time"

	"github.com/Zuo-Peng/ai-session-repair/internal/chain"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

// DefaultMaxGap is the silence between adjacent chain entries that marks
// a natural break in the conversation.
const DefaultMaxGap = 60 * time.Second

// SuccessorRule decides whether an entry can follow a checkpoint. The
// real acceptance rule is owned by Claude Code and only observed
// empirically, so it stays swappable.
type SuccessorRule func(*transcript.Entry) bool

// DefaultSuccessorRule matches what Claude Code has been seen to accept
// when resuming at a checkpoint: a live assistant turn with visible text.
func DefaultSuccessorRule(e *transcript.Entry) bool {
	return e != nil &&
		e.Type == "assistant" &&
		e.HasTextContentBlock() &&
		!chain.IsDeadAssistant(e)
}

// SelectOptions controls break point selection.
type SelectOptions struct {
	// Interval is the number of assistant turns between breaks.
	Interval int
	// StartFileIndex excludes lines before it (compact boundary floor).
	StartFileIndex int
	// MaxGap is the time-gap trigger threshold.
	MaxGap time.Duration
	// Successor validates the entry after a break; nil means the default.
	Successor SuccessorRule
}

// Selection is the outcome of a selector pass.
type Selection struct {
	// Indices are accepted break positions on the chain, ascending.
	Indices []int
	// DeathIndex is the first dead chain position, len(chain) if none.
	DeathIndex int
	// DeadExcluded counts chain entries inside the death zone.
	DeadExcluded int
}

// SelectBreaks scans the chain once and picks checkpoint positions:
// every Interval assistant turns, at turn_duration markers, and before
// long silences. Candidates snap forward to the nearest position whose
// successor passes the rule, never into the death zone, and never
// adjacent to the previously accepted break.
func SelectBreaks(nodes []chain.Node, opts SelectOptions) Selection {
	if opts.Interval <= 0 {
		opts.Interval = 1
	}
	if opts.MaxGap <= 0 {
		opts.MaxGap = DefaultMaxGap
	}
	rule := opts.Successor
	if rule == nil {
		rule = DefaultSuccessorRule
	}

	deathIndex := chain.FindDeathIndex(nodes)
	sel := Selection{
		DeathIndex:   deathIndex,
		DeadExcluded: len(nodes) - deathIndex,
	}

	isValid := func(i int) bool {
		if i < 0 || i+1 >= len(nodes) || i+1 >= deathIndex {
			return false
		}
		// the anchor itself must sit past the floor; candidates raised at
		// i-1 by the gap trigger can otherwise land behind it
		if nodes[i].FileIndex < opts.StartFileIndex {
			return false
		}
		return rule(nodes[i+1].Entry)
	}
	nearestValid := func(from int) int {
		for i := from; i < len(nodes); i++ {
			if isValid(i) {
				return i
			}
		}
		return -1
	}

	lastAccepted := -2
	assistants := 0
	accept := func(candidate int) {
		snapped := nearestValid(candidate)
		// reject duplicates and immediate neighbors of the last break
		if snapped < 0 || snapped <= lastAccepted+1 {
			return
		}
		sel.Indices = append(sel.Indices, snapped)
		lastAccepted = snapped
		assistants = 0
	}

	for i, n := range nodes {
		if n.FileIndex < opts.StartFileIndex {
			continue
		}
		e := n.Entry

		if e.Type == "assistant" {
			assistants++
			if assistants >= opts.Interval {
				accept(i)
				continue
			}
		}

		if e.Type == "system" && e.Subtype == "turn_duration" {
			accept(i)
			continue
		}

		if i > 0 {
			prev := transcript.ParseTimestamp(nodes[i-1].Entry.Timestamp)
			cur := transcript.ParseTimestamp(e.Timestamp)
			if !prev.IsZero() && !cur.IsZero() && cur.Sub(prev) > opts.MaxGap {
				accept(i - 1)
			}
		}
	}

	return sel
}
