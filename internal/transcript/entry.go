package transcript

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Entry is the typed view of one transcript record. The raw line it was
// parsed from is kept alongside so unknown fields round-trip untouched.
type Entry struct {
	Type        string          `json:"type"`
	Subtype     string          `json:"subtype"`
	UUID        string          `json:"uuid"`
	ParentUUID  string          `json:"parentUuid"`
	SessionID   string          `json:"sessionId"`
	Version     string          `json:"version"`
	Cwd         string          `json:"cwd"`
	GitBranch   string          `json:"gitBranch"`
	Slug        string          `json:"slug"`
	Timestamp   string          `json:"timestamp"`
	IsSidechain bool            `json:"isSidechain"`
	UserType    string          `json:"userType"`
	Model       string          `json:"model"`
	Message     json.RawMessage `json:"message"`

	raw []byte
}

// Line is one physical line of a session file. Entry is nil when the line
// is not valid JSON; Raw always holds the original text verbatim.
type Line struct {
	Entry *Entry
	Raw   string
}

// Raw returns the original bytes of the line this entry was parsed from.
func (e *Entry) Raw() []byte {
	return e.raw
}

// ModelName returns the model recorded on the entry, falling back to the
// nested message.model field.
func (e *Entry) ModelName() string {
	if e.Model != "" {
		return e.Model
	}
	return gjson.GetBytes(e.raw, "message.model").String()
}

// UsageTokens sums all usage token counters on the nested message.
// Missing fields count as zero.
func (e *Entry) UsageTokens() int64 {
	usage := gjson.GetBytes(e.raw, "message.usage")
	if !usage.Exists() {
		return 0
	}
	return usage.Get("input_tokens").Int() +
		usage.Get("output_tokens").Int() +
		usage.Get("cache_creation_input_tokens").Int() +
		usage.Get("cache_read_input_tokens").Int()
}

// HasTextContentBlock reports whether the entry's message carries visible
// text: a non-blank string content, or at least one "text" block with
// non-blank text. Tool-use-only or thinking-only content does not count.
func (e *Entry) HasTextContentBlock() bool {
	content := gjson.GetBytes(e.raw, "message.content")
	switch {
	case content.Type == gjson.String:
		return strings.TrimSpace(content.String()) != ""
	case content.IsArray():
		found := false
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "text" &&
				strings.TrimSpace(block.Get("text").String()) != "" {
				found = true
				return false
			}
			return true
		})
		return found
	}
	return false
}

// ContainsText reports whether sub occurs in the message's string content
// or in any "text" content block.
func (e *Entry) ContainsText(sub string) bool {
	content := gjson.GetBytes(e.raw, "message.content")
	switch {
	case content.Type == gjson.String:
		return strings.Contains(content.String(), sub)
	case content.IsArray():
		found := false
		content.ForEach(func(_, block gjson.Result) bool {
			if block.Get("type").String() == "text" &&
				strings.Contains(block.Get("text").String(), sub) {
				found = true
				return false
			}
			return true
		})
		return found
	}
	return false
}

// FirstText returns the message's string content, or the first non-blank
// "text" block. Empty when the entry carries no visible text.
func (e *Entry) FirstText() string {
	content := gjson.GetBytes(e.raw, "message.content")
	if content.Type == gjson.String {
		return strings.TrimSpace(content.String())
	}
	var text string
	content.ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			text = strings.TrimSpace(block.Get("text").String())
			return text == ""
		}
		return true
	})
	return text
}

// contextLimitKeywords are substrings seen in stop reasons when a session
// has exhausted its context window.
var contextLimitKeywords = []string{
	"context_limit",
	"context_window",
	"context_exceeded",
	"context_full",
	"max_context",
	"token_limit",
	"max_tokens",
	"conversation_too_long",
	"input_too_long",
}

// stopReasonPaths covers both spellings at both nesting levels; the
// upstream format has changed spelling before.
var stopReasonPaths = []string{
	"stop_reason",
	"stopReason",
	"end_turn_reason",
	"endTurnReason",
	"message.stop_reason",
	"message.stopReason",
	"message.end_turn_reason",
	"message.endTurnReason",
}

// IsContextLimitStop reports whether any stop/end-turn reason on the entry
// or its message matches a context-exhaustion keyword. Shared with the
// bookmark trigger rules in the consuming application.
func IsContextLimitStop(e *Entry) bool {
	for _, path := range stopReasonPaths {
		reason := gjson.GetBytes(e.raw, path)
		if reason.Type != gjson.String || reason.String() == "" {
			continue
		}
		lower := strings.ToLower(reason.String())
		for _, kw := range contextLimitKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
