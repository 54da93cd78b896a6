package chain

import "github.com/Zuo-Peng/ai-session-repair/internal/transcript"

// SentinelModel is the placeholder model Claude Code records on assistant
// entries it synthesized after an API failure.
const SentinelModel = "<synthetic>"

// PromptTooLongText marks the hard context-overflow error message.
const PromptTooLongText = "Prompt is too long"

// isSyntheticFailure: sentinel model with zero usage tokens.
func isSyntheticFailure(e *transcript.Entry) bool {
	return e.ModelName() == SentinelModel && e.UsageTokens() == 0
}

// hasOverflowText: the overflow error surfaced as message text.
func hasOverflowText(e *transcript.Entry) bool {
	return e.ContainsText(PromptTooLongText)
}

// IsDeadAssistant reports whether an assistant entry is a terminal
// failure record. The three signals are independent ORs on purpose: the
// upstream format has shifted between them before, and any one is enough.
func IsDeadAssistant(e *transcript.Entry) bool {
	if e == nil || e.Type != "assistant" {
		return false
	}
	return isSyntheticFailure(e) ||
		hasOverflowText(e) ||
		transcript.IsContextLimitStop(e)
}

// FindDeathIndex returns the index of the first dead entry on the chain,
// or len(nodes) when the session never died. A session does not recover
// once dead, so everything after the first hit is treated as dead too.
func FindDeathIndex(nodes []Node) int {
	for i, n := range nodes {
		if IsDeadAssistant(n.Entry) {
			return i
		}
	}
	return len(nodes)
}
