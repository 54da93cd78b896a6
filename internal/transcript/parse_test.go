package transcript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLinesKeepsMalformedLinesVerbatim(t *testing.T) {
	input := `{"type":"user","uuid":"u1","message":{"role":"user","content":"hi"}}
not json at all {{{

{"type":"assistant","uuid":"a1","parentUuid":"u1"}
`
	lines, err := ParseLines(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 3) // blank line dropped

	require.NotNil(t, lines[0].Entry)
	require.Equal(t, "u1", lines[0].Entry.UUID)

	require.Nil(t, lines[1].Entry)
	require.Equal(t, "not json at all {{{", lines[1].Raw)

	require.NotNil(t, lines[2].Entry)
	require.Equal(t, "u1", lines[2].Entry.ParentUUID)
}

func TestWriteLinesRoundTrips(t *testing.T) {
	input := "{\"type\":\"user\",\"uuid\":\"u1\",\"weird_unknown_field\":[1,2,3]}\nbroken line\n"
	lines, err := ParseLines(strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, err)
	require.NoError(t, WriteLines(&buf, lines))
	require.Equal(t, input, buf.String())
}

func TestHasTextContentBlock(t *testing.T) {
	cases := []struct {
		name string
		line string
		want bool
	}{
		{"string content", `{"type":"assistant","message":{"content":"hello"}}`, true},
		{"blank string content", `{"type":"assistant","message":{"content":"   "}}`, false},
		{"text block", `{"type":"assistant","message":{"content":[{"type":"text","text":"hi"}]}}`, true},
		{"blank text block", `{"type":"assistant","message":{"content":[{"type":"text","text":"  "}]}}`, false},
		{"tool use only", `{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Bash"}]}}`, false},
		{"thinking only", `{"type":"assistant","message":{"content":[{"type":"thinking","thinking":"hmm"}]}}`, false},
		{"mixed", `{"type":"assistant","message":{"content":[{"type":"tool_use"},{"type":"text","text":"done"}]}}`, true},
		{"no message", `{"type":"assistant"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ParseLine([]byte(tc.line))
			require.NotNil(t, e)
			require.Equal(t, tc.want, e.HasTextContentBlock())
		})
	}
}

func TestContainsText(t *testing.T) {
	e := ParseLine([]byte(`{"type":"assistant","message":{"content":[{"type":"text","text":"Prompt is too long for this model"}]}}`))
	require.True(t, e.ContainsText("Prompt is too long"))
	require.False(t, e.ContainsText("everything is fine"))

	s := ParseLine([]byte(`{"type":"assistant","message":{"content":"Prompt is too long"}}`))
	require.True(t, s.ContainsText("Prompt is too long"))
}

func TestUsageTokens(t *testing.T) {
	e := ParseLine([]byte(`{"message":{"usage":{"input_tokens":10,"output_tokens":5,"cache_read_input_tokens":3}}}`))
	require.Equal(t, int64(18), e.UsageTokens())

	empty := ParseLine([]byte(`{"message":{}}`))
	require.Equal(t, int64(0), empty.UsageTokens())
}

func TestModelNameFallsBackToMessage(t *testing.T) {
	top := ParseLine([]byte(`{"model":"claude-x","message":{"model":"claude-y"}}`))
	require.Equal(t, "claude-x", top.ModelName())

	nested := ParseLine([]byte(`{"message":{"model":"claude-y"}}`))
	require.Equal(t, "claude-y", nested.ModelName())
}

func TestIsContextLimitStop(t *testing.T) {
	cases := []struct {
		name string
		line string
		want bool
	}{
		{"snake on entry", `{"stop_reason":"context_limit_reached"}`, true},
		{"camel on entry", `{"stopReason":"MAX_TOKENS"}`, true},
		{"snake on message", `{"message":{"stop_reason":"conversation_too_long"}}`, true},
		{"camel on message", `{"message":{"endTurnReason":"context_window_exceeded"}}`, true},
		{"normal stop", `{"message":{"stop_reason":"end_turn"}}`, false},
		{"no reason", `{"message":{}}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := ParseLine([]byte(tc.line))
			require.NotNil(t, e)
			require.Equal(t, tc.want, IsContextLimitStop(e))
		})
	}
}

func TestMidpointTimestamp(t *testing.T) {
	mid := MidpointTimestamp("2026-01-01T00:00:00.000Z", "2026-01-01T00:00:10.000Z")
	require.Equal(t, "2026-01-01T00:00:05.000Z", mid)

	// one side unparsable falls back to the other
	require.Equal(t, "2026-01-01T00:00:10.000Z", MidpointTimestamp("garbage", "2026-01-01T00:00:10.000Z"))
	require.Equal(t, "2026-01-01T00:00:00.000Z", MidpointTimestamp("2026-01-01T00:00:00.000Z", ""))
}

func TestFirstText(t *testing.T) {
	e := ParseLine([]byte(`{"message":{"content":[{"type":"thinking","thinking":"x"},{"type":"text","text":"  answer  "}]}}`))
	require.Equal(t, "answer", e.FirstText())
}
