package repair

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-session-repair/internal/chain"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

var fixtureBase = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// ts returns a timestamp offset seconds after the fixture epoch.
func ts(offset int) string {
	return fixtureBase.Add(time.Duration(offset) * time.Second).Format("2006-01-02T15:04:05.000Z")
}

func userLine(id, parent string, offset int, text string) string {
	p := "null"
	if parent != "" {
		p = fmt.Sprintf("%q", parent)
	}
	return fmt.Sprintf(
		`{"parentUuid":%s,"isSidechain":false,"userType":"external","cwd":"/tmp/w","sessionId":"s1","version":"2.0.0","gitBranch":"main","type":"user","message":{"role":"user","content":%q},"uuid":%q,"timestamp":%q}`,
		p, text, id, ts(offset))
}

func asstLine(id, parent string, offset int, text string) string {
	return fmt.Sprintf(
		`{"parentUuid":%q,"isSidechain":false,"userType":"external","cwd":"/tmp/w","sessionId":"s1","version":"2.0.0","type":"assistant","message":{"role":"assistant","model":"claude-opus-4","content":[{"type":"text","text":%q}],"usage":{"input_tokens":12,"output_tokens":4}},"uuid":%q,"timestamp":%q}`,
		parent, text, id, ts(offset))
}

func toolAsstLine(id, parent string, offset int) string {
	return fmt.Sprintf(
		`{"parentUuid":%q,"isSidechain":false,"type":"assistant","sessionId":"s1","message":{"role":"assistant","model":"claude-opus-4","content":[{"type":"tool_use","name":"Bash","input":{}}],"usage":{"input_tokens":12,"output_tokens":4}},"uuid":%q,"timestamp":%q}`,
		parent, id, ts(offset))
}

func deadAsstLine(id, parent string, offset int) string {
	return fmt.Sprintf(
		`{"parentUuid":%q,"isSidechain":false,"type":"assistant","sessionId":"s1","message":{"role":"assistant","model":"<synthetic>","content":[{"type":"text","text":"Prompt is too long"}]},"uuid":%q,"timestamp":%q}`,
		parent, id, ts(offset))
}

func sysLine(id, parent, subtype string, offset int) string {
	return fmt.Sprintf(
		`{"parentUuid":%q,"type":"system","subtype":%q,"sessionId":"s1","uuid":%q,"timestamp":%q}`,
		parent, subtype, id, ts(offset))
}

// linearSession builds 1 user + n assistant entries with text, 1s apart.
func linearSession(n int) []string {
	raws := []string{userLine("u0", "", 0, "let's get started")}
	prev := "u0"
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("a%d", i)
		raws = append(raws, asstLine(id, prev, i, fmt.Sprintf("reply %d", i)))
		prev = id
	}
	return raws
}

func parseRaws(t *testing.T, raws []string) []transcript.Line {
	t.Helper()
	lines, err := transcript.ParseLines(strings.NewReader(strings.Join(raws, "\n") + "\n"))
	require.NoError(t, err)
	return lines
}

func buildNodes(t *testing.T, raws []string) []chain.Node {
	t.Helper()
	return chain.Build(parseRaws(t, raws))
}

// writeSession writes a session fixture into a temp dir.
func writeSession(t *testing.T, raws []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "11111111-2222-3333-4444-555555555555.jsonl")
	content := strings.Join(raws, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}
