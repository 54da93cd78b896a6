package chain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

func parseFixture(t *testing.T, raw ...string) []transcript.Line {
	t.Helper()
	lines, err := transcript.ParseLines(strings.NewReader(strings.Join(raw, "\n") + "\n"))
	require.NoError(t, err)
	return lines
}

func entry(uuid, parent string) string {
	if parent == "" {
		return fmt.Sprintf(`{"type":"user","uuid":%q,"parentUuid":null}`, uuid)
	}
	return fmt.Sprintf(`{"type":"assistant","uuid":%q,"parentUuid":%q}`, uuid, parent)
}

func chainUUIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.Entry.UUID
	}
	return ids
}

func TestBuildChronologicalOrder(t *testing.T) {
	lines := parseFixture(t,
		entry("u1", ""),
		entry("a1", "u1"),
		entry("a2", "a1"),
	)
	nodes := Build(lines)
	require.Equal(t, []string{"u1", "a1", "a2"}, chainUUIDs(nodes))
	require.Equal(t, 0, nodes[0].FileIndex)
	require.Equal(t, 2, nodes[2].FileIndex)
}

func TestBuildExcludesBranches(t *testing.T) {
	// a2 and b2 share the parent a1; the tip is b2's descendant, so the
	// a2 branch is off the chain but still in the file.
	lines := parseFixture(t,
		entry("u1", ""),
		entry("a1", "u1"),
		entry("a2", "a1"),
		entry("b2", "a1"),
		entry("b3", "b2"),
	)
	nodes := Build(lines)
	require.Equal(t, []string{"u1", "a1", "b2", "b3"}, chainUUIDs(nodes))
}

func TestBuildTipIsLastUUIDBearingLine(t *testing.T) {
	lines := parseFixture(t,
		entry("u1", ""),
		entry("a1", "u1"),
		`{"type":"summary","summary":"no uuid here"}`,
	)
	nodes := Build(lines)
	require.Equal(t, []string{"u1", "a1"}, chainUUIDs(nodes))
}

func TestBuildTerminatesOnCycle(t *testing.T) {
	lines := parseFixture(t,
		`{"type":"user","uuid":"x","parentUuid":"y"}`,
		`{"type":"user","uuid":"y","parentUuid":"x"}`,
	)
	nodes := Build(lines)
	require.Len(t, nodes, 2)
}

func TestBuildStopsAtMissingParent(t *testing.T) {
	lines := parseFixture(t,
		entry("a1", "missing"),
		entry("a2", "a1"),
	)
	nodes := Build(lines)
	require.Equal(t, []string{"a1", "a2"}, chainUUIDs(nodes))
}

func TestBuildEmptyWhenNoUUIDs(t *testing.T) {
	lines := parseFixture(t, `{"type":"summary","summary":"x"}`)
	require.Empty(t, Build(lines))

	require.Empty(t, Build(nil))
}
