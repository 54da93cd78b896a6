// Package chain reconstructs the logical conversation path of a session
// file by following parentUuid links backward from the most recent entry.
package chain

import "github.com/Zuo-Peng/ai-session-repair/internal/transcript"

// Node is an entry on the conversation chain together with its position
// in the original line array.
type Node struct {
	Entry     *transcript.Entry
	FileIndex int
}

// Build reconstructs the chain, oldest first. The tip is the last line
// that carries a uuid; the walk follows parentUuid backward with a
// visited set so circular input still terminates. Entries off the path
// (branches, sidechains) are excluded even though they stay in the file.
func Build(lines []transcript.Line) []Node {
	byUUID := make(map[string]Node, len(lines))
	tip := -1
	for i, l := range lines {
		if l.Entry == nil || l.Entry.UUID == "" {
			continue
		}
		byUUID[l.Entry.UUID] = Node{Entry: l.Entry, FileIndex: i}
		tip = i
	}
	if tip < 0 {
		return nil
	}

	visited := make(map[string]bool)
	var reversed []Node
	cur := lines[tip].Entry.UUID
	for cur != "" && !visited[cur] {
		visited[cur] = true
		node, ok := byUUID[cur]
		if !ok {
			break
		}
		reversed = append(reversed, node)
		cur = node.Entry.ParentUUID
	}

	nodes := make([]Node, len(reversed))
	for i, n := range reversed {
		nodes[len(reversed)-1-i] = n
	}
	return nodes
}
