package repair

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/Zuo-Peng/ai-session-repair/internal/chain"
	"github.com/Zuo-Peng/ai-session-repair/internal/transcript"
)

// SessionMetadata is the provenance template for synthetic entries,
// extracted from the first user entry that carries a sessionId.
type SessionMetadata struct {
	SessionID string
	Version   string
	Cwd       string
	GitBranch string
	Slug      string
}

// ExtractMetadata finds the provenance template in a parsed file.
func ExtractMetadata(lines []transcript.Line) (SessionMetadata, bool) {
	for _, l := range lines {
		e := l.Entry
		if e == nil || e.Type != "user" || e.SessionID == "" {
			continue
		}
		return SessionMetadata{
			SessionID: e.SessionID,
			Version:   e.Version,
			Cwd:       e.Cwd,
			GitBranch: e.GitBranch,
			Slug:      e.Slug,
		}, true
	}
	return SessionMetadata{}, false
}

// syntheticEntry mirrors the field order Claude Code writes user entries
// in, so inserted lines look native.
type syntheticEntry struct {
	ParentUUID  string           `json:"parentUuid"`
	IsSidechain bool             `json:"isSidechain"`
	UserType    string           `json:"userType"`
	Cwd         string           `json:"cwd"`
	SessionID   string           `json:"sessionId"`
	Version     string           `json:"version"`
	GitBranch   string           `json:"gitBranch,omitempty"`
	Slug        string           `json:"slug,omitempty"`
	Type        string           `json:"type"`
	Message     syntheticMessage `json:"message"`
	UUID        string           `json:"uuid"`
	Timestamp   string           `json:"timestamp"`
}

type syntheticMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newSyntheticLine(anchor, successor chain.Node, meta SessionMetadata, marker string) (transcript.Line, string) {
	id := uuid.NewString()
	entry := syntheticEntry{
		ParentUUID:  anchor.Entry.UUID,
		UserType:    "external",
		Cwd:         meta.Cwd,
		SessionID:   meta.SessionID,
		Version:     meta.Version,
		GitBranch:   meta.GitBranch,
		Slug:        meta.Slug,
		Type:        "user",
		Message:     syntheticMessage{Role: "user", Content: marker},
		UUID:        id,
		Timestamp:   transcript.MidpointTimestamp(anchor.Entry.Timestamp, successor.Entry.Timestamp),
	}
	raw, _ := json.Marshal(entry)
	return transcript.Line{Entry: transcript.ParseLine(raw), Raw: string(raw)}, id
}

// Insert materializes checkpoints at the accepted break positions and
// reparents each successor onto its new checkpoint. All insertions and
// reparent targets are computed into side maps first, then the file is
// rebuilt in a single pass, so line indices never shift underneath the
// loop. Entries off the chain keep their parentUuid even when they share
// an anchor with a reparented successor.
func Insert(lines []transcript.Line, nodes []chain.Node, breaks []int, meta SessionMetadata, marker string) ([]transcript.Line, int, error) {
	insertAfter := make(map[int]transcript.Line, len(breaks))
	reparent := make(map[string]string, len(breaks))

	for _, i := range breaks {
		if i < 0 || i+1 >= len(nodes) {
			continue
		}
		anchor, successor := nodes[i], nodes[i+1]
		synthetic, id := newSyntheticLine(anchor, successor, meta, marker)
		insertAfter[anchor.FileIndex] = synthetic
		reparent[successor.Entry.UUID] = id
	}

	out := make([]transcript.Line, 0, len(lines)+len(insertAfter))
	inserted := 0
	for idx, l := range lines {
		if l.Entry != nil && l.Entry.UUID != "" {
			if newParent, ok := reparent[l.Entry.UUID]; ok {
				raw, err := sjson.Set(l.Raw, "parentUuid", newParent)
				if err != nil {
					return nil, 0, err
				}
				l = transcript.Line{Entry: transcript.ParseLine([]byte(raw)), Raw: raw}
			}
		}
		out = append(out, l)
		if synthetic, ok := insertAfter[idx]; ok {
			out = append(out, synthetic)
			inserted++
		}
	}
	return out, inserted, nil
}
