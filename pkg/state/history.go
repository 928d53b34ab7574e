package state

import "time"

// HistoryType discriminates history entry variants.
type HistoryType string

const (
	HistoryEvent  HistoryType = "event"
	HistoryNode   HistoryType = "node"
	HistoryChoice HistoryType = "choice"
	HistoryQuest  HistoryType = "quest"
	HistoryCodex  HistoryType = "codex"
)

// Valid reports whether t is a known history type.
func (t HistoryType) Valid() bool {
	switch t {
	case HistoryEvent, HistoryNode, HistoryChoice, HistoryQuest, HistoryCodex:
		return true
	}
	return false
}

// HistoryEntry is one immutable record in the chronological log.
// Only the fields belonging to Type are populated.
type HistoryEntry struct {
	Type      HistoryType `json:"type"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`

	// node
	NodeID    string `json:"nodeId,omitempty"`
	NodeTitle string `json:"nodeTitle,omitempty"`

	// choice
	ChoiceText string `json:"choiceText,omitempty"`
	NextNode   string `json:"nextNode,omitempty"`

	// quest
	QuestID     string      `json:"questId,omitempty"`
	QuestStatus QuestStatus `json:"questStatus,omitempty"`

	// codex
	CodexID string `json:"codexId,omitempty"`
}

// NewEventEntry records a free-text event.
func NewEventEntry(text string) HistoryEntry {
	return HistoryEntry{Type: HistoryEvent, Text: text}
}

// NewNodeEntry records entering a node.
func NewNodeEntry(nodeID, title, text string) HistoryEntry {
	return HistoryEntry{Type: HistoryNode, Text: text, NodeID: nodeID, NodeTitle: title}
}

// NewChoiceEntry records a selected choice and its destination ("" when the story ends).
func NewChoiceEntry(choiceText, next string) HistoryEntry {
	return HistoryEntry{
		Type:       HistoryChoice,
		Text:       "You chose: " + choiceText,
		ChoiceText: choiceText,
		NextNode:   next,
	}
}

// NewQuestEntry records a quest ledger change.
func NewQuestEntry(questID string, status QuestStatus, text string) HistoryEntry {
	return HistoryEntry{Type: HistoryQuest, Text: text, QuestID: questID, QuestStatus: status}
}

// NewCodexEntry records a codex ledger change.
func NewCodexEntry(codexID, text string) HistoryEntry {
	return HistoryEntry{Type: HistoryCodex, Text: text, CodexID: codexID}
}

// AppendHistory appends an entry, stamping it with the current time if it has none.
func (gs *GameState) AppendHistory(entry HistoryEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	gs.History = append(gs.History, entry)
}

// LastNodeEntry returns the most recent node-type entry.
func (gs *GameState) LastNodeEntry() (HistoryEntry, bool) {
	for i := len(gs.History) - 1; i >= 0; i-- {
		if gs.History[i].Type == HistoryNode {
			return gs.History[i], true
		}
	}
	return HistoryEntry{}, false
}

// RecentHistory returns a copy of the last n entries, oldest first.
// n <= 0 returns the whole history.
func (gs *GameState) RecentHistory(n int) []HistoryEntry {
	start := 0
	if n > 0 && len(gs.History) > n {
		start = len(gs.History) - n
	}
	out := make([]HistoryEntry, len(gs.History)-start)
	copy(out, gs.History[start:])
	return out
}
