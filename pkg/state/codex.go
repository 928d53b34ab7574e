package state

import (
	"slices"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
)

// CodexEntry is a piece of collected lore, identified by ID.
type CodexEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// AddCodexEntry inserts or merges a codex entry and keeps the codex sorted by title.
// It returns the history entry to record, or nil when nothing changed.
func (gs *GameState) AddCodexEntry(d conditionals.Descriptor) *HistoryEntry {
	id := CanonicalID(d)
	if id == "" {
		return nil
	}
	title := strings.TrimSpace(d.Title)
	summary := strings.TrimSpace(d.Summary)

	if i := slices.IndexFunc(gs.Codex, func(c CodexEntry) bool { return c.ID == id }); i >= 0 {
		c := &gs.Codex[i]
		changed := false
		if title != "" && title != c.Title {
			c.Title = title
			changed = true
		}
		if summary != "" && summary != c.Summary {
			c.Summary = summary
			changed = true
		}
		if !changed {
			return nil
		}
		text := "Codex revised: " + c.Title
		gs.sortCodex()
		entry := NewCodexEntry(id, text)
		return &entry
	}

	c := CodexEntry{ID: id, Title: titleOrID(d, id), Summary: summary}
	gs.Codex = append(gs.Codex, c)
	gs.sortCodex()
	entry := NewCodexEntry(id, "Codex updated: "+c.Title)
	return &entry
}

func (gs *GameState) sortCodex() {
	slices.SortStableFunc(gs.Codex, compareCodex)
}

// compareCodex orders entries by case-sensitive title.
func compareCodex(a, b CodexEntry) int {
	return strings.Compare(a.Title, b.Title)
}
