package state

import (
	"slices"
	"testing"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
)

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name     string
		d        conditionals.Descriptor
		expected string
	}{
		{name: "explicit id wins", d: conditionals.Descriptor{ID: " q1 ", Title: "Find the Lantern"}, expected: "q1"},
		{name: "title canonicalised", d: conditionals.Descriptor{Title: "Find the Lantern"}, expected: "find_the_lantern"},
		{name: "punctuation separators collapse", d: conditionals.Descriptor{Title: "The Old-Road.  Map"}, expected: "the_old_road_map"},
		{name: "nothing to go on", d: conditionals.Descriptor{Summary: "orphan"}, expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalID(tt.d); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAddQuest(t *testing.T) {
	gs := NewGameState()

	entry := gs.AddQuest(conditionals.Descriptor{Title: "Find the Lantern", Summary: "It was lost in the mine."})
	if entry == nil || entry.Type != HistoryQuest || entry.QuestStatus != QuestActive {
		t.Fatalf("Expected quest started entry, got %+v", entry)
	}
	if entry.Text != "Quest started: Find the Lantern - It was lost in the mine." {
		t.Errorf("Unexpected text: %q", entry.Text)
	}

	if gs.AddQuest(conditionals.Descriptor{Title: "Find the Lantern"}) != nil {
		t.Error("Re-adding without a summary should be a no-op")
	}
	if gs.AddQuest(conditionals.Descriptor{Title: "Find the Lantern", Summary: "It was lost in the mine."}) != nil {
		t.Error("Re-adding with the same summary should be a no-op")
	}

	entry = gs.AddQuest(conditionals.Descriptor{ID: "find_the_lantern", Summary: "Try the chapel."})
	if entry == nil || entry.Text != "Quest updated: Find the Lantern - Try the chapel." {
		t.Errorf("Expected quest updated entry, got %+v", entry)
	}
	if len(gs.Quests.Active) != 1 || gs.Quests.Active[0].Summary != "Try the chapel." {
		t.Errorf("Unexpected active quests: %+v", gs.Quests.Active)
	}

	if gs.AddQuest(conditionals.Descriptor{}) != nil {
		t.Error("Empty descriptor should be ignored")
	}
}

func TestAddQuest_CompletedNeverReopens(t *testing.T) {
	gs := NewGameState()
	gs.AddQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"})
	gs.CompleteQuest(conditionals.Descriptor{ID: "q1"})

	if gs.AddQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern", Summary: "again"}) != nil {
		t.Error("Completed quest must not reopen")
	}
	if len(gs.Quests.Active) != 0 || len(gs.Quests.Completed) != 1 {
		t.Errorf("Unexpected quest log: %+v", gs.Quests)
	}
}

func TestCompleteQuest(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(gs *GameState)
		complete     conditionals.Descriptor
		expectEntry  string
		expectTitle  string
		expectSumary string
	}{
		{
			name: "active moves to completed",
			setup: func(gs *GameState) {
				gs.AddQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"})
			},
			complete:    conditionals.Descriptor{ID: "q1", Summary: "Found in the chapel."},
			expectEntry: "Quest completed: Find the Lantern - Found in the chapel.",
			expectTitle: "Find the Lantern", expectSumary: "Found in the chapel.",
		},
		{
			name: "bare title keeps authored title",
			setup: func(gs *GameState) {
				gs.AddQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"})
			},
			complete:    conditionals.Descriptor{Title: "q1"},
			expectEntry: "Quest completed: Find the Lantern",
			expectTitle: "Find the Lantern",
		},
		{
			name:        "unknown quest inserted directly",
			setup:       func(gs *GameState) {},
			complete:    conditionals.Descriptor{Title: "Slay the Wyrm"},
			expectEntry: "Quest completed: Slay the Wyrm",
			expectTitle: "Slay the Wyrm",
		},
		{
			name: "already completed without change is a no-op",
			setup: func(gs *GameState) {
				gs.CompleteQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"})
			},
			complete:    conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"},
			expectEntry: "",
			expectTitle: "Find the Lantern",
		},
		{
			name: "already completed with new summary is revised",
			setup: func(gs *GameState) {
				gs.CompleteQuest(conditionals.Descriptor{ID: "q1", Title: "Find the Lantern"})
			},
			complete:    conditionals.Descriptor{ID: "q1", Summary: "It still burns."},
			expectEntry: "Quest revised: Find the Lantern - It still burns.",
			expectTitle: "Find the Lantern", expectSumary: "It still burns.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState()
			tt.setup(gs)
			entry := gs.CompleteQuest(tt.complete)

			switch {
			case tt.expectEntry == "" && entry != nil:
				t.Errorf("Expected no entry, got %q", entry.Text)
			case tt.expectEntry != "" && entry == nil:
				t.Errorf("Expected entry %q, got none", tt.expectEntry)
			case entry != nil && entry.Text != tt.expectEntry:
				t.Errorf("Expected entry %q, got %q", tt.expectEntry, entry.Text)
			}

			if len(gs.Quests.Active) != 0 {
				t.Errorf("Expected no active quests, got %+v", gs.Quests.Active)
			}
			if len(gs.Quests.Completed) != 1 {
				t.Fatalf("Expected exactly one completed quest, got %+v", gs.Quests.Completed)
			}
			q := gs.Quests.Completed[0]
			if q.Status != QuestCompleted || q.Title != tt.expectTitle || q.Summary != tt.expectSumary {
				t.Errorf("Unexpected completed quest: %+v", q)
			}
		})
	}
}

func TestAddCodexEntry(t *testing.T) {
	gs := NewGameState()

	entry := gs.AddCodexEntry(conditionals.Descriptor{Title: "Wardens", Summary: "Keepers of the road."})
	if entry == nil || entry.Type != HistoryCodex || entry.CodexID != "wardens" || entry.Text != "Codex updated: Wardens" {
		t.Fatalf("Unexpected entry: %+v", entry)
	}
	gs.AddCodexEntry(conditionals.Descriptor{Title: "Ashen Gate"})
	gs.AddCodexEntry(conditionals.Descriptor{Title: "lanterns"})

	titles := func() []string {
		out := make([]string, len(gs.Codex))
		for i, c := range gs.Codex {
			out[i] = c.Title
		}
		return out
	}
	if !slices.Equal(titles(), []string{"Ashen Gate", "Wardens", "lanterns"}) {
		t.Errorf("Expected case-sensitive title order, got %v", titles())
	}

	if gs.AddCodexEntry(conditionals.Descriptor{ID: "wardens", Summary: "Keepers of the road."}) != nil {
		t.Error("Unchanged codex entry should not emit history")
	}
	entry = gs.AddCodexEntry(conditionals.Descriptor{ID: "wardens", Title: "Anchor Wardens"})
	if entry == nil || entry.Text != "Codex revised: Anchor Wardens" {
		t.Errorf("Expected revised entry, got %+v", entry)
	}
	if len(gs.Codex) != 3 {
		t.Errorf("Re-adding an id must not grow the codex, got %d", len(gs.Codex))
	}
	if !slices.Equal(titles(), []string{"Anchor Wardens", "Ashen Gate", "lanterns"}) {
		t.Errorf("Expected codex re-sorted after revision, got %v", titles())
	}
	if gs.Codex[0].Summary != "Keepers of the road." {
		t.Errorf("Expected summary preserved on merge, got %q", gs.Codex[0].Summary)
	}
}

func TestHistory_RecentAndLastNode(t *testing.T) {
	gs := NewGameState()
	gs.AppendHistory(NewNodeEntry("start", "Dusk", "A road."))
	gs.AppendHistory(NewChoiceEntry("Walk on", "gate"))
	gs.AppendHistory(NewEventEntry("Wind."))

	last, ok := gs.LastNodeEntry()
	if !ok || last.NodeID != "start" {
		t.Errorf("Expected last node 'start', got %+v", last)
	}
	if gs.History[0].Timestamp.IsZero() {
		t.Error("Expected append to stamp a timestamp")
	}

	recent := gs.RecentHistory(2)
	if len(recent) != 2 || recent[0].Type != HistoryChoice || recent[1].Text != "Wind." {
		t.Errorf("Unexpected recent history: %+v", recent)
	}
	recent[0].Text = "mutated"
	if gs.History[1].Text == "mutated" {
		t.Error("RecentHistory must return a copy")
	}
	if len(gs.RecentHistory(0)) != 3 || len(gs.RecentHistory(10)) != 3 {
		t.Error("Expected full history for n <= 0 or n > len")
	}
	if gs.History[1].NextNode != "gate" || gs.History[1].ChoiceText != "Walk on" {
		t.Errorf("Unexpected choice entry: %+v", gs.History[1])
	}
}
