package state

import (
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestWorker(prefs map[string]string) (*GameState, *EffectWorker) {
	gs := NewGameState()
	w := NewEffectWorker(gs, preferences.New(prefs), nil).WithClock(func() time.Time { return fixedTime })
	return gs, w
}

func historyTexts(gs *GameState) []string {
	out := make([]string, len(gs.History))
	for i, h := range gs.History {
		out[i] = h.Text
	}
	return out
}

func TestEffectWorker_ApplyStats(t *testing.T) {
	tests := []struct {
		name          string
		initial       map[string]int
		delta         map[string]int
		expected      map[string]int
		expectedLines []string
	}{
		{
			name:          "creates missing stat at zero",
			initial:       nil,
			delta:         map[string]int{"insight": 2},
			expected:      map[string]int{"insight": 2},
			expectedLines: []string{"Insight increased by 2."},
		},
		{
			name:          "negative delta",
			initial:       map[string]int{"health": 5},
			delta:         map[string]int{"health": -3},
			expected:      map[string]int{"health": 2},
			expectedLines: []string{"Health decreased by 3."},
		},
		{
			name:          "each key reported independently in name order",
			initial:       map[string]int{"charm": 1, "daring": 1},
			delta:         map[string]int{"daring": -1, "charm": 1},
			expected:      map[string]int{"charm": 2, "daring": 0},
			expectedLines: []string{"Charm increased by 1.", "Daring decreased by 1."},
		},
		{
			name:          "zero delta emits nothing",
			initial:       map[string]int{"lore": 4},
			delta:         map[string]int{"lore": 0},
			expected:      map[string]int{"lore": 4},
			expectedLines: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, w := newTestWorker(nil)
			for k, v := range tt.initial {
				gs.Stats[k] = v
			}
			w.Apply(&conditionals.Effects{Stats: tt.delta})

			for k, v := range tt.expected {
				if gs.GetStat(k) != v {
					t.Errorf("Expected %s=%d, got %d", k, v, gs.GetStat(k))
				}
			}
			lines := historyTexts(gs)
			if len(lines) != len(tt.expectedLines) {
				t.Fatalf("Expected history %v, got %v", tt.expectedLines, lines)
			}
			for i := range lines {
				if lines[i] != tt.expectedLines[i] {
					t.Errorf("Expected line %d %q, got %q", i, tt.expectedLines[i], lines[i])
				}
			}
		})
	}
}

func TestEffectWorker_Inventory(t *testing.T) {
	gs, w := newTestWorker(nil)
	gs.Inventory = []string{"Torch"}

	w.Apply(&conditionals.Effects{Inventory: conditionals.InventoryChange{Add: []string{"Torch"}}})
	if len(gs.Inventory) != 1 || len(gs.History) != 0 {
		t.Fatalf("Expected duplicate add to be a no-op, got inventory %v history %v", gs.Inventory, historyTexts(gs))
	}

	w.Apply(&conditionals.Effects{Inventory: conditionals.InventoryChange{
		Add:    []string{"Rope", "Rope"},
		Remove: []string{"Torch", "Key"},
	}})
	if len(gs.Inventory) != 1 || gs.Inventory[0] != "Rope" {
		t.Errorf("Expected inventory [Rope], got %v", gs.Inventory)
	}
	lines := historyTexts(gs)
	if len(lines) != 2 || lines[0] != "You gained Rope." || lines[1] != "You parted with Torch." {
		t.Errorf("Unexpected history: %v", lines)
	}
}

func TestEffectWorker_LogLineAndTimestamp(t *testing.T) {
	gs, w := newTestWorker(nil)
	w.Apply(&conditionals.Effects{Log: "The bell tolls."})
	if len(gs.History) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(gs.History))
	}
	h := gs.History[0]
	if h.Type != HistoryEvent || h.Text != "The bell tolls." || !h.Timestamp.Equal(fixedTime) {
		t.Errorf("Unexpected entry: %+v", h)
	}
}

func TestEffectWorker_IdentityRefreshed(t *testing.T) {
	gs, w := newTestWorker(map[string]string{"origin": "Coast"})
	w.Apply(&conditionals.Effects{Stats: map[string]int{"stealth": 4, "lore": 1}})

	if gs.Identity.PrimaryStat != "stealth" || gs.Identity.PrimaryStatValue != 4 {
		t.Errorf("Identity not refreshed: %+v", gs.Identity)
	}
	if gs.Identity.Epithet != "the Corsair" {
		t.Errorf("Expected epithet 'the Corsair', got %q", gs.Identity.Epithet)
	}
	for _, line := range historyTexts(gs) {
		if strings.HasPrefix(line, "You are now known as") {
			t.Errorf("First identity computation should not announce an epithet: %q", line)
		}
	}

	w.Apply(&conditionals.Effects{Stats: map[string]int{"lore": 5}})
	if gs.Identity.PrimaryStat != "lore" || gs.Identity.PrimaryStatValue != 6 {
		t.Errorf("Expected lore to become primary, got %+v", gs.Identity)
	}
}

func TestEffectWorker_EpithetAnnouncedOnce(t *testing.T) {
	gs, w := newTestWorker(nil)
	w.UpdateIdentity()
	if gs.Identity.Epithet != "the Adventurer" {
		t.Fatalf("Expected default epithet, got %q", gs.Identity.Epithet)
	}

	w.SetPreferences(preferences.New(map[string]string{"temperament": "Bold"}))
	w.Apply(&conditionals.Effects{
		Stats:     map[string]int{"daring": 1, "health": 1},
		Inventory: conditionals.InventoryChange{Add: []string{"Horn", "Shield"}},
	})

	count := 0
	for _, line := range historyTexts(gs) {
		if line == "You are now known as the Bold." {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one epithet announcement, got %d in %v", count, historyTexts(gs))
	}
	last := gs.History[len(gs.History)-1]
	if last.Text != "You are now known as the Bold." {
		t.Errorf("Expected announcement to come last, got %q", last.Text)
	}

	w.Apply(&conditionals.Effects{Stats: map[string]int{"daring": 1}})
	for _, line := range historyTexts(gs)[len(gs.History)-1:] {
		if strings.HasPrefix(line, "You are now known as") {
			t.Error("Unchanged epithet must not be announced again")
		}
	}
}

func TestUpdateIdentity_ReportsChange(t *testing.T) {
	_, w := newTestWorker(map[string]string{"origin": "Noble"})
	if !w.UpdateIdentity() {
		t.Error("Expected first update to report a change")
	}
	if w.UpdateIdentity() {
		t.Error("Expected repeated update to report no change")
	}
}

func TestEffectWorker_ApplyNode(t *testing.T) {
	node := &scenario.Node{
		Text:    "A shrine.",
		Effects: &conditionals.Effects{Stats: map[string]int{"resolve": 1}},
	}

	gs, w := newTestWorker(nil)
	if !w.ApplyNode("shrine", node) {
		t.Fatal("Expected first entry to apply effects")
	}
	if w.ApplyNode("shrine", node) {
		t.Error("Expected second entry to be a no-op")
	}
	if gs.GetStat("resolve") != 1 {
		t.Errorf("Expected resolve 1, got %d", gs.GetStat("resolve"))
	}
	if !gs.AppliedNodeEffects["shrine"] {
		t.Error("Expected shrine to be marked applied")
	}

	node.RepeatableEffects = true
	for range 3 {
		if !w.ApplyNode("well", node) {
			t.Error("Expected repeatable node to apply every time")
		}
	}
	if gs.GetStat("resolve") != 4 {
		t.Errorf("Expected resolve 4, got %d", gs.GetStat("resolve"))
	}
	if gs.AppliedNodeEffects["well"] {
		t.Error("Repeatable nodes should not be marked applied")
	}
}

func TestEffectWorker_QuestScenario(t *testing.T) {
	gs, w := newTestWorker(nil)
	w.Apply(&conditionals.Effects{Quests: conditionals.QuestChange{
		Add: []conditionals.Descriptor{{ID: "q1", Title: "Find the Lantern"}},
	}})
	w.Apply(&conditionals.Effects{Quests: conditionals.QuestChange{
		Complete: []conditionals.Descriptor{{ID: "q1"}},
	}})

	if len(gs.Quests.Active) != 0 {
		t.Errorf("Expected no active quests, got %+v", gs.Quests.Active)
	}
	if len(gs.Quests.Completed) != 1 || gs.Quests.Completed[0].ID != "q1" {
		t.Fatalf("Expected q1 completed once, got %+v", gs.Quests.Completed)
	}
	if gs.Quests.Completed[0].Title != "Find the Lantern" {
		t.Errorf("Expected title kept, got %q", gs.Quests.Completed[0].Title)
	}

	var questEntries []HistoryEntry
	for _, h := range gs.History {
		if h.Type == HistoryQuest {
			questEntries = append(questEntries, h)
		}
	}
	if len(questEntries) != 2 || questEntries[0].QuestStatus != QuestActive || questEntries[1].QuestStatus != QuestCompleted {
		t.Errorf("Unexpected quest history: %+v", questEntries)
	}
}
