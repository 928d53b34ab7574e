package state

import (
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/pkg/persona"
)

// GameState is the persistent character state of one playthrough.
type GameState struct {
	ID                 uuid.UUID        `json:"id"`                 // Unique ID per session
	Stats              map[string]int   `json:"stats"`              // Absent stats read as 0
	Inventory          []string         `json:"inventory"`          // Ordered, no duplicates
	Quests             QuestLog         `json:"quests"`             // Active and completed quests
	Codex              []CodexEntry     `json:"codex"`              // Sorted by title
	History            []HistoryEntry   `json:"history"`            // Newest last, append-only
	AppliedNodeEffects map[string]bool  `json:"appliedNodeEffects"` // Node ids whose one-shot effects fired
	Identity           persona.Identity `json:"identity"`           // Cached, recomputed after every change
}

// NewGameState returns a state with every container empty.
func NewGameState() *GameState {
	gs := &GameState{ID: uuid.New()}
	gs.Reset()
	return gs
}

// Reset clears the state back to defaults, keeping the session ID.
func (gs *GameState) Reset() {
	gs.Stats = make(map[string]int)
	gs.Inventory = make([]string, 0)
	gs.Quests = QuestLog{Active: make([]Quest, 0), Completed: make([]Quest, 0)}
	gs.Codex = make([]CodexEntry, 0)
	gs.History = make([]HistoryEntry, 0)
	gs.AppliedNodeEffects = make(map[string]bool)
	gs.Identity = persona.Identity{}
}

// Seed resets the state and loads a story's starting stats and inventory.
func (gs *GameState) Seed(stats map[string]int, inventory []string) {
	gs.Reset()
	for k, v := range stats {
		gs.Stats[k] = v
	}
	for _, item := range inventory {
		gs.AddItem(item)
	}
}

// GetStat returns the stat value, or 0 when absent.
func (gs *GameState) GetStat(name string) int {
	if gs == nil {
		return 0
	}
	return gs.Stats[name]
}

// HasItem reports whether item is in the inventory.
func (gs *GameState) HasItem(item string) bool {
	if gs == nil {
		return false
	}
	return slices.Contains(gs.Inventory, item)
}

// AddItem set-inserts an item. It reports whether the inventory changed.
func (gs *GameState) AddItem(item string) bool {
	if item == "" || gs.HasItem(item) {
		return false
	}
	gs.Inventory = append(gs.Inventory, item)
	return true
}

// RemoveItem removes an item. It reports whether the inventory changed.
func (gs *GameState) RemoveItem(item string) bool {
	i := slices.Index(gs.Inventory, item)
	if i < 0 {
		return false
	}
	gs.Inventory = slices.Delete(gs.Inventory, i, i+1)
	return true
}

// NormalizeItems removes duplicate and empty inventory entries, keeping first occurrence.
func (gs *GameState) NormalizeItems() {
	seen := make(map[string]bool, len(gs.Inventory))
	out := make([]string, 0, len(gs.Inventory))
	for _, item := range gs.Inventory {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	gs.Inventory = out
}
