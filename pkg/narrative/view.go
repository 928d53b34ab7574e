package narrative

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/persona"
	"github.com/jwebster45206/storyweaver/pkg/state"
)

// StatLine is one stat in display order.
type StatLine struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// View is the read-only snapshot handed to a renderer after each transition.
type View struct {
	Stats           []StatLine           `json:"stats"`
	Inventory       []string             `json:"inventory"`
	Identity        persona.Identity     `json:"identity"`
	ActiveQuests    []state.Quest        `json:"activeQuests"`
	CompletedQuests []state.Quest        `json:"completedQuests"`
	Codex           []state.CodexEntry   `json:"codex"`
	History         []state.HistoryEntry `json:"history"`
}

// BuildView snapshots gs. historyLimit bounds the recent history; <= 0 means all.
func BuildView(gs *state.GameState, historyLimit int) View {
	v := View{
		Stats:           make([]StatLine, 0, len(gs.Stats)),
		Inventory:       slices.Clone(gs.Inventory),
		Identity:        gs.Identity,
		ActiveQuests:    slices.Clone(gs.Quests.Active),
		CompletedQuests: slices.Clone(gs.Quests.Completed),
		Codex:           slices.Clone(gs.Codex),
		History:         gs.RecentHistory(historyLimit),
	}
	for _, name := range slices.Sorted(maps.Keys(gs.Stats)) {
		v.Stats = append(v.Stats, StatLine{Name: name, Label: persona.StatLabel(name), Value: gs.Stats[name]})
	}
	return v
}

// StatsText renders stats as "Label: value" pairs joined by ", ".
func (v View) StatsText() string {
	parts := make([]string, len(v.Stats))
	for i, s := range v.Stats {
		parts[i] = fmt.Sprintf("%s: %d", s.Label, s.Value)
	}
	return strings.Join(parts, ", ")
}

// InventoryText renders the inventory joined by ", ".
func (v View) InventoryText() string {
	return strings.Join(v.Inventory, ", ")
}
