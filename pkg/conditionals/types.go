package conditionals

import (
	"encoding/json"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Descriptor names a quest or codex entry. It can be authored either as a
// bare title string or as an object with explicit fields.
type Descriptor struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// UnmarshalJSON implements custom JSON unmarshaling to support both string and object formats
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*d = Descriptor{Title: str}
		return nil
	}

	type Alias Descriptor
	aux := &struct{ *Alias }{Alias: (*Alias)(d)}
	return json.Unmarshal(data, aux)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML catalogs.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*d = Descriptor{Title: value.Value}
		return nil
	}
	type Alias Descriptor
	var aux Alias
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*d = Descriptor(aux)
	return nil
}

// InventoryChange lists items to add to or remove from the inventory.
type InventoryChange struct {
	Add    []string `json:"add,omitempty" yaml:"add,omitempty"`
	Remove []string `json:"remove,omitempty" yaml:"remove,omitempty"`
}

// QuestChange lists quests to start and quests to complete.
type QuestChange struct {
	Add      []Descriptor `json:"add,omitempty" yaml:"add,omitempty"`
	Complete []Descriptor `json:"complete,omitempty" yaml:"complete,omitempty"`
}

// Effects is the fixed effect vocabulary applied on node entry or choice selection.
type Effects struct {
	Stats     map[string]int  `json:"stats,omitempty" yaml:"stats,omitempty"`        // Signed deltas
	Inventory InventoryChange `json:"inventory,omitzero" yaml:"inventory,omitempty"` // Set-insert / remove
	Quests    QuestChange     `json:"quests,omitzero" yaml:"quests,omitempty"`       // Quest ledger changes
	Codex     []Descriptor    `json:"codex,omitempty" yaml:"codex,omitempty"`        // Lore entries to add or revise
	Log       string          `json:"log,omitempty" yaml:"log,omitempty"`            // Free-text history line
}

// IsEmpty reports whether applying the effects would do nothing.
func (e *Effects) IsEmpty() bool {
	return e == nil || (len(e.Stats) == 0 &&
		len(e.Inventory.Add) == 0 &&
		len(e.Inventory.Remove) == 0 &&
		len(e.Quests.Add) == 0 &&
		len(e.Quests.Complete) == 0 &&
		len(e.Codex) == 0 &&
		e.Log == "")
}

// Clone returns a deep copy.
func (e *Effects) Clone() *Effects {
	if e == nil {
		return nil
	}
	return &Effects{
		Stats: maps.Clone(e.Stats),
		Inventory: InventoryChange{
			Add:    slices.Clone(e.Inventory.Add),
			Remove: slices.Clone(e.Inventory.Remove),
		},
		Quests: QuestChange{
			Add:      slices.Clone(e.Quests.Add),
			Complete: slices.Clone(e.Quests.Complete),
		},
		Codex: slices.Clone(e.Codex),
		Log:   e.Log,
	}
}

// Requirements are minimum thresholds that gate a choice.
// They share the stat/inventory shape of Effects but are read as thresholds.
type Requirements struct {
	Stats     map[string]int `json:"stats,omitempty" yaml:"stats,omitempty"`         // Current value must be >= threshold
	Inventory []string       `json:"inventory,omitempty" yaml:"inventory,omitempty"` // Every item must be held
}

// Clone returns a deep copy.
func (r *Requirements) Clone() *Requirements {
	if r == nil {
		return nil
	}
	return &Requirements{
		Stats:     maps.Clone(r.Stats),
		Inventory: slices.Clone(r.Inventory),
	}
}

// GameStateView provides the minimal interface needed to evaluate requirements
// This avoids import cycles with the state package
type GameStateView interface {
	GetStat(name string) int
	HasItem(item string) bool
}
