package state

import (
	"encoding/json"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/pkg/persona"
)

// Decode parses a persisted game state field by field. Missing, malformed or
// wrongly shaped fields fall back to empty defaults; their names are returned
// in repaired. Decode never fails: unusable input yields a fresh state.
func Decode(data []byte) (gs *GameState, repaired []string) {
	gs = NewGameState()
	if len(data) == 0 {
		return gs, []string{"gamestate"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return gs, []string{"gamestate"}
	}

	repair := func(field string, ok bool) {
		if !ok {
			repaired = append(repaired, field)
		}
	}

	if raw, ok := fields["id"]; ok {
		var id uuid.UUID
		err := json.Unmarshal(raw, &id)
		if err == nil && id != uuid.Nil {
			gs.ID = id
		}
		repair("id", err == nil && id != uuid.Nil)
	}
	if raw, ok := fields["stats"]; ok {
		repair("stats", decodeEach(raw, func(k string, v json.RawMessage) bool {
			var n int
			if err := json.Unmarshal(v, &n); err != nil {
				return false
			}
			gs.Stats[k] = n
			return true
		}))
	}
	if raw, ok := fields["inventory"]; ok {
		repair("inventory", decodeList(raw, func(v json.RawMessage) bool {
			var item string
			if err := json.Unmarshal(v, &item); err != nil {
				return false
			}
			gs.Inventory = append(gs.Inventory, item)
			return true
		}))
	}
	if raw, ok := fields["quests"]; ok {
		var lists map[string]json.RawMessage
		if err := json.Unmarshal(raw, &lists); err != nil {
			repair("quests", false)
		} else {
			repair("quests.active", decodeQuests(lists["active"], QuestActive, &gs.Quests.Active))
			repair("quests.completed", decodeQuests(lists["completed"], QuestCompleted, &gs.Quests.Completed))
		}
	}
	if raw, ok := fields["codex"]; ok {
		repair("codex", decodeList(raw, func(v json.RawMessage) bool {
			var c CodexEntry
			if err := json.Unmarshal(v, &c); err != nil {
				return false
			}
			gs.Codex = append(gs.Codex, c)
			return true
		}))
	}
	if raw, ok := fields["history"]; ok {
		repair("history", decodeList(raw, func(v json.RawMessage) bool {
			var h HistoryEntry
			if err := json.Unmarshal(v, &h); err != nil {
				return false
			}
			gs.History = append(gs.History, h)
			return true
		}))
	}
	if raw, ok := fields["appliedNodeEffects"]; ok {
		repair("appliedNodeEffects", decodeEach(raw, func(k string, v json.RawMessage) bool {
			var applied bool
			if err := json.Unmarshal(v, &applied); err != nil {
				return false
			}
			if applied {
				gs.AppliedNodeEffects[k] = true
			}
			return true
		}))
	}
	if raw, ok := fields["identity"]; ok {
		var id persona.Identity
		err := json.Unmarshal(raw, &id)
		if err == nil {
			gs.Identity = id
		}
		repair("identity", err == nil)
	}

	if fixed := gs.Normalize(); len(fixed) > 0 {
		repaired = append(repaired, fixed...)
	}
	return gs, repaired
}

// decodeEach decodes a JSON object entry by entry. null counts as empty.
// It reports false if the value was not an object or any entry was rejected.
func decodeEach(raw json.RawMessage, fn func(string, json.RawMessage) bool) bool {
	if isNull(raw) {
		return true
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return false
	}
	ok := true
	for k, v := range m {
		if !fn(k, v) {
			ok = false
		}
	}
	return ok
}

// decodeList decodes a JSON array element by element. null counts as empty.
func decodeList(raw json.RawMessage, fn func(json.RawMessage) bool) bool {
	if isNull(raw) {
		return true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return false
	}
	ok := true
	for _, v := range items {
		if !fn(v) {
			ok = false
		}
	}
	return ok
}

func decodeQuests(raw json.RawMessage, status QuestStatus, dst *[]Quest) bool {
	return decodeList(raw, func(v json.RawMessage) bool {
		var q Quest
		if err := json.Unmarshal(v, &q); err != nil {
			return false
		}
		q.Status = status
		*dst = append(*dst, q)
		return true
	})
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Normalize repairs invariants on a state that may have been assembled from
// untrusted input: nil containers become empty, inventory is deduplicated,
// quest IDs are unique across both lists with completed taking precedence,
// the codex is unique by ID and sorted, and history entries carry a valid type.
// It returns the names of fields that needed repair.
func (gs *GameState) Normalize() []string {
	var fixed []string
	if gs.ID == uuid.Nil {
		gs.ID = uuid.New()
	}
	if gs.Stats == nil {
		gs.Stats = make(map[string]int)
	}
	if gs.AppliedNodeEffects == nil {
		gs.AppliedNodeEffects = make(map[string]bool)
	}

	before := len(gs.Inventory)
	gs.NormalizeItems()
	if len(gs.Inventory) != before {
		fixed = append(fixed, "inventory")
	}

	if gs.normalizeQuests() {
		fixed = append(fixed, "quests")
	}
	if gs.normalizeCodex() {
		fixed = append(fixed, "codex")
	}
	if gs.normalizeHistory() {
		fixed = append(fixed, "history")
	}
	return fixed
}

func (gs *GameState) normalizeQuests() bool {
	changed := false
	completed := make([]Quest, 0, len(gs.Quests.Completed))
	seen := make(map[string]bool)
	for _, q := range gs.Quests.Completed {
		if q.ID == "" || seen[q.ID] {
			changed = true
			continue
		}
		seen[q.ID] = true
		q.Status = QuestCompleted
		completed = append(completed, q)
	}
	active := make([]Quest, 0, len(gs.Quests.Active))
	for _, q := range gs.Quests.Active {
		if q.ID == "" || seen[q.ID] {
			changed = true
			continue
		}
		seen[q.ID] = true
		q.Status = QuestActive
		active = append(active, q)
	}
	gs.Quests = QuestLog{Active: active, Completed: completed}
	return changed
}

func (gs *GameState) normalizeCodex() bool {
	changed := false
	codex := make([]CodexEntry, 0, len(gs.Codex))
	seen := make(map[string]bool)
	for _, c := range gs.Codex {
		if c.ID == "" || seen[c.ID] {
			changed = true
			continue
		}
		seen[c.ID] = true
		if c.Title == "" {
			c.Title = c.ID
		}
		codex = append(codex, c)
	}
	gs.Codex = codex
	if !slices.IsSortedFunc(gs.Codex, compareCodex) {
		gs.sortCodex()
		changed = true
	}
	return changed
}

// normalizeHistory turns untyped entries that still carry text into events
// and drops the rest.
func (gs *GameState) normalizeHistory() bool {
	changed := false
	history := make([]HistoryEntry, 0, len(gs.History))
	for _, h := range gs.History {
		if !h.Type.Valid() {
			changed = true
			if h.Text == "" {
				continue
			}
			h = HistoryEntry{Type: HistoryEvent, Text: h.Text, Timestamp: h.Timestamp}
		}
		history = append(history, h)
	}
	gs.History = history
	return changed
}
