package state

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
	"github.com/jwebster45206/storyweaver/pkg/persona"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
)

// EffectWorker applies effect payloads to a game state, records history and
// keeps the cached identity current.
type EffectWorker struct {
	gs     *GameState
	prefs  preferences.Profile
	logger *slog.Logger // Optional
	now    func() time.Time
}

// NewEffectWorker creates a worker for gs. logger may be nil.
func NewEffectWorker(gs *GameState, prefs preferences.Profile, logger *slog.Logger) *EffectWorker {
	return &EffectWorker{
		gs:     gs,
		prefs:  prefs,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets the time source used to stamp history entries.
// Returns the EffectWorker for method chaining
func (w *EffectWorker) WithClock(now func() time.Time) *EffectWorker {
	if now != nil {
		w.now = now
	}
	return w
}

// SetPreferences replaces the preferences used for identity derivation.
func (w *EffectWorker) SetPreferences(prefs preferences.Profile) {
	w.prefs = prefs
}

// State returns the game state the worker mutates.
func (w *EffectWorker) State() *GameState {
	return w.gs
}

// Record stamps and appends a history entry.
func (w *EffectWorker) Record(entry HistoryEntry) {
	entry.Timestamp = w.now()
	w.gs.AppendHistory(entry)
}

// Apply applies a payload and refreshes the identity. If the epithet changed,
// one "You are now known as" event is appended.
func (w *EffectWorker) Apply(effects *conditionals.Effects) {
	w.ApplyWithoutIdentity(effects)
	w.refreshIdentity()
}

// ApplyWithoutIdentity applies a payload but leaves the identity stale. Callers
// batching several payloads must finish with UpdateIdentity.
func (w *EffectWorker) ApplyWithoutIdentity(effects *conditionals.Effects) {
	if effects.IsEmpty() {
		return
	}
	gs := w.gs
	if gs.Stats == nil {
		gs.Stats = make(map[string]int)
	}

	for _, stat := range slices.Sorted(maps.Keys(effects.Stats)) {
		delta := effects.Stats[stat]
		gs.Stats[stat] += delta
		if delta == 0 {
			continue
		}
		w.Record(NewEventEntry(statText(stat, delta)))
		if w.logger != nil {
			w.logger.Debug("Stat changed", "game_id", gs.ID.String(), "stat", stat, "delta", delta, "value", gs.Stats[stat])
		}
	}

	for _, item := range effects.Inventory.Add {
		if gs.AddItem(item) {
			w.Record(NewEventEntry(fmt.Sprintf("You gained %s.", item)))
		}
	}
	for _, item := range effects.Inventory.Remove {
		if gs.RemoveItem(item) {
			w.Record(NewEventEntry(fmt.Sprintf("You parted with %s.", item)))
		}
	}

	for _, d := range effects.Quests.Add {
		w.recordIf(gs.AddQuest(d))
	}
	for _, d := range effects.Quests.Complete {
		w.recordIf(gs.CompleteQuest(d))
	}
	for _, d := range effects.Codex {
		w.recordIf(gs.AddCodexEntry(d))
	}

	if effects.Log != "" {
		w.Record(NewEventEntry(effects.Log))
	}
}

func (w *EffectWorker) recordIf(entry *HistoryEntry) {
	if entry != nil {
		w.Record(*entry)
	}
}

// ApplyNode applies a node's entry effects. Non-repeatable nodes fire once per
// playthrough. It reports whether effects were applied.
func (w *EffectWorker) ApplyNode(nodeID string, node *scenario.Node) bool {
	if node == nil {
		return false
	}
	if w.gs.AppliedNodeEffects == nil {
		w.gs.AppliedNodeEffects = make(map[string]bool)
	}
	if !node.RepeatableEffects && w.gs.AppliedNodeEffects[nodeID] {
		return false
	}
	w.Apply(node.Effects)
	if !node.RepeatableEffects {
		w.gs.AppliedNodeEffects[nodeID] = true
	}
	return true
}

// UpdateIdentity recomputes the identity from stats and preferences and
// reports whether the epithet changed.
func (w *EffectWorker) UpdateIdentity() bool {
	prev := w.gs.Identity.Epithet
	w.gs.Identity = persona.Derive(w.gs.Stats, w.prefs)
	return w.gs.Identity.Epithet != prev
}

func (w *EffectWorker) refreshIdentity() {
	prev := w.gs.Identity.Epithet
	if !w.UpdateIdentity() || prev == "" {
		return
	}
	w.Record(NewEventEntry(fmt.Sprintf("You are now known as %s.", w.gs.Identity.Epithet)))
	if w.logger != nil {
		w.logger.Info("Epithet changed", "game_id", w.gs.ID.String(), "from", prev, "to", w.gs.Identity.Epithet)
	}
}

func statText(stat string, delta int) string {
	label := persona.StatLabel(stat)
	if delta > 0 {
		return fmt.Sprintf("%s increased by %d.", label, delta)
	}
	return fmt.Sprintf("%s decreased by %d.", label, -delta)
}
