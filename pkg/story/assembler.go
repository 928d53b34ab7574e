// Package story selects a seed from the catalog and instantiates it for a
// player: state setup, preference bonuses and placeholder substitution.
package story

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
	"github.com/jwebster45206/storyweaver/pkg/persona"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
	"github.com/jwebster45206/storyweaver/pkg/state"
)

// ErrNoSeeds is returned when the catalog has nothing to select from.
var ErrNoSeeds = errors.New("story catalog has no seeds")

// Chooser is the single source of randomness for seed selection.
type Chooser interface {
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// NewRandomChooser returns a math/rand chooser. A zero seed uses the clock.
func NewRandomChooser(seed int64) Chooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// GenreMatch records which pool the genre filter selected from.
type GenreMatch string

const (
	GenreTagged   GenreMatch = "tagged"   // seeds tagged with the requested genre
	GenreUntagged GenreMatch = "untagged" // seeds with no genre tags
	GenreAny      GenreMatch = "any"      // the unfiltered list
	GenrePinned   GenreMatch = "pinned"   // a pinned variant, no filtering
)

// Pin identifies a specific seed variant so a resumed session gets the same story.
type Pin struct {
	Length  string `json:"length"`
	Variant int    `json:"variant"`
}

// Options control assembly.
type Options struct {
	ResetState bool // Build a new character from the seed; false resumes the given state
	Pin        *Pin // Reuse this variant if it still exists
}

// Selection describes how the seed was chosen.
type Selection struct {
	RequestedLength string            `json:"requestedLength"`
	Length          string            `json:"length"`
	Variant         int               `json:"variant"`
	Genre           string            `json:"genre,omitempty"`
	Candidates      int               `json:"candidates"`
	Fallback        scenario.Fallback `json:"fallback,omitempty"`
	GenreMatch      GenreMatch        `json:"genreMatch"`
}

// Pin returns the pin that reselects this seed.
func (s Selection) Pin() Pin {
	return Pin{Length: s.Length, Variant: s.Variant}
}

// Story is an instantiated seed ready for traversal.
type Story struct {
	Seed         *scenario.Seed
	State        *state.GameState
	Selection    Selection
	Placeholders Placeholders
}

// Assembler builds stories from a catalog.
type Assembler struct {
	catalog *scenario.Catalog
	chooser Chooser
	logger  *slog.Logger // Optional
	now     func() time.Time
}

// NewAssembler creates an assembler. logger may be nil.
func NewAssembler(catalog *scenario.Catalog, chooser Chooser, logger *slog.Logger) *Assembler {
	if chooser == nil {
		chooser = NewRandomChooser(0)
	}
	return &Assembler{catalog: catalog, chooser: chooser, logger: logger}
}

// WithClock sets the time source used to stamp history entries.
// Returns the Assembler for method chaining
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble selects a seed for prefs and instantiates it against gs. A nil gs
// is replaced with a fresh state. The catalog is never mutated.
func (a *Assembler) Assemble(prefs preferences.Profile, gs *state.GameState, opts Options) (*Story, error) {
	seed, sel, err := a.selectSeed(prefs, opts.Pin)
	if err != nil {
		return nil, err
	}
	seed = seed.Clone()

	if gs == nil {
		gs = state.NewGameState()
		opts.ResetState = true
	}
	worker := state.NewEffectWorker(gs, prefs, a.logger).WithClock(a.now)
	table := preferencePlaceholders(prefs)

	if opts.ResetState {
		inventory := make([]string, len(seed.Meta.Inventory))
		for i, item := range seed.Meta.Inventory {
			inventory[i] = table.Replace(item)
		}
		gs.Seed(seed.Meta.Stats, inventory)
	}
	for _, effects := range bonusEffects(prefs, opts.ResetState) {
		worker.ApplyWithoutIdentity(effects)
	}
	worker.UpdateIdentity()

	table = table.withIdentity(gs.Identity)
	seed.Rewrite(table.Replace)
	if line := personaLine(gs.Identity); line != "" {
		if seed.Meta.Subtitle == "" {
			seed.Meta.Subtitle = line
		} else {
			seed.Meta.Subtitle += "\n" + line
		}
	}

	if a.logger != nil {
		a.logger.Info("Story assembled",
			"game_id", gs.ID.String(),
			"title", seed.Meta.Title,
			"length", sel.Length,
			"variant", sel.Variant,
			"genre_match", sel.GenreMatch,
			"reset", opts.ResetState)
	}

	return &Story{Seed: seed, State: gs, Selection: sel, Placeholders: table}, nil
}

func (a *Assembler) selectSeed(prefs preferences.Profile, pin *Pin) (*scenario.Seed, Selection, error) {
	sel := Selection{
		RequestedLength: prefs.Get(preferences.KeyLength),
		Genre:           prefs.Get(preferences.KeyGenre),
	}

	if pin != nil {
		if seeds, ok := a.catalog.Get(pin.Length); ok && pin.Variant >= 0 && pin.Variant < len(seeds) {
			sel.Length = pin.Length
			sel.Variant = pin.Variant
			sel.Candidates = 1
			sel.GenreMatch = GenrePinned
			return &seeds[pin.Variant], sel, nil
		}
		if a.logger != nil {
			a.logger.Warn("Pinned story no longer in catalog, selecting again", "length", pin.Length, "variant", pin.Variant)
		}
	}

	key, seeds, fallback := a.catalog.Lookup(sel.RequestedLength)
	if fallback == scenario.FallbackEmpty || len(seeds) == 0 {
		return nil, sel, fmt.Errorf("length %q: %w", sel.RequestedLength, ErrNoSeeds)
	}
	sel.Length = key
	sel.Fallback = fallback
	if fallback != scenario.FallbackNone && a.logger != nil {
		a.logger.Warn("Requested story length not in catalog",
			"requested", sel.RequestedLength,
			"using", key,
			"fallback", fallback)
	}

	candidates, match := filterByGenre(seeds, sel.Genre)
	sel.GenreMatch = match
	sel.Candidates = len(candidates)
	sel.Variant = candidates[a.chooser.Intn(len(candidates))]
	return &seeds[sel.Variant], sel, nil
}

// filterByGenre returns indexes into seeds: those tagged with genre, else the
// untagged ones, else all of them.
func filterByGenre(seeds scenario.SeedList, genre string) ([]int, GenreMatch) {
	var tagged, untagged, all []int
	for i, s := range seeds {
		all = append(all, i)
		if len(s.Meta.GenreTags) == 0 {
			untagged = append(untagged, i)
			continue
		}
		if genre == "" {
			continue
		}
		for _, tag := range s.Meta.GenreTags {
			if strings.EqualFold(strings.TrimSpace(tag), genre) {
				tagged = append(tagged, i)
				break
			}
		}
	}
	switch {
	case len(tagged) > 0:
		return tagged, GenreTagged
	case len(untagged) > 0:
		return untagged, GenreUntagged
	default:
		return all, GenreAny
	}
}

// bonusEffects returns the preference packages in application order. When
// reset is false only items and codex entries are granted.
func bonusEffects(prefs preferences.Profile, reset bool) []*conditionals.Effects {
	var out []*conditionals.Effects

	if reset {
		for _, stats := range []map[string]int{
			playstyleBonuses[resolvePlaystyle(prefs.Get(preferences.KeyPlaystyle))],
			focusBonuses[resolveFocus(prefs.Get(preferences.KeyFocus))],
			motivationBonuses[persona.ResolveMotivation(prefs.Get(preferences.KeyMotivation))],
		} {
			if len(stats) > 0 {
				out = append(out, &conditionals.Effects{Stats: stats})
			}
		}
	}

	packages := []struct {
		table map[string]bonusPackage
		key   string
	}{
		{originPackages, persona.ResolveOrigin(prefs.Get(preferences.KeyOrigin))},
		{temperamentPackages, persona.ResolveTemperament(prefs.Get(preferences.KeyTemperament))},
		{factionPackages, persona.ResolveFaction(prefs.Get(preferences.KeyFaction))},
	}
	for _, p := range packages {
		pkg, ok := p.table[p.key]
		if !ok {
			continue
		}
		e := &conditionals.Effects{Inventory: conditionals.InventoryChange{Add: []string{pkg.Item}}}
		if pkg.Codex != nil {
			e.Codex = []conditionals.Descriptor{*pkg.Codex}
		}
		if reset {
			e.Stats = pkg.Stats
			e.Log = pkg.Log
		}
		out = append(out, e)
	}

	var extras []string
	for _, k := range []string{preferences.KeyCompanion, preferences.KeySignature} {
		if v := prefs.Get(k); v != "" {
			extras = append(extras, v)
		}
	}
	if len(extras) > 0 {
		out = append(out, &conditionals.Effects{Inventory: conditionals.InventoryChange{Add: extras}})
	}
	return out
}

func personaLine(id persona.Identity) string {
	if id.Epithet == "" || id.Summary == "" {
		return ""
	}
	return fmt.Sprintf("You are %s. %s", id.Epithet, id.Summary)
}
