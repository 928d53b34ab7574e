// Package persona derives the player's identity snapshot from stats and
// survey preferences. Everything here is a pure function of its inputs.
package persona

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultEpithet is used when neither origin nor temperament resolves.
const DefaultEpithet = "the Adventurer"

// Identity is the derived persona snapshot. It is never authored directly.
type Identity struct {
	Epithet          string `json:"epithet"`
	PrimaryStat      string `json:"primary_stat,omitempty"`
	PrimaryStatValue int    `json:"primary_stat_value,omitempty"`
	SecondaryStat    string `json:"secondary_stat,omitempty"`
	Origin           string `json:"origin,omitempty"`
	Temperament      string `json:"temperament,omitempty"`
	Motivation       string `json:"motivation,omitempty"`
	Summary          string `json:"summary,omitempty"`
}

// StatRank is a stat name paired with its value.
type StatRank struct {
	Name  string
	Value int
}

// RankStats orders stats by value descending, breaking ties by name so the
// ranking is stable for identical input.
func RankStats(stats map[string]int) []StatRank {
	ranked := make([]StatRank, 0, len(stats))
	for name, value := range stats {
		ranked = append(ranked, StatRank{Name: name, Value: value})
	}
	slices.SortFunc(ranked, func(a, b StatRank) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return ranked
}

// Derive computes the identity for the given stats and preferences.
func Derive(stats map[string]int, prefs preferences.Profile) Identity {
	id := Identity{
		Origin:      prefs.Get(preferences.KeyOrigin),
		Temperament: prefs.Get(preferences.KeyTemperament),
		Motivation:  prefs.Get(preferences.KeyMotivation),
	}

	ranked := RankStats(stats)
	if len(ranked) > 0 {
		id.PrimaryStat = ranked[0].Name
		id.PrimaryStatValue = ranked[0].Value
	}
	if len(ranked) > 1 {
		id.SecondaryStat = ranked[1].Name
	}

	originKey := ResolveOrigin(id.Origin)
	temperamentKey := ResolveTemperament(id.Temperament)
	motivationKey := ResolveMotivation(id.Motivation)

	id.Epithet = epithet(temperamentKey, originKey)

	var sentences []string
	if id.PrimaryStat != "" {
		sentences = append(sentences, fmt.Sprintf("Your greatest strength is %s (%d).", StatLabel(id.PrimaryStat), id.PrimaryStatValue))
	}
	if id.SecondaryStat != "" {
		sentences = append(sentences, fmt.Sprintf("You also lean on your %s.", StatLabel(id.SecondaryStat)))
	}
	if insight, ok := temperamentInsights[temperamentKey]; ok {
		sentences = append(sentences, insight)
	}
	if insight, ok := motivationInsights[motivationKey]; ok {
		sentences = append(sentences, insight)
	}
	if faction := prefs.Get(preferences.KeyFaction); faction != "" {
		sentences = append(sentences, allegiance(faction))
	}
	id.Summary = strings.Join(sentences, " ")

	return id
}

func epithet(temperamentKey, originKey string) string {
	var parts []string
	if t, ok := temperamentTitles[temperamentKey]; ok {
		parts = append(parts, t)
	}
	if o, ok := originTitles[originKey]; ok {
		parts = append(parts, o)
	}
	if len(parts) == 0 {
		return DefaultEpithet
	}
	return "the " + strings.Join(parts, " ")
}

func allegiance(faction string) string {
	if ResolveFaction(faction) == "none" {
		return "You answer to no banner but your own."
	}
	name := faction
	if !strings.HasPrefix(strings.ToLower(name), "the ") {
		name = "the " + name
	}
	return fmt.Sprintf("You stand with %s.", name)
}

// StatLabel turns a stat key into a display label, e.g. "insight" -> "Insight".
func StatLabel(stat string) string {
	label := strings.ReplaceAll(strings.TrimSpace(stat), "_", " ")
	return cases.Title(language.English).String(label)
}

// ResolveOrigin maps an origin answer to its canonical key, or "" if unknown.
func ResolveOrigin(answer string) string { return resolve(originAliases, answer) }

// ResolveTemperament maps a temperament answer to its canonical key, or "" if unknown.
func ResolveTemperament(answer string) string { return resolve(temperamentAliases, answer) }

// ResolveMotivation maps a motivation answer to its canonical key, or "" if unknown.
func ResolveMotivation(answer string) string { return resolve(motivationAliases, answer) }

// ResolveFaction maps a faction answer to its canonical key, or "" if unknown.
func ResolveFaction(answer string) string { return resolve(factionAliases, answer) }

func resolve(table map[string]string, answer string) string {
	return table[strings.ToLower(strings.TrimSpace(answer))]
}
