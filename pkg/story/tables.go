package story

import (
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
)

// bonusPackage is a preference-driven starting bonus. Stats and Log are only
// used when a new character is created; items and codex apply on resume too.
type bonusPackage struct {
	Stats map[string]int
	Item  string
	Codex *conditionals.Descriptor
	Log   string
}

var playstyleAliases = map[string]string{
	"action":         "action",
	"fighting":       "action",
	"exploration":    "exploration",
	"explore":        "exploration",
	"exploring":      "exploration",
	"dialogue":       "dialogue",
	"talking":        "dialogue",
	"social":         "dialogue",
	"stealth":        "stealth",
	"sneaking":       "stealth",
	"puzzle":         "puzzle",
	"puzzles":        "puzzle",
	"puzzle-solving": "puzzle",
}

var focusAliases = map[string]string{
	"combat":        "combat",
	"fighting":      "combat",
	"magic":         "magic",
	"arcana":        "magic",
	"diplomacy":     "diplomacy",
	"negotiation":   "diplomacy",
	"survival":      "survival",
	"investigation": "investigation",
	"mystery":       "investigation",
}

var playstyleBonuses = map[string]map[string]int{
	"action":      {"daring": 1},
	"exploration": {"insight": 1},
	"dialogue":    {"charm": 1},
	"stealth":     {"stealth": 1},
	"puzzle":      {"lore": 1},
}

var focusBonuses = map[string]map[string]int{
	"combat":        {"health": 1},
	"magic":         {"lore": 1},
	"diplomacy":     {"charm": 1},
	"survival":      {"resolve": 1},
	"investigation": {"insight": 1},
}

var motivationBonuses = map[string]map[string]int{
	"glory":      {"daring": 1},
	"knowledge":  {"insight": 1},
	"wealth":     {"charm": 1},
	"justice":    {"resolve": 1},
	"belonging":  {"health": 1},
	"redemption": {"resolve": 1},
}

var originPackages = map[string]bonusPackage{
	"frontier": {
		Stats: map[string]int{"health": 2, "daring": 2},
		Item:  "Weathered Compass",
		Log:   "The frontier taught you to read the land and endure it.",
	},
	"city": {
		Stats: map[string]int{"stealth": 2, "charm": 1},
		Item:  "Lockpick Set",
		Log:   "You learned early how to slip through a crowd unseen.",
	},
	"noble": {
		Stats: map[string]int{"charm": 2, "resolve": 1},
		Item:  "Signet Ring",
		Log:   "Your family name opens doors and stirs old grudges.",
	},
	"academy": {
		Stats: map[string]int{"lore": 2, "insight": 1},
		Item:  "Annotated Grimoire",
		Log:   "Years among the stacks sharpened your mind.",
	},
	"coast": {
		Stats: map[string]int{"health": 1, "daring": 1, "stealth": 1},
		Item:  "Sea-Glass Charm",
		Log:   "Salt and storm gave you quick hands and steady legs.",
	},
}

var temperamentPackages = map[string]bonusPackage{
	"bold": {
		Stats: map[string]int{"daring": 3, "resolve": 1},
		Item:  "Dented Warhorn",
		Log:   "You have never once backed down from a challenge.",
	},
	"cautious": {
		Stats: map[string]int{"resolve": 2, "insight": 1},
		Item:  "Oilskin Satchel",
		Log:   "You keep your gear dry and your exits close.",
	},
	"curious": {
		Stats: map[string]int{"insight": 2, "lore": 1},
		Item:  "Pocket Journal",
		Log:   "You carry a journal for everything worth noting.",
	},
	"compassionate": {
		Stats: map[string]int{"charm": 2, "health": 1},
		Item:  "Healer's Kit",
		Log:   "You have patched up more strangers than you can count.",
	},
	"cunning": {
		Stats: map[string]int{"stealth": 2, "charm": 1},
		Item:  "Marked Cards",
		Log:   "You rarely play a hand you have not marked.",
	},
}

var factionPackages = map[string]bonusPackage{
	"wardens": {
		Stats: map[string]int{"resolve": 1, "health": 1},
		Item:  "Warden's Badge",
		Codex: &conditionals.Descriptor{ID: "the_wardens", Title: "The Wardens", Summary: "Sworn keepers of the old roads."},
		Log:   "The Wardens count you among their own.",
	},
	"guild": {
		Stats: map[string]int{"charm": 1, "insight": 1},
		Item:  "Guild Ledger",
		Codex: &conditionals.Descriptor{ID: "the_merchant_guild", Title: "The Merchant Guild", Summary: "Traders whose coin reaches every port."},
		Log:   "The Merchant Guild has vouched for you.",
	},
	"circle": {
		Stats: map[string]int{"lore": 1, "insight": 1},
		Item:  "Circle Sigil",
		Codex: &conditionals.Descriptor{ID: "the_arcane_circle", Title: "The Arcane Circle", Summary: "Scholars of the hidden arts."},
		Log:   "The Arcane Circle has marked you as a promising initiate.",
	},
	"company": {
		Stats: map[string]int{"daring": 1, "health": 1},
		Item:  "Company Colours",
		Codex: &conditionals.Descriptor{ID: "the_free_company", Title: "The Free Company", Summary: "Sellswords bound by contract and coin."},
		Log:   "The Free Company will stand beside you, for a price.",
	},
}

// Placeholder trait phrases.

const (
	defaultFocusTrait     = "a knack for getting by"
	defaultPlaystyleTrait = "a style all your own"
	defaultFactionTrait   = "no one in particular"
)

var focusTraits = map[string]string{
	"combat":        "a fighter's readiness",
	"magic":         "a feel for the arcane",
	"diplomacy":     "a silver tongue",
	"survival":      "a survivor's instincts",
	"investigation": "a sharp eye for detail",
}

var playstyleTraits = map[string]string{
	"action":      "a taste for action",
	"exploration": "a wanderer's curiosity",
	"dialogue":    "a gift for conversation",
	"stealth":     "a light step",
	"puzzle":      "a love of riddles",
}

var factionTraits = map[string]string{
	"wardens": "the steady oath of the Wardens",
	"guild":   "the Guild's long reach",
	"circle":  "the Circle's hidden lore",
	"company": "the Company's hard-won loyalty",
	"none":    "your own counsel",
}

func resolvePlaystyle(answer string) string { return resolve(playstyleAliases, answer) }

func resolveFocus(answer string) string { return resolve(focusAliases, answer) }

func resolve(table map[string]string, answer string) string {
	return table[strings.ToLower(strings.TrimSpace(answer))]
}

func lookupOr(table map[string]string, key, fallback string) string {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}
