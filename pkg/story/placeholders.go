package story

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/persona"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Placeholders maps lower-cased keys to replacement text.
type Placeholders map[string]string

// preferencePlaceholders builds the keys that depend only on preferences:
// every answer under its own key plus the derived trait phrases.
func preferencePlaceholders(prefs preferences.Profile) Placeholders {
	p := make(Placeholders, len(prefs)+8)
	for _, k := range prefs.Keys() {
		p[strings.ToLower(k)] = prefs.Get(k)
	}
	for _, k := range []string{preferences.KeyTone, preferences.KeyGenre} {
		if v, ok := p[k]; ok {
			p[k] = strings.ToLower(v)
		}
	}
	p["focus_trait"] = lookupOr(focusTraits, resolveFocus(prefs.Get(preferences.KeyFocus)), defaultFocusTrait)
	p["playstyle_trait"] = lookupOr(playstyleTraits, resolvePlaystyle(prefs.Get(preferences.KeyPlaystyle)), defaultPlaystyleTrait)
	p["faction_trait"] = lookupOr(factionTraits, persona.ResolveFaction(prefs.Get(preferences.KeyFaction)), defaultFactionTrait)
	return p
}

// withIdentity adds the identity-derived keys.
func (p Placeholders) withIdentity(id persona.Identity) Placeholders {
	p["hero"] = id.Epithet
	p["epithet"] = id.Epithet
	p["identity_summary"] = id.Summary
	if id.PrimaryStat != "" {
		p["primary_stat"] = persona.StatLabel(id.PrimaryStat)
		p["primary_stat_value"] = strconv.Itoa(id.PrimaryStatValue)
	} else {
		p["primary_stat"] = ""
		p["primary_stat_value"] = ""
	}
	if id.SecondaryStat != "" {
		p["secondary_stat"] = persona.StatLabel(id.SecondaryStat)
	}
	return p
}

// Replace substitutes every {{key}} token in s. Keys match case-insensitively
// and unknown keys become "".
func (p Placeholders) Replace(s string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(token string) string {
		m := placeholderPattern.FindStringSubmatch(token)
		return p[strings.ToLower(m[1])]
	})
}
