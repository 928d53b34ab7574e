package persona

// Alias tables resolve free-form survey answers to canonical keys.
// Lookups are case-insensitive and trimmed.

var originAliases = map[string]string{
	"frontier wilds":  "frontier",
	"frontier":        "frontier",
	"the wilds":       "frontier",
	"wilds":           "frontier",
	"city streets":    "city",
	"city":            "city",
	"streets":         "city",
	"urban":           "city",
	"noble house":     "noble",
	"noble":           "noble",
	"nobility":        "noble",
	"arcane academy":  "academy",
	"academy":         "academy",
	"scholar":         "academy",
	"coastal village": "coast",
	"coast":           "coast",
	"seafaring":       "coast",
	"the sea":         "coast",
}

var temperamentAliases = map[string]string{
	"bold":          "bold",
	"brave":         "bold",
	"daring":        "bold",
	"cautious":      "cautious",
	"careful":       "cautious",
	"wary":          "cautious",
	"curious":       "curious",
	"inquisitive":   "curious",
	"compassionate": "compassionate",
	"kind":          "compassionate",
	"empathetic":    "compassionate",
	"cunning":       "cunning",
	"clever":        "cunning",
	"sly":           "cunning",
}

var motivationAliases = map[string]string{
	"glory":      "glory",
	"fame":       "glory",
	"knowledge":  "knowledge",
	"truth":      "knowledge",
	"discovery":  "knowledge",
	"wealth":     "wealth",
	"fortune":    "wealth",
	"treasure":   "wealth",
	"justice":    "justice",
	"duty":       "justice",
	"belonging":  "belonging",
	"family":     "belonging",
	"home":       "belonging",
	"redemption": "redemption",
	"atonement":  "redemption",
}

var factionAliases = map[string]string{
	"the wardens":        "wardens",
	"wardens":            "wardens",
	"the merchant guild": "guild",
	"merchant guild":     "guild",
	"guild":              "guild",
	"the arcane circle":  "circle",
	"arcane circle":      "circle",
	"circle":             "circle",
	"the free company":   "company",
	"free company":       "company",
	"mercenaries":        "company",
	"no one":             "none",
	"none":               "none",
	"independent":        "none",
	"unaffiliated":       "none",
}

// Epithet fragments.

var originTitles = map[string]string{
	"frontier": "Wayfarer",
	"city":     "Alley-Runner",
	"noble":    "Scion",
	"academy":  "Scholar",
	"coast":    "Corsair",
}

var temperamentTitles = map[string]string{
	"bold":          "Bold",
	"cautious":      "Watchful",
	"curious":       "Curious",
	"compassionate": "Kindhearted",
	"cunning":       "Cunning",
}

// Summary insight sentences.

var temperamentInsights = map[string]string{
	"bold":          "You meet danger head-on and trust your nerve.",
	"cautious":      "You weigh every step before you take it.",
	"curious":       "No locked door or odd rumour escapes your attention.",
	"compassionate": "Strangers find a ready ally in you.",
	"cunning":       "You always keep one card hidden up your sleeve.",
}

var motivationInsights = map[string]string{
	"glory":      "You are driven by the promise of songs sung in your name.",
	"knowledge":  "You are driven by the need to understand what others overlook.",
	"wealth":     "You are driven by the glint of coin and the freedom it buys.",
	"justice":    "You are driven by a stubborn sense of what is right.",
	"belonging":  "You are driven by the hope of a place to call home.",
	"redemption": "You are driven by a debt you have yet to repay.",
}
