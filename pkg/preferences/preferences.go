package preferences

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Well-known survey keys read by the engine. Any other key is carried through
// untouched and is still available to placeholder substitution.
const (
	KeyLength      = "length"
	KeyGenre       = "genre"
	KeyTone        = "tone"
	KeyOrigin      = "origin"
	KeyTemperament = "temperament"
	KeyMotivation  = "motivation"
	KeyFaction     = "faction"
	KeyPlaystyle   = "playstyle"
	KeyFocus       = "focus"
	KeyCompanion   = "companion"
	KeySignature   = "signature"
)

// Profile is the player's collected survey answers keyed by question id.
// Keys are stored lower-cased.
type Profile map[string]string

// New builds a Profile from an arbitrary map, lower-casing keys and trimming values.
func New(values map[string]string) Profile {
	p := make(Profile, len(values))
	for k, v := range values {
		p.Set(k, v)
	}
	return p
}

// Set records an answer. Empty keys are ignored.
func (p Profile) Set(key, value string) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	p[key] = strings.TrimSpace(value)
}

// Get returns the trimmed answer for key, matching the key case-insensitively.
func (p Profile) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[normalizeKey(key)]
}

// Has reports whether a non-empty answer exists for key.
func (p Profile) Has(key string) bool {
	return p.Get(key) != ""
}

// Keys returns the profile keys in sorted order.
func (p Profile) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Clone returns an independent copy of the profile.
func (p Profile) Clone() Profile {
	if p == nil {
		return Profile{}
	}
	return maps.Clone(p)
}

// UnmarshalJSON accepts any JSON object and keeps only scalar values.
// Strings are kept as-is, numbers and booleans are formatted, anything else is dropped.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("preferences: not an object: %w", err)
	}
	out := make(Profile, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out.Set(k, val)
		case float64, bool:
			out.Set(k, fmt.Sprint(val))
		}
	}
	*p = out
	return nil
}

// Decode parses a persisted preferences blob, returning an empty profile
// when the blob is missing or malformed.
func Decode(data []byte) Profile {
	if len(data) == 0 {
		return Profile{}
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil || p == nil {
		return Profile{}
	}
	return p
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
