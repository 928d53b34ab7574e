package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLength is the catalog key used when the requested length has no entry.
const DefaultLength = "Medium"

// Fallback records how Catalog.Lookup resolved a length key.
type Fallback string

const (
	FallbackNone    Fallback = ""        // requested key matched
	FallbackDefault Fallback = "default" // fell back to DefaultLength
	FallbackFirst   Fallback = "first"   // fell back to the first authored key
	FallbackEmpty   Fallback = "empty"   // catalog has no entries at all
)

// SeedList is the set of variants stored under one length key.
// Authored content may give a single seed object, a list of seeds, or a bare
// nodes map; all three decode into a SeedList.
type SeedList []Seed

// UnmarshalJSON accepts a seed, a list of seeds or a legacy nodes map.
func (l *SeedList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var seeds []Seed
		if err := json.Unmarshal(data, &seeds); err != nil {
			return fmt.Errorf("failed to decode seed list: %w", err)
		}
		*l = seeds
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("seed must be an object or a list: %w", err)
	}
	_, hasNodes := probe["nodes"]
	_, hasMeta := probe["meta"]
	if hasNodes || hasMeta {
		var seed Seed
		if err := json.Unmarshal(data, &seed); err != nil {
			return fmt.Errorf("failed to decode seed: %w", err)
		}
		*l = SeedList{seed}
		return nil
	}

	var nodes map[string]*Node
	if err := json.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("failed to decode legacy nodes map: %w", err)
	}
	*l = SeedList{{Nodes: nodes}}
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON.
func (l *SeedList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var seeds []Seed
		if err := value.Decode(&seeds); err != nil {
			return fmt.Errorf("failed to decode seed list: %w", err)
		}
		*l = seeds
		return nil
	case yaml.MappingNode:
		if hasYAMLKey(value, "nodes") || hasYAMLKey(value, "meta") {
			var seed Seed
			if err := value.Decode(&seed); err != nil {
				return fmt.Errorf("failed to decode seed: %w", err)
			}
			*l = SeedList{seed}
			return nil
		}
		var nodes map[string]*Node
		if err := value.Decode(&nodes); err != nil {
			return fmt.Errorf("failed to decode legacy nodes map: %w", err)
		}
		*l = SeedList{{Nodes: nodes}}
		return nil
	default:
		return fmt.Errorf("seed must be a mapping or a sequence, got line %d", value.Line)
	}
}

func hasYAMLKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Catalog maps length keys to seed variants, preserving authoring order.
type Catalog struct {
	keys    []string
	entries map[string]SeedList
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]SeedList)}
}

// Add stores seeds under key. Re-adding a key replaces its seeds but keeps its position.
func (c *Catalog) Add(key string, seeds SeedList) {
	if c.entries == nil {
		c.entries = make(map[string]SeedList)
	}
	if _, exists := c.entries[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = seeds
}

// Keys returns the length keys in authoring order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of length keys.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Get returns the seeds stored under the exact key.
func (c *Catalog) Get(key string) (SeedList, bool) {
	if c == nil {
		return nil, false
	}
	seeds, ok := c.entries[key]
	return seeds, ok
}

// Lookup resolves a requested length: case-insensitive match, then
// DefaultLength, then the first authored key.
func (c *Catalog) Lookup(length string) (string, SeedList, Fallback) {
	if c.Len() == 0 {
		return "", nil, FallbackEmpty
	}
	if key, ok := c.find(length); ok {
		return key, c.entries[key], FallbackNone
	}
	if key, ok := c.find(DefaultLength); ok {
		return key, c.entries[key], FallbackDefault
	}
	key := c.keys[0]
	return key, c.entries[key], FallbackFirst
}

func (c *Catalog) find(length string) (string, bool) {
	length = strings.TrimSpace(length)
	if length == "" {
		return "", false
	}
	for _, key := range c.keys {
		if strings.EqualFold(key, length) {
			return key, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a length-keyed object, keeping key order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog must be an object keyed by length")
	}

	out := NewCatalog()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read catalog key: %w", err)
		}
		key, _ := tok.(string)
		var seeds SeedList
		if err := dec.Decode(&seeds); err != nil {
			return fmt.Errorf("catalog entry %q: %w", key, err)
		}
		out.Add(key, seeds)
	}
	*c = *out
	return nil
}

// UnmarshalYAML decodes a length-keyed mapping, keeping key order.
func (c *Catalog) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) == 1 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("catalog must be a mapping keyed by length")
	}
	out := NewCatalog()
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var seeds SeedList
		if err := value.Content[i+1].Decode(&seeds); err != nil {
			return fmt.Errorf("catalog entry %q: %w", key, err)
		}
		out.Add(key, seeds)
	}
	*c = *out
	return nil
}

// LoadCatalog parses catalog content. YAML is used when format is "yaml" or
// "yml", JSON otherwise.
func LoadCatalog(data []byte, format string) (*Catalog, error) {
	c := NewCatalog()
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse story catalog: %w", err)
	}
	return c, nil
}
