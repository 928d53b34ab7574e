package scenario

import (
	"maps"
	"slices"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
)

// StartNode is the node every story begins at.
const StartNode = "start"

// Meta describes a seed: its display strings, starting character and genre tags.
type Meta struct {
	Title     string         `json:"title" yaml:"title"`                             // Story title
	Subtitle  string         `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`   // Optional tagline, persona line is appended here
	Stats     map[string]int `json:"stats,omitempty" yaml:"stats,omitempty"`         // Starting stats for a new character
	Inventory []string       `json:"inventory,omitempty" yaml:"inventory,omitempty"` // Starting inventory for a new character
	GenreTags []string       `json:"genreTags,omitempty" yaml:"genreTags,omitempty"` // Genres this seed suits; empty = any
	Extra     map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`         // Free-form authored metadata
}

// Choice is a player-selectable transition out of a node.
type Choice struct {
	Text         string                     `json:"text" yaml:"text"`
	Next         string                     `json:"next,omitempty" yaml:"next,omitempty"` // Empty = story ends
	Requirements *conditionals.Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Effects      *conditionals.Effects      `json:"effects,omitempty" yaml:"effects,omitempty"`
	Hint         string                     `json:"hint,omitempty" yaml:"hint,omitempty"`   // Display hint
	Style        string                     `json:"style,omitempty" yaml:"style,omitempty"` // Display style key
}

// Node is a point in the narrative graph.
type Node struct {
	Title             string                `json:"title,omitempty" yaml:"title,omitempty"`
	Text              string                `json:"text" yaml:"text"`
	Flavor            string                `json:"flavor,omitempty" yaml:"flavor,omitempty"`
	Effects           *conditionals.Effects `json:"effects,omitempty" yaml:"effects,omitempty"`
	RepeatableEffects bool                  `json:"repeatableEffects,omitempty" yaml:"repeatableEffects,omitempty"`
	Choices           []Choice              `json:"choices" yaml:"choices"`
}

// Seed is one authored story variant.
type Seed struct {
	Meta  Meta             `json:"meta" yaml:"meta"`
	Nodes map[string]*Node `json:"nodes" yaml:"nodes"`
}

// Node returns the node with the given id.
func (s *Seed) Node(id string) (*Node, bool) {
	if s == nil || s.Nodes == nil {
		return nil, false
	}
	n, ok := s.Nodes[id]
	return n, ok && n != nil
}

// HasNode reports whether the seed defines the given node id.
func (s *Seed) HasNode(id string) bool {
	_, ok := s.Node(id)
	return ok
}

// Clone returns a structural deep copy so catalog data is never mutated by play.
func (s *Seed) Clone() *Seed {
	if s == nil {
		return nil
	}
	out := &Seed{
		Meta: Meta{
			Title:     s.Meta.Title,
			Subtitle:  s.Meta.Subtitle,
			Stats:     maps.Clone(s.Meta.Stats),
			Inventory: slices.Clone(s.Meta.Inventory),
			GenreTags: slices.Clone(s.Meta.GenreTags),
		},
		Nodes: make(map[string]*Node, len(s.Nodes)),
	}
	if s.Meta.Extra != nil {
		out.Meta.Extra = cloneValue(s.Meta.Extra).(map[string]any)
	}
	for id, n := range s.Nodes {
		out.Nodes[id] = n.Clone()
	}
	return out
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Title:             n.Title,
		Text:              n.Text,
		Flavor:            n.Flavor,
		Effects:           n.Effects.Clone(),
		RepeatableEffects: n.RepeatableEffects,
	}
	if n.Choices != nil {
		out.Choices = make([]Choice, len(n.Choices))
		for i, c := range n.Choices {
			out.Choices[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the choice.
func (c Choice) Clone() Choice {
	c.Requirements = c.Requirements.Clone()
	c.Effects = c.Effects.Clone()
	return c
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}
