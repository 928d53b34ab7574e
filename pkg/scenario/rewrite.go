package scenario

import "github.com/jwebster45206/storyweaver/pkg/conditionals"

// Rewrite applies fn to every authored string in the seed in place: meta
// strings, the extra tree, node and choice text, effect payloads and required
// item names. Node ids, choice targets and style keys are structural and left
// untouched.
func (s *Seed) Rewrite(fn func(string) string) {
	if s == nil || fn == nil {
		return
	}
	s.Meta.Title = fn(s.Meta.Title)
	s.Meta.Subtitle = fn(s.Meta.Subtitle)
	for i, item := range s.Meta.Inventory {
		s.Meta.Inventory[i] = fn(item)
	}
	for i, tag := range s.Meta.GenreTags {
		s.Meta.GenreTags[i] = fn(tag)
	}
	if s.Meta.Extra != nil {
		s.Meta.Extra = rewriteValue(s.Meta.Extra, fn).(map[string]any)
	}

	for _, n := range s.Nodes {
		if n == nil {
			continue
		}
		n.Title = fn(n.Title)
		n.Text = fn(n.Text)
		n.Flavor = fn(n.Flavor)
		rewriteEffects(n.Effects, fn)
		for i := range n.Choices {
			c := &n.Choices[i]
			c.Text = fn(c.Text)
			c.Hint = fn(c.Hint)
			rewriteEffects(c.Effects, fn)
			if c.Requirements != nil {
				for j, item := range c.Requirements.Inventory {
					c.Requirements.Inventory[j] = fn(item)
				}
			}
		}
	}
}

func rewriteEffects(e *conditionals.Effects, fn func(string) string) {
	if e == nil {
		return
	}
	for i, item := range e.Inventory.Add {
		e.Inventory.Add[i] = fn(item)
	}
	for i, item := range e.Inventory.Remove {
		e.Inventory.Remove[i] = fn(item)
	}
	rewriteDescriptors(e.Quests.Add, fn)
	rewriteDescriptors(e.Quests.Complete, fn)
	rewriteDescriptors(e.Codex, fn)
	e.Log = fn(e.Log)
}

func rewriteDescriptors(ds []conditionals.Descriptor, fn func(string) string) {
	for i := range ds {
		ds[i].Title = fn(ds[i].Title)
		ds[i].Summary = fn(ds[i].Summary)
	}
}

// rewriteValue walks a decoded tree of strings, lists and maps.
// Non-string leaves are returned unchanged.
func rewriteValue(v any, fn func(string) string) any {
	switch val := v.(type) {
	case string:
		return fn(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = rewriteValue(item, fn)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = rewriteValue(item, fn)
		}
		return out
	default:
		return val
	}
}
