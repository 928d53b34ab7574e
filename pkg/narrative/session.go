// Package narrative walks an assembled story: node entry, requirement-gated
// choices and the transitions between them.
package narrative

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
	"github.com/jwebster45206/storyweaver/pkg/state"
	"github.com/jwebster45206/storyweaver/pkg/story"
)

var (
	ErrNoScene          = errors.New("no scene has been entered")
	ErrChoiceOutOfRange = errors.New("choice index out of range")
)

// RestartText labels the synthetic choice offered when a node has no way forward.
const RestartText = "Restart"

// Option is a choice the player can currently see.
type Option struct {
	Text    string `json:"text"`
	Next    string `json:"next,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Style   string `json:"style,omitempty"`
	Restart bool   `json:"restart,omitempty"` // Synthetic restart choice

	effects *conditionals.Effects
}

// Scene is what the player sees at a node.
type Scene struct {
	NodeID  string   `json:"nodeId"`
	Title   string   `json:"title,omitempty"`
	Text    string   `json:"text"`
	Flavor  string   `json:"flavor,omitempty"`
	Choices []Option `json:"choices"`
	Missing bool     `json:"missing,omitempty"` // Node id not found in the story
}

// Terminal reports whether the only way forward is the synthetic restart.
func (s *Scene) Terminal() bool {
	return len(s.Choices) == 1 && s.Choices[0].Restart
}

// Outcome is the result of selecting a choice.
type Outcome struct {
	Scene   *Scene // Next scene; nil when the story ended or a restart was requested
	Ended   bool   // The choice had no destination
	Restart bool   // The synthetic restart choice was selected
}

// Session owns one playthrough: preferences, state, story and current node.
type Session struct {
	prefs   preferences.Profile
	story   *story.Story
	gs      *state.GameState
	worker  *state.EffectWorker
	current string
	scene   *Scene
	logger  *slog.Logger // Optional
}

// NewSession starts a session over an assembled story. logger may be nil.
func NewSession(st *story.Story, prefs preferences.Profile, logger *slog.Logger) *Session {
	gs := st.State
	if gs == nil {
		gs = state.NewGameState()
	}
	return &Session{
		prefs:  prefs,
		story:  st,
		gs:     gs,
		worker: state.NewEffectWorker(gs, prefs, logger),
		logger: logger,
	}
}

// WithClock sets the time source used to stamp history entries.
// Returns the Session for method chaining
func (s *Session) WithClock(now func() time.Time) *Session {
	s.worker.WithClock(now)
	return s
}

// State returns the session's game state.
func (s *Session) State() *state.GameState { return s.gs }

// Preferences returns the session's preferences.
func (s *Session) Preferences() preferences.Profile { return s.prefs }

// Story returns the assembled story.
func (s *Session) Story() *story.Story { return s.story }

// CurrentNode returns the id of the node last entered.
func (s *Session) CurrentNode() string { return s.current }

// Scene returns the current scene, or nil before the first Enter.
func (s *Session) Scene() *Scene { return s.scene }

// Start enters the story's start node.
func (s *Session) Start() *Scene {
	return s.Enter(scenario.StartNode)
}

// Enter moves to nodeID. A node history entry is appended unless the last
// node entry is for the same id, node effects are applied (once unless
// repeatable) and the identity is refreshed. A missing node or a node with no
// visible choices yields a single restart choice.
func (s *Session) Enter(nodeID string) *Scene {
	if nodeID == "" {
		nodeID = scenario.StartNode
	}
	s.current = nodeID

	node, ok := s.story.Seed.Node(nodeID)
	if !ok {
		if s.logger != nil {
			s.logger.Warn("Story node not found", "game_id", s.gs.ID.String(), "node", nodeID)
		}
		s.worker.UpdateIdentity()
		s.scene = &Scene{NodeID: nodeID, Missing: true, Choices: []Option{restartOption()}}
		return s.scene
	}

	if last, ok := s.gs.LastNodeEntry(); !ok || last.NodeID != nodeID {
		s.worker.Record(state.NewNodeEntry(nodeID, node.Title, node.Text))
	}
	if !s.worker.ApplyNode(nodeID, node) {
		s.worker.UpdateIdentity()
	}

	scene := &Scene{NodeID: nodeID, Title: node.Title, Text: node.Text, Flavor: node.Flavor}
	for _, c := range node.Choices {
		if !conditionals.Satisfies(c.Requirements, s.gs) {
			continue
		}
		scene.Choices = append(scene.Choices, Option{
			Text:    c.Text,
			Next:    c.Next,
			Hint:    c.Hint,
			Style:   c.Style,
			effects: c.Effects,
		})
	}
	if len(scene.Choices) == 0 {
		scene.Choices = []Option{restartOption()}
	}

	if s.logger != nil {
		s.logger.Debug("Entered node", "game_id", s.gs.ID.String(), "node", nodeID, "choices", len(scene.Choices))
	}
	s.scene = scene
	return scene
}

// Choose selects the i-th visible choice of the current scene.
func (s *Session) Choose(i int) (Outcome, error) {
	if s.scene == nil {
		return Outcome{}, ErrNoScene
	}
	if i < 0 || i >= len(s.scene.Choices) {
		return Outcome{}, fmt.Errorf("choice %d of %d: %w", i, len(s.scene.Choices), ErrChoiceOutOfRange)
	}
	opt := s.scene.Choices[i]
	if opt.Restart {
		return Outcome{Restart: true}, nil
	}

	s.worker.Record(state.NewChoiceEntry(opt.Text, opt.Next))
	s.worker.Apply(opt.effects)

	if opt.Next == "" {
		s.scene = nil
		if s.logger != nil {
			s.logger.Info("Story ended", "game_id", s.gs.ID.String(), "node", s.current)
		}
		return Outcome{Ended: true}, nil
	}
	return Outcome{Scene: s.Enter(opt.Next)}, nil
}

// Restart clears preferences, state and position. The caller starts a new
// survey and assembles a new story afterwards.
func (s *Session) Restart() {
	s.prefs = preferences.Profile{}
	s.worker.SetPreferences(s.prefs)
	s.gs.Reset()
	s.worker.UpdateIdentity()
	s.current = ""
	s.scene = nil
	if s.logger != nil {
		s.logger.Info("Session restarted", "game_id", s.gs.ID.String())
	}
}

func restartOption() Option {
	return Option{Text: RestartText, Restart: true}
}
