package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/internal/storage"
	"github.com/jwebster45206/storyweaver/pkg/narrative"
	"github.com/jwebster45206/storyweaver/pkg/state"
	"github.com/jwebster45206/storyweaver/pkg/story"
	"github.com/jwebster45206/storyweaver/pkg/survey"
)

// Game ties the survey, the story session and the session store together.
// The UI only talks to Game; every transition is saved before it returns.
type Game struct {
	id           uuid.UUID
	questions    []survey.Question
	survey       *survey.Survey
	assembler    *story.Assembler
	store        *storage.SessionStore
	session      *narrative.Session // nil while the survey runs
	ended        bool
	historyLimit int
	logger       *slog.Logger
}

// NewGame restores snap. A finished survey resumes the story at the saved
// node, reusing the saved variant when it still exists.
func NewGame(ctx context.Context, snap *storage.Snapshot, questions []survey.Question,
	assembler *story.Assembler, store *storage.SessionStore, historyLimit int, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		id:           snap.ID,
		questions:    questions,
		survey:       survey.New(questions, snap.SurveyIndex, snap.Preferences),
		assembler:    assembler,
		store:        store,
		historyLimit: historyLimit,
		logger:       logger,
	}
	if !g.survey.Done() {
		return g, nil
	}

	gs := snap.State
	if gs != nil {
		gs.ID = g.id
	}
	st, err := assembler.Assemble(g.survey.Preferences(), gs, story.Options{ResetState: gs == nil, Pin: snap.StoryRef})
	if err != nil {
		return nil, fmt.Errorf("failed to resume story: %w", err)
	}
	g.session = narrative.NewSession(st, g.survey.Preferences(), logger)
	g.session.Enter(snap.ResumeNode())
	logger.Info("Session resumed", "node", g.session.CurrentNode(), "length", st.Selection.Length, "variant", st.Selection.Variant)

	return g, g.save(ctx)
}

// ID returns the session id.
func (g *Game) ID() uuid.UUID { return g.id }

// InSurvey reports whether the survey is still running.
func (g *Game) InSurvey() bool { return g.session == nil }

// Survey returns the survey cursor.
func (g *Game) Survey() *survey.Survey { return g.survey }

// Scene returns the current scene, or nil outside the story.
func (g *Game) Scene() *narrative.Scene {
	if g.session == nil {
		return nil
	}
	return g.session.Scene()
}

// Ended reports whether the last choice finished the story.
func (g *Game) Ended() bool { return g.ended }

// Title returns the story title, or "" during the survey.
func (g *Game) Title() string {
	if g.session == nil {
		return ""
	}
	return g.session.Story().Seed.Meta.Title
}

// Subtitle returns the instantiated story subtitle, persona line included.
func (g *Game) Subtitle() string {
	if g.session == nil {
		return ""
	}
	return g.session.Story().Seed.Meta.Subtitle
}

// View returns the rendering snapshot of the current state.
func (g *Game) View() narrative.View {
	if g.session == nil {
		return narrative.BuildView(state.NewGameState(), g.historyLimit)
	}
	return narrative.BuildView(g.session.State(), g.historyLimit)
}

// PersonaText is the text copied to the clipboard.
func (g *Game) PersonaText() string {
	if g.session == nil {
		return ""
	}
	id := g.session.State().Identity
	if id.Epithet == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(id.Epithet)
	if id.Summary != "" {
		b.WriteString("\n" + id.Summary)
	}
	if stats := g.View().StatsText(); stats != "" {
		b.WriteString("\n" + stats)
	}
	return b.String()
}

// Answer records a survey answer. The story is assembled once the last
// question is answered.
func (g *Game) Answer(ctx context.Context, choice int) error {
	if err := g.survey.Answer(choice); err != nil {
		return err
	}
	if g.survey.Done() {
		if err := g.startStory(); err != nil {
			return err
		}
	}
	return g.save(ctx)
}

func (g *Game) startStory() error {
	gs := state.NewGameState()
	gs.ID = g.id
	st, err := g.assembler.Assemble(g.survey.Preferences(), gs, story.Options{ResetState: true})
	if err != nil {
		return fmt.Errorf("failed to assemble story: %w", err)
	}
	g.session = narrative.NewSession(st, g.survey.Preferences(), g.logger)
	g.session.Start()
	g.ended = false
	return nil
}

// Choose selects a visible choice. After the story has ended any choice
// restarts.
func (g *Game) Choose(ctx context.Context, i int) error {
	if g.session == nil {
		return narrative.ErrNoScene
	}
	if g.ended {
		return g.Restart(ctx)
	}

	outcome, err := g.session.Choose(i)
	if err != nil {
		return err
	}
	switch {
	case outcome.Restart:
		return g.Restart(ctx)
	case outcome.Ended:
		g.ended = true
	}
	return g.save(ctx)
}

// Restart clears the save and returns to the first survey question.
func (g *Game) Restart(ctx context.Context) error {
	if g.session != nil {
		g.session.Restart()
	}
	g.session = nil
	g.ended = false
	g.survey = survey.New(g.questions, 0, nil)

	if err := g.store.Delete(ctx, g.id); err != nil {
		return err
	}
	return g.save(ctx)
}

// Snapshot returns what would be persisted right now.
func (g *Game) Snapshot() *storage.Snapshot {
	snap := &storage.Snapshot{
		ID:          g.id,
		Preferences: g.survey.Preferences(),
		SurveyIndex: g.survey.Index(),
	}
	if g.session != nil {
		pin := g.session.Story().Selection.Pin()
		snap.CurrentNode = g.session.CurrentNode()
		snap.State = g.session.State()
		snap.StoryRef = &pin
	}
	return snap
}

func (g *Game) save(ctx context.Context) error {
	if err := g.store.Save(ctx, g.Snapshot()); err != nil {
		g.logger.Error("Failed to save session", "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
