package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/internal/services"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
	"github.com/jwebster45206/storyweaver/pkg/state"
	"github.com/jwebster45206/storyweaver/pkg/story"
)

const lastSessionKey = "session:last"

// Session key suffixes.
const (
	keyPrefs       = "prefs"
	keyCurrentNode = "current_node"
	keyGameState   = "gamestate"
	keySurveyIndex = "survey_index"
	keyStoryRef    = "story_ref"
)

var sessionFields = []string{keyPrefs, keyCurrentNode, keyGameState, keySurveyIndex, keyStoryRef}

// Snapshot is everything persisted for one player session.
type Snapshot struct {
	ID          uuid.UUID
	Preferences preferences.Profile
	SurveyIndex int
	CurrentNode string
	State       *state.GameState // nil when nothing was saved
	StoryRef    *story.Pin       // nil until a story has been assembled
}

// SessionStore persists snapshots in a Cache, one key per field.
type SessionStore struct {
	cache  services.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionStore creates a store. A zero ttl keeps sessions forever; logger may be nil.
func NewSessionStore(cache services.Cache, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SessionStore{cache: cache, ttl: ttl, logger: logger}
}

func sessionKey(id uuid.UUID, field string) string {
	return "session:" + id.String() + ":" + field
}

// Save writes every field of snap and marks it as the last session.
func (s *SessionStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.ID == uuid.Nil {
		return fmt.Errorf("snapshot has no session id")
	}

	prefs := snap.Preferences
	if prefs == nil {
		prefs = preferences.Profile{}
	}
	prefsData, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	values := map[string]string{
		keyPrefs:       string(prefsData),
		keyCurrentNode: snap.CurrentNode,
		keySurveyIndex: strconv.Itoa(snap.SurveyIndex),
	}
	if snap.State != nil {
		data, err := json.Marshal(snap.State)
		if err != nil {
			return fmt.Errorf("failed to marshal gamestate: %w", err)
		}
		values[keyGameState] = string(data)
	}
	if snap.StoryRef != nil {
		data, err := json.Marshal(snap.StoryRef)
		if err != nil {
			return fmt.Errorf("failed to marshal story ref: %w", err)
		}
		values[keyStoryRef] = string(data)
	}

	var stale []string
	for _, field := range sessionFields {
		key := sessionKey(snap.ID, field)
		value, ok := values[field]
		if !ok {
			stale = append(stale, key)
			continue
		}
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Error("Failed to save session field", "session_id", snap.ID, "field", field, "error", err)
			return fmt.Errorf("failed to save %s: %w", field, err)
		}
	}
	if len(stale) > 0 {
		if err := s.cache.Del(ctx, stale...); err != nil {
			return fmt.Errorf("failed to clear stale session fields: %w", err)
		}
	}

	if err := s.cache.Set(ctx, lastSessionKey, snap.ID.String(), s.ttl); err != nil {
		return fmt.Errorf("failed to record last session: %w", err)
	}
	s.logger.Debug("Session saved", "session_id", snap.ID, "current_node", snap.CurrentNode)
	return nil
}

// Load reads the snapshot for id. Absent or malformed fields become defaults;
// only a failing cache returns an error.
func (s *SessionStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	raw := make(map[string]string, len(sessionFields))
	for _, field := range sessionFields {
		v, err := s.cache.Get(ctx, sessionKey(id, field))
		if err != nil {
			s.logger.Error("Failed to load session field", "session_id", id, "field", field, "error", err)
			return nil, fmt.Errorf("failed to load %s: %w", field, err)
		}
		raw[field] = v
	}

	snap := &Snapshot{
		ID:          id,
		Preferences: preferences.Decode([]byte(raw[keyPrefs])),
		CurrentNode: strings.TrimSpace(raw[keyCurrentNode]),
	}

	if v := raw[keySurveyIndex]; v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			s.logger.Warn("Ignoring malformed survey index", "session_id", id, "value", v)
		} else {
			snap.SurveyIndex = n
		}
	}

	if v := raw[keyGameState]; v != "" {
		gs, repaired := state.Decode([]byte(v))
		if len(repaired) > 0 {
			s.logger.Warn("Repaired persisted gamestate", "session_id", id, "fields", repaired)
		}
		// The stored identity is a cache; derive it again from what was loaded.
		state.NewEffectWorker(gs, snap.Preferences, nil).UpdateIdentity()
		snap.State = gs
	}

	if v := raw[keyStoryRef]; v != "" {
		var pin story.Pin
		if err := json.Unmarshal([]byte(v), &pin); err != nil || pin.Length == "" || pin.Variant < 0 {
			s.logger.Warn("Ignoring malformed story ref", "session_id", id)
		} else {
			snap.StoryRef = &pin
		}
	}

	return snap, nil
}

// ResumeNode returns the node a resumed session re-enters.
func (snap *Snapshot) ResumeNode() string {
	if snap.CurrentNode == "" {
		return scenario.StartNode
	}
	return snap.CurrentNode
}

// Exists reports whether anything is stored for id.
func (s *SessionStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	keys := make([]string, len(sessionFields))
	for i, field := range sessionFields {
		keys[i] = sessionKey(id, field)
	}
	ok, err := s.cache.Exists(ctx, keys...)
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return ok, nil
}

// Delete clears every persisted key for id.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	keys := make([]string, 0, len(sessionFields)+1)
	for _, field := range sessionFields {
		keys = append(keys, sessionKey(id, field))
	}

	last, err := s.cache.Get(ctx, lastSessionKey)
	if err != nil {
		return fmt.Errorf("failed to read last session: %w", err)
	}
	if last == id.String() {
		keys = append(keys, lastSessionKey)
	}

	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Error("Failed to delete session", "session_id", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("Session deleted", "session_id", id)
	return nil
}

// LastSession returns the id of the most recently saved session, if any.
func (s *SessionStore) LastSession(ctx context.Context) (uuid.UUID, bool, error) {
	v, err := s.cache.Get(ctx, lastSessionKey)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read last session: %w", err)
	}
	if v == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		s.logger.Warn("Ignoring malformed last session id", "value", v)
		return uuid.Nil, false, nil
	}
	return id, true, nil
}
