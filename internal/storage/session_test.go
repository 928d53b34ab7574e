package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/internal/services"
	"github.com/jwebster45206/storyweaver/pkg/persona"
	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"github.com/jwebster45206/storyweaver/pkg/state"
	"github.com/jwebster45206/storyweaver/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*services.RedisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisService, err := services.NewRedisService(mr.Addr(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisService.Close() })
	return redisService, mr
}

func testSnapshot() *Snapshot {
	gs := state.NewGameState()
	gs.Stats["daring"] = 5
	gs.AddItem("Lantern")
	gs.AppliedNodeEffects["start"] = true
	return &Snapshot{
		ID:          gs.ID,
		Preferences: preferences.New(map[string]string{"genre": "Frontier", "playstyle": "Bold"}),
		SurveyIndex: 4,
		CurrentNode: "crossroads",
		State:       gs,
		StoryRef:    &story.Pin{Length: "Short", Variant: 1},
	}
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	redisService, _ := setupTestRedis(t)
	store := NewSessionStore(redisService, time.Hour, nil)
	ctx := context.Background()

	snap := testSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Frontier", loaded.Preferences.Get("genre"))
	assert.Equal(t, 4, loaded.SurveyIndex)
	assert.Equal(t, "crossroads", loaded.ResumeNode())
	require.NotNil(t, loaded.State)
	assert.Equal(t, snap.State.ID, loaded.State.ID)
	assert.Equal(t, 5, loaded.State.GetStat("daring"))
	assert.True(t, loaded.State.HasItem("Lantern"))
	assert.True(t, loaded.State.AppliedNodeEffects["start"])
	assert.Equal(t, &story.Pin{Length: "Short", Variant: 1}, loaded.StoryRef)

	last, ok, err := store.LastSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, snap.ID, last)
}

func TestSessionStore_Keys(t *testing.T) {
	cache := services.NewMockCache()
	store := NewSessionStore(cache, 0, nil)
	snap := testSnapshot()
	require.NoError(t, store.Save(context.Background(), snap))

	prefix := "session:" + snap.ID.String() + ":"
	for _, field := range []string{"prefs", "current_node", "gamestate", "survey_index", "story_ref"} {
		assert.NotEmpty(t, cache.Value(prefix+field), field)
	}
	assert.Equal(t, "crossroads", cache.Value(prefix+"current_node"))
	assert.Equal(t, "4", cache.Value(prefix+"survey_index"))
	assert.Equal(t, snap.ID.String(), cache.Value("session:last"))
}

func TestSessionStore_Expiration(t *testing.T) {
	redisService, mr := setupTestRedis(t)
	store := NewSessionStore(redisService, time.Minute, nil)
	ctx := context.Background()

	snap := testSnapshot()
	require.NoError(t, store.Save(ctx, snap))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Exists(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store := NewSessionStore(services.NewMockCache(), 0, nil)
	id := uuid.New()

	snap, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, snap.ID)
	assert.Empty(t, snap.Preferences)
	assert.Zero(t, snap.SurveyIndex)
	assert.Equal(t, "start", snap.ResumeNode())
	assert.Nil(t, snap.State)
	assert.Nil(t, snap.StoryRef)
}

func TestSessionStore_LoadMalformed(t *testing.T) {
	cache := services.NewMockCache()
	id := uuid.New()
	prefix := "session:" + id.String() + ":"
	cache.Seed(map[string]string{
		prefix + "prefs":        "not json",
		prefix + "survey_index": "-3",
		prefix + "gamestate":    `{"stats": "oops", "inventory": ["Rope", "Rope"], "history": 12}`,
		prefix + "story_ref":    `{"variant": 2}`,
	})
	store := NewSessionStore(cache, 0, nil)

	snap, err := store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, snap.Preferences)
	assert.Zero(t, snap.SurveyIndex)
	assert.Nil(t, snap.StoryRef)
	require.NotNil(t, snap.State)
	assert.Empty(t, snap.State.Stats)
	assert.Equal(t, []string{"Rope"}, snap.State.Inventory)
	assert.Empty(t, snap.State.History)
}

func TestSessionStore_LoadRederivesIdentity(t *testing.T) {
	cache := services.NewMockCache()
	store := NewSessionStore(cache, 0, nil)
	ctx := context.Background()

	snap := testSnapshot()
	snap.State.Identity = persona.Identity{Epithet: "the Emperor of Everything", PrimaryStat: "charm", PrimaryStatValue: 99}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx, snap.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.State)
	assert.Equal(t, persona.Derive(loaded.State.Stats, loaded.Preferences), loaded.State.Identity)
	assert.Equal(t, "daring", loaded.State.Identity.PrimaryStat)
	assert.Equal(t, 5, loaded.State.Identity.PrimaryStatValue)
}

func TestSessionStore_LoadCacheError(t *testing.T) {
	cache := services.NewMockCache()
	cache.SetGetError(assert.AnError)
	store := NewSessionStore(cache, 0, nil)

	_, err := store.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSessionStore_SaveClearsUnsetFields(t *testing.T) {
	cache := services.NewMockCache()
	store := NewSessionStore(cache, 0, nil)
	ctx := context.Background()

	snap := testSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	snap.State = nil
	snap.StoryRef = nil
	require.NoError(t, store.Save(ctx, snap))

	prefix := "session:" + snap.ID.String() + ":"
	assert.Empty(t, cache.Value(prefix+"gamestate"))
	assert.Empty(t, cache.Value(prefix+"story_ref"))
}

func TestSessionStore_SaveRequiresID(t *testing.T) {
	store := NewSessionStore(services.NewMockCache(), 0, nil)
	assert.Error(t, store.Save(context.Background(), &Snapshot{}))
	assert.Error(t, store.Save(context.Background(), nil))
}

func TestSessionStore_Delete(t *testing.T) {
	cache := services.NewMockCache()
	store := NewSessionStore(cache, 0, nil)
	ctx := context.Background()

	other := testSnapshot()
	other.ID = uuid.New()
	require.NoError(t, store.Save(ctx, other))
	snap := testSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	require.NoError(t, store.Delete(ctx, snap.ID))
	ok, err := store.Exists(ctx, snap.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := store.LastSession(ctx)
	require.NoError(t, err)
	assert.False(t, found, "deleting the last session clears the pointer")

	ok, err = store.Exists(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessionStore_LastSessionMalformed(t *testing.T) {
	cache := services.NewMockCache()
	cache.Seed(map[string]string{"session:last": "nope"})
	store := NewSessionStore(cache, 0, nil)

	_, ok, err := store.LastSession(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
