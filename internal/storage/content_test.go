package storage

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/jwebster45206/storyweaver/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionsJSON = `{"questions": [
	{"id": "genre", "text": "Where?", "answers": ["Fantasy", "Frontier"]},
	{"id": "length", "text": "How long?", "answers": ["Short", "Medium"]}
]}`

const storiesJSON = `{
	"Short": {"meta": {"title": "Dusk"}, "nodes": {"start": {"text": "Dusk.", "choices": []}}},
	"Medium": {"meta": {"title": "Noon"}, "nodes": {"start": {"text": "Noon.", "choices": []}}}
}`

const storiesYAML = `
Long:
  meta:
    title: Night
  nodes:
    start:
      text: Night falls.
      choices: []
`

func TestContentLoader_FromFiles(t *testing.T) {
	cache := services.NewMockCache()
	fsys := fstest.MapFS{
		"questions.json": {Data: []byte(questionsJSON)},
		"stories.yaml":   {Data: []byte(storiesYAML)},
	}
	loader := NewContentLoader(fsys, cache, nil)

	content, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, content.Questions.Questions, 2)
	assert.Equal(t, []string{"Long"}, content.Stories.Keys())

	assert.Contains(t, cache.Value("content:questions"), `"format":"json"`)
	assert.Contains(t, cache.Value("content:stories"), `"format":"yaml"`)
}

func TestContentLoader_JSONPreferredOverYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"stories.json": {Data: []byte(storiesJSON)},
		"stories.yaml": {Data: []byte(storiesYAML)},
	}
	stories, err := NewContentLoader(fsys, nil, nil).LoadStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Short", "Medium"}, stories.Keys())
}

func TestContentLoader_FallsBackToCache(t *testing.T) {
	cache := services.NewMockCache()
	ctx := context.Background()

	good := fstest.MapFS{
		"questions.json": {Data: []byte(questionsJSON)},
		"stories.json":   {Data: []byte(storiesJSON)},
	}
	_, err := NewContentLoader(good, cache, nil).Load(ctx)
	require.NoError(t, err)

	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "missing files", fsys: fstest.MapFS{}},
		{name: "broken files", fsys: fstest.MapFS{
			"questions.json": {Data: []byte(`{"questions": [`)},
			"stories.json":   {Data: []byte(`[1, 2]`)},
		}},
		{name: "empty content", fsys: fstest.MapFS{
			"questions.json": {Data: []byte(`{"questions": []}`)},
			"stories.json":   {Data: []byte(`{}`)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := NewContentLoader(tt.fsys, cache, nil).Load(ctx)
			require.NoError(t, err)
			assert.Len(t, content.Questions.Questions, 2)
			assert.Equal(t, []string{"Short", "Medium"}, content.Stories.Keys())
		})
	}
}

func TestContentLoader_Unavailable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		cache *services.MockCache
	}{
		{name: "empty cache", cache: services.NewMockCache()},
		{name: "malformed cache", cache: func() *services.MockCache {
			c := services.NewMockCache()
			c.Seed(map[string]string{"content:questions": "garbage"})
			return c
		}()},
		{name: "cache error", cache: func() *services.MockCache {
			c := services.NewMockCache()
			c.SetGetError(assert.AnError)
			return c
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewContentLoader(fstest.MapFS{}, tt.cache, nil).Load(ctx)
			assert.ErrorIs(t, err, ErrContentUnavailable)
		})
	}

	_, err := NewContentLoader(nil, nil, nil).LoadStories(ctx)
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestContentLoader_ShippedContent(t *testing.T) {
	content, err := NewContentLoader(os.DirFS("../../data"), nil, nil).Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, content.Questions.Questions)
	assert.Equal(t, []string{"Short", "Medium", "Long"}, content.Stories.Keys())

	for _, key := range content.Stories.Keys() {
		seeds, _ := content.Stories.Get(key)
		for _, seed := range seeds {
			require.True(t, seed.HasNode("start"), "%s: %s has no start node", key, seed.Meta.Title)
			for id, node := range seed.Nodes {
				for _, c := range node.Choices {
					if c.Next != "" {
						assert.True(t, seed.HasNode(c.Next), "%s: %s/%s points at missing node %q", key, seed.Meta.Title, id, c.Next)
					}
				}
			}
		}
	}
}
