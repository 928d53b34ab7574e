package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/jwebster45206/storyweaver/internal/services"
	"github.com/jwebster45206/storyweaver/pkg/scenario"
	"github.com/jwebster45206/storyweaver/pkg/survey"
)

// ErrContentUnavailable is returned when content can be read neither from
// the data directory nor from the cache.
var ErrContentUnavailable = errors.New("content unavailable")

const (
	questionsName = "questions"
	storiesName   = "stories"
)

var contentExtensions = []string{".json", ".yaml", ".yml"}

// cachedContent is the cache envelope for a raw content payload.
type cachedContent struct {
	Format string `json:"format"`
	Data   string `json:"data"`
}

// Content is the parsed question and story content.
type Content struct {
	Questions *survey.Catalog
	Stories   *scenario.Catalog
}

// ContentLoader reads content files, keeping the last good payload in the
// cache so a missing or broken file does not stop the game.
type ContentLoader struct {
	fsys   fs.FS
	cache  services.Cache
	logger *slog.Logger
}

// NewContentLoader reads content from fsys. cache and logger may be nil.
func NewContentLoader(fsys fs.FS, cache services.Cache, logger *slog.Logger) *ContentLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ContentLoader{fsys: fsys, cache: cache, logger: logger}
}

func contentKey(name string) string {
	return "content:" + name
}

// Load reads both catalogs.
func (l *ContentLoader) Load(ctx context.Context) (*Content, error) {
	questions, err := l.LoadQuestions(ctx)
	if err != nil {
		return nil, err
	}
	stories, err := l.LoadStories(ctx)
	if err != nil {
		return nil, err
	}
	return &Content{Questions: questions, Stories: stories}, nil
}

// LoadQuestions returns the question catalog.
func (l *ContentLoader) LoadQuestions(ctx context.Context) (*survey.Catalog, error) {
	var out *survey.Catalog
	err := l.load(ctx, questionsName, func(data []byte, format string) error {
		c, err := survey.LoadCatalog(data, format)
		if err != nil {
			return err
		}
		if len(c.Questions) == 0 {
			return fmt.Errorf("no questions")
		}
		out = c
		return nil
	})
	return out, err
}

// LoadStories returns the story catalog.
func (l *ContentLoader) LoadStories(ctx context.Context) (*scenario.Catalog, error) {
	var out *scenario.Catalog
	err := l.load(ctx, storiesName, func(data []byte, format string) error {
		c, err := scenario.LoadCatalog(data, format)
		if err != nil {
			return err
		}
		if c.Len() == 0 {
			return fmt.Errorf("no stories")
		}
		out = c
		return nil
	})
	return out, err
}

// load tries the file first and the cached copy second. parse must succeed
// for a source to count.
func (l *ContentLoader) load(ctx context.Context, name string, parse func(data []byte, format string) error) error {
	data, format, fileErr := l.readFile(name)
	if fileErr == nil {
		fileErr = parse(data, format)
	}
	if fileErr == nil {
		l.store(ctx, name, data, format)
		l.logger.Debug("Content loaded from file", "content", name, "format", format)
		return nil
	}
	l.logger.Warn("Content file unusable, trying cache", "content", name, "error", fileErr)

	cached, cacheErr := l.cached(ctx, name)
	if cacheErr == nil {
		cacheErr = parse([]byte(cached.Data), cached.Format)
	}
	if cacheErr == nil {
		l.logger.Info("Content loaded from cache", "content", name)
		return nil
	}

	l.logger.Error("Content unavailable", "content", name, "file_error", fileErr, "cache_error", cacheErr)
	return fmt.Errorf("%w: %s: %w", ErrContentUnavailable, name, fileErr)
}

func (l *ContentLoader) readFile(name string) ([]byte, string, error) {
	if l.fsys == nil {
		return nil, "", fmt.Errorf("no data directory")
	}
	for _, ext := range contentExtensions {
		file := name + ext
		data, err := fs.ReadFile(l.fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		return data, strings.TrimPrefix(path.Ext(file), "."), nil
	}
	return nil, "", fmt.Errorf("%s not found: %w", name, fs.ErrNotExist)
}

func (l *ContentLoader) store(ctx context.Context, name string, data []byte, format string) {
	if l.cache == nil {
		return
	}
	payload, err := json.Marshal(cachedContent{Format: format, Data: string(data)})
	if err != nil {
		l.logger.Warn("Failed to encode content for cache", "content", name, "error", err)
		return
	}
	if err := l.cache.Set(ctx, contentKey(name), string(payload), 0); err != nil {
		l.logger.Warn("Failed to cache content", "content", name, "error", err)
	}
}

func (l *ContentLoader) cached(ctx context.Context, name string) (cachedContent, error) {
	var c cachedContent
	if l.cache == nil {
		return c, fmt.Errorf("no cache")
	}
	v, err := l.cache.Get(ctx, contentKey(name))
	if err != nil {
		return c, fmt.Errorf("failed to read cache: %w", err)
	}
	if v == "" {
		return c, fmt.Errorf("not cached")
	}
	if err := json.Unmarshal([]byte(v), &c); err != nil {
		return c, fmt.Errorf("malformed cache entry: %w", err)
	}
	return c, nil
}
