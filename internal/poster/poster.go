// Package poster finds the best available thumbnail for a YouTube video.
package poster

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sharetube/playback/pkg/ytthumb"
)

// MinWidth is the smallest width accepted as a real thumbnail. The
// not-found placeholder is 120px wide.
const MinWidth = 121

type Prober interface {
	URL(videoID, quality string) string
	Width(ctx context.Context, url string) (int, error)
}

type Cache interface {
	GetPoster(ctx context.Context, videoID string) (string, bool, error)
	SetPoster(ctx context.Context, videoID, url string) error
}

type Resolver struct {
	prober   Prober
	cache    Cache
	minWidth int
	logger   *slog.Logger
}

func NewResolver(prober Prober, cache Cache, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		prober:   prober,
		cache:    cache,
		minWidth: MinWidth,
		logger:   logger,
	}
}

// Resolve returns the first candidate in ytthumb.Qualities whose image is
// wide enough. A video without any thumbnail resolves to ("", false); probe
// failures are never returned to the caller.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (string, bool) {
	if url, ok, err := r.cache.GetPoster(ctx, videoID); err != nil {
		r.logger.WarnContext(ctx, "failed to read poster cache", "video_id", videoID, "error", err)
	} else if ok {
		return url, true
	}

	for _, quality := range ytthumb.Qualities {
		url := r.prober.URL(videoID, quality)

		width, err := r.prober.Width(ctx, url)
		if err != nil {
			r.logger.DebugContext(ctx, "poster candidate failed", "url", url, "error", err)
			if ctx.Err() != nil {
				return "", false
			}
			continue
		}

		if width < r.minWidth {
			r.logger.DebugContext(ctx, "poster candidate is a placeholder", "url", url, "width", width)
			continue
		}

		if err := r.cache.SetPoster(ctx, videoID, url); err != nil {
			r.logger.WarnContext(ctx, "failed to cache poster", "video_id", videoID, "error", err)
		}

		return url, true
	}

	return "", false
}

// MemoryCache keeps every resolved poster for the life of the process.
type MemoryCache struct {
	mu      sync.RWMutex
	posters map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{posters: make(map[string]string)}
}

func (c *MemoryCache) GetPoster(_ context.Context, videoID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	url, ok := c.posters[videoID]
	return url, ok, nil
}

func (c *MemoryCache) SetPoster(_ context.Context, videoID, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.posters[videoID] = url
	return nil
}
