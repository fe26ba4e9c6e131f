// Package redis is a poster cache shared between server instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type repo struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRepo caches posters for ttl. A zero ttl keeps them forever.
func NewRepo(rc *redis.Client, ttl time.Duration) *repo {
	return &repo{rc: rc, ttl: ttl}
}

func (r repo) getPosterKey(videoID string) string {
	return "poster:" + videoID
}

func (r repo) GetPoster(ctx context.Context, videoID string) (string, bool, error) {
	funcName := "poster.redis.GetPoster"
	slog.DebugContext(ctx, funcName, "video_id", videoID)

	url, err := r.rc.Get(ctx, r.getPosterKey(videoID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get poster: %w", err)
	}

	return url, true, nil
}

func (r repo) SetPoster(ctx context.Context, videoID, url string) error {
	funcName := "poster.redis.SetPoster"
	slog.DebugContext(ctx, funcName, "video_id", videoID, "url", url)

	if err := r.rc.Set(ctx, r.getPosterKey(videoID), url, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set poster: %w", err)
	}

	return nil
}
