package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosterCache(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rc.Close()

	r := NewRepo(rc, time.Minute)
	ctx := context.Background()

	_, ok, err := r.GetPoster(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, ok)

	url := "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	require.NoError(t, r.SetPoster(ctx, "dQw4w9WgXcQ", url))

	got, ok, err := r.GetPoster(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, url, got)

	s.FastForward(2 * time.Minute)
	_, ok, err = r.GetPoster(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, ok)
}
