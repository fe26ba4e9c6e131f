package youtube

import (
	"context"
	"errors"
	"testing"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, opts domain.Options) (*Provider, *fakeBridge, *recorder) {
	t.Helper()
	bridge := &fakeBridge{}
	rec := &recorder{}
	p := New(provider.Deps{
		Bridge:  bridge,
		Emitter: rec,
		Store:   &stateReader{state: domain.PlayerState{Options: opts}},
	})
	t.Cleanup(p.Dispose)
	return p, bridge, rec
}

func TestLoadCuesVideo(t *testing.T) {
	ctx := context.Background()
	p, bridge, _ := newTestProvider(t, domain.Options{})

	p.Load(ctx, domain.MediaItem{ID: "m1", Src: "https://youtu.be/dQw4w9WgXcQ"})
	assert.Equal(t, []string{"listening", "cueVideoById"}, bridge.funcs())

	msg := bridge.commands[1].Message.(map[string]any)
	assert.Equal(t, []any{"dQw4w9WgXcQ"}, msg["args"])
	assert.Equal(t, provider.TargetYouTube, bridge.commands[1].Target)
	assert.Equal(t, "dQw4w9WgXcQ", p.handler.videoID())
}

func TestLoadWithAutoplay(t *testing.T) {
	p, bridge, _ := newTestProvider(t, domain.Options{Autoplay: true})

	p.Load(context.Background(), domain.MediaItem{ID: "m1", Src: "dQw4w9WgXcQ"})
	assert.Equal(t, []string{"listening", "loadVideoById"}, bridge.funcs())
}

func TestLoadRejectsForeignSource(t *testing.T) {
	p, bridge, rec := newTestProvider(t, domain.Options{})

	p.Load(context.Background(), domain.MediaItem{ID: "m1", Src: "https://cdn.example/song.mp3"})
	assert.Empty(t, bridge.funcs())
	assert.Equal(t, 1, rec.count(event.Error))
}

func TestCommandsIgnoredUntilReady(t *testing.T) {
	ctx := context.Background()
	p, bridge, _ := newTestProvider(t, domain.Options{})

	p.Play(ctx)
	p.Pause(ctx)
	p.Seek(ctx, 10)
	p.SetVolume(ctx, 20)
	p.SetMuted(ctx, true)
	assert.Empty(t, bridge.funcs())
	assert.False(t, p.State().ProviderReady)

	p.Handle(ctx, provider.Inbound{Origin: "https://www.youtube.com", Data: []byte(`{"info":{"playerState":5}}`)})
	require.True(t, p.State().ProviderReady)

	p.Play(ctx)
	p.Pause(ctx)
	p.Seek(ctx, 10)
	p.SetVolume(ctx, 20)
	p.SetMuted(ctx, true)
	p.SetMuted(ctx, false)
	p.ToggleFullscreen(ctx)
	assert.Equal(t, []string{"playVideo", "pauseVideo", "seekTo", "setVolume", "mute", "unMute", "host.toggleFullscreen"}, bridge.funcs())
}

func TestReadinessSurvivesReload(t *testing.T) {
	ctx := context.Background()
	p, bridge, rec := newTestProvider(t, domain.Options{})

	p.Load(ctx, domain.MediaItem{ID: "m1", Src: "aaaaaaaaaaa"})
	p.Handle(ctx, provider.Inbound{Data: []byte(`{"info":{"playerState":5}}`)})
	p.Load(ctx, domain.MediaItem{ID: "m2", Src: "bbbbbbbbbbb"})
	p.Handle(ctx, provider.Inbound{Data: []byte(`{"info":{"playerState":5}}`)})

	assert.Equal(t, 1, rec.count(event.ProviderReady))
	assert.True(t, p.State().ProviderReady)
	assert.Contains(t, bridge.funcs(), "cueVideoById")
}

func TestBridgeFailureBecomesErrorEvent(t *testing.T) {
	p, bridge, rec := newTestProvider(t, domain.Options{})
	bridge.err = errors.New("socket closed")

	require.NotPanics(t, func() {
		p.Load(context.Background(), domain.MediaItem{ID: "m1", Src: "dQw4w9WgXcQ"})
	})

	require.Equal(t, 2, rec.count(event.Error))
	payload := rec.last(event.Error).(event.ErrorPayload)
	assert.Equal(t, "socket closed", payload.SourceEvent)
}
