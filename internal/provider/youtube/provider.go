// Package youtube drives an embedded YouTube iframe through the bridge and
// turns its infoDelivery messages into canonical player events.
package youtube

import (
	"context"
	"time"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/provider"
)

// DefaultOrigins are the origins the iframe posts from.
var DefaultOrigins = []string{
	"https://www.youtube.com",
	"https://www.youtube-nocookie.com",
}

type Provider struct {
	deps    provider.Deps
	handler *Handler
}

func New(deps provider.Deps) *Provider {
	deps = deps.WithDefaults()

	return &Provider{
		deps:    deps,
		handler: NewHandler(deps),
	}
}

func (p *Provider) Name() string {
	return domain.ProviderYouTube
}

// Load subscribes to infoDelivery and cues (or, with autoplay, loads) the
// item's video.
func (p *Provider) Load(ctx context.Context, item domain.MediaItem) {
	videoID, ok := domain.YouTubeVideoID(item.Src)
	if !ok {
		p.deps.Emitter.Emit(event.Error, event.ErrorPayload{
			Message:     "not a youtube source",
			SourceEvent: item.Src,
		})
		return
	}

	p.handler.reset(videoID)

	p.post(ctx, map[string]any{"event": "listening", "id": item.ID, "channel": "widget"})

	fn := "cueVideoById"
	if p.deps.Store.GetState().Options.Autoplay {
		fn = "loadVideoById"
	}
	p.command(ctx, fn, videoID)
}

func (p *Provider) Handle(ctx context.Context, in provider.Inbound) {
	p.handler.HandleMessage(ctx, in)
}

func (p *Provider) Play(ctx context.Context) {
	if p.ready(ctx, "playVideo") {
		p.command(ctx, "playVideo")
	}
}

func (p *Provider) Pause(ctx context.Context) {
	if p.ready(ctx, "pauseVideo") {
		p.command(ctx, "pauseVideo")
	}
}

func (p *Provider) Seek(ctx context.Context, t float64) {
	if p.ready(ctx, "seekTo") {
		p.command(ctx, "seekTo", t, true)
	}
}

func (p *Provider) SetVolume(ctx context.Context, volume int) {
	if p.ready(ctx, "setVolume") {
		p.command(ctx, "setVolume", volume)
	}
}

func (p *Provider) SetMuted(ctx context.Context, muted bool) {
	if !p.ready(ctx, "mute") {
		return
	}

	if muted {
		p.command(ctx, "mute")
	} else {
		p.command(ctx, "unMute")
	}
}

func (p *Provider) ToggleFullscreen(ctx context.Context) {
	provider.ToggleFullscreen(ctx, p.deps)
}

func (p *Provider) CurrentTime() float64 {
	return p.handler.currentTime()
}

func (p *Provider) State() provider.State {
	return p.handler.state()
}

func (p *Provider) Dispose() {
	p.handler.dispose()
}

func (p *Provider) ready(ctx context.Context, fn string) bool {
	if p.handler.state().ProviderReady {
		return true
	}

	p.deps.Logger.DebugContext(ctx, "youtube command before ready ignored", "func", fn)
	return false
}

func (p *Provider) command(ctx context.Context, fn string, args ...any) {
	if args == nil {
		args = []any{}
	}

	p.post(ctx, map[string]any{"event": "command", "func": fn, "args": args})
}

func (p *Provider) post(ctx context.Context, msg any) {
	provider.Send(ctx, p.deps, provider.Command{Target: provider.TargetYouTube, Message: msg})
}

func unixSeconds(now func() time.Time) float64 {
	return float64(now().UnixMilli()) / 1000
}
