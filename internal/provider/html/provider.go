// Package html adapts an HTML5 audio/video element, driven through the
// bridge, to the provider surface.
package html

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/provider"
)

// MediaEvent is a DOM media event as relayed by the bridge, with the element
// properties read at dispatch time.
type MediaEvent struct {
	Type         string          `json:"type"`
	CurrentTime  *float64        `json:"currentTime"`
	Duration     *float64        `json:"duration"`
	PlaybackRate *float64        `json:"playbackRate"`
	Buffered     *float64        `json:"buffered"`
	Error        *MediaError     `json:"error"`
	Raw          json.RawMessage `json:"-"`
}

// MediaError mirrors the element's MediaError.
type MediaError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type internalState struct {
	src           string
	mediaID       string
	duration      float64
	currentTime   float64
	playbackRate  float64
	buffered      float64
	playing       bool
	buffering     bool
	playbackReady bool
	cued          bool
}

type Provider struct {
	deps provider.Deps

	mu       sync.Mutex
	st       internalState
	disposed bool
	pending  []event.Event
}

func New(deps provider.Deps) *Provider {
	return &Provider{
		deps: deps.WithDefaults(),
		st:   internalState{playbackRate: domain.DefaultPlaybackRate},
	}
}

func (p *Provider) Name() string {
	return domain.ProviderHTML
}

func (p *Provider) Load(ctx context.Context, item domain.MediaItem) {
	p.mu.Lock()
	ready := p.st.playbackReady
	p.st = internalState{
		src:           item.Src,
		mediaID:       item.ID,
		playbackRate:  domain.DefaultPlaybackRate,
		playbackReady: ready,
	}
	p.mu.Unlock()

	args := []any{item.Src}
	if item.Poster != nil {
		args = append(args, *item.Poster)
	}
	p.send(ctx, "load", args...)

	if p.deps.Store.GetState().Options.Autoplay {
		p.send(ctx, "play")
	}
}

// Handle translates one DOM media event. Values are compared with the last
// ones seen so repeated timeupdate ticks at the same position stay silent.
func (p *Provider) Handle(ctx context.Context, in provider.Inbound) {
	var ev MediaEvent
	if err := json.Unmarshal(in.Data, &ev); err != nil || ev.Type == "" {
		p.deps.Logger.DebugContext(ctx, "media event dropped", "error", err)
		return
	}
	ev.Raw = in.Data

	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.apply(&ev)
	p.flush()
}

func (p *Provider) apply(ev *MediaEvent) {
	if ev.Duration != nil && *ev.Duration != p.st.duration && *ev.Duration >= 0 {
		p.st.duration = *ev.Duration
		p.emit(event.DurationChange, event.DurationChangePayload{Duration: p.st.duration})
	}

	if ev.CurrentTime != nil && *ev.CurrentTime != p.st.currentTime {
		p.st.currentTime = *ev.CurrentTime
		if ev.Type == "timeupdate" && !p.deps.Store.GetState().IsSeeking {
			p.emit(event.Progress, event.ProgressPayload{CurrentTime: p.st.currentTime})
		}
	}

	if ev.PlaybackRate != nil && *ev.PlaybackRate != p.st.playbackRate && *ev.PlaybackRate > 0 {
		p.st.playbackRate = *ev.PlaybackRate
		p.emit(event.PlaybackRateChange, event.PlaybackRateChangePayload{Rate: p.st.playbackRate})
	}

	if ev.Buffered != nil && *ev.Buffered != p.st.buffered {
		p.st.buffered = *ev.Buffered
		p.emit(event.Buffered, event.BufferedPayload{Buffered: p.st.buffered})
	}

	switch ev.Type {
	case "canplay", "loadeddata":
		p.finalizeCued()
	case "play":
		p.setPlaying(true)
	case "playing":
		p.setBuffering(false)
		p.finalizeCued()
		p.setPlaying(true)
	case "pause":
		p.setPlaying(false)
	case "waiting":
		p.setBuffering(true)
	case "seeked":
		p.emit(event.Seek, event.SeekPayload{Time: p.st.currentTime})
	case "ended":
		p.st.playing = false
		p.emit(event.PlaybackEnd, event.PlaybackEndPayload{})
	case "error":
		payload := event.ErrorPayload{SourceEvent: ev.Raw}
		if ev.Error != nil {
			payload.Code = ev.Error.Code
			payload.Message = ev.Error.Message
		}
		p.emit(event.Error, payload)
	}
}

// finalizeCued reports readiness once per provider instance and cued once
// per loaded item.
func (p *Provider) finalizeCued() {
	if !p.st.playbackReady {
		p.st.playbackReady = true
		p.emit(event.ProviderReady, event.ProviderReadyPayload{Provider: domain.ProviderHTML})
	}

	if !p.st.cued {
		p.st.cued = true
		p.emit(event.Cued, event.CuedPayload{MediaID: p.st.mediaID})
	}
}

func (p *Provider) setPlaying(playing bool) {
	if p.st.playing == playing {
		return
	}

	p.st.playing = playing
	if playing {
		p.emit(event.Play, event.PlayPayload{})
	} else {
		p.emit(event.Pause, event.PausePayload{})
	}
}

func (p *Provider) setBuffering(buffering bool) {
	if p.st.buffering == buffering {
		return
	}

	p.st.buffering = buffering
	p.emit(event.Buffering, event.BufferingPayload{IsBuffering: buffering})
}

func (p *Provider) Play(ctx context.Context) {
	if p.ready(ctx, "play") {
		p.send(ctx, "play")
	}
}

func (p *Provider) Pause(ctx context.Context) {
	if p.ready(ctx, "pause") {
		p.send(ctx, "pause")
	}
}

func (p *Provider) Seek(ctx context.Context, t float64) {
	if p.ready(ctx, "seek") {
		p.send(ctx, "setCurrentTime", t)
	}
}

// SetVolume converts the 0..100 scale to the element's 0..1.
func (p *Provider) SetVolume(ctx context.Context, volume int) {
	if p.ready(ctx, "setVolume") {
		p.send(ctx, "setVolume", float64(volume)/100)
	}
}

func (p *Provider) SetMuted(ctx context.Context, muted bool) {
	if p.ready(ctx, "setMuted") {
		p.send(ctx, "setMuted", muted)
	}
}

func (p *Provider) ToggleFullscreen(ctx context.Context) {
	provider.ToggleFullscreen(ctx, p.deps)
}

func (p *Provider) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.st.currentTime
}

func (p *Provider) State() provider.State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return provider.State{
		IsPlaying:     p.st.playing,
		ProviderReady: p.st.playbackReady,
	}
}

func (p *Provider) Dispose() {
	p.mu.Lock()
	p.disposed = true
	p.mu.Unlock()
}

func (p *Provider) ready(ctx context.Context, method string) bool {
	if p.State().ProviderReady {
		return true
	}

	p.deps.Logger.DebugContext(ctx, "media command before ready ignored", "method", method)
	return false
}

func (p *Provider) send(ctx context.Context, method string, args ...any) {
	provider.Send(ctx, p.deps, provider.Command{Target: provider.TargetMedia, Method: method, Args: args})
}

func (p *Provider) emit(name event.Name, payload any) {
	p.pending = append(p.pending, event.Event{Name: name, Payload: payload})
}

// flush must be called with p.mu held; it releases it.
func (p *Provider) flush() {
	events := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, e := range events {
		p.deps.Emitter.Emit(e.Name, e.Payload)
	}
}
