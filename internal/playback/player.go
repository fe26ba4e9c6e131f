// Package playback is the public control surface of a player: it owns the
// active provider, forwards commands to it and folds canonical events back
// into the shared store.
package playback

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/orientation"
	"github.com/sharetube/playback/internal/provider"
	"github.com/sharetube/playback/internal/provider/html"
	"github.com/sharetube/playback/internal/provider/youtube"
	"github.com/sharetube/playback/internal/store"
)

const DefaultClickDelay = 300 * time.Millisecond

type ProviderFactory func(name string, deps provider.Deps) provider.Provider

// NewProvider builds the adapter registered under name.
func NewProvider(name string, deps provider.Deps) provider.Provider {
	switch name {
	case domain.ProviderYouTube:
		return youtube.New(deps)
	default:
		return html.New(deps)
	}
}

type Config struct {
	// Deps is the template handed to every provider. Emitter and Store are
	// filled in by New.
	Deps        provider.Deps
	NewProvider ProviderFactory
	Platform    orientation.Platform
	ClickDelay  time.Duration
	Shuffle     func(n int, swap func(i, j int))
	Logger      *slog.Logger
}

type Player struct {
	store       *store.Store
	deps        provider.Deps
	newProvider ProviderFactory
	locker      *orientation.Locker
	clickDelay  time.Duration
	shuffle     func(n int, swap func(i, j int))
	logger      *slog.Logger

	mu       sync.Mutex
	provider provider.Provider

	clickMu    sync.Mutex
	clicks     int
	clickTimer *time.Timer

	unsubscribe func()
}

func New(st *store.Store, cfg Config) *Player {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.NewProvider == nil {
		cfg.NewProvider = NewProvider
	}
	if cfg.ClickDelay <= 0 {
		cfg.ClickDelay = DefaultClickDelay
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = rand.Shuffle
	}

	deps := cfg.Deps
	deps.Emitter = st
	deps.Store = st
	if deps.Logger == nil {
		deps.Logger = cfg.Logger
	}

	p := &Player{
		store:       st,
		deps:        deps,
		newProvider: cfg.NewProvider,
		locker:      orientation.NewLocker(cfg.Platform, cfg.Logger),
		clickDelay:  cfg.ClickDelay,
		shuffle:     cfg.Shuffle,
		logger:      cfg.Logger,
	}
	p.unsubscribe = p.subscribeReducer()

	return p
}

func (p *Player) Store() *store.Store {
	return p.store
}

func (p *Player) State() domain.PlayerState {
	return p.store.GetState()
}

// Cue loads item into the matching provider. Switching to another provider
// disposes the old one together with its internal state.
func (p *Player) Cue(ctx context.Context, item domain.MediaItem) {
	name := item.ProviderName()

	p.mu.Lock()
	old := p.provider
	switched := old == nil || old.Name() != name
	if switched {
		p.provider = p.newProvider(name, p.deps)
	}
	current := p.provider
	p.mu.Unlock()

	if switched && old != nil {
		old.Dispose()
	}

	var duration float64
	if item.Duration != nil {
		duration = *item.Duration
	}
	var posterURL string
	if item.Poster != nil {
		posterURL = *item.Poster
	}

	patch := domain.StatePatch{
		ProviderName:    domain.Ptr(name),
		CuedMedia:       domain.Ptr(&item),
		IsPlaying:       domain.Ptr(false),
		IsBuffering:     domain.Ptr(false),
		PlaybackStarted: domain.Ptr(false),
		CurrentTime:     domain.Ptr(0.0),
		Duration:        domain.Ptr(duration),
		Buffered:        domain.Ptr(0.0),
		PlaybackRate:    domain.Ptr(float64(domain.DefaultPlaybackRate)),
		PosterURL:       domain.Ptr(posterURL),
	}
	if switched {
		patch.ProviderReady = domain.Ptr(false)
	}
	p.store.SetState(patch)

	p.logger.DebugContext(ctx, "media cued", "media_id", item.ID, "provider", name, "switched", switched)
	current.Load(ctx, item)
}

// Handle routes a raw backend signal to the active provider.
func (p *Player) Handle(ctx context.Context, in provider.Inbound) {
	if current := p.current(); current != nil {
		current.Handle(ctx, in)
	}
}

func (p *Player) Play(ctx context.Context) {
	if current, ok := p.ready(ctx, "play"); ok {
		current.Play(ctx)
	}
}

func (p *Player) Pause(ctx context.Context) {
	if current, ok := p.ready(ctx, "pause"); ok {
		current.Pause(ctx)
	}
}

func (p *Player) TogglePlay(ctx context.Context) {
	if p.store.GetState().IsPlaying {
		p.Pause(ctx)
	} else {
		p.Play(ctx)
	}
}

// Seek clamps t to the media duration when it is known.
func (p *Player) Seek(ctx context.Context, t float64) {
	current, ok := p.ready(ctx, "seek")
	if !ok {
		return
	}

	st := p.store.GetState()
	if t < 0 {
		t = 0
	}
	if st.Duration > 0 && t > st.Duration {
		t = st.Duration
	}

	current.Seek(ctx, t)
	p.store.SetState(domain.StatePatch{CurrentTime: domain.Ptr(t)})
}

// SeekStart marks the start of a seekbar drag. Progress events are held back
// until SeekEnd so the bar does not fight the user.
func (p *Player) SeekStart() {
	p.store.SetState(domain.StatePatch{IsSeeking: domain.Ptr(true)})
}

func (p *Player) SeekEnd(ctx context.Context, t float64) {
	p.store.SetState(domain.StatePatch{IsSeeking: domain.Ptr(false)})
	p.Seek(ctx, t)
}

// SetVolume stores the volume even when no provider is ready; it is applied
// on the next providerReady.
func (p *Player) SetVolume(ctx context.Context, volume int) {
	volume = min(max(volume, 0), 100)

	p.store.SetState(domain.StatePatch{Volume: domain.Ptr(volume)})
	st := p.store.GetState()
	p.store.Emit(event.VolumeChange, event.VolumeChangePayload{Volume: st.Volume, Muted: st.Muted})

	if current, ok := p.ready(ctx, "setVolume"); ok {
		current.SetVolume(ctx, volume)
	}
}

func (p *Player) SetMuted(ctx context.Context, muted bool) {
	p.store.SetState(domain.StatePatch{Muted: domain.Ptr(muted)})
	st := p.store.GetState()
	p.store.Emit(event.VolumeChange, event.VolumeChangePayload{Volume: st.Volume, Muted: st.Muted})

	if current, ok := p.ready(ctx, "setMuted"); ok {
		current.SetMuted(ctx, muted)
	}
}

func (p *Player) ToggleFullscreen(ctx context.Context) {
	if current, ok := p.ready(ctx, "toggleFullscreen"); ok {
		current.ToggleFullscreen(ctx)
	}
}

// SetFullscreen records a fullscreen change reported by the host surface.
func (p *Player) SetFullscreen(isFullscreen bool) {
	if p.store.GetState().IsFullscreen == isFullscreen {
		return
	}

	p.store.Emit(event.FullscreenChange, event.FullscreenChangePayload{IsFullscreen: isFullscreen})
}

func (p *Player) SetOptions(opts domain.Options) {
	p.store.SetState(domain.StatePatch{Options: domain.Ptr(opts)})
}

// CurrentTime asks the provider, which may interpolate between reports.
func (p *Player) CurrentTime() float64 {
	if current := p.current(); current != nil {
		return current.CurrentTime()
	}

	return p.store.GetState().CurrentTime
}

func (p *Player) Close(ctx context.Context) {
	p.clickMu.Lock()
	if p.clickTimer != nil {
		p.clickTimer.Stop()
		p.clickTimer = nil
	}
	p.clicks = 0
	p.clickMu.Unlock()

	p.unsubscribe()
	p.locker.Unlock(ctx)

	p.mu.Lock()
	current := p.provider
	p.provider = nil
	p.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}

func (p *Player) current() provider.Provider {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.provider
}

// ready returns the active provider when it can accept commands. Anything
// issued earlier is dropped.
func (p *Player) ready(ctx context.Context, command string) (provider.Provider, bool) {
	current := p.current()
	if current == nil || !p.store.GetState().ProviderReady {
		p.logger.DebugContext(ctx, "command before provider ready ignored", "command", command)
		return nil, false
	}

	return current, true
}
