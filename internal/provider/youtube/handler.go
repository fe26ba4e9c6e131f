package youtube

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/provider"
)

// internalState mirrors the last raw values the iframe reported. It is only
// used to decide whether a canonical event has to fire.
type internalState struct {
	videoID         string
	duration        float64
	currentTime     float64
	lastTimeUpdate  float64
	playbackRate    float64
	loadedFraction  float64
	state           PlayerState
	phase           PlayerState
	buffering       bool
	playbackReady   bool
	posterRequested bool
}

func newInternalState() internalState {
	return internalState{
		playbackRate: domain.DefaultPlaybackRate,
		state:        Unstarted,
		phase:        Unstarted,
	}
}

// Handler reconciles iframe infoDelivery messages with the internal state and
// emits canonical events. Messages are processed one at a time, in the order
// they are handed in.
type Handler struct {
	deps provider.Deps

	mu       sync.Mutex
	st       internalState
	disposed bool
	pending  []event.Event

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHandler(deps provider.Deps) *Handler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Handler{
		deps:   deps.WithDefaults(),
		st:     newInternalState(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// HandleMessage processes one relayed postMessage payload. Payloads from
// other origins, non-JSON data and messages without an info object are
// dropped without an error: the channel is shared with other widgets.
func (h *Handler) HandleMessage(ctx context.Context, in provider.Inbound) {
	if !provider.OriginAllowed(h.deps.AllowedOrigins, in.Origin) {
		h.deps.Logger.DebugContext(ctx, "youtube message from foreign origin dropped", "origin", in.Origin)
		return
	}

	info, err := decodeMessage(in.Data)
	if err != nil {
		if !errors.Is(err, ErrNotJSON) && !errors.Is(err, ErrNoInfo) {
			h.deps.Logger.DebugContext(ctx, "youtube message dropped", "error", err)
		}
		return
	}

	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.apply(ctx, info)
	h.flush()
}

func (h *Handler) apply(ctx context.Context, info *Info) {
	if info.Duration != nil && *info.Duration != h.st.duration {
		h.st.duration = *info.Duration
		h.emit(event.DurationChange, event.DurationChangePayload{Duration: h.st.duration})
	}

	if info.CurrentTime != nil {
		// currentTimeLastUpdated is stamped with the browser clock, so the
		// interpolation base uses the local receive time instead.
		h.st.lastTimeUpdate = unixSeconds(h.deps.Now)

		if *info.CurrentTime != h.st.currentTime {
			h.st.currentTime = *info.CurrentTime
			if !h.deps.Store.GetState().IsSeeking {
				h.emit(event.Progress, event.ProgressPayload{CurrentTime: h.st.currentTime})
			}
		}
	}

	if info.PlaybackRate != nil && *info.PlaybackRate != h.st.playbackRate {
		h.st.playbackRate = *info.PlaybackRate
		h.emit(event.PlaybackRateChange, event.PlaybackRateChangePayload{Rate: h.st.playbackRate})
	}

	if info.VideoLoadedFraction != nil && *info.VideoLoadedFraction != h.st.loadedFraction {
		h.st.loadedFraction = *info.VideoLoadedFraction
		h.emit(event.Buffered, event.BufferedPayload{Buffered: h.st.loadedFraction * h.st.duration})
	}

	if info.VideoData != nil {
		if info.VideoData.VideoID != nil && *info.VideoData.VideoID != h.st.videoID {
			h.st.videoID = *info.VideoData.VideoID
			h.st.posterRequested = false
		}

		if info.VideoData.ErrorCode != nil {
			h.emit(event.Error, event.ErrorPayload{
				Code:    *info.VideoData.ErrorCode,
				VideoID: h.st.videoID,
			})
		}
	}

	if info.HasPlaybackRates {
		h.emit(event.PlaybackRates, event.PlaybackRatesPayload{Rates: info.AvailablePlaybackRates})
	}

	if info.PlayerState != nil {
		next := PlayerState(*info.PlayerState)

		h.emit(event.YoutubeStateChange, event.YoutubeStateChangePayload{State: int(next)})
		h.st.buffering = next == Buffering
		h.emit(event.Buffering, event.BufferingPayload{IsBuffering: h.st.buffering})

		h.transition(ctx, h.st.state, next)
		h.st.state = next
	}
}

// transition runs before the new state is stored so prev is still the last
// committed value.
func (h *Handler) transition(ctx context.Context, prev, next PlayerState) {
	if next != Buffering {
		if !expected(h.st.phase, next) {
			h.deps.Logger.DebugContext(ctx, "unexpected youtube transition", "from", h.st.phase, "to", next, "raw_prev", prev)
		}
		if _, known := transitions[next]; known || next == Unstarted {
			h.st.phase = next
		}
	}

	t, ok := transitions[next]
	if !ok {
		return
	}

	if t.finalize {
		h.finalizeCued(ctx)
	}

	switch t.emit {
	case event.Play:
		h.emit(event.Play, event.PlayPayload{})
	case event.Pause:
		h.emit(event.Pause, event.PausePayload{})
	case event.Cued:
		h.emit(event.Cued, event.CuedPayload{MediaID: h.st.videoID})
	case event.PlaybackEnd:
		h.emit(event.PlaybackEnd, event.PlaybackEndPayload{})
	}
}

// finalizeCued is safe to call any number of times. Autoplay goes straight to
// Playing without a Cued report, so both paths call it and providerReady
// still fires exactly once per provider instance.
func (h *Handler) finalizeCued(ctx context.Context) {
	if h.st.videoID != "" && !h.st.posterRequested && h.deps.Posters != nil && h.deps.Store.GetState().PosterURL == "" {
		h.st.posterRequested = true
		go h.resolvePoster(h.st.videoID)
	}

	if !h.st.playbackReady {
		h.st.playbackReady = true
		h.emit(event.ProviderReady, event.ProviderReadyPayload{Provider: domain.ProviderYouTube})
	}
}

func (h *Handler) resolvePoster(videoID string) {
	url, ok := h.deps.Posters.Resolve(h.ctx, videoID)
	if !ok {
		return
	}

	h.mu.Lock()
	// the video may have changed while the probe was in flight
	if h.disposed || h.st.videoID != videoID {
		h.mu.Unlock()
		h.deps.Logger.Debug("stale poster dropped", "video_id", videoID)
		return
	}
	h.emit(event.PosterLoaded, event.PosterLoadedPayload{URL: url, VideoID: videoID})
	h.flush()
}

// reset forgets everything tied to the previous video. playbackReady is kept:
// readiness is reported once per provider instance.
func (h *Handler) reset(videoID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ready := h.st.playbackReady
	h.st = newInternalState()
	h.st.playbackReady = ready
	h.st.videoID = videoID
}

func (h *Handler) currentTime() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := h.st.currentTime
	if h.st.phase == Playing && !h.st.buffering && h.st.lastTimeUpdate > 0 {
		elapsed := unixSeconds(h.deps.Now) - h.st.lastTimeUpdate
		if elapsed > 0 {
			t += elapsed * h.st.playbackRate
		}
	}

	if h.st.duration > 0 {
		t = math.Min(t, h.st.duration)
	}

	return t
}

func (h *Handler) state() provider.State {
	h.mu.Lock()
	defer h.mu.Unlock()

	return provider.State{
		IsPlaying:     h.st.phase == Playing,
		ProviderReady: h.st.playbackReady,
	}
}

func (h *Handler) videoID() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.st.videoID
}

func (h *Handler) dispose() {
	h.mu.Lock()
	h.disposed = true
	h.mu.Unlock()

	h.cancel()
}

// emit queues an event. Events are delivered by flush once the lock is
// released, so listeners may call back into the provider.
func (h *Handler) emit(name event.Name, payload any) {
	h.pending = append(h.pending, event.Event{Name: name, Payload: payload})
}

// flush must be called with h.mu held; it releases it.
func (h *Handler) flush() {
	events := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, e := range events {
		h.deps.Emitter.Emit(e.Name, e.Payload)
	}
}
