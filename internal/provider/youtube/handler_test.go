package youtube

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"github.com/sharetube/playback/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Emit(name event.Name, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.Event{Name: name, Payload: payload})
}

func (r *recorder) names() []event.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]event.Name, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	return names
}

func (r *recorder) count(name event.Name) int {
	n := 0
	for _, got := range r.names() {
		if got == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name event.Name) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i].Payload
		}
	}
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type stateReader struct {
	mu    sync.Mutex
	state domain.PlayerState
}

func (s *stateReader) GetState() domain.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stateReader) setSeeking(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsSeeking = v
}

type fakeBridge struct {
	mu       sync.Mutex
	commands []provider.Command
	err      error
}

func (b *fakeBridge) Send(_ context.Context, cmd provider.Command) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.commands = append(b.commands, cmd)
	return nil
}

func (b *fakeBridge) funcs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, c := range b.commands {
		if m, ok := c.Message.(map[string]any); ok {
			if fn, ok := m["func"].(string); ok {
				out = append(out, fn)
			} else {
				out = append(out, m["event"].(string))
			}
		} else {
			out = append(out, c.Target+"."+c.Method)
		}
	}
	return out
}

type posterFunc func(ctx context.Context, videoID string) (string, bool)

func (f posterFunc) Resolve(ctx context.Context, videoID string) (string, bool) {
	return f(ctx, videoID)
}

func newTestHandler(t *testing.T) (*Handler, *recorder, *stateReader) {
	t.Helper()
	rec := &recorder{}
	st := &stateReader{}
	h := NewHandler(provider.Deps{
		Bridge:         &fakeBridge{},
		Emitter:        rec,
		Store:          st,
		AllowedOrigins: DefaultOrigins,
	})
	t.Cleanup(h.dispose)
	return h, rec, st
}

func send(h *Handler, payload string) {
	h.HandleMessage(context.Background(), provider.Inbound{
		Origin: "https://www.youtube.com",
		Data:   json.RawMessage(payload),
	})
}

func TestProgressOnlyOnChangeAndNotWhileSeeking(t *testing.T) {
	h, rec, st := newTestHandler(t)

	send(h, `{"info":{"currentTime":1.5}}`)
	assert.Equal(t, 1, rec.count(event.Progress))

	send(h, `{"info":{"currentTime":1.5}}`)
	assert.Equal(t, 1, rec.count(event.Progress), "same value must not re-emit")

	st.setSeeking(true)
	send(h, `{"info":{"currentTime":20}}`)
	assert.Equal(t, 1, rec.count(event.Progress), "seeking suppresses progress")

	st.setSeeking(false)
	send(h, `{"info":{"currentTime":20}}`)
	assert.Equal(t, 1, rec.count(event.Progress), "value stored while seeking is the comparison base")

	send(h, `{"info":{"currentTime":21}}`)
	assert.Equal(t, 2, rec.count(event.Progress))
	assert.Equal(t, event.ProgressPayload{CurrentTime: 21}, rec.last(event.Progress))
}

func TestIdenticalMessagesAreIdempotent(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	msg := `{"info":{"duration":200,"currentTime":3,"playbackRate":1.5,"videoLoadedFraction":0.25}}`
	send(h, msg)
	first := rec.names()
	assert.ElementsMatch(t, []event.Name{event.DurationChange, event.Progress, event.PlaybackRateChange, event.Buffered}, first)

	rec.reset()
	send(h, msg)
	send(h, msg)
	assert.Empty(t, rec.names())
}

func TestBufferedIsFractionOfDuration(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `{"info":{"duration":100,"videoLoadedFraction":0.4}}`)
	assert.Equal(t, event.BufferedPayload{Buffered: 40}, rec.last(event.Buffered))
}

func TestPlayingWithoutCuedFiresProviderReadyOnce(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `{"info":{"playerState":1}}`)
	assert.Equal(t, []event.Name{
		event.YoutubeStateChange,
		event.Buffering,
		event.ProviderReady,
		event.Play,
	}, rec.names())
	assert.Equal(t, event.BufferingPayload{IsBuffering: false}, rec.last(event.Buffering))

	send(h, `{"info":{"playerState":2}}`)
	send(h, `{"info":{"playerState":1}}`)
	send(h, `{"info":{"playerState":5}}`)
	send(h, `{"info":{"playerState":1}}`)

	assert.Equal(t, 1, rec.count(event.ProviderReady))
	assert.Equal(t, 3, rec.count(event.Play))
	assert.Equal(t, 1, rec.count(event.Pause))
	assert.Equal(t, 1, rec.count(event.Cued))
}

func TestCuedThenPlaying(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `{"info":{"videoData":{"video_id":"dQw4w9WgXcQ"}}}`)
	assert.Empty(t, rec.names(), "video id alone emits nothing")

	send(h, `{"info":{"playerState":5}}`)
	assert.Equal(t, []event.Name{
		event.YoutubeStateChange,
		event.Buffering,
		event.ProviderReady,
		event.Cued,
	}, rec.names())
	assert.Equal(t, event.CuedPayload{MediaID: "dQw4w9WgXcQ"}, rec.last(event.Cued))

	rec.reset()
	send(h, `{"info":{"playerState":1}}`)
	assert.Equal(t, []event.Name{event.YoutubeStateChange, event.Buffering, event.Play}, rec.names())
}

func TestBufferingIsOrthogonal(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `{"info":{"playerState":1}}`)
	rec.reset()

	send(h, `{"info":{"playerState":3}}`)
	assert.Equal(t, []event.Name{event.YoutubeStateChange, event.Buffering}, rec.names())
	assert.Equal(t, event.BufferingPayload{IsBuffering: true}, rec.last(event.Buffering))
	assert.True(t, h.state().IsPlaying, "buffering keeps the playing phase")

	send(h, `{"info":{"playerState":0}}`)
	assert.Equal(t, 1, rec.count(event.PlaybackEnd))
	assert.False(t, h.state().IsPlaying)
}

func TestErrorCodeAndPlaybackRates(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `{"info":{"videoData":{"video_id":"abcdefghijk","errorCode":150}}}`)
	assert.Equal(t, event.ErrorPayload{Code: 150, VideoID: "abcdefghijk"}, rec.last(event.Error))

	send(h, `{"info":{"availablePlaybackRates":[0.5,1,2]}}`)
	send(h, `{"info":{"availablePlaybackRates":[0.5,1,2]}}`)
	assert.Equal(t, 2, rec.count(event.PlaybackRates), "rates are not de-duplicated")
	assert.Equal(t, event.PlaybackRatesPayload{Rates: []float64{0.5, 1, 2}}, rec.last(event.PlaybackRates))

	rec.reset()
	send(h, `{"info":{"availablePlaybackRates":"fast"}}`)
	assert.Empty(t, rec.names())
}

func TestMalformedMessagesAreDropped(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	for _, payload := range []string{
		`{}`,
		`{"event":"onReady"}`,
		`{"info":null}`,
		`"not json at all"`,
		`[1,2,3]`,
		`{"info":{"duration":-5}}`,
		`{"info":{"videoLoadedFraction":3}}`,
	} {
		send(h, payload)
	}
	assert.Empty(t, rec.names())

	h.HandleMessage(context.Background(), provider.Inbound{
		Origin: "https://evil.example",
		Data:   json.RawMessage(`{"info":{"playerState":1}}`),
	})
	assert.Empty(t, rec.names())
}

func TestStringEncodedPayloadAndWrongTypes(t *testing.T) {
	h, rec, _ := newTestHandler(t)

	send(h, `"{\"event\":\"infoDelivery\",\"info\":{\"duration\":12}}"`)
	assert.Equal(t, event.DurationChangePayload{Duration: 12}, rec.last(event.DurationChange))

	rec.reset()
	send(h, `{"info":{"playerState":"1","currentTime":"soon","duration":30}}`)
	assert.Equal(t, []event.Name{event.DurationChange}, rec.names(), "fields of the wrong type are ignored")
}

func TestPosterResolvedOnFinalization(t *testing.T) {
	rec := &recorder{}
	var calls int
	var mu sync.Mutex
	h := NewHandler(provider.Deps{
		Bridge:  &fakeBridge{},
		Emitter: rec,
		Store:   &stateReader{},
		Posters: posterFunc(func(_ context.Context, id string) (string, bool) {
			mu.Lock()
			calls++
			mu.Unlock()
			return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg", true
		}),
	})
	defer h.dispose()

	send(h, `{"info":{"videoData":{"video_id":"abcdefghijk"},"playerState":5}}`)
	send(h, `{"info":{"playerState":1}}`)

	require.Eventually(t, func() bool { return rec.count(event.PosterLoaded) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, event.PosterLoadedPayload{URL: "https://i.ytimg.com/vi/abcdefghijk/hqdefault.jpg", VideoID: "abcdefghijk"}, rec.last(event.PosterLoaded))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestStalePosterIsDropped(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	resolved := make(chan struct{})
	h := NewHandler(provider.Deps{
		Bridge:  &fakeBridge{},
		Emitter: rec,
		Store:   &stateReader{},
		Posters: posterFunc(func(_ context.Context, id string) (string, bool) {
			<-release
			defer close(resolved)
			return "poster-" + id, true
		}),
	})
	defer h.dispose()

	send(h, `{"info":{"videoData":{"video_id":"aaaaaaaaaaa"},"playerState":5}}`)
	h.reset("bbbbbbbbbbb")
	close(release)
	<-resolved

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, rec.count(event.PosterLoaded))
}

func TestCurrentTimeInterpolatesWhilePlaying(t *testing.T) {
	rec := &recorder{}
	now := time.Unix(1000, 0)
	var mu sync.Mutex
	h := NewHandler(provider.Deps{
		Bridge:  &fakeBridge{},
		Emitter: rec,
		Store:   &stateReader{},
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})
	defer h.dispose()

	send(h, `{"info":{"duration":60,"currentTime":10,"playbackRate":2,"playerState":1}}`)

	mu.Lock()
	now = now.Add(1500 * time.Millisecond)
	mu.Unlock()
	assert.InDelta(t, 13, h.currentTime(), 0.001)

	mu.Lock()
	now = now.Add(time.Minute)
	mu.Unlock()
	assert.InDelta(t, 60, h.currentTime(), 0.001, "never past the duration")

	send(h, `{"info":{"playerState":2}}`)
	assert.InDelta(t, 10, h.currentTime(), 0.001, "no interpolation while paused")
}
