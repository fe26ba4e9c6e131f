// Package provider defines the surface every playback backend exposes to the
// orchestrator. Backends live in the html and youtube subpackages.
package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
	"golang.org/x/exp/slices"
)

const (
	TargetMedia   = "media"
	TargetYouTube = "youtube"
	TargetHost    = "host"
	TargetScreen  = "screen"
)

// Command is what the core asks the browser bridge to perform. Message is
// forwarded verbatim to an embedded iframe; Method/Args are invoked on the
// target object.
type Command struct {
	Target  string `json:"target"`
	Method  string `json:"method,omitempty"`
	Args    []any  `json:"args,omitempty"`
	Message any    `json:"message,omitempty"`
}

// Inbound is a raw backend signal relayed by the bridge: a postMessage
// payload for iframe providers, a DOM media event for the html provider.
type Inbound struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

type Bridge interface {
	Send(ctx context.Context, cmd Command) error
}

type Emitter interface {
	Emit(name event.Name, payload any)
}

type StateReader interface {
	GetState() domain.PlayerState
}

type PosterResolver interface {
	Resolve(ctx context.Context, videoID string) (string, bool)
}

type State struct {
	IsPlaying     bool `json:"is_playing"`
	ProviderReady bool `json:"provider_ready"`
}

// Provider is implemented by every playback backend. None of the methods
// return errors: failures are reported as an event.Error emission.
type Provider interface {
	Name() string
	Load(ctx context.Context, item domain.MediaItem)
	Handle(ctx context.Context, in Inbound)
	Play(ctx context.Context)
	Pause(ctx context.Context)
	Seek(ctx context.Context, t float64)
	SetVolume(ctx context.Context, volume int)
	SetMuted(ctx context.Context, muted bool)
	ToggleFullscreen(ctx context.Context)
	CurrentTime() float64
	State() State
	Dispose()
}

type Deps struct {
	Bridge         Bridge
	Emitter        Emitter
	Store          StateReader
	Posters        PosterResolver
	Logger         *slog.Logger
	Now            func() time.Time
	AllowedOrigins []string
}

// WithDefaults fills the optional fields.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}

	return d
}

// Send posts cmd and turns a transport failure into an error event.
func Send(ctx context.Context, d Deps, cmd Command) {
	if err := d.Bridge.Send(ctx, cmd); err != nil {
		d.Logger.WarnContext(ctx, "failed to send command", "target", cmd.Target, "method", cmd.Method, "error", err)
		d.Emitter.Emit(event.Error, event.ErrorPayload{
			Message:     "failed to send command",
			SourceEvent: err.Error(),
		})
	}
}

// ToggleFullscreen asks the host surface to enter or leave fullscreen. The
// iframe and media element cannot do it themselves.
func ToggleFullscreen(ctx context.Context, d Deps) {
	Send(ctx, d, Command{Target: TargetHost, Method: "toggleFullscreen"})
}

// OriginAllowed reports whether origin is in allowed. An empty list allows all.
func OriginAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}

	return slices.Contains(allowed, origin)
}
