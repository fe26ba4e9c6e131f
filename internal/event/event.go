// Package event holds the canonical player event catalogue. Every provider
// translates its native signals into these names and payloads, and UI
// consumers rely on both staying stable.
package event

type Name string

const (
	Play                      Name = "play"
	Pause                     Name = "pause"
	Error                     Name = "error"
	Buffering                 Name = "buffering"
	Buffered                  Name = "buffered"
	Progress                  Name = "progress"
	PlaybackRateChange        Name = "playbackRateChange"
	PlaybackRates             Name = "playbackRates"
	PlaybackQualityChange     Name = "playbackQualityChange"
	PlaybackQualities         Name = "playbackQualities"
	TextTracks                Name = "textTracks"
	CurrentTextTrackChange    Name = "currentTextTrackChange"
	TextTrackVisibilityChange Name = "textTrackVisibilityChange"
	DurationChange            Name = "durationChange"
	StreamTypeChange          Name = "streamTypeChange"
	PosterLoaded              Name = "posterLoaded"
	Seek                      Name = "seek"
	PlaybackEnd               Name = "playbackEnd"
	Cued                      Name = "cued"
	ProviderReady             Name = "providerReady"
	YoutubeStateChange        Name = "youtubeStateChange"
	FullscreenChange          Name = "fullscreenChange"
	VolumeChange              Name = "volumeChange"
)

// Names lists the whole catalogue in declaration order.
var Names = []Name{
	Play, Pause, Error, Buffering, Buffered, Progress, PlaybackRateChange,
	PlaybackRates, PlaybackQualityChange, PlaybackQualities, TextTracks,
	CurrentTextTrackChange, TextTrackVisibilityChange, DurationChange,
	StreamTypeChange, PosterLoaded, Seek, PlaybackEnd, Cued, ProviderReady,
	YoutubeStateChange, FullscreenChange, VolumeChange,
}

// Event is a named payload as it travels over the bus and the wire.
type Event struct {
	Name    Name `json:"name"`
	Payload any  `json:"payload"`
}

type PlayPayload struct{}

type PausePayload struct{}

// ErrorPayload carries whatever the backend reported. SourceEvent is opaque
// to the core and forwarded as is.
type ErrorPayload struct {
	Code        int    `json:"code,omitempty"`
	VideoID     string `json:"videoId,omitempty"`
	Message     string `json:"message,omitempty"`
	SourceEvent any    `json:"sourceEvent,omitempty"`
}

type BufferingPayload struct {
	IsBuffering bool `json:"isBuffering"`
}

type BufferedPayload struct {
	Buffered float64 `json:"buffered"`
}

type ProgressPayload struct {
	CurrentTime float64 `json:"currentTime"`
}

type PlaybackRateChangePayload struct {
	Rate float64 `json:"rate"`
}

type PlaybackRatesPayload struct {
	Rates []float64 `json:"rates"`
}

type PlaybackQualityChangePayload struct {
	Quality string `json:"quality"`
}

type PlaybackQualitiesPayload struct {
	Qualities []string `json:"qualities"`
}

type TextTrack struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Language string `json:"language"`
	Kind     string `json:"kind"`
}

type TextTracksPayload struct {
	Tracks []TextTrack `json:"tracks"`
}

type CurrentTextTrackChangePayload struct {
	TrackID string `json:"trackId"`
}

type TextTrackVisibilityChangePayload struct {
	IsVisible bool `json:"isVisible"`
}

type DurationChangePayload struct {
	Duration float64 `json:"duration"`
}

type StreamTypeChangePayload struct {
	StreamType string `json:"streamType"`
}

// PosterLoadedPayload names the video the poster was resolved for so late
// results can be matched against the cued media.
type PosterLoadedPayload struct {
	URL     string `json:"url"`
	VideoID string `json:"videoId,omitempty"`
}

type SeekPayload struct {
	Time float64 `json:"time"`
}

type PlaybackEndPayload struct{}

type CuedPayload struct {
	MediaID string `json:"mediaId"`
}

type ProviderReadyPayload struct {
	Provider string `json:"provider"`
}

type YoutubeStateChangePayload struct {
	State int `json:"state"`
}

type FullscreenChangePayload struct {
	IsFullscreen bool `json:"isFullscreen"`
}

type VolumeChangePayload struct {
	Volume int  `json:"volume"`
	Muted  bool `json:"muted"`
}
