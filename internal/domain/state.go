package domain

const (
	DefaultVolume       = 100
	DefaultPlaybackRate = 1
)

type Options struct {
	Autoplay        bool   `json:"autoplay"`
	AutoAdvance     bool   `json:"auto_advance"`
	LockOrientation bool   `json:"lock_orientation"`
	Orientation     string `json:"orientation" validate:"omitempty,oneof=any natural landscape portrait portrait-primary portrait-secondary landscape-primary landscape-secondary"`
}

// PlayerState is the shared player snapshot every subscriber reads.
// It is only written through Store.SetState.
type PlayerState struct {
	ProviderName    string      `json:"provider_name"`
	CuedMedia       *MediaItem  `json:"cued_media"`
	IsPlaying       bool        `json:"is_playing"`
	IsSeeking       bool        `json:"is_seeking"`
	IsBuffering     bool        `json:"is_buffering"`
	IsFullscreen    bool        `json:"is_fullscreen"`
	PlaybackStarted bool        `json:"playback_started"`
	ProviderReady   bool        `json:"provider_ready"`
	Volume          int         `json:"volume"`
	Muted           bool        `json:"muted"`
	CurrentTime     float64     `json:"current_time"`
	Duration        float64     `json:"duration"`
	Buffered        float64     `json:"buffered"`
	PlaybackRate    float64     `json:"playback_rate"`
	Queue           []MediaItem `json:"queue"`
	ShuffledQueue   []MediaItem `json:"shuffled_queue"`
	Shuffle         bool        `json:"shuffle"`
	QueueIndex      int         `json:"queue_index"`
	PosterURL       string      `json:"poster_url"`
	Options         Options     `json:"options"`
}

func NewPlayerState(opts Options) PlayerState {
	return PlayerState{
		Volume:       DefaultVolume,
		PlaybackRate: DefaultPlaybackRate,
		QueueIndex:   -1,
		Options:      opts,
	}
}

// ActiveQueue is the queue in play order.
func (s PlayerState) ActiveQueue() []MediaItem {
	if s.Shuffle {
		return s.ShuffledQueue
	}

	return s.Queue
}

// StatePatch is a partial PlayerState. Nil fields are left untouched by a merge.
type StatePatch struct {
	ProviderName    *string
	CuedMedia       **MediaItem
	IsPlaying       *bool
	IsSeeking       *bool
	IsBuffering     *bool
	IsFullscreen    *bool
	PlaybackStarted *bool
	ProviderReady   *bool
	Volume          *int
	Muted           *bool
	CurrentTime     *float64
	Duration        *float64
	Buffered        *float64
	PlaybackRate    *float64
	Queue           *[]MediaItem
	ShuffledQueue   *[]MediaItem
	Shuffle         *bool
	QueueIndex      *int
	PosterURL       *string
	Options         *Options
}

// Apply shallow-merges the patch into s.
func (p StatePatch) Apply(s PlayerState) PlayerState {
	if p.ProviderName != nil {
		s.ProviderName = *p.ProviderName
	}
	if p.CuedMedia != nil {
		s.CuedMedia = *p.CuedMedia
	}
	if p.IsPlaying != nil {
		s.IsPlaying = *p.IsPlaying
	}
	if p.IsSeeking != nil {
		s.IsSeeking = *p.IsSeeking
	}
	if p.IsBuffering != nil {
		s.IsBuffering = *p.IsBuffering
	}
	if p.IsFullscreen != nil {
		s.IsFullscreen = *p.IsFullscreen
	}
	if p.PlaybackStarted != nil {
		s.PlaybackStarted = *p.PlaybackStarted
	}
	if p.ProviderReady != nil {
		s.ProviderReady = *p.ProviderReady
	}
	if p.Volume != nil {
		s.Volume = *p.Volume
	}
	if p.Muted != nil {
		s.Muted = *p.Muted
	}
	if p.CurrentTime != nil {
		s.CurrentTime = *p.CurrentTime
	}
	if p.Duration != nil {
		s.Duration = *p.Duration
	}
	if p.Buffered != nil {
		s.Buffered = *p.Buffered
	}
	if p.PlaybackRate != nil {
		s.PlaybackRate = *p.PlaybackRate
	}
	if p.Queue != nil {
		s.Queue = *p.Queue
	}
	if p.ShuffledQueue != nil {
		s.ShuffledQueue = *p.ShuffledQueue
	}
	if p.Shuffle != nil {
		s.Shuffle = *p.Shuffle
	}
	if p.QueueIndex != nil {
		s.QueueIndex = *p.QueueIndex
	}
	if p.PosterURL != nil {
		s.PosterURL = *p.PosterURL
	}
	if p.Options != nil {
		s.Options = *p.Options
	}

	return s
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
