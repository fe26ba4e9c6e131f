package player

import "github.com/sharetube/playback/internal/domain"

// Snapshot is what survives a reconnect: user preferences and the queue,
// never transient playback state.
type Snapshot struct {
	Volume          int    `redis:"volume"`
	Muted           bool   `redis:"muted"`
	Autoplay        bool   `redis:"autoplay"`
	AutoAdvance     bool   `redis:"auto_advance"`
	LockOrientation bool   `redis:"lock_orientation"`
	Orientation     string `redis:"orientation"`
	Shuffle         bool   `redis:"shuffle"`
	QueueIndex      int    `redis:"queue_index"`
	UpdatedAt       int64  `redis:"updated_at"`
}

type CreatePlayerParams struct {
	PlayerID  string
	Snapshot  Snapshot
	UpdatedAt int64
}

// UpdatePlayerParams only writes the non-nil fields.
type UpdatePlayerParams struct {
	PlayerID        string
	Volume          *int
	Muted           *bool
	Autoplay        *bool
	AutoAdvance     *bool
	LockOrientation *bool
	Orientation     *string
	Shuffle         *bool
	QueueIndex      *int
	UpdatedAt       int64
}

type SetQueueParams struct {
	PlayerID string
	Queue    []domain.MediaItem
}
