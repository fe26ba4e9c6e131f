package youtube

import (
	"github.com/sharetube/playback/internal/event"
)

// PlayerState is the numeric state reported by the iframe API.
type PlayerState int

const (
	Unstarted PlayerState = -1
	Ended     PlayerState = 0
	Playing   PlayerState = 1
	Paused    PlayerState = 2
	Buffering PlayerState = 3
	Cued      PlayerState = 5
)

func (s PlayerState) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Ended:
		return "ended"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Cued:
		return "cued"
	default:
		return "unknown"
	}
}

// transition is what a reported state triggers on the bus.
type transition struct {
	finalize bool
	emit     event.Name
}

var transitions = map[PlayerState]transition{
	Playing: {finalize: true, emit: event.Play},
	Paused:  {emit: event.Pause},
	Cued:    {finalize: true, emit: event.Cued},
	Ended:   {emit: event.PlaybackEnd},
}

// lifecycle lists the expected next phases. Buffering is not a phase: it is
// tracked as a flag next to whichever phase is current.
var lifecycle = map[PlayerState][]PlayerState{
	Unstarted: {Cued, Playing},
	Cued:      {Playing, Unstarted},
	Playing:   {Paused, Ended, Unstarted},
	Paused:    {Playing, Ended, Unstarted},
	Ended:     {Playing, Cued, Unstarted},
}

func expected(from, to PlayerState) bool {
	if from == to {
		return true
	}

	for _, next := range lifecycle[from] {
		if next == to {
			return true
		}
	}

	return false
}
