package playback

import (
	"context"

	"github.com/sharetube/playback/internal/domain"
	"golang.org/x/exp/slices"
)

// SetQueue replaces the queue and cues the item at start. A start outside
// the queue only stores it.
func (p *Player) SetQueue(ctx context.Context, items []domain.MediaItem, start int) {
	queue := slices.Clone(items)
	shuffled := p.shuffled(queue, start)

	index := -1
	if start >= 0 && start < len(queue) {
		index = start
	}

	st := p.store.GetState()
	if st.Shuffle && index >= 0 {
		// the shuffled order puts the start item first
		index = 0
	}

	p.store.SetState(domain.StatePatch{
		Queue:         domain.Ptr(queue),
		ShuffledQueue: domain.Ptr(shuffled),
		QueueIndex:    domain.Ptr(index),
	})

	if index < 0 {
		return
	}
	if st.Shuffle {
		p.Cue(ctx, shuffled[index])
	} else {
		p.Cue(ctx, queue[index])
	}
}

// Enqueue appends items to both orders.
func (p *Player) Enqueue(items ...domain.MediaItem) {
	if len(items) == 0 {
		return
	}

	p.store.Update(func(st domain.PlayerState) domain.StatePatch {
		queue := append(slices.Clone(st.Queue), items...)
		shuffled := append(slices.Clone(st.ShuffledQueue), items...)

		return domain.StatePatch{
			Queue:         domain.Ptr(queue),
			ShuffledQueue: domain.Ptr(shuffled),
		}
	})
}

// Next cues the following item of the active queue. It reports false at the
// end of the queue.
func (p *Player) Next(ctx context.Context) bool {
	return p.step(ctx, 1)
}

func (p *Player) Previous(ctx context.Context) bool {
	return p.step(ctx, -1)
}

// Select cues the queued item with the given id.
func (p *Player) Select(ctx context.Context, mediaID string) bool {
	st := p.store.GetState()
	active := st.ActiveQueue()

	index := slices.IndexFunc(active, func(item domain.MediaItem) bool {
		return item.ID == mediaID
	})
	if index < 0 {
		return false
	}

	p.store.SetState(domain.StatePatch{QueueIndex: domain.Ptr(index)})
	p.Cue(ctx, active[index])

	return true
}

// SetShuffle switches between queue orders. Turning shuffle on reshuffles
// with the current item first so playback continues where it is.
func (p *Player) SetShuffle(shuffle bool) {
	st := p.store.GetState()
	if st.Shuffle == shuffle {
		return
	}

	current := -1
	if st.QueueIndex >= 0 && st.QueueIndex < len(st.ActiveQueue()) {
		currentID := st.ActiveQueue()[st.QueueIndex].ID
		current = slices.IndexFunc(st.Queue, func(item domain.MediaItem) bool {
			return item.ID == currentID
		})
	}

	patch := domain.StatePatch{Shuffle: domain.Ptr(shuffle)}
	if shuffle {
		shuffled := p.shuffled(st.Queue, current)
		patch.ShuffledQueue = domain.Ptr(shuffled)
		if current >= 0 {
			patch.QueueIndex = domain.Ptr(0)
		}
	} else {
		patch.QueueIndex = domain.Ptr(current)
	}

	p.store.SetState(patch)
}

func (p *Player) step(ctx context.Context, delta int) bool {
	st := p.store.GetState()
	active := st.ActiveQueue()

	index := st.QueueIndex + delta
	if index < 0 || index >= len(active) {
		return false
	}

	p.store.SetState(domain.StatePatch{QueueIndex: domain.Ptr(index)})
	p.Cue(ctx, active[index])

	return true
}

// shuffled returns a shuffled copy of queue. The item at first, when valid,
// is moved to the front.
func (p *Player) shuffled(queue []domain.MediaItem, first int) []domain.MediaItem {
	out := slices.Clone(queue)
	if first >= 0 && first < len(out) {
		out[0], out[first] = out[first], out[0]
		rest := out[1:]
		p.shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		return out
	}

	p.shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	return out
}
