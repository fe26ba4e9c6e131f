// Package store is the shared player state plus the canonical event bus.
package store

import (
	"sync"
	"sync/atomic"

	"github.com/sharetube/playback/internal/domain"
	"github.com/sharetube/playback/internal/event"
)

type Listener func(payload any)

// Listeners maps event names to callbacks. One Subscribe call may cover any
// number of events.
type Listeners map[event.Name]Listener

type StateListener func(prev, next domain.PlayerState)

type subscriber struct {
	listeners Listeners
	onState   StateListener
	active    atomic.Bool
}

type Store struct {
	mu    sync.RWMutex
	state domain.PlayerState

	subMu       sync.Mutex
	subscribers []*subscriber
}

func New(initial domain.PlayerState) *Store {
	return &Store{state: initial}
}

func (s *Store) GetState() domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// SetState merges patch into the state and notifies state listeners with the
// previous and merged values.
func (s *Store) SetState(patch domain.StatePatch) {
	s.mu.Lock()
	prev := s.state
	next := patch.Apply(prev)
	s.state = next
	s.mu.Unlock()

	for _, sub := range s.snapshot() {
		if sub.onState != nil && sub.active.Load() {
			sub.onState(prev, next)
		}
	}
}

// Update applies fn to the current state atomically. fn must not call back
// into the store.
func (s *Store) Update(fn func(domain.PlayerState) domain.StatePatch) {
	s.mu.Lock()
	prev := s.state
	next := fn(prev).Apply(prev)
	s.state = next
	s.mu.Unlock()

	for _, sub := range s.snapshot() {
		if sub.onState != nil && sub.active.Load() {
			sub.onState(prev, next)
		}
	}
}

func (s *Store) Subscribe(listeners Listeners) (unsubscribe func()) {
	return s.add(&subscriber{listeners: listeners})
}

func (s *Store) OnStateChange(fn StateListener) (unsubscribe func()) {
	return s.add(&subscriber{onState: fn})
}

// Emit calls every listener registered for name, synchronously and in
// subscription order. Subscribers added while an emission runs are not
// called for it.
func (s *Store) Emit(name event.Name, payload any) {
	for _, sub := range s.snapshot() {
		if !sub.active.Load() {
			continue
		}
		if l, ok := sub.listeners[name]; ok {
			l(payload)
		}
	}
}

func (s *Store) add(sub *subscriber) func() {
	sub.active.Store(true)

	s.subMu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)

			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, candidate := range s.subscribers {
				if candidate == sub {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) snapshot() []*subscriber {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	return s.subscribers[:len(s.subscribers):len(s.subscribers)]
}
