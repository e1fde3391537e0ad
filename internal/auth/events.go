package auth

import (
	"sync"
)

// EventKind names a bus event.
type EventKind string

// EventAuthChanged fires after every login and logout.
const EventAuthChanged EventKind = "auth-changed"

type Event struct {
	Kind  EventKind
	State State
}

// Bus fans events out to in-process subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(Event))}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers e to every subscriber synchronously. Handlers run without
// the bus lock held, so they may subscribe or unsubscribe.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}
