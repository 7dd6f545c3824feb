package session

import (
	"context"
	"sync"

	"nearby/internal/domain/entity"
)

// Bus is the in-process Backend implementation. The auth flows publish the
// session they produce (login, refresh, logout) and the store observes it.
type Bus struct {
	mu        sync.Mutex
	current   *entity.Session
	nextSubID int
	listeners map[int]func(*entity.Session)
}

// NewBus builds an anonymous bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]func(*entity.Session))}
}

// CurrentSession returns the last published session, nil when anonymous.
func (b *Bus) CurrentSession(_ context.Context) (*entity.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.current, nil
}

// OnSessionChange registers a listener fired on every Publish. The returned
// function unregisters it; calling it more than once is harmless.
func (b *Bus) OnSessionChange(fn func(*entity.Session)) func() {
	b.mu.Lock()
	b.nextSubID++
	id := b.nextSubID
	b.listeners[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Publish records the new session state and notifies listeners. Publish(nil)
// announces logout.
func (b *Bus) Publish(session *entity.Session) {
	b.mu.Lock()
	b.current = session
	listeners := make([]func(*entity.Session), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
}
