// Package session tracks who is currently authenticated and exposes it
// reactively. The store owns no authentication logic; it observes the auth
// backend and keeps a merged identity view for presentation callers.
package session

import (
	"context"
	"log/slog"
	"sync"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// Backend is the slice of the auth layer the store observes.
type Backend interface {
	// CurrentSession returns the active session, or nil when anonymous.
	CurrentSession(ctx context.Context) (*entity.Session, error)

	// OnSessionChange registers a callback fired on login, logout and token
	// refresh. The returned function unregisters it.
	OnSessionChange(fn func(*entity.Session)) (unsubscribe func())
}

// ProfileFetcher loads the profile merged into the identity metadata.
// A (nil, nil) return means the user has no profile yet.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
}

// Snapshot is the immutable view handed to subscribers.
type Snapshot struct {
	// Identity is nil while anonymous.
	Identity *entity.Identity
	// Loading is true only until the initial session check completes. It is
	// independent of whether the async profile merge has finished.
	Loading bool
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool {
	return s.Identity != nil
}

// Store holds the current authentication state. Transitions are driven only
// by backend notifications, never by local mutation.
type Store struct {
	backend  Backend
	profiles ProfileFetcher
	logger   *slog.Logger

	mu          sync.Mutex
	identity    *entity.Identity
	loading     bool
	nextSubID   int
	subscribers map[int]func(Snapshot)
	unsubscribe func()
	lifeCancel  context.CancelFunc
	teardown    sync.Once

	// merges tracks in-flight profile merges so Close can wait for them.
	merges sync.WaitGroup
}

// NewStore builds a store in the Unknown state (loading, no identity).
func NewStore(backend Backend, profiles ProfileFetcher, logger *slog.Logger) *Store {
	return &Store{
		backend:     backend,
		profiles:    profiles,
		logger:      logger,
		loading:     true,
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Initialize performs the startup session check and registers the
// session-change subscription. Loading clears once the session check
// completes; the profile merge continues asynchronously.
func (s *Store) Initialize(ctx context.Context) error {
	session, err := s.backend.CurrentSession(ctx)
	if err != nil {
		s.setState(nil, false)

		return err
	}

	// The subscription and the profile merges outlive ctx, which is typically
	// a startup context cancelled as soon as boot completes. Detach from its
	// cancellation; Close ends the detached context instead.
	lifeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.applySession(lifeCtx, session)

	s.mu.Lock()
	s.lifeCancel = cancel
	s.unsubscribe = s.backend.OnSessionChange(func(changed *entity.Session) {
		s.applySession(lifeCtx, changed)
	})
	s.mu.Unlock()

	return nil
}

// applySession re-derives the identity from a session notification: set the
// auth identity immediately, then merge the profile in the background.
func (s *Store) applySession(ctx context.Context, session *entity.Session) {
	if session == nil || session.Identity == nil {
		s.setState(nil, false)

		return
	}

	identity := *session.Identity
	s.setState(&identity, false)

	s.merges.Add(1)
	go func() {
		defer s.merges.Done()
		s.mergeProfile(ctx, &identity)
	}()
}

// mergeProfile overlays the profile onto a copy of the identity and, if the
// session has not changed underneath, publishes the merged view. A missing
// profile is not an error; any other failure is logged and the auth-only
// identity stands.
func (s *Store) mergeProfile(ctx context.Context, identity *entity.Identity) {
	profile, err := s.profiles.GetProfile(ctx, identity.ID)
	if err != nil {
		s.logger.Warn("Profile merge failed, keeping auth identity",
			slog.String("userID", identity.ID.String()), slog.Any("error", err))

		return
	}
	if profile == nil {
		return
	}

	s.mu.Lock()
	if s.identity == nil || s.identity.ID != identity.ID {
		// The session changed while the fetch was in flight; drop the result.
		s.mu.Unlock()

		return
	}
	merged := *s.identity
	merged.MergeProfile(profile)
	s.identity = &merged
	subs, snapshot := s.subscriberList(), s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snapshot)
}

func (s *Store) setState(identity *entity.Identity, loading bool) {
	s.mu.Lock()
	s.identity = identity
	s.loading = loading
	subs, snapshot := s.subscriberList(), s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snapshot)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Identity: s.identity, Loading: s.loading}
}

func (s *Store) subscriberList() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}

	return subs
}

func notify(subs []func(Snapshot), snapshot Snapshot) {
	for _, fn := range subs {
		fn(snapshot)
	}
}

// Current returns the present snapshot.
func (s *Store) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Subscribe registers a callback invoked on every state change. The callback
// fires immediately with the current snapshot. The returned id is used to
// Unsubscribe.
func (s *Store) Subscribe(fn func(Snapshot)) int {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot)

	return id
}

// Unsubscribe removes a subscriber. Unknown ids are ignored.
func (s *Store) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, id)
}

// Close tears the store down: the backend subscription is unregistered
// exactly once, even when Close is called repeatedly, and in-flight profile
// merges are waited out.
func (s *Store) Close() {
	s.teardown.Do(func() {
		s.mu.Lock()
		unsubscribe := s.unsubscribe
		cancel := s.lifeCancel
		s.unsubscribe = nil
		s.lifeCancel = nil
		s.subscribers = make(map[int]func(Snapshot))
		s.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		if cancel != nil {
			cancel()
		}
		s.merges.Wait()
	})
}
