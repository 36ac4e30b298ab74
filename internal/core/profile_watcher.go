package core

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/models"
)

// ProfileWatcher maintains at most one live profile-document subscription and
// republishes each update as a typed snapshot. Switching users tears the old
// subscription down first; a generation counter guarantees that in-flight
// events from a torn-down subscription are discarded, never delivered.
//
// The cached snapshot is single-writer (only the watch goroutine mutates it)
// and multi-reader via Current.
type ProfileWatcher struct {
	repo   db.ProfileRepository
	logger *zap.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	userID  string
	current *models.Profile
	nextID  int
	subs    map[int]chan *models.Profile
}

// NewProfileWatcher creates a watcher with no active subscription.
func NewProfileWatcher(repo db.ProfileRepository, logger *zap.Logger) *ProfileWatcher {
	return &ProfileWatcher{
		repo:   repo,
		logger: logger,
		subs:   make(map[int]chan *models.Profile),
	}
}

// Watch opens a live subscription for the given user, replacing any previous
// one. Watching the currently watched user is a no-op, preserving the
// at-most-one-subscription-per-user guarantee.
func (w *ProfileWatcher) Watch(userID string) {
	if userID == "" {
		w.Stop()
		return
	}

	w.mu.Lock()
	if w.userID == userID && w.cancel != nil {
		w.mu.Unlock()
		return
	}
	w.teardownLocked()
	w.gen++
	gen := w.gen
	w.userID = userID
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.mu.Unlock()

	go w.run(ctx, gen, userID)
}

// Stop tears down the active subscription with no replacement and clears the
// cached snapshot. Safe to call repeatedly.
func (w *ProfileWatcher) Stop() {
	w.mu.Lock()
	w.teardownLocked()
	w.gen++
	w.userID = ""
	w.current = nil
	w.mu.Unlock()
}

// Current returns the latest observed snapshot for the active subscription,
// or nil when there is none.
func (w *ProfileWatcher) Current() *models.Profile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Subscribe registers a snapshot channel. Slow consumers only ever lose
// intermediate values: the channel always holds the most recent snapshot.
// The returned function unsubscribes and closes the channel.
func (w *ProfileWatcher) Subscribe() (<-chan *models.Profile, func()) {
	ch := make(chan *models.Profile, 1)

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = ch
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			close(ch)
			w.mu.Unlock()
		})
	}
}

func (w *ProfileWatcher) run(ctx context.Context, gen uint64, userID string) {
	for profile := range w.repo.Watch(ctx, userID) {
		w.deliver(gen, profile)
	}
	if w.logger != nil && ctx.Err() == nil {
		// The stream ended without our teardown; provider-side failure.
		w.logger.Warn("profile subscription ended unexpectedly", zap.String("userID", userID))
	}
}

// deliver publishes a snapshot unless its subscription has been superseded.
func (w *ProfileWatcher) deliver(gen uint64, profile *models.Profile) {
	w.mu.Lock()
	if gen != w.gen {
		// Stale event from a torn-down subscription.
		w.mu.Unlock()
		return
	}
	w.current = profile
	// Sends are non-blocking, so fanning out under the lock keeps delivery
	// safely serialized with unsubscribe's channel close.
	for _, ch := range w.subs {
		select {
		case ch <- profile:
		default:
			// Replace the undelivered value with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- profile:
			default:
			}
		}
	}
	w.mu.Unlock()
}

func (w *ProfileWatcher) teardownLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}
