package core

import (
	"sync"

	"go.uber.org/zap"

	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/models"
)

// SessionStatus is the tri-state derived from the provider session.
type SessionStatus string

const (
	StatusSignedOut              SessionStatus = "signed-out"
	StatusNeedsProfileCompletion SessionStatus = "needs-profile-completion"
	StatusReady                  SessionStatus = "ready"
)

// DeriveStatus computes the session status: nil means signed out; a verified
// session without a display name still needs profile completion.
func DeriveStatus(session *models.Session) SessionStatus {
	if session == nil || session.UserID == "" {
		return StatusSignedOut
	}
	if session.EmailVerified && !session.HasDisplayName() {
		return StatusNeedsProfileCompletion
	}
	return StatusReady
}

// RedirectFor returns the navigation target for a status.
func RedirectFor(status SessionStatus) string {
	switch status {
	case StatusNeedsProfileCompletion:
		return "/auth/complete-profile"
	case StatusReady:
		return "/home"
	default:
		return "/auth/login"
	}
}

// SessionObserver consumes a session-change stream, derives the tri-state
// status and drives the Navigator on every change. Status subscribers see
// each derived status in publish order.
type SessionObserver struct {
	nav    Navigator
	logger *zap.Logger

	mu      sync.Mutex
	session *models.Session
	status  SessionStatus
	nextID  int
	subs    map[int]func(SessionStatus)
}

// NewSessionObserver creates an observer in the signed-out state.
func NewSessionObserver(nav Navigator, logger *zap.Logger) *SessionObserver {
	return &SessionObserver{
		nav:    nav,
		logger: logger,
		status: StatusSignedOut,
		subs:   make(map[int]func(SessionStatus)),
	}
}

// Observe attaches the observer to a provider's session-change stream.
// The returned function detaches it.
func (o *SessionObserver) Observe(provider identity.Provider) (stop func()) {
	return provider.OnSessionChange(o.Publish)
}

// Publish feeds one session-change event through the observer: derive the
// status, navigate, and fan out to status subscribers.
func (o *SessionObserver) Publish(session *models.Session) {
	status := DeriveStatus(session)

	o.mu.Lock()
	o.session = session
	o.status = status
	subs := make([]func(SessionStatus), 0, len(o.subs))
	for _, fn := range o.subs {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	if o.nav != nil {
		o.nav.NavigateTo(RedirectFor(status))
	}
	for _, fn := range subs {
		fn(status)
	}
}

// Fail handles a subscription error from the provider stream. Not expected
// under normal operation; the observer fails closed to signed-out.
func (o *SessionObserver) Fail(err error) {
	if o.logger != nil {
		o.logger.Warn("session stream error, failing closed to signed-out", zap.Error(err))
	}
	o.Publish(nil)
}

// Status returns the most recently derived status.
func (o *SessionObserver) Status() SessionStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Session returns the most recently observed session (nil when signed out).
func (o *SessionObserver) Session() *models.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// OnStatus registers a status subscriber. The returned function
// unsubscribes; it is idempotent.
func (o *SessionObserver) OnStatus(fn func(SessionStatus)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}
