package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		session *models.Session
		want    SessionStatus
	}{
		{"nil session", nil, StatusSignedOut},
		{"empty user id", &models.Session{}, StatusSignedOut},
		{
			"unverified account",
			&models.Session{UserID: "u1", EmailVerified: false},
			StatusReady,
		},
		{
			"verified without display name",
			&models.Session{UserID: "u1", EmailVerified: true},
			StatusNeedsProfileCompletion,
		},
		{
			"verified with display name",
			&models.Session{UserID: "u1", EmailVerified: true, DisplayName: "Jane Doe"},
			StatusReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.session))
		})
	}
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, "/auth/login", RedirectFor(StatusSignedOut))
	assert.Equal(t, "/auth/complete-profile", RedirectFor(StatusNeedsProfileCompletion))
	assert.Equal(t, "/home", RedirectFor(StatusReady))
}

func TestSessionObserver_PublishSequence(t *testing.T) {
	nav := &recordingNavigator{}
	observer := NewSessionObserver(nav, zap.NewNop())
	assert.Equal(t, StatusSignedOut, observer.Status())

	var statuses []SessionStatus
	unsub := observer.OnStatus(func(status SessionStatus) {
		statuses = append(statuses, status)
	})
	defer unsub()

	// Fresh sign-in of a verified account that has not completed its profile.
	observer.Publish(&models.Session{UserID: "u1", Email: "jane@example.com", EmailVerified: true})
	assert.Equal(t, StatusNeedsProfileCompletion, observer.Status())

	// Display name arrives after profile completion.
	observer.Publish(&models.Session{UserID: "u1", Email: "jane@example.com", EmailVerified: true, DisplayName: "Jane Doe"})
	assert.Equal(t, StatusReady, observer.Status())
	require.NotNil(t, observer.Session())
	assert.Equal(t, "Jane Doe", observer.Session().DisplayName)

	// Sign-out.
	observer.Publish(nil)
	assert.Equal(t, StatusSignedOut, observer.Status())
	assert.Nil(t, observer.Session())

	assert.Equal(t, []SessionStatus{
		StatusNeedsProfileCompletion,
		StatusReady,
		StatusSignedOut,
	}, statuses)
	assert.Equal(t, []string{
		"/auth/complete-profile",
		"/home",
		"/auth/login",
	}, nav.Paths())
}

func TestSessionObserver_FailClosesToSignedOut(t *testing.T) {
	nav := &recordingNavigator{}
	observer := NewSessionObserver(nav, zap.NewNop())

	observer.Publish(&models.Session{UserID: "u1", EmailVerified: true, DisplayName: "Jane Doe"})
	require.Equal(t, StatusReady, observer.Status())

	observer.Fail(errors.New("stream broken"))
	assert.Equal(t, StatusSignedOut, observer.Status())
	assert.Nil(t, observer.Session())
	assert.Equal(t, []string{"/home", "/auth/login"}, nav.Paths())
}

func TestSessionObserver_UnsubscribeIsIdempotent(t *testing.T) {
	observer := NewSessionObserver(nil, zap.NewNop())

	calls := 0
	unsub := observer.OnStatus(func(SessionStatus) { calls++ })

	observer.Publish(&models.Session{UserID: "u1"})
	require.Equal(t, 1, calls)

	unsub()
	unsub()
	observer.Publish(nil)
	assert.Equal(t, 1, calls)
}

func TestSessionObserver_ObserveProviderStream(t *testing.T) {
	provider := newFakeIdentityProvider()
	nav := &recordingNavigator{}
	observer := NewSessionObserver(nav, zap.NewNop())

	stop := observer.Observe(provider)
	defer stop()

	// Registration delivers the current (signed-out) state immediately.
	assert.Equal(t, StatusSignedOut, observer.Status())

	ctx := context.Background()
	_, err := provider.SignIn(ctx, "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsProfileCompletion, observer.Status())

	require.NoError(t, provider.SignOut(ctx))
	assert.Equal(t, StatusSignedOut, observer.Status())

	// Detached observers see no further changes.
	stop()
	_, err = provider.SignIn(ctx, "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, StatusSignedOut, observer.Status())
}
