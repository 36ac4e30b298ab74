// Package identity wraps the external identity provider. All password
// handling, token minting and session persistence stay on the provider side;
// this package only projects its state into models.Session values and
// normalizes its failure codes.
package identity

import (
	"context"
	"fmt"

	"profilehub-backend-go/internal/models"
)

// Provider defines the identity operations the application consumes.
type Provider interface {
	// SignIn exchanges email/password credentials for a session.
	SignIn(ctx context.Context, email, password string) (*models.Session, error)

	// SignUp creates a new account and returns its (unverified) session.
	SignUp(ctx context.Context, email, password string) (*models.Session, error)

	// SignOut clears the current session.
	SignOut(ctx context.Context) error

	// SendVerificationEmail asks the provider to mail a verification link
	// for the given session's account.
	SendVerificationEmail(ctx context.Context, session *models.Session) error

	// ApplyVerificationCode redeems the out-of-band code from a
	// verification link, marking the account's email as verified.
	ApplyVerificationCode(ctx context.Context, code string) error

	// UpdateDisplayName sets the provider-level display name for a user.
	UpdateDisplayName(ctx context.Context, userID, displayName string) error

	// OnSessionChange registers a callback invoked with the current session
	// immediately and again on every subsequent change (nil on sign-out).
	// The returned function unsubscribes; it is idempotent.
	OnSessionChange(fn func(*models.Session)) (unsubscribe func())
}

// ProviderError is a normalized identity provider failure. Code is drawn from
// the "auth/*" code space consumed by the error classification table;
// unrecognized provider responses keep their raw server message.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity: %s: %s", e.Code, e.Message)
}

// Normalized provider error codes. These mirror the code strings the
// provider's own client SDKs surface, so the classification table can stay
// identical across entry points.
const (
	CodeInvalidEmail         = "auth/invalid-email"
	CodeUserDisabled         = "auth/user-disabled"
	CodeUserNotFound         = "auth/user-not-found"
	CodeWrongPassword        = "auth/wrong-password"
	CodeInvalidCredential    = "auth/invalid-credential"
	CodeTooManyRequests      = "auth/too-many-requests"
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodeEmailAlreadyInUse    = "auth/email-already-in-use"
	CodeWeakPassword         = "auth/weak-password"
	CodeRequiresRecentLogin  = "auth/requires-recent-login"
	CodeEmailAlreadySent     = "auth/email-already-sent"
	CodeInvalidActionCode    = "auth/invalid-action-code"
	CodeExpiredActionCode    = "auth/expired-action-code"
)
