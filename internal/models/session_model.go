package models

import "time"

// Session is a read-only projection of the identity provider's authenticated
// state: the opaque tokens plus the derived attributes the rest of the
// application keys off. It is created on sign-in/sign-up, replaced on every
// provider session-change event and cleared on sign-out; it is never persisted
// by this service.
type Session struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"emailVerified"`
	DisplayName   string `json:"displayName,omitempty"`

	// Provider tokens. The ID token is what clients present on subsequent
	// requests; the refresh token is returned to the client untouched.
	IDToken      string    `json:"idToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// HasDisplayName reports whether the provider record carries a display name.
// A missing display name on a verified session means the user has not yet
// completed their profile.
func (s *Session) HasDisplayName() bool {
	return s != nil && s.DisplayName != ""
}
