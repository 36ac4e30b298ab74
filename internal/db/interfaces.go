package db

import (
	"context"

	"profilehub-backend-go/internal/models"
)

// ProfileRepository defines the interface for profile document storage
// operations against the "users" collection.
type ProfileRepository interface {
	// GetByID retrieves the profile document for the given user ID.
	// Returns ErrNotFound if no profile-completion write has happened yet.
	GetByID(ctx context.Context, userID string) (*models.Profile, error)

	// Create writes the full profile document. Used exactly once per user,
	// at profile completion.
	Create(ctx context.Context, profile *models.Profile) error

	// UpdateFields issues a single partial write containing only the given
	// field paths. Fields absent from the map are left untouched.
	UpdateFields(ctx context.Context, userID string, fields map[string]interface{}) error

	// Watch opens a live subscription to the user's profile document and
	// returns a channel of snapshots. A nil profile is emitted when the
	// document does not (yet) exist. The channel is closed when ctx is
	// cancelled or the subscription fails.
	Watch(ctx context.Context, userID string) <-chan *models.Profile
}
