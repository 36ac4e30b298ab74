package core

import (
	"context"
	"io"

	"profilehub-backend-go/internal/models"
	"profilehub-backend-go/internal/validation"
)

// Navigator is the navigation side-effect sink. The core decides when to
// navigate; how navigation is rendered (router push, redirect hint in a
// response, SSE event) belongs to the consumer.
type Navigator interface {
	NavigateTo(path string)
}

// Notifier renders user-facing notices produced by the classification table.
type Notifier interface {
	Notify(notice Notice)
}

// ImageUpload is a new profile image travelling with an update submission.
// It is transient: consumed during the submission and discarded afterwards.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// ProfileService coordinates profile submissions: provider display-name
// updates, the image replacement protocol and the document write.
type ProfileService interface {
	// CompleteProfile performs the one-time full profile write after email
	// verification, setting the provider display name first.
	CompleteProfile(ctx context.Context, session *models.Session, payload *validation.ProfilePayload) error

	// UpdateProfile runs the image replacement protocol when an image is
	// provided, then issues exactly one partial document write containing
	// only the provided fields. Returns the stored photo URL when a new
	// image was uploaded this call.
	UpdateProfile(ctx context.Context, session *models.Session, payload *validation.ProfilePayload, image *ImageUpload) (*string, error)

	// GetProfile reads the current profile document.
	GetProfile(ctx context.Context, session *models.Session) (*models.Profile, error)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }
