package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/models"
	"profilehub-backend-go/internal/storage"
	"profilehub-backend-go/internal/validation"
)

// ErrNoAuthenticatedUser is returned when a submission arrives without an
// active session: a caller bug or an expired session, never a provider fault.
var ErrNoAuthenticatedUser = errors.New("no authenticated user found")

// ErrProfileNotFound is returned when no profile document exists for the user.
var ErrProfileNotFound = errors.New("profile not found")

// profileService implements ProfileService.
type profileService struct {
	identity identity.Provider
	repo     db.ProfileRepository
	blobs    storage.BlobStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewProfileService creates a ProfileService over the injected provider
// interfaces.
func NewProfileService(idp identity.Provider, repo db.ProfileRepository, blobs storage.BlobStore, logger *zap.Logger) ProfileService {
	return &profileService{
		identity: idp,
		repo:     repo,
		blobs:    blobs,
		logger:   logger,
		now:      time.Now,
	}
}

// CompleteProfile sets the provider display name to "First Last" and writes
// the full profile document with a null photoURL. The document write is the
// single side effect against the store; its success establishes the
// profile-exists invariant for this user.
func (s *profileService) CompleteProfile(ctx context.Context, session *models.Session, payload *validation.ProfilePayload) error {
	if session == nil || session.UserID == "" {
		return ErrNoAuthenticatedUser
	}

	displayName := payload.FirstName + " " + payload.LastName
	if err := s.identity.UpdateDisplayName(ctx, session.UserID, displayName); err != nil {
		return fmt.Errorf("set display name: %w", err)
	}

	profile := &models.Profile{
		UserID:      session.UserID,
		Email:       session.Email,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		DateOfBirth: payload.DateOfBirth,
		Phone:       payload.Phone,
		PhotoURL:    nil,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return fmt.Errorf("create profile document: %w", err)
	}

	s.logger.Info("profile completed", zap.String("userID", session.UserID))
	return nil
}

// UpdateProfile optionally replaces the profile image, then issues exactly
// one partial document write containing only the provided fields. The
// photoURL field is included only when an upload succeeded this call; an
// update without a new image leaves the stored photoURL untouched. Upload
// failure is logged and the field write proceeds without it; partial success
// is acceptable for the image, not for the core fields.
func (s *profileService) UpdateProfile(ctx context.Context, session *models.Session, payload *validation.ProfilePayload, image *ImageUpload) (*string, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrNoAuthenticatedUser
	}

	var photoURL *string
	if image != nil {
		url, err := s.replaceProfileImage(ctx, session.UserID, image)
		if err != nil {
			s.logger.Warn("profile image upload failed, updating fields only",
				zap.String("userID", session.UserID), zap.Error(err))
		} else {
			photoURL = &url
		}
	}

	fields := map[string]interface{}{
		"firstName": payload.FirstName,
		"lastName":  payload.LastName,
	}
	if payload.DateOfBirth != nil {
		fields["dob"] = *payload.DateOfBirth
	}
	if payload.Phone != nil {
		fields["phone"] = *payload.Phone
	}
	if photoURL != nil {
		fields["photoURL"] = *photoURL
	}

	if err := s.repo.UpdateFields(ctx, session.UserID, fields); err != nil {
		return nil, fmt.Errorf("update profile document: %w", err)
	}

	s.logger.Info("profile updated",
		zap.String("userID", session.UserID), zap.Bool("newImage", photoURL != nil))
	return photoURL, nil
}

// GetProfile reads the profile document for the session's user.
func (s *profileService) GetProfile(ctx context.Context, session *models.Session) (*models.Profile, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrNoAuthenticatedUser
	}
	profile, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// replaceProfileImage uploads the new image to a fresh time-stamped path,
// resolves its download URL, then best-effort deletes the canonical previous
// path. Uploading before deleting avoids the transient no-image window of a
// delete-first ordering; delete-of-missing is a no-op, so "no prior image"
// counts as success. Each call targets a unique upload path, so concurrent
// updates cannot corrupt data; at worst one blob is orphaned.
func (s *profileService) replaceProfileImage(ctx context.Context, userID string, image *ImageUpload) (string, error) {
	newPath := fmt.Sprintf("profile-images/%s-%d", userID, s.now().UnixMilli())

	ref, err := s.blobs.Upload(ctx, newPath, image.Reader, image.ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", newPath, err)
	}

	url, err := s.blobs.DownloadURL(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("resolve download URL for %s: %w", ref, err)
	}

	prevPath := "profile-images/" + userID
	if err := s.blobs.Delete(ctx, prevPath); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		s.logger.Warn("failed to delete previous profile image",
			zap.String("path", prevPath), zap.Error(err))
	}

	return url, nil
}
