package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"profilehub-backend-go/internal/models"
)

const usersCollection = "users"

// ErrNotFound is returned when a document is not found in Firestore.
var ErrNotFound = errors.New("document not found")

// ErrAlreadyExists is returned when a Create targets an existing document.
var ErrAlreadyExists = errors.New("document already exists")

// firestoreProfileRepository implements ProfileRepository using Firestore.
type firestoreProfileRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreProfileRepository creates a new Firestore-backed profile repository.
func NewFirestoreProfileRepository(client *firestore.Client, logger *zap.Logger) ProfileRepository {
	if client == nil {
		panic("Firestore client is not initialized for ProfileRepository")
	}
	return &firestoreProfileRepository{client: client, logger: logger}
}

// GetByID retrieves a profile document by its ID (Firebase Auth UID).
func (r *firestoreProfileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("profile for user '%s' not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile for user '%s': %w", userID, err)
	}

	var profile models.Profile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile data for user '%s': %w", userID, err)
	}
	profile.UserID = docSnap.Ref.ID

	return &profile, nil
}

// Create adds the full profile document. The user ID (Firebase Auth UID) is
// used as the Firestore document ID, so the write is atomic per user.
func (r *firestoreProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.UserID == "" {
		return errors.New("profile user ID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(profile.UserID).Set(ctx, profile)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("profile for user '%s': %w", profile.UserID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create profile for user '%s': %w", profile.UserID, err)
	}
	return nil
}

// UpdateFields issues one partial write for the given field paths only.
// The document must already exist; a completion write always precedes updates.
func (r *firestoreProfileRepository) UpdateFields(ctx context.Context, userID string, fields map[string]interface{}) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpdateFields operation")
	}
	if len(fields) == 0 {
		return errors.New("no fields provided for UpdateFields operation")
	}

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	_, err := r.client.Collection(usersCollection).Doc(userID).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("profile for user '%s' not found: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("failed to update profile for user '%s': %w", userID, err)
	}
	return nil
}

// Watch opens a snapshot listener on the user's profile document. Snapshots
// arrive in server commit order for the lifetime of the listener; the channel
// closes when ctx is cancelled or the listener fails.
func (r *firestoreProfileRepository) Watch(ctx context.Context, userID string) <-chan *models.Profile {
	out := make(chan *models.Profile, 1)

	go func() {
		defer close(out)

		iter := r.client.Collection(usersCollection).Doc(userID).Snapshots(ctx)
		defer iter.Stop()

		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					r.logger.Warn("profile snapshot listener terminated",
						zap.String("userID", userID), zap.Error(err))
				}
				return
			}

			if !snap.Exists() {
				select {
				case out <- nil:
				case <-ctx.Done():
					return
				}
				continue
			}

			var profile models.Profile
			if err := snap.DataTo(&profile); err != nil {
				r.logger.Warn("failed to decode profile snapshot",
					zap.String("userID", userID), zap.Error(err))
				continue
			}
			profile.UserID = snap.Ref.ID

			select {
			case out <- &profile:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
