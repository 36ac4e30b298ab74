package api

import (
	"context"
	"sync"

	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/models"
	"profilehub-backend-go/internal/validation"
)

// fakeProvider is a scriptable identity.Provider for handler tests.
type fakeProvider struct {
	signInSession *models.Session
	signInErr     error
	signUpSession *models.Session
	signUpErr     error
	signOutErr    error
	sendErr       error
	applyErr      error
	updateErr     error

	sendCalls  int
	applyCodes []string
}

func (f *fakeProvider) SignIn(_ context.Context, _, _ string) (*models.Session, error) {
	return f.signInSession, f.signInErr
}

func (f *fakeProvider) SignUp(_ context.Context, _, _ string) (*models.Session, error) {
	return f.signUpSession, f.signUpErr
}

func (f *fakeProvider) SignOut(_ context.Context) error { return f.signOutErr }

func (f *fakeProvider) SendVerificationEmail(_ context.Context, _ *models.Session) error {
	f.sendCalls++
	return f.sendErr
}

func (f *fakeProvider) ApplyVerificationCode(_ context.Context, code string) error {
	f.applyCodes = append(f.applyCodes, code)
	return f.applyErr
}

func (f *fakeProvider) UpdateDisplayName(_ context.Context, _, _ string) error {
	return f.updateErr
}

func (f *fakeProvider) OnSessionChange(fn func(*models.Session)) func() {
	fn(nil)
	return func() {}
}

// fakeProfileService is a scriptable core.ProfileService.
type fakeProfileService struct {
	completeErr error
	updateURL   *string
	updateErr   error
	profile     *models.Profile
	getErr      error

	completed []*validation.ProfilePayload
	updated   []*validation.ProfilePayload
	images    []*core.ImageUpload
}

func (f *fakeProfileService) CompleteProfile(_ context.Context, _ *models.Session, payload *validation.ProfilePayload) error {
	f.completed = append(f.completed, payload)
	return f.completeErr
}

func (f *fakeProfileService) UpdateProfile(_ context.Context, _ *models.Session, payload *validation.ProfilePayload, image *core.ImageUpload) (*string, error) {
	f.updated = append(f.updated, payload)
	f.images = append(f.images, image)
	return f.updateURL, f.updateErr
}

func (f *fakeProfileService) GetProfile(_ context.Context, _ *models.Session) (*models.Profile, error) {
	return f.profile, f.getErr
}

// stubRepo satisfies db.ProfileRepository for handler construction. Watch
// blocks until cancelled, like a live subscription with no events.
type stubRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.Profile
}

func (s *stubRepo) GetByID(_ context.Context, userID string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return nil, db.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, _ *models.Profile) error { return nil }

func (s *stubRepo) UpdateFields(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

func (s *stubRepo) Watch(ctx context.Context, _ string) <-chan *models.Profile {
	out := make(chan *models.Profile)
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}

var _ identity.Provider = (*fakeProvider)(nil)
var _ core.ProfileService = (*fakeProfileService)(nil)
var _ db.ProfileRepository = (*stubRepo)(nil)
