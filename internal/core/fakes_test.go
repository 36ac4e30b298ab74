package core

import (
	"context"
	"io"
	"sync"

	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/models"
)

// recordingNavigator captures every navigation target in order.
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) NavigateTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.paths))
	copy(out, n.paths)
	return out
}

// fakeIdentityProvider is an in-memory identity.Provider with a session hub
// matching the real provider's broadcast semantics.
type fakeIdentityProvider struct {
	mu           sync.Mutex
	session      *models.Session
	displayNames map[string]string
	updateErr    error
	nextID       int
	subs         map[int]func(*models.Session)
}

func newFakeIdentityProvider() *fakeIdentityProvider {
	return &fakeIdentityProvider{
		displayNames: make(map[string]string),
		subs:         make(map[int]func(*models.Session)),
	}
}

func (f *fakeIdentityProvider) SignIn(_ context.Context, email, _ string) (*models.Session, error) {
	session := &models.Session{UserID: "fake-" + email, Email: email, EmailVerified: true}
	f.push(session)
	return session, nil
}

func (f *fakeIdentityProvider) SignUp(_ context.Context, email, _ string) (*models.Session, error) {
	session := &models.Session{UserID: "fake-" + email, Email: email}
	f.push(session)
	return session, nil
}

func (f *fakeIdentityProvider) SignOut(_ context.Context) error {
	f.push(nil)
	return nil
}

func (f *fakeIdentityProvider) SendVerificationEmail(_ context.Context, _ *models.Session) error {
	return nil
}

func (f *fakeIdentityProvider) ApplyVerificationCode(_ context.Context, _ string) error {
	return nil
}

func (f *fakeIdentityProvider) UpdateDisplayName(_ context.Context, userID, displayName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.displayNames[userID] = displayName
	return nil
}

func (f *fakeIdentityProvider) OnSessionChange(fn func(*models.Session)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	current := f.session
	f.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

func (f *fakeIdentityProvider) push(session *models.Session) {
	f.mu.Lock()
	f.session = session
	subs := make([]func(*models.Session), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}

// fieldUpdate is one recorded partial write.
type fieldUpdate struct {
	userID string
	fields map[string]interface{}
}

// fakeProfileRepo is an in-memory db.ProfileRepository. Watch forwards from a
// per-user source channel installed by the test.
type fakeProfileRepo struct {
	mu           sync.Mutex
	profiles     map[string]*models.Profile
	created      []*models.Profile
	updates      []fieldUpdate
	createErr    error
	updateErr    error
	getErr       error
	watchSources map[string]chan *models.Profile
	watchCount   map[string]int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles:     make(map[string]*models.Profile),
		watchSources: make(map[string]chan *models.Profile),
		watchCount:   make(map[string]int),
	}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, profile)
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) UpdateFields(_ context.Context, userID string, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, fieldUpdate{userID: userID, fields: fields})
	return nil
}

func (f *fakeProfileRepo) setWatchSource(userID string, source chan *models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watchSources[userID] = source
}

func (f *fakeProfileRepo) watches(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watchCount[userID]
}

func (f *fakeProfileRepo) Watch(ctx context.Context, userID string) <-chan *models.Profile {
	f.mu.Lock()
	source := f.watchSources[userID]
	f.watchCount[userID]++
	f.mu.Unlock()

	out := make(chan *models.Profile)
	go func() {
		defer close(out)
		if source == nil {
			<-ctx.Done()
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case profile, ok := <-source:
				if !ok {
					return
				}
				select {
				case out <- profile:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// fakeBlobStore records uploads and deletes. Download URLs are derived from
// the object name so tests can assert the full round trip.
type fakeBlobStore struct {
	mu        sync.Mutex
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
	urlErr    error
}

func (f *fakeBlobStore) Upload(_ context.Context, path string, r io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if r != nil {
		_, _ = io.Copy(io.Discard, r)
	}
	f.uploads = append(f.uploads, path)
	return path, nil
}

func (f *fakeBlobStore) DownloadURL(_ context.Context, objectName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://blobs.example.com/" + objectName, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, path)
	return f.deleteErr
}
