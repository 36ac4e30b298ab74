package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/models"
)

// defaultEndpoint is the Identity Toolkit REST endpoint. Password sign-in is
// not part of the Admin SDK, so email/password flows go through REST with the
// project's web API key while administrative updates use the Admin client.
const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

// adminUserManager is the slice of the Firebase Admin auth client this
// provider uses. *fbauth.Client satisfies it; tests substitute a fake.
type adminUserManager interface {
	GetUser(ctx context.Context, uid string) (*fbauth.UserRecord, error)
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
}

// firebaseProvider implements Provider against Firebase Authentication.
// It also tracks the most recently established session and broadcasts every
// replacement to OnSessionChange subscribers, mirroring the provider SDK's
// session-change stream.
type firebaseProvider struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	admin      adminUserManager
	logger     *zap.Logger

	mu      sync.Mutex
	session *models.Session
	nextID  int
	subs    map[int]func(*models.Session)
}

// NewFirebaseProvider creates a Provider backed by the Identity Toolkit REST
// API and the Firebase Admin auth client.
func NewFirebaseProvider(apiKey string, admin *fbauth.Client, logger *zap.Logger) Provider {
	return &firebaseProvider{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		admin:      admin,
		logger:     logger,
		subs:       make(map[int]func(*models.Session)),
	}
}

// identitytoolkit request/response shapes. Only the fields this provider
// reads are declared.
type signInResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
		DisplayName   string `json:"displayName"`
	} `json:"users"`
}

type restErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *firebaseProvider) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var resp signInResponse
	err := p.post(ctx, "accounts:signInWithPassword", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	session, err := p.buildSession(ctx, &resp)
	if err != nil {
		return nil, err
	}
	p.setSession(session)
	return session, nil
}

func (p *firebaseProvider) SignUp(ctx context.Context, email, password string) (*models.Session, error) {
	var resp signInResponse
	err := p.post(ctx, "accounts:signUp", map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	// A fresh account is never verified; skip the lookup round trip.
	session := &models.Session{
		UserID:       resp.LocalID,
		Email:        resp.Email,
		IDToken:      resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryFrom(resp.ExpiresIn),
	}
	p.setSession(session)
	return session, nil
}

func (p *firebaseProvider) SignOut(_ context.Context) error {
	p.setSession(nil)
	return nil
}

func (p *firebaseProvider) SendVerificationEmail(ctx context.Context, session *models.Session) error {
	if session == nil || session.IDToken == "" {
		return &ProviderError{Code: CodeInvalidCredential, Message: "no session token to send verification for"}
	}
	return p.post(ctx, "accounts:sendOobCode", map[string]interface{}{
		"requestType": "VERIFY_EMAIL",
		"idToken":     session.IDToken,
	}, nil)
}

func (p *firebaseProvider) ApplyVerificationCode(ctx context.Context, code string) error {
	if err := p.post(ctx, "accounts:update", map[string]interface{}{
		"oobCode": code,
	}, nil); err != nil {
		return err
	}

	// The verified flag changed server-side; refresh the tracked session so
	// observers see the transition.
	p.refreshCurrent(ctx)
	return nil
}

func (p *firebaseProvider) UpdateDisplayName(ctx context.Context, userID, displayName string) error {
	update := (&fbauth.UserToUpdate{}).DisplayName(displayName)
	if _, err := p.admin.UpdateUser(ctx, userID, update); err != nil {
		return mapAdminError(err)
	}

	p.mu.Lock()
	if p.session != nil && p.session.UserID == userID {
		clone := *p.session
		clone.DisplayName = displayName
		p.session = &clone
	}
	session := p.session
	subs := p.snapshotSubsLocked()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
	return nil
}

func (p *firebaseProvider) OnSessionChange(fn func(*models.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	current := p.session
	p.mu.Unlock()

	// Match the SDK behavior of delivering the current state on registration.
	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, id)
			p.mu.Unlock()
		})
	}
}

func (p *firebaseProvider) setSession(session *models.Session) {
	p.mu.Lock()
	p.session = session
	subs := p.snapshotSubsLocked()
	p.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}

func (p *firebaseProvider) snapshotSubsLocked() []func(*models.Session) {
	subs := make([]func(*models.Session), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	return subs
}

// refreshCurrent re-reads the tracked session's user record and rebroadcasts.
// Failures are logged only; the caller's operation already succeeded.
func (p *firebaseProvider) refreshCurrent(ctx context.Context) {
	p.mu.Lock()
	current := p.session
	p.mu.Unlock()
	if current == nil {
		return
	}

	record, err := p.admin.GetUser(ctx, current.UserID)
	if err != nil {
		p.logger.Warn("failed to refresh session after verification",
			zap.String("userID", current.UserID), zap.Error(err))
		return
	}

	clone := *current
	clone.EmailVerified = record.EmailVerified
	clone.DisplayName = record.DisplayName
	p.setSession(&clone)
}

// buildSession resolves the verified flag and display name for a fresh
// sign-in via accounts:lookup.
func (p *firebaseProvider) buildSession(ctx context.Context, signIn *signInResponse) (*models.Session, error) {
	var lookup lookupResponse
	if err := p.post(ctx, "accounts:lookup", map[string]interface{}{
		"idToken": signIn.IDToken,
	}, &lookup); err != nil {
		return nil, err
	}
	if len(lookup.Users) == 0 {
		return nil, &ProviderError{Code: CodeUserNotFound, Message: "account lookup returned no users"}
	}

	u := lookup.Users[0]
	return &models.Session{
		UserID:        u.LocalID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		DisplayName:   u.DisplayName,
		IDToken:       signIn.IDToken,
		RefreshToken:  signIn.RefreshToken,
		ExpiresAt:     expiryFrom(signIn.ExpiresIn),
	}, nil
}

// post issues one Identity Toolkit call and decodes the response into out
// (when non-nil). Transport failures and provider error bodies both come back
// as *ProviderError.
func (p *firebaseProvider) post(ctx context.Context, action string, body map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identity: marshal %s request: %w", action, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.endpoint, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("identity: build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Code: CodeNetworkRequestFailed, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var restErr restErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&restErr); err != nil {
			return &ProviderError{Code: "auth/internal-error", Message: fmt.Sprintf("%s returned HTTP %d", action, resp.StatusCode)}
		}
		return mapServerCode(restErr.Error.Message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity: decode %s response: %w", action, err)
	}
	return nil
}

// mapServerCode normalizes Identity Toolkit server codes into the auth/*
// code space. Server messages may carry a detail suffix after " : " (for
// example "WEAK_PASSWORD : Password should be at least 6 characters").
func mapServerCode(message string) *ProviderError {
	code := message
	if idx := strings.Index(message, " :"); idx > 0 {
		code = message[:idx]
	}

	mapped, ok := serverCodes[code]
	if !ok {
		return &ProviderError{Code: "auth/" + strings.ToLower(strings.ReplaceAll(code, "_", "-")), Message: message}
	}
	return &ProviderError{Code: mapped, Message: message}
}

var serverCodes = map[string]string{
	"INVALID_EMAIL":                  CodeInvalidEmail,
	"USER_DISABLED":                  CodeUserDisabled,
	"EMAIL_NOT_FOUND":                CodeUserNotFound,
	"INVALID_PASSWORD":               CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":      CodeInvalidCredential,
	"TOO_MANY_ATTEMPTS_TRY_LATER":    CodeTooManyRequests,
	"EMAIL_EXISTS":                   CodeEmailAlreadyInUse,
	"WEAK_PASSWORD":                  CodeWeakPassword,
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": CodeRequiresRecentLogin,
	"INVALID_OOB_CODE":               CodeInvalidActionCode,
	"EXPIRED_OOB_CODE":               CodeExpiredActionCode,
}

// mapAdminError wraps Admin SDK failures in the same normalized error type.
func mapAdminError(err error) error {
	switch {
	case fbauth.IsUserNotFound(err):
		return &ProviderError{Code: CodeUserNotFound, Message: err.Error()}
	default:
		return &ProviderError{Code: "auth/internal-error", Message: err.Error()}
	}
}

func expiryFrom(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}
