package middleware

import (
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/models"
)

// SessionContextKey is the gin context key the verified session is stored
// under.
const SessionContextKey = "session"

// ErrorResponse is a local definition for sending standardized error
// messages. It mirrors the one in internal/api to avoid import cycles.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides gin middleware for Firebase ID token verification.
type AuthMiddleware struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. A nil auth client
// is a setup error the application cannot run with.
func NewAuthMiddleware(authClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if authClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{authClient: authClient, logger: logger}
}

// VerifyToken verifies the bearer ID token and stores the projected session
// in the gin context for downstream handlers.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		idToken := parts[1]

		token, err := m.authClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			m.logger.Warn("ID token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		session := &models.Session{
			UserID:    token.UID,
			IDToken:   idToken,
			ExpiresAt: time.Unix(token.Expires, 0),
		}
		if email, ok := token.Claims["email"].(string); ok {
			session.Email = email
		}
		if verified, ok := token.Claims["email_verified"].(bool); ok {
			session.EmailVerified = verified
		}
		if name, ok := token.Claims["name"].(string); ok {
			session.DisplayName = name
		}

		c.Set(SessionContextKey, session)
		c.Next()
	}
}

// SessionFrom extracts the verified session placed in the context by
// VerifyToken. Returns nil when the middleware did not run.
func SessionFrom(c *gin.Context) *models.Session {
	raw, exists := c.Get(SessionContextKey)
	if !exists {
		return nil
	}
	session, ok := raw.(*models.Session)
	if !ok {
		return nil
	}
	return session
}
