package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/middleware"
	"profilehub-backend-go/internal/models"
)

// AuthHandler handles identity-operation endpoints. Password verification,
// token minting and verification-mail delivery all happen on the provider;
// this handler only sequences the calls and classifies failures.
type AuthHandler struct {
	identity identity.Provider
	logger   *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(idp identity.Provider, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{identity: idp, logger: logger}
}

// Signup handles POST /api/v1/auth/signup: creates the account and sends the
// verification email, directing the client to the verify-email page.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	session, err := h.identity.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondClassified(c, h.logger, "signup", err)
		return
	}

	if err := h.identity.SendVerificationEmail(c.Request.Context(), session); err != nil {
		respondClassified(c, h.logger, "signup/send-verification", err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Session:  session,
		Status:   core.DeriveStatus(session),
		Redirect: "/auth/verify-email",
	})
}

// Login handles POST /api/v1/auth/login. The redirect follows the derived
// session status, so an unverified or incomplete account lands on the right
// page immediately.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	session, err := h.identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondClassified(c, h.logger, "login", err)
		return
	}

	status := core.DeriveStatus(session)
	c.JSON(http.StatusOK, SessionResponse{
		Session:  session,
		Status:   status,
		Redirect: core.RedirectFor(status),
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.identity.SignOut(c.Request.Context()); err != nil {
		respondClassified(c, h.logger, "logout", err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{
		Status:   core.StatusSignedOut,
		Redirect: core.RedirectFor(core.StatusSignedOut),
	})
}

// VerifyEmail handles POST /api/v1/auth/verify: redeems the out-of-band code
// from the verification link and directs the client to profile completion.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	if err := h.identity.ApplyVerificationCode(c.Request.Context(), req.OOBCode); err != nil {
		respondClassified(c, h.logger, "verify-email", err)
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{
		Notice: core.Notice{
			Category: "email-verified",
			Severity: core.SeverityInfo,
			Title:    "Email Verified",
			Message:  "Your email address has been verified.",
		},
		Redirect: "/auth/complete-profile",
	})
}

// ResendVerification handles POST /api/v1/auth/verify/resend for an
// authenticated but unverified session.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	if err := h.identity.SendVerificationEmail(c.Request.Context(), session); err != nil {
		respondClassified(c, h.logger, "resend-verification", err)
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{
		Notice: core.Notice{
			Category: "verification-email-sent",
			Severity: core.SeverityInfo,
			Title:    "Verification Email Sent",
			Message:  "A new verification email has been sent. Please check your inbox.",
		},
	})
}
