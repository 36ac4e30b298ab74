package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/models"
	"profilehub-backend-go/internal/validation"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SessionResponse is returned by successful identity operations. Redirect
// carries the navigation decision made by the session-status derivation; the
// client router renders it.
type SessionResponse struct {
	Session  *models.Session    `json:"session,omitempty"`
	Status   core.SessionStatus `json:"status"`
	Redirect string             `json:"redirect,omitempty"`
}

// NoticeResponse carries exactly one user-facing notification, optionally
// with a navigation target.
type NoticeResponse struct {
	Notice   core.Notice `json:"notice"`
	Redirect string      `json:"redirect,omitempty"`
}

// ValidationErrorResponse maps submitted field names to messages. Produced
// before any network operation.
type ValidationErrorResponse struct {
	Errors validation.FieldErrors `json:"errors"`
}

// respondClassified renders a provider failure as its classified notice.
// Every provider failure path goes through here, so each failure yields
// exactly one notification.
func respondClassified(c *gin.Context, logger *zap.Logger, operation string, err error) {
	notice := core.ClassifyError(err)
	logger.Warn("provider operation failed",
		zap.String("operation", operation),
		zap.String("category", notice.Category),
		zap.Error(err))
	c.JSON(core.HTTPStatus(notice.Category), NoticeResponse{Notice: notice})
}
