package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/middleware"
	"profilehub-backend-go/internal/models"
	"profilehub-backend-go/internal/validation"
)

// maxImageSize caps the accepted profile image upload at 10 MiB.
const maxImageSize = 10 << 20

// ProfileHandler handles profile completion, update, read and the live
// snapshot stream.
type ProfileHandler struct {
	service core.ProfileService
	repo    db.ProfileRepository
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler. The repository is needed
// alongside the service for per-connection profile watchers.
func NewProfileHandler(service core.ProfileService, repo db.ProfileRepository, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, repo: repo, logger: logger}
}

// Complete handles POST /api/v1/profile/complete: the one-time full profile
// write after email verification.
func (h *ProfileHandler) Complete(c *gin.Context) {
	session := middleware.SessionFrom(c)

	var req models.CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	payload, fieldErrs := validation.ValidateProfileForm(validation.ProfileForm{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	}, validation.ModeCreate)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: fieldErrs})
		return
	}

	if err := h.service.CompleteProfile(c.Request.Context(), session, payload); err != nil {
		if errors.Is(err, core.ErrNoAuthenticatedUser) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No authenticated user found"})
			return
		}
		respondClassified(c, h.logger, "complete-profile", err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{
		Status:   core.StatusReady,
		Redirect: "/home",
	})
}

// Update handles PATCH /api/v1/profile: a multipart submission of the
// profile fields plus an optional replacement image.
func (h *ProfileHandler) Update(c *gin.Context) {
	session := middleware.SessionFrom(c)

	req := models.UpdateProfileRequest{
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		DateOfBirth: c.PostForm("dob"),
		Phone:       c.PostForm("phone"),
	}

	payload, fieldErrs := validation.ValidateProfileForm(validation.ProfileForm{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	}, validation.ModeUpdate)
	if fieldErrs != nil {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: fieldErrs})
		return
	}

	var image *core.ImageUpload
	fileHeader, err := c.FormFile("profileImage")
	if err == nil && fileHeader != nil {
		if fileHeader.Size > maxImageSize {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Profile image exceeds the 10MB limit"})
			return
		}
		file, openErr := fileHeader.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded image", Details: openErr.Error()})
			return
		}
		defer file.Close()
		image = &core.ImageUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Reader:      io.LimitReader(file, maxImageSize),
		}
	}

	if _, err := h.service.UpdateProfile(c.Request.Context(), session, payload, image); err != nil {
		if errors.Is(err, core.ErrNoAuthenticatedUser) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No authenticated user found"})
			return
		}
		respondClassified(c, h.logger, "update-profile", err)
		return
	}

	c.JSON(http.StatusOK, NoticeResponse{
		Notice: core.Notice{
			Category: "profile-updated",
			Severity: core.SeverityInfo,
			Title:    "Profile Updated",
			Message:  "Your profile has been successfully updated.",
		},
	})
}

// Me handles GET /api/v1/profile/me.
func (h *ProfileHandler) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)

	profile, err := h.service.GetProfile(c.Request.Context(), session)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoAuthenticatedUser):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No authenticated user found"})
		case errors.Is(err, core.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Profile not found"})
		default:
			h.logger.Error("failed to load profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// sseEvent is one server-sent event queued for the stream writer.
type sseEvent struct {
	name string
	data interface{}
}

// Stream handles GET /api/v1/profile/stream: a server-sent event stream
// carrying session status, navigation hints and live profile snapshots for
// the connection's user. The stream ends when the client disconnects or the
// presented ID token expires (the connection then fails closed to
// signed-out).
func (h *ProfileHandler) Stream(c *gin.Context) {
	session := middleware.SessionFrom(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Events queue ahead of the writer loop; the buffer absorbs the initial
	// publish burst (redirect + status + first snapshot).
	events := make(chan sseEvent, 16)
	queue := func(ev sseEvent) {
		select {
		case events <- ev:
			return
		default:
		}
		// Full buffer: drop the oldest event, latest state wins.
		select {
		case <-events:
		default:
		}
		select {
		case events <- ev:
		default:
		}
	}

	nav := core.NavigatorFunc(func(path string) {
		queue(sseEvent{name: "redirect", data: gin.H{"to": path}})
	})
	observer := core.NewSessionObserver(nav, h.logger)
	unsubStatus := observer.OnStatus(func(status core.SessionStatus) {
		queue(sseEvent{name: "status", data: gin.H{"status": status}})
	})
	defer unsubStatus()

	watcher := core.NewProfileWatcher(h.repo, h.logger)
	defer watcher.Stop()
	snapshots, unsubSnapshots := watcher.Subscribe()
	defer unsubSnapshots()

	observer.Publish(session)
	watcher.Watch(session.UserID)

	expiry := time.NewTimer(time.Until(session.ExpiresAt))
	defer expiry.Stop()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case <-expiry.C:
			watcher.Stop()
			observer.Publish(nil)
			// Flush the signed-out transition before closing.
			for {
				select {
				case ev := <-events:
					c.SSEvent(ev.name, ev.data)
				default:
					return false
				}
			}
		case profile, ok := <-snapshots:
			if !ok {
				return false
			}
			c.SSEvent("profile", profile)
			return true
		case ev := <-events:
			c.SSEvent(ev.name, ev.data)
			return true
		}
	})
}
