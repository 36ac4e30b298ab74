package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profilehub-backend-go/internal/core"
	"profilehub-backend-go/internal/db"
	"profilehub-backend-go/internal/identity"
	"profilehub-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware (logging,
// recovery, CORS) is applied to the router before this is called, in main.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authClient *auth.Client,
	idp identity.Provider,
	profileService core.ProfileService,
	profileRepo db.ProfileRepository,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	authHandler := NewAuthHandler(idp, logger)
	profileHandler := NewProfileHandler(profileService, profileRepo, logger)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/verify", authHandler.VerifyEmail)

			// Resending requires a live (if unverified) session.
			authGroup.POST("/verify/resend", authMW.VerifyToken(), authHandler.ResendVerification)
		}

		profileGroup := apiV1.Group("/profile", authMW.VerifyToken())
		{
			profileGroup.POST("/complete", profileHandler.Complete)
			profileGroup.PATCH("", profileHandler.Update)
			profileGroup.GET("/me", profileHandler.Me)
			profileGroup.GET("/stream", profileHandler.Stream)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1 and /health")
}
