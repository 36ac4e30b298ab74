package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"profilehub-backend-go/internal/config"
)

// Clients bundles the Firebase-backed platform clients the application is
// built on. It is constructed once in main and passed down explicitly; there
// is no package-level client state.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
	Bucket    *gcs.BucketHandle
}

// NewClients initializes the Firebase Admin SDK and returns the Firestore,
// Auth and Storage clients. Credentials come from the config: a service
// account file path, a base64-encoded service account JSON, or Application
// Default Credentials when neither is set.
func NewClients(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Clients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("NewClients: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file specified in GOOGLE_APPLICATION_CREDENTIALS does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	default:
		// Application Default Credentials; the common case on GCE/GKE/Cloud Run.
		logger.Info("Initializing Firebase using Application Default Credentials (ADC)")
	}

	firebaseAppConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.StorageBucket,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close() // best effort
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	storageClient, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("storage.DefaultBucket: %w", err)
	}

	return &Clients{
		Firestore: fsClient,
		Auth:      authClient,
		Bucket:    bucket,
	}, nil
}

// Close releases the underlying gRPC connections.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
