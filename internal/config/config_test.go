package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")
	t.Setenv("FIREBASE_WEB_API_KEY", "web-api-key")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/sa.json")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")
	t.Setenv("STORAGE_BUCKET", "demo-project.appspot.com")
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CLIENT_URL", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "demo-project", cfg.FirebaseProjectID)
	assert.Equal(t, "web-api-key", cfg.FirebaseWebAPIKey)
	assert.Equal(t, "demo-project.appspot.com", cfg.StorageBucket)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("GIN_MODE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	tests := []struct {
		name  string
		unset string
		want  string
	}{
		{"project id", "FIREBASE_PROJECT_ID", "FIREBASE_PROJECT_ID is required"},
		{"web api key", "FIREBASE_WEB_API_KEY", "FIREBASE_WEB_API_KEY is required"},
		{"storage bucket", "STORAGE_BUCKET", "STORAGE_BUCKET is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_CredentialsEitherOr(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")

	_, err := LoadConfig()
	require.Error(t, err)

	// Base64-inlined credentials alone are sufficient.
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "eyJmYWtlIjoic2EifQ==")
	_, err = LoadConfig()
	assert.NoError(t, err)
}
