package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"profilehub-backend-go/internal/identity"
)

func TestClassify_KnownCodes(t *testing.T) {
	tests := []struct {
		code     string
		category string
		title    string
	}{
		{identity.CodeInvalidEmail, "invalid-email", "Invalid Email"},
		{identity.CodeUserDisabled, "user-disabled", "Account Disabled"},
		{identity.CodeUserNotFound, "user-not-found", "User Not Found"},
		{identity.CodeWrongPassword, "wrong-password", "Incorrect Password"},
		{identity.CodeInvalidCredential, "invalid-credential", "Invalid Credentials"},
		{identity.CodeTooManyRequests, "too-many-requests", "Too Many Attempts"},
		{identity.CodeNetworkRequestFailed, "network-request-failed", "Network Error"},
		{identity.CodeEmailAlreadyInUse, "email-already-in-use", "Email In Use"},
		{identity.CodeWeakPassword, "weak-password", "Weak Password"},
		{identity.CodeRequiresRecentLogin, "requires-recent-login", "Requires Recent Login"},
		{identity.CodeEmailAlreadySent, "email-already-sent", "Email Already Sent"},
		{identity.CodeInvalidActionCode, "invalid-action-code", "Invalid Verification Link"},
		{identity.CodeExpiredActionCode, "expired-action-code", "Verification Link Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			notice := Classify(tt.code)
			assert.Equal(t, tt.category, notice.Category)
			assert.Equal(t, tt.title, notice.Title)
			assert.Equal(t, SeverityError, notice.Severity)
			assert.NotEmpty(t, notice.Message)
		})
	}
}

func TestClassify_IsTotal(t *testing.T) {
	for _, code := range []string{"auth/made-up-code", "", "EMAIL_NOT_FOUND"} {
		notice := Classify(code)
		assert.Equal(t, "unknown", notice.Category)
		assert.Equal(t, "Error", notice.Title)
		assert.Equal(t, "Something went wrong, please try again.", notice.Message)
	}
}

func TestClassifyError(t *testing.T) {
	provErr := &identity.ProviderError{Code: identity.CodeWrongPassword, Message: "INVALID_PASSWORD"}
	assert.Equal(t, "wrong-password", ClassifyError(provErr).Category)

	// Wrapped provider errors still classify.
	wrapped := errors.Join(errors.New("login failed"), provErr)
	assert.Equal(t, "wrong-password", ClassifyError(wrapped).Category)

	assert.Equal(t, "unknown", ClassifyError(errors.New("plain failure")).Category)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus("wrong-password"))
	assert.Equal(t, http.StatusConflict, HTTPStatus("email-already-in-use"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus("user-not-found"))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus("too-many-requests"))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus("network-request-failed"))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("unknown"))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("no-such-category"))
}
