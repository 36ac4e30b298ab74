package core

import (
	"errors"
	"net/http"

	"profilehub-backend-go/internal/identity"
)

// Severity selects how a notice is rendered client-side.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Notice is a user-facing notification. Callers are responsible for
// rendering; this package only decides the content.
type Notice struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// classification is one row of the provider-code table.
type classification struct {
	category string
	title    string
	message  string
	status   int
}

// classifications maps normalized provider error codes to display categories.
// Shared across every entry point (login, signup, verification resend,
// profile operations) so the same failure always reads the same way.
var classifications = map[string]classification{
	identity.CodeInvalidEmail: {
		category: "invalid-email",
		title:    "Invalid Email",
		message:  "The email format is invalid. Please enter a valid email address.",
		status:   http.StatusBadRequest,
	},
	identity.CodeUserDisabled: {
		category: "user-disabled",
		title:    "Account Disabled",
		message:  "This account has been disabled.",
		status:   http.StatusForbidden,
	},
	identity.CodeUserNotFound: {
		category: "user-not-found",
		title:    "User Not Found",
		message:  "No account with this email.",
		status:   http.StatusNotFound,
	},
	identity.CodeWrongPassword: {
		category: "wrong-password",
		title:    "Incorrect Password",
		message:  "The password you entered is not correct. Please try again.",
		status:   http.StatusUnauthorized,
	},
	identity.CodeInvalidCredential: {
		category: "invalid-credential",
		title:    "Invalid Credentials",
		message:  "Email or password is incorrect.",
		status:   http.StatusUnauthorized,
	},
	identity.CodeTooManyRequests: {
		category: "too-many-requests",
		title:    "Too Many Attempts",
		message:  "Too many attempts, try again later.",
		status:   http.StatusTooManyRequests,
	},
	identity.CodeNetworkRequestFailed: {
		category: "network-request-failed",
		title:    "Network Error",
		message:  "Unable to connect. Check your internet connection and try again.",
		status:   http.StatusBadGateway,
	},
	identity.CodeEmailAlreadyInUse: {
		category: "email-already-in-use",
		title:    "Email In Use",
		message:  "The email you entered is already associated with an account. Please login or reset your password.",
		status:   http.StatusConflict,
	},
	identity.CodeWeakPassword: {
		category: "weak-password",
		title:    "Weak Password",
		message:  "Password is too weak. Use a mix of characters to strengthen it.",
		status:   http.StatusBadRequest,
	},
	identity.CodeRequiresRecentLogin: {
		category: "requires-recent-login",
		title:    "Requires Recent Login",
		message:  "Please log in again to perform this action.",
		status:   http.StatusUnauthorized,
	},
	identity.CodeInvalidActionCode: {
		category: "invalid-action-code",
		title:    "Invalid Verification Link",
		message:  "The verification link is invalid or has already been used.",
		status:   http.StatusBadRequest,
	},
	identity.CodeExpiredActionCode: {
		category: "expired-action-code",
		title:    "Verification Link Expired",
		message:  "The verification link has expired. Please request a new one.",
		status:   http.StatusBadRequest,
	},
	identity.CodeEmailAlreadySent: {
		category: "email-already-sent",
		title:    "Email Already Sent",
		message:  "A verification email has already been sent. Please check your inbox.",
		status:   http.StatusTooManyRequests,
	},
}

var unknownClassification = classification{
	category: "unknown",
	title:    "Error",
	message:  "Something went wrong, please try again.",
	status:   http.StatusInternalServerError,
}

// Classify maps a provider error code to a user-facing notice. It is total:
// unrecognized codes map to the "unknown" category.
func Classify(code string) Notice {
	c, ok := classifications[code]
	if !ok {
		c = unknownClassification
	}
	return Notice{
		Category: c.category,
		Severity: SeverityError,
		Title:    c.title,
		Message:  c.message,
	}
}

// ClassifyError classifies any error surfaced by a provider operation.
// Non-provider errors fall into the "unknown" category.
func ClassifyError(err error) Notice {
	var provErr *identity.ProviderError
	if errors.As(err, &provErr) {
		return Classify(provErr.Code)
	}
	return Classify("")
}

// HTTPStatus maps a classification category to the response status the API
// layer uses when rendering the notice.
func HTTPStatus(category string) int {
	for _, c := range classifications {
		if c.category == category {
			return c.status
		}
	}
	return unknownClassification.status
}
