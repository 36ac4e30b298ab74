package models

// SignUpRequest represents the request body for creating a new account.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request body for signing in with email/password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the out-of-band action code from the verification
// link the provider mailed to the user.
type VerifyEmailRequest struct {
	OOBCode string `json:"oobCode" binding:"required"`
}

// CompleteProfileRequest represents the request body for the one-time
// profile-completion step. Field-level validation (formats, date bounds) is
// performed by the validation package rather than binding tags, so that
// failures come back as per-field messages.
type CompleteProfileRequest struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	DateOfBirth string `json:"dob" form:"dob"`
	Phone       string `json:"phone" form:"phone"`
}

// UpdateProfileRequest represents the multipart form fields of a profile
// update. The optional image file travels alongside these fields and is
// handled separately by the handler.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName" form:"firstName"`
	LastName    string `json:"lastName" form:"lastName"`
	DateOfBirth string `json:"dob" form:"dob"`
	Phone       string `json:"phone" form:"phone"`
}
