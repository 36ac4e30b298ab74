package models

import "time"

// Profile is the user-owned document of personal attributes stored in the
// "users" Firestore collection. The document ID is the Firebase Auth UID.
// A Profile document exists if and only if the owning user has completed the
// profile-completion step after email verification.
type Profile struct {
	UserID      string     `json:"userId" firestore:"-"` // Firebase Auth UID, taken from the document reference
	Email       string     `json:"email" firestore:"email"`
	FirstName   string     `json:"firstName" firestore:"firstName"`
	LastName    string     `json:"lastName" firestore:"lastName"`
	DateOfBirth *time.Time `json:"dob" firestore:"dob"`
	Phone       *string    `json:"phone" firestore:"phone"`
	PhotoURL    *string    `json:"photoURL" firestore:"photoURL"`
}

// FullName renders the display name stored on the identity provider record.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
