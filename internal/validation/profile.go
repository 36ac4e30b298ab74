// Package validation holds the declarative form schema for profile creation
// and update. Validation is synchronous and local: a failed submission never
// reaches the network.
package validation

import (
	"regexp"
	"strings"
	"time"
)

// Mode selects the schema variant. Update relaxes the required-ness of the
// date of birth; everything else is shared.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// ProfileForm is the raw submitted field set, before any typing.
type ProfileForm struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	Phone       string
}

// ProfilePayload is the strongly-typed result of a successful validation,
// ready for submission. Optional fields are nil when not provided.
type ProfilePayload struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Phone       *string
}

// FieldErrors maps field names to human-readable messages. Produced per
// submission attempt, never persisted.
type FieldErrors map[string]string

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)

	// Calendar bounds on the date of birth.
	dobFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// dob values are accepted either as plain dates or full RFC 3339 timestamps
// (the wire format the web client submits).
var dobLayouts = []string{"2006-01-02", time.RFC3339}

// ValidateProfileForm checks the form against the schema for the given mode.
// On failure it returns nil and a non-empty field-to-message map; on success
// a typed payload and nil.
func ValidateProfileForm(form ProfileForm, mode Mode) (*ProfilePayload, FieldErrors) {
	errs := FieldErrors{}

	validateName(errs, "firstName", form.FirstName, "First name")
	validateName(errs, "lastName", form.LastName, "Last name")

	var dob *time.Time
	if strings.TrimSpace(form.DateOfBirth) == "" {
		if mode == ModeCreate {
			errs["dob"] = "Date of birth is required."
		}
	} else {
		parsed, ok := parseDOB(form.DateOfBirth)
		switch {
		case !ok:
			errs["dob"] = "Date of birth must be a valid date."
		case parsed.After(time.Now()):
			errs["dob"] = "Date of birth cannot be in the future."
		case parsed.Before(dobFloor):
			errs["dob"] = "Date of birth cannot be before 1900-01-01."
		default:
			dob = &parsed
		}
	}

	var phone *string
	if p := strings.TrimSpace(form.Phone); p != "" {
		if !phoneRe.MatchString(p) {
			errs["phone"] = "Phone number must be 10 digits."
		} else {
			phone = &p
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &ProfilePayload{
		FirstName:   strings.TrimSpace(form.FirstName),
		LastName:    strings.TrimSpace(form.LastName),
		DateOfBirth: dob,
		Phone:       phone,
	}, nil
}

func validateName(errs FieldErrors, field, value, label string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = label + " is required."
		return
	}
	if !nameRe.MatchString(value) {
		errs[field] = label + " must contain only letters."
	}
}

func parseDOB(value string) (time.Time, bool) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
