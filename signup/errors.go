package signup

import (
	"errors"
	"fmt"

	"github.com/tabsye/waitlist/tracker"
	"github.com/tabsye/waitlist/waitlist"
)

// Sentinel errors.
var (
	ErrFirstNameRequired = errors.New("signup: first name is required")
	ErrLastNameRequired  = errors.New("signup: last name is required")
	ErrEmailRequired     = errors.New("signup: email address is required")
	ErrInvalidEmail      = errors.New("signup: invalid email address")
	ErrMobileRequired    = errors.New("signup: mobile number is required")
	ErrInvalidMobile     = errors.New("signup: invalid mobile number")
	ErrInvalidKind       = errors.New("signup: unknown contact kind")
	ErrDuplicate         = errors.New("signup: already registered")
	ErrRejected          = errors.New("signup: rejected by the waitlist api")
)

// DuplicateError reports a contact value that is already on the waitlist.
// It matches ErrDuplicate with errors.Is.
type DuplicateError struct {
	Kind tracker.Kind
	// Remote is true when the remote API, not the local tracker, detected it.
	Remote bool
}

func (e *DuplicateError) Error() string {
	source := "local"
	if e.Remote {
		source = "remote"
	}
	return fmt.Sprintf("signup: %s already registered (%s)", e.Kind, source)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// RejectedError is returned when the API answers success=false. It matches
// ErrRejected with errors.Is.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "signup: rejected by the waitlist api: " + e.Message
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

var userMessages = map[error]string{
	ErrFirstNameRequired: "First name is required.",
	ErrLastNameRequired:  "Last name is required.",
	ErrEmailRequired:     "Email address is required.",
	ErrInvalidEmail:      "Enter a valid email address.",
	ErrMobileRequired:    "Mobile number is required.",
	ErrInvalidMobile:     "Enter a valid 10-digit mobile number.",
	ErrInvalidKind:       "Choose email or mobile.",
}

// UserMessage turns an error returned by Submit or Check into the text shown
// next to the signup form.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var dup *DuplicateError
	if errors.As(err, &dup) {
		if dup.Kind == tracker.KindMobile {
			return "This mobile number is already registered for the waitlist."
		}
		return "This email is already registered for the waitlist."
	}
	for sentinel, msg := range userMessages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}

	var apiErr *waitlist.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return rejected.Message
		}
		return "Failed to add to waitlist."
	}
	return "Network error. Please check your connection and try again."
}
