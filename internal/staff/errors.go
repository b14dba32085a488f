package staff

import "errors"

var (
	// ErrInvalidEmail is returned when the email lacks '@' or '.'
	ErrInvalidEmail = errors.New("invalid email: must contain '@' and '.'")

	// ErrInvalidContact is returned when the contact is not ten digits
	ErrInvalidContact = errors.New("contact must be a 10-digit number")

	// ErrEmailExists is returned when another member already uses the email
	ErrEmailExists = errors.New("email already exists")

	// ErrMissingCredentials is returned when email or password is blank
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrInvalidRole is returned for a role other than Admin, Doctor, Nurse or Staff
	ErrInvalidRole = errors.New("role must be one of Admin, Doctor, Nurse, Staff")

	// ErrMemberNotFound is returned when no member matches
	ErrMemberNotFound = errors.New("staff member not found")
)
