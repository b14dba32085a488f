package patients

import "errors"

var (
	// ErrInvalidName is returned when the name is blank
	ErrInvalidName = errors.New("name is required")

	// ErrInvalidContact is returned when the contact is not ten digits
	ErrInvalidContact = errors.New("contact must be a 10-digit number")

	// ErrInvalidEmail is returned when an optional email is malformed
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidBloodGroup is returned when the blood group is outside the vocabulary
	ErrInvalidBloodGroup = errors.New("unknown blood group")

	// ErrInvalidStatus is returned for a status other than PENDING, ADMITTED or DISCHARGED
	ErrInvalidStatus = errors.New("status must be one of PENDING, ADMITTED, DISCHARGED")

	// ErrPatientNotFound is returned when no patient has the requested pid
	ErrPatientNotFound = errors.New("patient not found")
)
