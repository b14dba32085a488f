package appointments

import "errors"

var (
	// ErrPatientNotFound is returned when booking names an unknown patient
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDoctorNotFound is returned when booking names a member who is not a doctor
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrInvalidTimeSlot is returned when the requested time cannot be parsed
	ErrInvalidTimeSlot = errors.New("time_slot must be YYYY-MM-DD HH:MM[:SS]")

	// ErrAppointmentNotFound is returned when no appointment has the requested id
	ErrAppointmentNotFound = errors.New("appointment not found")
)
