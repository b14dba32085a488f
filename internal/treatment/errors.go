package treatment

import "errors"

var (
	// ErrAppointmentNotFound is returned when the appointment is not in the
	// doctor's scheduled list.
	ErrAppointmentNotFound = errors.New("treatment: appointment not found")
	// ErrMissingSymptoms is returned when a consultation has no symptoms.
	ErrMissingSymptoms = errors.New("treatment: symptoms are required")
	// ErrMissingTreatment is returned when a finalisation has no treatment notes.
	ErrMissingTreatment = errors.New("treatment: treatment notes are required")
)
