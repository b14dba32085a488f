// Package appointments books patients with doctors and tracks completion.
package appointments

import (
	"encoding/json"
	"strings"
	"time"
)

// Status of an appointment.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
)

const (
	// FirstID is the id given to the first booked appointment.
	FirstID = 1001

	// TimeSlotLayout is how time_slot is stored.
	TimeSlotLayout = "2006-01-02 15:04:05"

	unknownName = "Unknown"
)

// Appointment is one record of the appointments document. Patient and doctor
// names are cached at booking time.
type Appointment struct {
	AppointmentID int    `json:"appointment_id"`
	PatientID     int    `json:"patient_id"`
	DoctorID      int    `json:"doctor_id"`
	PatientName   string `json:"patient_name"`
	DoctorName    string `json:"doctor_name"`
	TimeSlot      string `json:"time_slot"`
	Status        Status `json:"status"`
}

// UnmarshalJSON reads older records that stored the slot under date_time and
// fills the defaults for missing names and status.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	type plain Appointment
	var aux struct {
		plain
		DateTime string `json:"date_time"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Appointment(aux.plain)
	if a.TimeSlot == "" {
		a.TimeSlot = aux.DateTime
	}
	if a.TimeSlot == "" {
		a.TimeSlot = "N/A"
	}
	if a.PatientName == "" {
		a.PatientName = unknownName
	}
	if a.DoctorName == "" {
		a.DoctorName = unknownName
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

// BookRequest is the reception's booking form.
type BookRequest struct {
	PatientID int    `json:"patient_id"`
	DoctorID  int    `json:"doctor_id"`
	TimeSlot  string `json:"time_slot"`
}

var slotLayouts = []string{
	TimeSlotLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ParseTimeSlot accepts a date and time and formats it as TimeSlotLayout.
func ParseTimeSlot(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeSlotLayout), nil
		}
	}
	return "", ErrInvalidTimeSlot
}
