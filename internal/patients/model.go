// Package patients registers patients and keeps their status and medical history.
package patients

import (
	"strings"

	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/validation"
)

// Status is a patient's admission state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAdmitted   Status = "ADMITTED"
	StatusDischarged Status = "DISCHARGED"
)

// ParseStatus accepts a status in any letter case.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusAdmitted, StatusDischarged:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// UnknownBloodGroup is stored when registration leaves the blood group blank.
const UnknownBloodGroup = "Unknown"

// FirstPID is the pid given to the first registered patient.
const FirstPID = 101

// Patient is one record of the patients document.
type Patient struct {
	PID              int            `json:"pid"`
	Name             string         `json:"name"`
	Age              int            `json:"age"`
	Contact          string         `json:"contact"`
	Email            string         `json:"email,omitempty"`
	BloodGroup       string         `json:"blood_group"`
	MedicalHistory   []HistoryEntry `json:"medical_history"`
	CurrentStatus    Status         `json:"current_status"`
	AssignedDoctorID *int           `json:"assigned_doctor_id"`
}

// normalize fills defaults for records written before a field existed.
func (p *Patient) normalize() {
	if p.CurrentStatus == "" {
		p.CurrentStatus = StatusPending
	}
	if p.BloodGroup == "" {
		p.BloodGroup = UnknownBloodGroup
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []HistoryEntry{}
	}
}

// HistoryEntry is one consultation outcome. Older entries carry disease,
// ai_prediction or details instead of diagnosis and treatment.
type HistoryEntry struct {
	Date      string `json:"date"`
	Diagnosis string `json:"diagnosis,omitempty"`
	Treatment string `json:"treatment,omitempty"`
	DoctorID  int    `json:"doctor_id,omitempty"`

	Disease      string `json:"disease,omitempty"`
	AIPrediction string `json:"ai_prediction,omitempty"`
	Details      string `json:"details,omitempty"`
}

// DiagnosisText returns the diagnosis, falling back to the legacy disease key.
func (h HistoryEntry) DiagnosisText() string {
	switch {
	case h.Diagnosis != "":
		return h.Diagnosis
	case h.Disease != "":
		return h.Disease
	default:
		return "Unknown"
	}
}

// TreatmentText returns the treatment, falling back to the legacy details key.
func (h HistoryEntry) TreatmentText() string {
	switch {
	case h.Treatment != "":
		return h.Treatment
	case h.Details != "":
		return h.Details
	default:
		return "N/A"
	}
}

// RegisterRequest is the reception form.
type RegisterRequest struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Contact    string `json:"contact"`
	Email      string `json:"email,omitempty"`
	BloodGroup string `json:"blood_group"`
}

// Validate checks the request and canonicalises the blood group.
func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Contact = strings.TrimSpace(r.Contact)
	if r.Name == "" {
		return ErrInvalidName
	}
	if !validation.ValidContact(r.Contact) {
		return ErrInvalidContact
	}
	if r.Email != "" && !validation.ValidEmail(r.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.BloodGroup) == "" {
		r.BloodGroup = UnknownBloodGroup
		return nil
	}
	bt, ok := inventory.ParseBloodType(r.BloodGroup)
	if !ok {
		return ErrInvalidBloodGroup
	}
	r.BloodGroup = bt.String()
	return nil
}
