package treatment

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/smart-hospital/internal/appointments"
	"github.com/wolfman30/smart-hospital/internal/auth"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// AppointmentBook is the part of appointments.Repository the cabin uses.
type AppointmentBook interface {
	ScheduledForDoctor(ctx context.Context, doctorID int) ([]appointments.Appointment, error)
	Complete(ctx context.Context, id int) error
}

// PatientRecords is the part of patients.Repository the cabin uses.
type PatientRecords interface {
	Get(ctx context.Context, pid int) (*patients.Patient, error)
	AddHistory(ctx context.Context, pid int, entry patients.HistoryEntry) error
}

// Advisor produces a treatment suggestion.
type Advisor interface {
	Suggest(ctx context.Context, symptoms string, history []patients.HistoryEntry) Suggestion
}

// ConsultRequest carries the symptoms a doctor observed.
type ConsultRequest struct {
	Symptoms string `json:"symptoms"`
}

// ConsultResponse pairs the suggestion with the patient it was made for.
type ConsultResponse struct {
	AppointmentID int                     `json:"appointment_id"`
	PatientID     int                     `json:"patient_id"`
	History       []patients.HistoryEntry `json:"medical_history"`
	Suggestion    Suggestion              `json:"suggestion"`
}

// FinalizeRequest is the doctor's decision. An empty diagnosis is recorded as
// "Consultation".
type FinalizeRequest struct {
	Diagnosis string `json:"diagnosis"`
	Treatment string `json:"treatment"`
}

// CabinHandler serves the doctor's cabin. Every route expects session claims
// in the request context.
type CabinHandler struct {
	appointments AppointmentBook
	patients     PatientRecords
	advisor      Advisor
	logger       *logging.Logger
	now          func() time.Time
}

// NewCabinHandler creates the cabin handler.
func NewCabinHandler(appts AppointmentBook, pts PatientRecords, advisor Advisor, logger *logging.Logger) *CabinHandler {
	if appts == nil || pts == nil {
		panic("treatment: appointment and patient repositories required")
	}
	if advisor == nil {
		panic("treatment: advisor required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CabinHandler{appointments: appts, patients: pts, advisor: advisor, logger: logger, now: time.Now}
}

// Routes returns the cabin routes.
func (h *CabinHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/appointments", h.ListAppointments)
	r.Post("/appointments/{id}/consult", h.Consult)
	r.Post("/appointments/{id}/finalize", h.Finalize)
	return r
}

// ListAppointments handles GET /cabin/appointments
func (h *CabinHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not logged in")
		return
	}
	list, err := h.appointments.ScheduledForDoctor(r.Context(), claims.PID)
	if err != nil {
		h.logger.Error("failed to list cabin appointments", "doctor_id", claims.PID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// Consult handles POST /cabin/appointments/{id}/consult
func (h *CabinHandler) Consult(w http.ResponseWriter, r *http.Request) {
	appt, ok := h.ownAppointment(w, r)
	if !ok {
		return
	}
	var req ConsultRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" {
		respond.Error(w, http.StatusBadRequest, ErrMissingSymptoms.Error())
		return
	}

	p, err := h.patients.Get(r.Context(), appt.PatientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	history := p.MedicalHistory
	if history == nil {
		history = []patients.HistoryEntry{}
	}
	sug := h.advisor.Suggest(r.Context(), req.Symptoms, history)
	respond.JSON(w, http.StatusOK, ConsultResponse{
		AppointmentID: appt.AppointmentID,
		PatientID:     appt.PatientID,
		History:       history,
		Suggestion:    sug,
	})
}

// Finalize handles POST /cabin/appointments/{id}/finalize
func (h *CabinHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	appt, ok := h.ownAppointment(w, r)
	if !ok {
		return
	}
	var req FinalizeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Treatment) == "" {
		respond.Error(w, http.StatusBadRequest, ErrMissingTreatment.Error())
		return
	}
	diagnosis := strings.TrimSpace(req.Diagnosis)
	if diagnosis == "" {
		diagnosis = "Consultation"
	}

	entry := patients.HistoryEntry{
		Date:      h.now().Format("2006-01-02"),
		Diagnosis: diagnosis,
		Treatment: strings.TrimSpace(req.Treatment),
		DoctorID:  appt.DoctorID,
	}
	if err := h.patients.AddHistory(r.Context(), appt.PatientID, entry); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.appointments.Complete(r.Context(), appt.AppointmentID); err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("treatment finalized", "appointment_id", appt.AppointmentID, "patient_id", appt.PatientID, "doctor_id", appt.DoctorID)
	respond.JSON(w, http.StatusOK, map[string]any{
		"appointment_id": appt.AppointmentID,
		"status":         appointments.StatusCompleted,
		"history_entry":  entry,
	})
}

// ownAppointment resolves {id} among the logged-in doctor's scheduled
// appointments and writes the error response when it is not there.
func (h *CabinHandler) ownAppointment(w http.ResponseWriter, r *http.Request) (*appointments.Appointment, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not logged in")
		return nil, false
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "appointment id must be an integer")
		return nil, false
	}
	list, err := h.appointments.ScheduledForDoctor(r.Context(), claims.PID)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	for i := range list {
		if list[i].AppointmentID == id {
			return &list[i], true
		}
	}
	respond.Error(w, http.StatusNotFound, ErrAppointmentNotFound.Error())
	return nil, false
}

func (h *CabinHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, patients.ErrPatientNotFound), errors.Is(err, appointments.ErrAppointmentNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("cabin request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
