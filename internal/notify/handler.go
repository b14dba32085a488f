package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// ShortageSource reports the blood groups currently below the threshold.
type ShortageSource interface {
	LowStock(ctx context.Context) ([]inventory.BloodType, error)
}

// PatientLister lists registered patients.
type PatientLister interface {
	List(ctx context.Context) ([]patients.Patient, error)
}

// Handler serves the admin blood-stock alert endpoints.
type Handler struct {
	service   *Service
	shortages ShortageSource
	patients  PatientLister
	logger    *logging.Logger
}

// NewHandler creates the alert handler.
func NewHandler(service *Service, shortages ShortageSource, patients PatientLister, logger *logging.Logger) *Handler {
	if service == nil || shortages == nil || patients == nil {
		panic("notify: service, shortage source and patient lister required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, shortages: shortages, patients: patients, logger: logger}
}

// Routes returns the admin blood-alert routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetShortages)
	r.Post("/broadcast", h.Broadcast)
	return r
}

// GetShortages handles GET /admin/blood-alerts
func (h *Handler) GetShortages(w http.ResponseWriter, r *http.Request) {
	low, err := h.shortages.LowStock(r.Context())
	if err != nil {
		h.writeShortageError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"low_stock": low, "critical": len(low) > 0})
}

// BroadcastResponse reports a donation broadcast.
type BroadcastResponse struct {
	Shortages []inventory.BloodType `json:"shortages"`
	BroadcastReport
}

// Broadcast handles POST /admin/blood-alerts/broadcast. Every registered
// patient gets one appeal per blood group below the threshold.
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	low, err := h.shortages.LowStock(r.Context())
	if err != nil {
		h.writeShortageError(w, err)
		return
	}
	if len(low) == 0 {
		respond.JSON(w, http.StatusOK, BroadcastResponse{Shortages: low})
		return
	}

	list, err := h.patients.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list patients for broadcast", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(list) == 0 {
		respond.Error(w, http.StatusConflict, "no patients registered to broadcast to")
		return
	}

	report := h.service.BroadcastDonationRequests(r.Context(), low, RecipientsFromPatients(list))
	respond.JSON(w, http.StatusOK, BroadcastResponse{Shortages: low, BroadcastReport: report})
}

func (h *Handler) writeShortageError(w http.ResponseWriter, err error) {
	if errors.Is(err, inventory.ErrUnrecognizedShape) {
		respond.Error(w, http.StatusInternalServerError, "inventory document is unreadable")
		return
	}
	h.logger.Error("failed to read shortages", "error", err)
	respond.Error(w, http.StatusInternalServerError, "internal server error")
}

// RecipientsFromPatients maps patients to recipients. A patient without an
// email is addressed as patient_<pid>@hospital.com.
func RecipientsFromPatients(list []patients.Patient) []Recipient {
	out := make([]Recipient, 0, len(list))
	for _, p := range list {
		email := p.Email
		if email == "" {
			email = fmt.Sprintf("patient_%d@hospital.com", p.PID)
		}
		out = append(out, Recipient{Email: email, Name: p.Name})
	}
	return out
}
