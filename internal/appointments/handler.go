package appointments

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Handler serves appointment booking at the reception desk.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates an appointments handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns the booking routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAppointments)
	r.Post("/", h.BookAppointment)
	return r
}

// BookAppointment handles POST /reception/appointments
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.repo.Book(r.Context(), &req)
	switch {
	case errors.Is(err, ErrInvalidTimeSlot):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrPatientNotFound), errors.Is(err, ErrDoctorNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to book appointment", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.logger.Info("appointment booked", "appointment_id", a.AppointmentID, "doctor_id", a.DoctorID)
	respond.JSON(w, http.StatusCreated, a)
}

// ListAppointments handles GET /reception/appointments
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}
