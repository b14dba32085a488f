package patients

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Handler handles HTTP requests for patients
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("patients: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns the reception-desk patient routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListPatients)
	r.Post("/", h.RegisterPatient)
	r.Get("/{pid}", h.GetPatient)
	r.Put("/{pid}/status", h.UpdateStatus)
	return r
}

// ListPatientsResponse is the response for listing patients
type ListPatientsResponse struct {
	Patients []Patient `json:"patients"`
	Count    int       `json:"count"`
}

// RegisterPatient handles POST /reception/patients
func (h *Handler) RegisterPatient(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.repo.Register(r.Context(), &req)
	if err != nil {
		h.writeError(w, "register patient", err)
		return
	}

	h.logger.Info("patient registered", "pid", p.PID)
	respond.JSON(w, http.StatusCreated, p)
}

// ListPatients handles GET /reception/patients
func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, "list patients", err)
		return
	}
	respond.JSON(w, http.StatusOK, ListPatientsResponse{Patients: list, Count: len(list)})
}

// GetPatient handles GET /reception/patients/{pid}
func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "pid must be a number")
		return
	}
	p, err := h.repo.Get(r.Context(), pid)
	if err != nil {
		h.writeError(w, "get patient", err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// UpdateStatusRequest carries the new admission status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /reception/patients/{pid}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "pid must be a number")
		return
	}
	var req UpdateStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.repo.UpdateStatus(r.Context(), pid, status); err != nil {
		h.writeError(w, "update patient status", err)
		return
	}

	h.logger.Info("patient status updated", "pid", pid, "status", status)
	respond.JSON(w, http.StatusOK, map[string]any{"pid": pid, "current_status": status})
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrPatientNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidContact),
		errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidBloodGroup),
		errors.Is(err, ErrInvalidStatus):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+op, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
