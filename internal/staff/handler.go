package staff

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Handler serves staff administration.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a staff handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("staff: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes returns the admin staff routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListMembers)
	r.Post("/", h.CreateMember)
	r.Delete("/{email}", h.DeleteMember)
	return r
}

// CreateMember handles POST /admin/staff
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "create staff member", err)
		return
	}
	h.logger.Info("staff member created", "pid", m.PID, "role", m.Role)
	respond.JSON(w, http.StatusCreated, m.Masked())
}

// ListMembers handles GET /admin/staff
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, "list staff", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"staff": members, "count": len(members)})
}

// DeleteMember handles DELETE /admin/staff/{email}
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.repo.Delete(r.Context(), email); err != nil {
		h.writeError(w, "delete staff member", err)
		return
	}
	h.logger.Info("staff member deleted", "email", email)
	w.WriteHeader(http.StatusNoContent)
}

// ListDoctors handles GET /reception/doctors
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.repo.Doctors(r.Context())
	if err != nil {
		h.writeError(w, "list doctors", err)
		return
	}
	if doctors == nil {
		doctors = []Member{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"doctors": doctors})
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmailExists):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidContact),
		errors.Is(err, ErrMissingCredentials), errors.Is(err, ErrInvalidRole):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("failed to "+op, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
