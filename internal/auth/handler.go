package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Handler serves login.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the login handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if service == nil {
		panic("auth: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the auth routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.Login)
	return r
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	case errors.Is(err, ErrSessionsDisabled):
		respond.Error(w, http.StatusServiceUnavailable, "login is disabled")
		return
	case err != nil:
		h.logger.Error("login failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, session)
}
