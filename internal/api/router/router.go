package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/smart-hospital/internal/appointments"
	"github.com/wolfman30/smart-hospital/internal/auth"
	httpmiddleware "github.com/wolfman30/smart-hospital/internal/http/middleware"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/notify"
	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/internal/staff"
	"github.com/wolfman30/smart-hospital/internal/treatment"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	Auth         *auth.Handler
	Sessions     httpmiddleware.TokenVerifier
	Staff        *staff.Handler
	Patients     *patients.Handler
	Appointments *appointments.Handler
	Inventory    *inventory.Handler
	BloodAlerts  *notify.Handler
	Cabin        *treatment.CabinHandler

	MetricsHandler http.Handler
	// LoginLimiter throttles POST /auth/login per client IP when set.
	LoginLimiter *httpmiddleware.RateLimiter
}

// New creates a chi router with every role's routes mounted. Groups whose
// handler is nil are skipped.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Auth != nil {
		var limits []func(http.Handler) http.Handler
		if cfg.LoginLimiter != nil {
			limits = append(limits, httpmiddleware.RateLimit(cfg.LoginLimiter))
		}
		r.With(limits...).Mount("/auth", cfg.Auth.Routes())
	}

	if cfg.Sessions == nil {
		return r
	}

	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.Session(cfg.Sessions))

		private.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireRole(staff.RoleAdmin))
			if cfg.Staff != nil {
				admin.Mount("/staff", cfg.Staff.Routes())
			}
			if cfg.BloodAlerts != nil {
				admin.Mount("/blood-alerts", cfg.BloodAlerts.Routes())
			}
		})

		private.Route("/reception", func(desk chi.Router) {
			desk.Use(httpmiddleware.RequireRole(staff.RoleNurse, staff.RoleStaff))
			if cfg.Patients != nil {
				desk.Mount("/patients", cfg.Patients.Routes())
			}
			if cfg.Appointments != nil {
				desk.Mount("/appointments", cfg.Appointments.Routes())
			}
			if cfg.Staff != nil {
				desk.Get("/doctors", cfg.Staff.ListDoctors)
			}
		})

		if cfg.Inventory != nil {
			private.With(httpmiddleware.RequireRole(staff.RoleNurse, staff.RoleStaff)).
				Mount("/blood-bank", cfg.Inventory.Routes())
		}

		if cfg.Cabin != nil {
			private.With(httpmiddleware.RequireRole(staff.RoleDoctor)).
				Mount("/cabin", cfg.Cabin.Routes())
		}
	})

	return r
}
