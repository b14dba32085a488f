package inventory

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

// LowStockNotifier is told about blood groups that just crossed below the
// threshold.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, levels []StockLevel)
}

// Handler serves the blood-bank endpoints. Every request builds a fresh
// Engine so the stored document is re-read each time.
type Handler struct {
	store    DocumentStore
	cfg      Config
	notifier LowStockNotifier
	logger   *logging.Logger

	// mu serialises read-modify-write cycles on the inventory document.
	mu sync.Mutex
}

// NewHandler wires the blood-bank endpoints. notifier may be nil.
func NewHandler(st DocumentStore, cfg Config, notifier LowStockNotifier) *Handler {
	if st == nil {
		panic("inventory: document store required")
	}
	return &Handler{
		store:    st,
		cfg:      cfg,
		notifier: notifier,
		logger:   cfg.resolve().logger,
	}
}

// Routes returns the blood-bank router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/levels", h.GetLevels)
	r.Get("/low-stock", h.GetLowStock)
	r.Post("/adjust", h.Adjust)
	return r
}

// LevelsResponse is the stock overview.
type LevelsResponse struct {
	Levels    []StockLevel `json:"levels"`
	LowStock  []BloodType  `json:"low_stock"`
	Threshold int          `json:"threshold"`
}

// AdjustRequest adds Delta units to BloodGroup. Negative deltas issue stock.
type AdjustRequest struct {
	BloodGroup string `json:"blood_group"`
	Delta      int    `json:"delta"`
}

// GetLevels returns every blood group with its count.
// GET /blood-bank/levels
func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	e, err := NewEngine(r.Context(), h.store, h.cfg)
	h.mu.Unlock()
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "inventory document is unreadable")
		return
	}
	respond.JSON(w, http.StatusOK, h.levels(e))
}

// GetLowStock returns the blood groups below the threshold.
// GET /blood-bank/low-stock
func (h *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	e, err := NewEngine(r.Context(), h.store, h.cfg)
	h.mu.Unlock()
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "inventory document is unreadable")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"low_stock": e.LowStock(),
		"threshold": e.Threshold(),
	})
}

// Adjust applies a stock delta and reports the new levels. Groups that fall
// below the threshold because of this adjustment trigger a notification.
// POST /blood-bank/adjust
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	e, err := NewEngine(r.Context(), h.store, h.cfg)
	if err != nil {
		h.mu.Unlock()
		respond.Error(w, http.StatusInternalServerError, "inventory document is unreadable")
		return
	}
	before := e.LowStock()
	err = e.UpdateStock(r.Context(), req.BloodGroup, req.Delta)
	h.mu.Unlock()

	switch {
	case errors.Is(err, ErrUnknownBloodType):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ErrNotPersisted):
		respond.Error(w, http.StatusInternalServerError, "stock change could not be saved")
		return
	case err != nil:
		h.logger.Error("inventory: adjust failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if newly := NewlyLow(before, e.LowStock()); len(newly) > 0 && h.notifier != nil {
		h.notifier.NotifyLowStock(r.Context(), levelsFor(e, newly))
	}
	respond.JSON(w, http.StatusOK, h.levels(e))
}

// LowStock reloads the document and returns the groups below the threshold.
func (h *Handler) LowStock(ctx context.Context) ([]BloodType, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := NewEngine(ctx, h.store, h.cfg)
	if err != nil {
		return nil, err
	}
	return e.LowStock(), nil
}

func (h *Handler) levels(e *Engine) LevelsResponse {
	return LevelsResponse{
		Levels:    e.Levels(),
		LowStock:  e.LowStock(),
		Threshold: e.Threshold(),
	}
}

func levelsFor(e *Engine, groups []BloodType) []StockLevel {
	out := make([]StockLevel, 0, len(groups))
	for _, bt := range groups {
		units, _ := e.Units(bt)
		out = append(out, StockLevel{BloodGroup: bt, Units: units, Low: true})
	}
	return out
}
