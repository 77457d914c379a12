package transport

import (
	"errors"
	"net/http"

	"quick-order/internal/grid"
	"quick-order/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FilterRequest sets the grid's global fuzzy filter. An empty query clears
// the filter, so the field carries no validation tag.
type FilterRequest struct {
	Query string `json:"query"`
}

// QuantityRequest edits one row's quantity. Commit marks the blur path; an
// uncommitted edit only buffers the value.
type QuantityRequest struct {
	VariantID string `json:"variantId" validate:"required"`
	Value     string `json:"value"`
	Commit    bool   `json:"commit"`
}

// CartRequest builds a cart line from one row's committed quantity.
type CartRequest struct {
	VariantID string `json:"variantId" validate:"required"`
}

// GridHandler exposes the variant grid interactions over HTTP.
type GridHandler struct {
	grids  *grid.Store
	logger *zap.Logger
}

// NewGridHandler creates a new GridHandler
func NewGridHandler(grids *grid.Store, logger *zap.Logger) *GridHandler {
	return &GridHandler{
		grids:  grids,
		logger: logger,
	}
}

// RegisterRoutes registers the grid API routes
func (h *GridHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Route("/api/grids/{gridID}", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Get("/rows", h.Rows)
		r.Post("/filter", h.Filter)
		r.Post("/quantity", h.Quantity)
		r.Post("/cart", h.AddToCart)
		r.Delete("/", h.Release)
	})
}

func (h *GridHandler) lookup(w http.ResponseWriter, r *http.Request) (*grid.Grid, bool) {
	g, err := h.grids.Get(chi.URLParam(r, "gridID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "grid session not found")
		return nil, false
	}
	return g, true
}

// Rows returns the grid's current filtered rows.
func (h *GridHandler) Rows(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"rows": g.Rows()})
}

// Filter updates the global filter query. The recompute happens after the
// debounce window, so the response only acknowledges the input.
func (h *GridHandler) Filter(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req FilterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := g.SetFilter(req.Query); err != nil {
		h.respondGridError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusAccepted, map[string]string{"query": req.Query})
}

// Quantity buffers or commits one row's quantity edit and returns the
// resulting row, including any availability advisory.
func (h *GridHandler) Quantity(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req QuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := g.Input(req.VariantID, req.Value); err != nil {
		h.respondGridError(w, err)
		return
	}
	if req.Commit {
		if err := g.Commit(req.VariantID); err != nil {
			h.respondGridError(w, err)
			return
		}
	}

	row, err := g.Row(req.VariantID)
	if err != nil {
		h.respondGridError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, row)
}

// AddToCart builds the cart line for a row.
func (h *GridHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req CartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, err := g.AddToCart(req.VariantID)
	if err != nil {
		h.respondGridError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, line)
}

// Release discards a grid session, the unmount path.
func (h *GridHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.grids.Release(chi.URLParam(r, "gridID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *GridHandler) respondGridError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grid.ErrRowNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, grid.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, grid.ErrClosed):
		middleware.RespondWithError(w, http.StatusGone, err.Error())
	default:
		h.logger.Error("Grid operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "grid operation failed")
	}
}
