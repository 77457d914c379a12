package transport

import (
	"errors"
	"net/http"

	"quick-order/internal/commerce"
	"quick-order/internal/domain"
	"quick-order/internal/grid"
	"quick-order/internal/middleware"
	"quick-order/internal/repository"
	"quick-order/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FormPayload is one bulk-order form plus the id of the grid session seeded
// for it.
type FormPayload struct {
	*service.BulkOrderForm
	GridID string `json:"gridId"`
}

// PagePayload is the response of the index and quick-order page controllers.
type PagePayload struct {
	SearchTerm              string                `json:"searchTerm"`
	Products                []domain.Product      `json:"products"`
	PageInfo                domain.PageInfo       `json:"pageInfo"`
	Prices                  domain.PriceOverrides `json:"prices"`
	Forms                   []FormPayload         `json:"forms"`
	NoResultRecommendations []FormPayload         `json:"noResultRecommendations,omitempty"`
}

// StorefrontHandler serves the index and quick-order page routes.
type StorefrontHandler struct {
	catalogRepo      repository.CatalogRepository
	pricingService   service.PricingService
	bulkOrderService service.BulkOrderService
	grids            *grid.Store
	logger           *zap.Logger
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(
	catalogRepo repository.CatalogRepository,
	pricingService service.PricingService,
	bulkOrderService service.BulkOrderService,
	grids *grid.Store,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		catalogRepo:      catalogRepo,
		pricingService:   pricingService,
		bulkOrderService: bulkOrderService,
		grids:            grids,
		logger:           logger,
	}
}

// RegisterRoutes registers the page routes
func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/quick-order", h.QuickOrder)
}

// Index handles the index page: product search plus customer pricing.
func (h *StorefrontHandler) Index(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.loadPage(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, payload)
}

// QuickOrder handles the quick-order page. On top of the index payload it
// resolves fallback recommendations when the search term is empty or matched
// nothing.
func (h *StorefrontHandler) QuickOrder(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.loadPage(w, r)
	if !ok {
		return
	}

	if payload.SearchTerm == "" || len(payload.Products) == 0 {
		products, err := h.catalogRepo.Recommendations(r.Context())
		if err != nil {
			h.logger.Error("Failed to load recommendations", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "failed to load recommendations")
			return
		}
		payload.NoResultRecommendations = h.buildForms(products, payload.Prices)
	}

	middleware.RespondWithJSON(w, http.StatusOK, payload)
}

// loadPage runs the shared page controller flow: parse `q` and `cursor`,
// fetch the product page and resolve customer pricing concurrently, then
// build one bulk-order form per product. The two fetches have no data
// dependency on each other; the resolver's own admin calls stay sequential
// inside the pricing service. On failure it writes the error response and
// returns ok=false.
func (h *StorefrontHandler) loadPage(w http.ResponseWriter, r *http.Request) (*PagePayload, bool) {
	searchTerm := r.URL.Query().Get("q")
	cursor := r.URL.Query().Get("cursor")
	customerToken := middleware.GetCustomerToken(r.Context())

	var (
		page    *domain.ProductPage
		pricing *domain.CustomerPricing
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		page, err = h.catalogRepo.Search(ctx, searchTerm, cursor)
		return err
	})
	g.Go(func() error {
		var err error
		pricing, err = h.pricingService.ResolveCustomerPricing(ctx, customerToken)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("Failed to load page data",
			zap.Error(err),
			zap.String("search_term", searchTerm),
		)
		if errors.Is(err, commerce.ErrNoData) {
			middleware.RespondWithError(w, http.StatusBadGateway, commerce.ErrNoData.Error())
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadGateway, "failed to load page data")
		return nil, false
	}

	return &PagePayload{
		SearchTerm: searchTerm,
		Products:   page.Products,
		PageInfo:   page.PageInfo,
		Prices:     pricing.Prices,
		Forms:      h.buildForms(page.Products, pricing.Prices),
	}, true
}

// buildForms builds one bulk-order form per product and seeds a grid session
// for each. Products that end up with no variants are skipped.
func (h *StorefrontHandler) buildForms(products []domain.Product, prices domain.PriceOverrides) []FormPayload {
	forms := make([]FormPayload, 0, len(products))
	for _, product := range products {
		form := h.bulkOrderService.BuildForm(product, prices, "")
		if form == nil {
			continue
		}
		forms = append(forms, FormPayload{
			BulkOrderForm: form,
			GridID:        h.grids.Create(form.Variants),
		})
	}
	return forms
}
