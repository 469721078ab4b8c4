package transport

import (
	"net/http"
	"strconv"

	"storefront-discovery/internal/domain"
	"storefront-discovery/internal/middleware"
	"storefront-discovery/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoriesResponse wraps the category listing.
type CategoriesResponse struct {
	Categories []*domain.Category `json:"categories"`
	Count      int                `json:"count"`
}

// DiscoveryHandler handles the public product discovery endpoints.
type DiscoveryHandler struct {
	discoveryService service.DiscoveryService
	logger           *zap.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(discoveryService service.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		logger:           logger,
	}
}

// RegisterRoutes registers the discovery routes
func (h *DiscoveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/categories", h.ListCategories)
}

// ListProducts answers a discovery query: filters, ranked order, one page.
func (h *DiscoveryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseDiscoveryFilter(r)
	if err != nil {
		h.logger.Debug("Invalid discovery query", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "invalid query parameter", err.Error())
		return
	}

	if err := middleware.ValidateRequest(&filter); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid query parameter")
		return
	}

	result, err := h.discoveryService.Discover(r.Context(), filter)
	if err != nil {
		h.logger.Error("Product discovery failed",
			zap.String("category_id", filter.CategoryID),
			zap.String("search", filter.Search),
			zap.Error(err),
		)
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "failed to load products", err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// ListCategories returns all categories for the storefront sidebar.
func (h *DiscoveryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.discoveryService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Category listing failed", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusInternalServerError, "failed to load categories", err.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{
		Categories: categories,
		Count:      len(categories),
	})
}

// parseDiscoveryFilter reads the filter set off the query string. Boolean
// and integer parameters must parse when present; an unknown sort value
// falls back to the default sort instead of failing.
func parseDiscoveryFilter(r *http.Request) (domain.DiscoveryFilter, error) {
	q := r.URL.Query()

	filter := domain.DiscoveryFilter{
		CategoryID: q.Get("category_id"),
		Search:     q.Get("search"),
		Sort:       domain.ParseSortKey(q.Get("sort")),
	}

	var err error
	if filter.FeaturedOnly, err = parseBoolParam(q.Get("featured")); err != nil {
		return filter, err
	}
	if filter.OnSaleOnly, err = parseBoolParam(q.Get("sale")); err != nil {
		return filter, err
	}
	if filter.Limit, err = parseIntParam(q.Get("limit")); err != nil {
		return filter, err
	}
	if filter.Offset, err = parseIntParam(q.Get("offset")); err != nil {
		return filter, err
	}

	return filter, nil
}

func parseBoolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func parseIntParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
