package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-discovery/internal/discovery"
	"storefront-discovery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDiscoveryService struct {
	result     *discovery.Result
	err        error
	categories []*domain.Category
	gotFilter  domain.DiscoveryFilter
}

func (f *fakeDiscoveryService) Discover(_ context.Context, filter domain.DiscoveryFilter) (*discovery.Result, error) {
	f.gotFilter = filter
	return f.result, f.err
}

func (f *fakeDiscoveryService) ListCategories(context.Context) ([]*domain.Category, error) {
	return f.categories, f.err
}

func newHandler(svc *fakeDiscoveryService) *DiscoveryHandler {
	return NewDiscoveryHandler(svc, zap.NewNop())
}

func TestListProductsParsesFilter(t *testing.T) {
	svc := &fakeDiscoveryService{result: &discovery.Result{Products: []domain.Product{}, Count: 0}}
	handler := newHandler(svc)

	req := httptest.NewRequest("GET",
		"/products?category_id=c1&search=scarf&featured=true&sale=false&sort=price-desc&limit=25&offset=50", nil)
	w := httptest.NewRecorder()

	handler.ListProducts(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.DiscoveryFilter{
		CategoryID:   "c1",
		Search:       "scarf",
		FeaturedOnly: true,
		OnSaleOnly:   false,
		Sort:         domain.SortPriceDesc,
		Limit:        25,
		Offset:       50,
	}, svc.gotFilter)
}

func TestListProductsUnknownSortFallsBackToDefault(t *testing.T) {
	svc := &fakeDiscoveryService{result: &discovery.Result{Products: []domain.Product{}}}
	handler := newHandler(svc)

	req := httptest.NewRequest("GET", "/products?sort=relevance", nil)
	w := httptest.NewRecorder()

	handler.ListProducts(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SortDefault, svc.gotFilter.Sort)
}

func TestListProductsEmptyResultIsSuccess(t *testing.T) {
	svc := &fakeDiscoveryService{result: &discovery.Result{Products: []domain.Product{}, Count: 0}}
	handler := newHandler(svc)

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	handler.ListProducts(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, "[]", string(body["products"]))
	assert.JSONEq(t, "0", string(body["count"]))
}

func TestListProductsBadParameters(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"non-boolean featured", "/products?featured=maybe"},
		{"non-integer limit", "/products?limit=many"},
		{"non-integer offset", "/products?offset=1.5"},
		{"negative limit", "/products?limit=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeDiscoveryService{result: &discovery.Result{}}
			handler := newHandler(svc)

			req := httptest.NewRequest("GET", tt.url, nil)
			w := httptest.NewRecorder()

			handler.ListProducts(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.NotEmpty(t, envelope["error"])
		})
	}
}

func TestListProductsFatalErrorEnvelope(t *testing.T) {
	svc := &fakeDiscoveryService{err: errors.New("dial tcp: connection refused")}
	handler := newHandler(svc)

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	handler.ListProducts(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var envelope struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "failed to load products", envelope.Error)
	assert.Contains(t, envelope.Details, "connection refused")
}

func TestListCategories(t *testing.T) {
	svc := &fakeDiscoveryService{categories: []*domain.Category{
		{ID: "c1", Name: "Fashion", Slug: "fashion"},
		{ID: "c2", Name: "Home", Slug: "home"},
	}}
	handler := newHandler(svc)

	req := httptest.NewRequest("GET", "/categories", nil)
	w := httptest.NewRecorder()

	handler.ListCategories(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "fashion", body.Categories[0].Slug)
}
