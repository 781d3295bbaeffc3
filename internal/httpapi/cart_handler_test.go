package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samohiani/simple-ecommerce/internal/domain"
	"github.com/samohiani/simple-ecommerce/internal/service"
)

type mockCartAPI struct {
	getCart        func(ctx context.Context, userID string) (*domain.CartDetail, error)
	addItem        func(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error)
	bulkAdd        func(ctx context.Context, userID string, entries []service.BulkAddEntry) (*domain.CartDetail, error)
	updateQuantity func(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error)
	removeItem     func(ctx context.Context, userID, productID string) (*domain.CartDetail, error)
	clearCart      func(ctx context.Context, userID string) (*domain.CartDetail, error)
}

func (m *mockCartAPI) GetCart(ctx context.Context, userID string) (*domain.CartDetail, error) {
	return m.getCart(ctx, userID)
}

func (m *mockCartAPI) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error) {
	return m.addItem(ctx, userID, productID, quantity)
}

func (m *mockCartAPI) BulkAdd(ctx context.Context, userID string, entries []service.BulkAddEntry) (*domain.CartDetail, error) {
	return m.bulkAdd(ctx, userID, entries)
}

func (m *mockCartAPI) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartDetail, error) {
	return m.updateQuantity(ctx, userID, productID, quantity)
}

func (m *mockCartAPI) RemoveItem(ctx context.Context, userID, productID string) (*domain.CartDetail, error) {
	return m.removeItem(ctx, userID, productID)
}

func (m *mockCartAPI) ClearCart(ctx context.Context, userID string) (*domain.CartDetail, error) {
	return m.clearCart(ctx, userID)
}

func newCartRouter(api CartAPI) http.Handler {
	h := NewCartHandler(api)
	r := chi.NewRouter()
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Post("/items/bulk", h.BulkAdd)
		r.Put("/items/{product_id}", h.UpdateQuantity)
		r.Delete("/items/{product_id}", h.RemoveItem)
	})
	return r
}

// withUser simulates what AuthMiddleware does after verifying a token.
func withUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestGetCartHandler(t *testing.T) {
	api := &mockCartAPI{
		getCart: func(_ context.Context, userID string) (*domain.CartDetail, error) {
			assert.Equal(t, "user-1", userID)
			return &domain.CartDetail{UserID: userID, TotalAmount: 42}, nil
		},
	}
	router := newCartRouter(api)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/cart/", nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.CartDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&detail))
	assert.Equal(t, 42.0, detail.TotalAmount)
}

func TestCartHandlerWithoutUser(t *testing.T) {
	router := newCartRouter(&mockCartAPI{})

	req := httptest.NewRequest(http.MethodGet, "/api/cart/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddItemHandler(t *testing.T) {
	api := &mockCartAPI{
		addItem: func(_ context.Context, userID, productID string, quantity int) (*domain.CartDetail, error) {
			assert.Equal(t, "prod-1", productID)
			assert.Equal(t, 3, quantity)
			return &domain.CartDetail{UserID: userID}, nil
		},
	}
	router := newCartRouter(api)

	body := strings.NewReader(`{"product_id":"prod-1","quantity":3}`)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", body), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddItemHandlerRejectsBadBody(t *testing.T) {
	router := newCartRouter(&mockCartAPI{})

	for name, body := range map[string]string{
		"not json":        `{broken`,
		"missing product": `{"quantity":3}`,
		"zero quantity":   `{"product_id":"prod-1","quantity":0}`,
		"negative":        `{"product_id":"prod-1","quantity":-2}`,
		"string quantity": `{"product_id":"prod-1","quantity":"three"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body)), "user-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddItemHandlerMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", &service.Error{Kind: service.KindNotFound, Message: "product not found"}, http.StatusNotFound, "not_found"},
		{"invalid state", &service.Error{Kind: service.KindInvalidState, Message: "cart is empty"}, http.StatusBadRequest, "invalid_state"},
		{"store failure", &service.Error{Kind: service.KindStoreFailure, Message: "failed to save cart"}, http.StatusInternalServerError, "store_failure"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockCartAPI{
				addItem: func(context.Context, string, string, int) (*domain.CartDetail, error) {
					return nil, tc.err
				},
			}
			router := newCartRouter(api)

			body := strings.NewReader(`{"product_id":"prod-1","quantity":1}`)
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", body), "user-1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeErrorResponse(t, rec)
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestBulkAddHandler(t *testing.T) {
	api := &mockCartAPI{
		bulkAdd: func(_ context.Context, _ string, entries []service.BulkAddEntry) (*domain.CartDetail, error) {
			require.Len(t, entries, 2)
			assert.Equal(t, "prod-2", entries[1].ProductID)
			return &domain.CartDetail{}, nil
		},
	}
	router := newCartRouter(api)

	body := strings.NewReader(`{"products":[{"product_id":"prod-1","quantity":1},{"product_id":"prod-2","quantity":2}]}`)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/cart/items/bulk", body), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBulkAddHandlerRejectsEmptyList(t *testing.T) {
	router := newCartRouter(&mockCartAPI{})

	body := strings.NewReader(`{"products":[]}`)
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/cart/items/bulk", body), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateQuantityHandler(t *testing.T) {
	api := &mockCartAPI{
		updateQuantity: func(_ context.Context, _, productID string, quantity int) (*domain.CartDetail, error) {
			assert.Equal(t, "prod-1", productID)
			assert.Equal(t, 5, quantity)
			return &domain.CartDetail{}, nil
		},
	}
	router := newCartRouter(api)

	body := strings.NewReader(`{"quantity":5}`)
	req := withUser(httptest.NewRequest(http.MethodPut, "/api/cart/items/prod-1", body), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoveItemHandler(t *testing.T) {
	api := &mockCartAPI{
		removeItem: func(_ context.Context, _, productID string) (*domain.CartDetail, error) {
			assert.Equal(t, "prod-1", productID)
			return &domain.CartDetail{}, nil
		},
	}
	router := newCartRouter(api)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/cart/items/prod-1", nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClearCartHandler(t *testing.T) {
	api := &mockCartAPI{
		clearCart: func(_ context.Context, userID string) (*domain.CartDetail, error) {
			return &domain.CartDetail{UserID: userID}, nil
		},
	}
	router := newCartRouter(api)

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/cart/", nil), "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
