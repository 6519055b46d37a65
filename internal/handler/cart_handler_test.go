package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"tenera-store/internal/cart"
	"tenera-store/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartRouter(t *testing.T) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := cart.NewStore(client, time.Hour, zerolog.Nop())
	svc := cart.NewService(store, zerolog.Nop())
	rec := cart.NewReconciler(store, svc, nil, time.Second, 2*time.Second, zerolog.Nop())
	h := NewCartHandler(svc, rec, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/cart/restore", h.Restore)
	r.Get("/cart", h.Get)
	r.Delete("/cart", h.Clear)
	r.Post("/cart/items", h.AddItem)
	r.Patch("/cart/items/{itemID}", h.UpdateQuantity)
	r.Delete("/cart/items/{itemID}", h.RemoveItem)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(SessionHeader, "s1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeSummary(t *testing.T, w *httptest.ResponseRecorder) model.CartSummary {
	t.Helper()
	var summary model.CartSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	return summary
}

func TestCartHandler_AddGetRemove(t *testing.T) {
	router := newCartRouter(t)

	item := model.CartItem{ID: "moringa", SKU: "moringa", Name: "Moringa", Price: 15000, Quantity: 2}
	w := doJSON(t, router, http.MethodPost, "/cart/items", item)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decodeSummary(t, w)
	require.Len(t, summary.Items, 1)
	assert.InDelta(t, 30000, summary.Total, 0.001)

	w = doJSON(t, router, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSummary(t, w).Items, 1)

	w = doJSON(t, router, http.MethodDelete, "/cart/items/moringa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSummary(t, w).Items)
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	router := newCartRouter(t)

	item := model.CartItem{ID: "tea", SKU: "tea", Name: "Tea", Price: 8000, Quantity: 1}
	doJSON(t, router, http.MethodPost, "/cart/items", item)

	w := doJSON(t, router, http.MethodPatch, "/cart/items/tea", map[string]int{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decodeSummary(t, w).Items[0].Quantity)

	// Zero removes the line.
	w = doJSON(t, router, http.MethodPatch, "/cart/items/tea", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSummary(t, w).Items)
}

func TestCartHandler_InvalidItemRejected(t *testing.T) {
	router := newCartRouter(t)

	item := model.CartItem{ID: "bad id!", Name: "X", Price: 10, Quantity: 1}
	w := doJSON(t, router, http.MethodPost, "/cart/items", item)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeInvalidCartItem, resp.Error)
}

func TestCartHandler_MissingSession(t *testing.T) {
	router := newCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_RestoreFromURL(t *testing.T) {
	router := newCartRouter(t)

	cartJSON := `[{"id":"moringa","sku":"moringa","name":"Moringa","price":15000,"quantity":1}]`
	params := url.Values{}
	params.Set("cart", cartJSON)
	params.Set("redirectUrl", "https://tenerawellness.com/thank-you")

	req := httptest.NewRequest(http.MethodPost, "/cart/restore?"+params.Encode(), nil)
	req.Header.Set(SessionHeader, "s1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp restoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.External)
	assert.Equal(t, "https://tenerawellness.com/thank-you", resp.RedirectURL)
}

func TestCartHandler_SessionFromQueryParam(t *testing.T) {
	router := newCartRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/cart?sessionId=q1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
