package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ss-infotech2024/AllCares/internal/cart"
	"github.com/ss-infotech2024/AllCares/internal/catalog"
	"github.com/ss-infotech2024/AllCares/internal/domain"
	"github.com/ss-infotech2024/AllCares/pkg/httputil"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return cat
}

func testCartHandler(t *testing.T) (*CartHandler, *catalog.Catalog) {
	t.Helper()
	cat := testCatalog(t)
	svc := cart.NewService(cart.NewStore(), nil, nil, testLogger(), 0)
	return NewCartHandler(svc, cat, testLogger()), cat
}

// setupCartRouter creates a chi router matching the production cart route
// layout, including the SessionIDFromHeader and ContentTypeJSON middleware.
func setupCartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)

		r.Post("/items", handler.AddItem)
		r.Put("/items/{productId}", handler.UpdateItemQuantity)
		r.Delete("/items/{productId}", handler.RemoveItem)
	})
	return r
}

// decodeResponse reads the response body into the standard Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// decodeCartState re-decodes the Data field into a CartState.
func decodeCartState(t *testing.T, resp httputil.Response) domain.CartState {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var state domain.CartState
	require.NoError(t, json.Unmarshal(raw, &state))
	return state
}

func addItemBody(t *testing.T, productID string, quantity int) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(AddItemRequest{ProductID: productID, Quantity: quantity})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

// ============================================================================
// GET /api/v1/cart
// ============================================================================

func TestGetCart_NewSessionIsEmpty(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Empty(t, state.Items)
	assert.Zero(t, state.ItemCount)
}

func TestGetCart_MissingSessionID_Returns400(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

// ============================================================================
// POST /api/v1/cart/items
// ============================================================================

func TestAddItem_Success(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 2))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	require.Len(t, state.Items, 1)
	assert.Equal(t, productID, state.Items[0].Product.ID)
	assert.Equal(t, 2, state.ItemCount)
}

func TestAddItem_UnknownProduct_Returns404(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, "no-such-product", 1))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestAddItem_OutOfStockProductAccepted(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	var productID string
	for _, p := range cat.Products() {
		if !p.InStock {
			productID = p.ID
			break
		}
	}
	require.NotEmpty(t, productID, "corpus should contain an out-of-stock product")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 1))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	require.Len(t, state.Items, 1)
	assert.False(t, state.Items[0].Product.InStock)
}

func TestAddItem_MissingProductID_Returns400(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"quantity": 1}`)))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAddItem_InvalidBody_Returns400(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte("{broken")))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_WrongContentType_Returns415(t *testing.T) {
	handler, _ := testCartHandler(t)
	router := setupCartRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte("product_id=x")))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// PUT /api/v1/cart/items/{productId}
// ============================================================================

func TestUpdateItemQuantity_Success(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 1))
	add.Header.Set("X-Session-ID", "sess-1")
	add.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), add)

	body, err := json.Marshal(UpdateQuantityRequest{Quantity: 5})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+productID, bytes.NewReader(body))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Equal(t, 5, state.ItemCount)
}

func TestUpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 2))
	add.Header.Set("X-Session-ID", "sess-1")
	add.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), add)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/"+productID, bytes.NewReader([]byte(`{"quantity": 0}`)))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Empty(t, state.Items)
}

func TestUpdateItemQuantity_UnknownProductLeavesCartUnchanged(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 2))
	add.Header.Set("X-Session-ID", "sess-1")
	add.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), add)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/no-such-product", bytes.NewReader([]byte(`{"quantity": 5}`)))
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Equal(t, 2, state.ItemCount)
}

// ============================================================================
// DELETE /api/v1/cart/items/{productId} and DELETE /api/v1/cart
// ============================================================================

func TestRemoveItem_Success(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 2))
	add.Header.Set("X-Session-ID", "sess-1")
	add.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), add)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+productID, nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Empty(t, state.Items)
}

func TestClearCart_Success(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	for _, p := range cat.Products()[:2] {
		add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, p.ID, 1))
		add.Header.Set("X-Session-ID", "sess-1")
		add.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(httptest.NewRecorder(), add)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Empty(t, state.Items)
	assert.Zero(t, state.Total)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	handler, cat := testCartHandler(t)
	router := setupCartRouter(handler)

	productID := cat.Products()[0].ID

	add := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", addItemBody(t, productID, 3))
	add.Header.Set("X-Session-ID", "sess-1")
	add.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), add)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("X-Session-ID", "sess-2")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	state := decodeCartState(t, decodeResponse(t, rec))
	assert.Empty(t, state.Items)
}
