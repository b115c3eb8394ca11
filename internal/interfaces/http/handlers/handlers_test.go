package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProducts struct {
	lastReq *product.ProductListRequest
	byID    map[uint]*product.Product
	err     error
}

func (f *fakeProducts) GetProducts(_ context.Context, req *product.ProductListRequest) (*product.ProductResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &product.ProductResponse{Products: []product.Product{}}, nil
}

func (f *fakeProducts) GetProduct(_ context.Context, id uint) (*product.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, product.ErrProductNotFound
}

func (f *fakeProducts) GetCategories(context.Context) ([]string, error) {
	return []string{"kitchen"}, nil
}

type fakePromotions struct{}

func (fakePromotions) ListActive(context.Context, time.Time) ([]promotion.ActivePromotion, error) {
	return []promotion.ActivePromotion{}, nil
}

type fakeReviews struct {
	created  int
	userName string
	err      error
}

func (f *fakeReviews) ListForProduct(context.Context, uint, *review.ReviewListRequest) (*review.ReviewListResponse, error) {
	return &review.ReviewListResponse{Reviews: []review.Review{}}, nil
}

func (f *fakeReviews) CreateReview(_ context.Context, userID uuid.UUID, userName string, productID uint, req *review.CreateReviewRequest) (*review.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	if productID != 1 {
		return nil, product.ErrProductNotFound
	}
	f.created++
	f.userName = userName
	return &review.Review{ProductID: productID, UserID: userID, UserName: userName, Rating: req.Rating}, nil
}

type fakeCarts struct {
	sessions   []string
	addErr     error
	quantities []int
}

func (f *fakeCarts) response(sessionID string) *cart.CartResponse {
	f.sessions = append(f.sessions, sessionID)
	return &cart.CartResponse{SessionID: sessionID}
}

func (f *fakeCarts) GetCart(_ context.Context, sessionID string) (*cart.CartResponse, error) {
	return f.response(sessionID), nil
}

func (f *fakeCarts) AddItem(_ context.Context, sessionID string, _ *cart.AddItemRequest) (*cart.CartResponse, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.response(sessionID), nil
}

func (f *fakeCarts) UpdateItem(_ context.Context, sessionID string, productID uint, req *cart.UpdateItemRequest) (*cart.CartResponse, error) {
	if productID == 7 {
		return nil, cart.ErrItemNotFound
	}
	f.quantities = append(f.quantities, req.Quantity)
	return f.response(sessionID), nil
}

func (f *fakeCarts) RemoveItem(_ context.Context, sessionID string, _ uint) (*cart.CartResponse, error) {
	return f.response(sessionID), nil
}

func (f *fakeCarts) Toggle(_ context.Context, sessionID string) (*cart.CartResponse, error) {
	r := f.response(sessionID)
	r.IsOpen = true
	return r, nil
}

func (f *fakeCarts) Clear(_ context.Context, sessionID string) error {
	f.sessions = append(f.sessions, sessionID)
	return nil
}

type fakeCheckout struct {
	customer  checkout.Customer
	placeErr  error
	retryErr  error
	cancelErr error
}

func (f *fakeCheckout) GetCheckoutSummary(context.Context, string) (*checkout.CheckoutSummary, error) {
	return &checkout.CheckoutSummary{EstimatedShippingDays: "3-5"}, nil
}

func (f *fakeCheckout) PlaceOrder(_ context.Context, customer checkout.Customer, _ string, req *checkout.CheckoutRequest) (*checkout.CheckoutResult, error) {
	f.customer = customer
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return &checkout.CheckoutResult{InitPoint: "https://pay.example.com/1"}, nil
}

func (f *fakeCheckout) RetryPayment(context.Context, checkout.Customer, uuid.UUID) (string, error) {
	if f.retryErr != nil {
		return "", f.retryErr
	}
	return "https://pay.example.com/retry", nil
}

func (f *fakeCheckout) CancelOrder(_ context.Context, _ checkout.Customer, orderID uuid.UUID) (*order.Order, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &order.Order{ID: orderID, Status: order.OrderStatusCancelled}, nil
}

type fakeOrders struct {
	owner uuid.UUID
	order *order.Order
}

func (f *fakeOrders) CompletedForUser(context.Context, uuid.UUID) ([]order.Summary, error) {
	return []order.Summary{}, nil
}

func (f *fakeOrders) PendingForUser(context.Context, uuid.UUID) ([]order.Summary, error) {
	return nil, errors.New("connection reset")
}

func (f *fakeOrders) GetSummary(ctx context.Context, userID, orderID uuid.UUID) (*order.Summary, error) {
	o, err := f.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	s := order.NewSummary(*o, time.Now())
	return &s, nil
}

func (f *fakeOrders) GetOrder(_ context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	if f.order == nil || f.order.ID != orderID || userID != f.owner {
		return nil, order.ErrOrderNotFound
	}
	return f.order, nil
}

type fakeReceipts struct{}

func (fakeReceipts) GenerateReceipt(*order.Order) (*bytes.Buffer, error) {
	return bytes.NewBufferString("%PDF-1.4"), nil
}

type testAPI struct {
	router   *gin.Engine
	token    string
	userID   uuid.UUID
	products *fakeProducts
	reviews  *fakeReviews
	carts    *fakeCarts
	checkout *fakeCheckout
	orders   *fakeOrders
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	jwtManager := auth.NewJWTManager(&config.Config{Auth: config.AuthConfig{
		JWTSecret: "test-secret-that-is-long-enough-123456",
	}})
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "ana@example.com", time.Hour)
	require.NoError(t, err)

	api := &testAPI{
		token:    token,
		userID:   userID,
		products: &fakeProducts{byID: map[uint]*product.Product{1: {ID: 1, Name: "Mug", Price: decimal.NewFromInt(10)}}},
		reviews:  &fakeReviews{},
		carts:    &fakeCarts{},
		checkout: &fakeCheckout{},
		orders:   &fakeOrders{owner: userID},
	}

	log := logger.Discard()
	productHandler := NewProductHandler(api.products, fakePromotions{}, log)
	reviewHandler := NewReviewHandler(api.reviews, log)
	cartHandler := NewCartHandler(api.carts, log)
	checkoutHandler := NewCheckoutHandler(api.checkout, log)
	orderHandler := NewOrderHandler(api.orders, api.checkout, fakeReceipts{}, log)

	r := gin.New()
	requireAuth := middleware.AuthMiddleware(jwtManager)
	session := middleware.Session("session_id", time.Hour, false)

	r.GET("/products", productHandler.GetProducts)
	r.GET("/products/search", productHandler.SearchProducts)
	r.GET("/products/categories", productHandler.GetCategories)
	r.GET("/products/:id", productHandler.GetProduct)
	r.GET("/products/:id/reviews", reviewHandler.GetProductReviews)
	r.POST("/products/:id/reviews", requireAuth, reviewHandler.CreateReview)
	r.GET("/promotions/active", productHandler.GetActivePromotions)

	r.GET("/cart", session, cartHandler.GetCart)
	r.POST("/cart/items", session, cartHandler.AddToCart)
	r.PUT("/cart/items/:productId", session, cartHandler.UpdateCartItem)
	r.POST("/cart/toggle", session, cartHandler.ToggleCart)
	r.DELETE("/cart", session, cartHandler.ClearCart)

	r.POST("/checkout", session, requireAuth, checkoutHandler.PlaceOrder)
	r.GET("/orders", requireAuth, orderHandler.GetOrders)
	r.GET("/orders/pending", requireAuth, orderHandler.GetPendingOrders)
	r.GET("/orders/:id", requireAuth, orderHandler.GetOrder)
	r.PUT("/orders/:id/cancel", requireAuth, orderHandler.CancelOrder)
	r.POST("/orders/:id/pay", requireAuth, orderHandler.PayOrder)
	r.GET("/orders/:id/receipt", requireAuth, orderHandler.DownloadReceipt)

	api.router = r
	return api
}

func (a *testAPI) do(method, path, body string, authed bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/products?category=kitchen&sort=price_asc&min_price=5", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, api.products.lastReq)
	assert.Equal(t, "kitchen", api.products.lastReq.Category)
	assert.Equal(t, "price_asc", api.products.lastReq.Sort)
	assert.Equal(t, 5.0, api.products.lastReq.MinPrice)

	w = api.do(http.MethodGet, "/products/search?q=mug", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mug", api.products.lastReq.Search)

	w = api.do(http.MethodGet, "/products/search", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/products/1", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/products/99", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/products/abc", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/products/categories", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"kitchen"}, decode(t, w)["data"])

	w = api.do(http.MethodGet, "/promotions/active", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductListBackendFailure(t *testing.T) {
	api := newTestAPI(t)
	api.products.err = errors.New("db down")

	w := api.do(http.MethodGet, "/products", "", false)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to retrieve products", decode(t, w)["error"])
}

func TestCreateReview(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/products/1/reviews", `{"rating":5,"comment":"great"}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/products/1/reviews", `{"rating":9}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/products/99/reviews", `{"rating":4}`, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPost, "/products/1/reviews", `{"rating":4,"comment":"ok"}`, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, api.reviews.created)
	assert.Equal(t, "ana", api.reviews.userName)

	api.reviews.err = review.ErrAlreadyReviewed
	w = api.do(http.MethodPost, "/products/1/reviews", `{"rating":4}`, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCartUsesSession(t *testing.T) {
	api := newTestAPI(t)
	sessionID := uuid.NewString()
	cookie := &http.Cookie{Name: "session_id", Value: sessionID}

	w := api.do(http.MethodGet, "/cart", "", false, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/cart/items", `{"product_id":1,"quantity":2}`, false, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/cart/toggle", "", false, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["is_open"])

	w = api.do(http.MethodDelete, "/cart", "", false, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, s := range api.carts.sessions {
		assert.Equal(t, sessionID, s)
	}
}

func TestCartErrors(t *testing.T) {
	api := newTestAPI(t)

	api.carts.addErr = cart.ErrInvalidQuantity
	w := api.do(http.MethodPost, "/cart/items", `{"product_id":1,"quantity":1}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.carts.addErr = product.ErrProductNotFound
	w = api.do(http.MethodPost, "/cart/items", `{"product_id":1,"quantity":1}`, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, "/cart/items/7", `{"quantity":3}`, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, "/cart/items/x", `{"quantity":3}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItemPassesNonPositiveQuantities(t *testing.T) {
	api := newTestAPI(t)

	for _, body := range []string{`{"quantity":-1}`, `{"quantity":0}`, `{"quantity":4}`} {
		w := api.do(http.MethodPut, "/cart/items/1", body, false)
		assert.Equal(t, http.StatusOK, w.Code, body)
	}
	assert.Equal(t, []int{-1, 0, 4}, api.carts.quantities)
}

const checkoutBody = `{
	"payment_method": "mercadopago",
	"shipping_address": {
		"full_name": "Ana Díaz",
		"address_line1": "Av. Siempre Viva 742",
		"city": "Rosario",
		"state": "Santa Fe",
		"postal_code": "2000",
		"country": "AR"
	}
}`

func TestPlaceOrder(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/checkout", checkoutBody, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/checkout", checkoutBody, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "https://pay.example.com/1", data["init_point"])
	assert.Equal(t, api.userID, api.checkout.customer.UserID)
	assert.Equal(t, "ana@example.com", api.checkout.customer.Email)
	assert.Equal(t, "Ana Díaz", api.checkout.customer.Name)
}

func TestPlaceOrderErrors(t *testing.T) {
	orderID := uuid.New()
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest},
		{"payment unavailable", &checkout.PaymentError{OrderID: orderID, Err: errors.New("502")}, http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.checkout.placeErr = tt.err

			w := api.do(http.MethodPost, "/checkout", checkoutBody, true)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusBadGateway {
				assert.Equal(t, orderID.String(), decode(t, w)["order_id"])
			}
		})
	}
}

func TestOrderEndpoints(t *testing.T) {
	api := newTestAPI(t)
	o := &order.Order{
		ID:            uuid.New(),
		UserID:        api.userID,
		Status:        order.OrderStatusPending,
		PaymentStatus: order.PaymentStatusPending,
		PaymentMethod: order.PaymentMethodMercadoPago,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
	api.orders.order = o

	w := api.do(http.MethodGet, "/orders", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/orders/pending", "", true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = api.do(http.MethodGet, "/orders/"+o.ID.String(), "", true)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["payment_pending"])
	assert.Contains(t, data["time_remaining"], "remaining")

	w = api.do(http.MethodGet, "/orders/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodGet, "/orders/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/orders/"+o.ID.String()+"/pay", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://pay.example.com/retry", decode(t, w)["data"].(map[string]any)["init_point"])

	api.checkout.retryErr = order.ErrPaymentWindowExpired
	w = api.do(http.MethodPost, "/orders/"+o.ID.String()+"/pay", "", true)
	assert.Equal(t, http.StatusGone, w.Code)

	w = api.do(http.MethodPut, "/orders/"+o.ID.String()+"/cancel", "", true)
	assert.Equal(t, http.StatusOK, w.Code)

	api.checkout.cancelErr = order.ErrNotCancellable
	w = api.do(http.MethodPut, "/orders/"+o.ID.String()+"/cancel", "", true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodGet, "/orders/"+o.ID.String()+"/receipt", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-"+o.ShortID())
}
