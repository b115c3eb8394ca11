// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutService runs the checkout and order workflows
type CheckoutService interface {
	GetCheckoutSummary(ctx context.Context, sessionID string) (*checkout.CheckoutSummary, error)
	PlaceOrder(ctx context.Context, customer checkout.Customer, sessionID string, req *checkout.CheckoutRequest) (*checkout.CheckoutResult, error)
	RetryPayment(ctx context.Context, customer checkout.Customer, orderID uuid.UUID) (string, error)
	CancelOrder(ctx context.Context, customer checkout.Customer, orderID uuid.UUID) (*order.Order, error)
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout CheckoutService
	logger   *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		logger:   logger,
	}
}

// GetCheckoutSummary handles GET /checkout/summary
func (h *CheckoutHandler) GetCheckoutSummary(c *gin.Context) {
	summary, err := h.checkout.GetCheckoutSummary(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to build checkout summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout summary retrieved successfully",
		"data":    summary,
	})
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	customer, ok := customerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	customer.Name = req.ShippingAddress.FullName

	result, err := h.checkout.PlaceOrder(c.Request.Context(), customer, middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

func customerFromContext(c *gin.Context) (checkout.Customer, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return checkout.Customer{}, false
	}
	email, _ := middleware.GetUserEmailFromContext(c)
	return checkout.Customer{UserID: userID, Email: email}, true
}
