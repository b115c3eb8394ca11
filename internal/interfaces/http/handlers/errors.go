// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// respondError maps domain errors to HTTP responses. Anything unrecognised is
// logged and reported with the generic fallback message.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var payErr *checkout.PaymentError

	switch {
	case errors.Is(err, product.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found in cart"})
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidColor),
		errors.Is(err, cart.ErrSessionRequired),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, order.ErrUnsupportedPaymentType),
		errors.Is(err, review.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, order.ErrNotCancellable),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotPaymentPending),
		errors.Is(err, review.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrPaymentWindowExpired):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})
	case errors.As(err, &payErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    "Order created but payment could not be started",
			"order_id": payErr.OrderID,
		})
	default:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.FullPath(),
		}).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
