// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartService manages session carts
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*cart.CartResponse, error)
	AddItem(ctx context.Context, sessionID string, req *cart.AddItemRequest) (*cart.CartResponse, error)
	UpdateItem(ctx context.Context, sessionID string, productID uint, req *cart.UpdateItemRequest) (*cart.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID string, productID uint) (*cart.CartResponse, error)
	Toggle(ctx context.Context, sessionID string) (*cart.CartResponse, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartHandler handles cart endpoints
type CartHandler struct {
	carts  CartService
	logger *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	response, err := h.carts.GetCart(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    response,
	})
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.carts.AddItem(c.Request.Context(), middleware.GetSessionID(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add item to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    response,
	})
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := parseUintParam(c, "productId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.carts.UpdateItem(c.Request.Context(), middleware.GetSessionID(c), productID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    response,
	})
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseUintParam(c, "productId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	response, err := h.carts.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to remove item from cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    response,
	})
}

// ToggleCart handles POST /cart/toggle
func (h *CartHandler) ToggleCart(c *gin.Context) {
	response, err := h.carts.Toggle(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to toggle cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart toggled successfully",
		"data":    response,
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, h.logger, err, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}
