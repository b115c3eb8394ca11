// internal/interfaces/http/handlers/product.go
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

// ProductService is the catalog read side
type ProductService interface {
	GetProducts(ctx context.Context, req *product.ProductListRequest) (*product.ProductResponse, error)
	GetProduct(ctx context.Context, id uint) (*product.Product, error)
	GetCategories(ctx context.Context) ([]string, error)
}

// PromotionService lists running promotions
type PromotionService interface {
	ListActive(ctx context.Context, now time.Time) ([]promotion.ActivePromotion, error)
}

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products   ProductService
	promotions PromotionService
	logger     *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products ProductService, promotions PromotionService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		products:   products,
		promotions: promotions,
		logger:     logger,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.products.GetProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    response,
	})
}

// SearchProducts handles GET /products/search?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required",
		})
		return
	}

	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Search = query

	response, err := h.products.GetProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to search products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    response,
		"query":   query,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	p, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// GetCategories handles GET /products/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	categories, err := h.products.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetActivePromotions handles GET /promotions/active
func (h *ProductHandler) GetActivePromotions(c *gin.Context) {
	promotions, err := h.promotions.ListActive(c.Request.Context(), time.Now().UTC())
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve promotions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promotions retrieved successfully",
		"data":    promotions,
	})
}
