// internal/interfaces/http/handlers/review.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// ReviewService reads and writes product reviews
type ReviewService interface {
	ListForProduct(ctx context.Context, productID uint, req *review.ReviewListRequest) (*review.ReviewListResponse, error)
	CreateReview(ctx context.Context, userID uuid.UUID, userName string, productID uint, req *review.CreateReviewRequest) (*review.Review, error)
}

// ReviewHandler handles review endpoints
type ReviewHandler struct {
	reviews ReviewService
	logger  *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req review.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := h.reviews.ListForProduct(c.Request.Context(), productID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    response,
	})
}

// CreateReview handles POST /products/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	productID, ok := parseUintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return
	}

	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email, _ := middleware.GetUserEmailFromContext(c)
	created, err := h.reviews.CreateReview(c.Request.Context(), userID, displayName(email), productID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"data":    created,
	})
}

func displayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return "Customer"
	}
	return name
}
