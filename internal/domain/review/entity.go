// internal/domain/review/entity.go
package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer's rating of a product
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	UserName  string    `gorm:"size:100" json:"user_name"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (Review) TableName() string { return "reviews" }

// CreateReviewRequest represents review creation data
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewListRequest represents review list query parameters
type ReviewListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// ReviewListResponse represents a page of reviews with the product summary
type ReviewListResponse struct {
	Reviews    []Review       `json:"reviews"`
	Pagination PaginationInfo `json:"pagination"`
	Summary    Summary        `json:"summary"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Summary represents a product's rating statistics
type Summary struct {
	TotalReviews    int            `json:"total_reviews"`
	AverageRating   float64        `json:"average_rating"`
	RatingBreakdown map[string]int `json:"rating_breakdown"`
}
