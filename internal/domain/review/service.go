// internal/domain/review/service.go
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

var (
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// Service handles review business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new review service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListForProduct returns a page of a product's reviews, newest first, with its summary
func (s *Service) ListForProduct(ctx context.Context, productID uint, req *ReviewListRequest) (*ReviewListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 50 {
		req.Limit = 10
	}

	summary, err := s.Summary(ctx, productID)
	if err != nil {
		return nil, err
	}

	var reviews []Review
	err = s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Offset((req.Page - 1) * req.Limit).
		Limit(req.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	total := int64(summary.TotalReviews)
	totalPages := int(math.Ceil(float64(total) / float64(req.Limit)))
	return &ReviewListResponse{
		Reviews: reviews,
		Pagination: PaginationInfo{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
		Summary: summary,
	}, nil
}

// Summary computes a product's rating statistics
func (s *Service) Summary(ctx context.Context, productID uint) (Summary, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&Review{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	counts := make(map[int]int64, len(rows))
	for _, r := range rows {
		counts[r.Rating] = r.Count
	}
	return Summarize(counts), nil
}

// Summarize builds rating statistics from per-rating counts
func Summarize(counts map[int]int64) Summary {
	summary := Summary{RatingBreakdown: make(map[string]int, 5)}
	var sum int64
	for rating := 1; rating <= 5; rating++ {
		n := counts[rating]
		summary.RatingBreakdown[strconv.Itoa(rating)] = int(n)
		summary.TotalReviews += int(n)
		sum += int64(rating) * n
	}
	if summary.TotalReviews > 0 {
		avg := float64(sum) / float64(summary.TotalReviews)
		summary.AverageRating = math.Round(avg*100) / 100
	}
	return summary
}

// CreateReview stores a user's review of an active product; one review per user and product
func (s *Service) CreateReview(ctx context.Context, userID uuid.UUID, userName string, productID uint, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&product.Product{}).
		Where("id = ? AND is_active = ?", productID, true).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}
	if count == 0 {
		return nil, product.ErrProductNotFound
	}

	review := Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  strings.TrimSpace(userName),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}

	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
