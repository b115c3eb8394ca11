// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product does not exist or is inactive
var ErrProductNotFound = errors.New("product not found")

// PromotionLookup finds the promotions active for a set of products
type PromotionLookup interface {
	ActiveForProducts(ctx context.Context, productIDs []uint, now time.Time) (map[uint]*promotion.Promotion, error)
}

// ImageResolver turns a stored image reference into a URL the browser can load
type ImageResolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Service handles catalog reads
type Service struct {
	db         *gorm.DB
	promotions PromotionLookup
	images     ImageResolver
	logger     *logrus.Logger
	now        func() time.Time
}

// NewService creates a new product service
func NewService(db *gorm.DB, promotions PromotionLookup, images ImageResolver, logger *logrus.Logger) *Service {
	return &Service{
		db:         db,
		promotions: promotions,
		images:     images,
		logger:     logger,
		now:        time.Now,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int     `form:"page,default=1"`
	Limit    int     `form:"limit,default=20"`
	Category string  `form:"category"`
	Search   string  `form:"search"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Sort     string  `form:"sort,default=newest"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Normalize clamps paging values to sane bounds
func (r *ProductListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Limit <= 0 || r.Limit > 100 {
		r.Limit = 20
	}
	r.Search = strings.TrimSpace(r.Search)
}

// GetProducts retrieves active products with filtering, sorting and pagination
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	req.Normalize()

	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{}).Where("is_active = ?", true)

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Search != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(req.Search)+"%")
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", decimal.NewFromFloat(req.MinPrice))
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", decimal.NewFromFloat(req.MaxPrice))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	err := query.Order(buildOrderClause(req.Sort)).
		Offset(offset).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	if err := s.decorate(ctx, products); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetProduct retrieves a single active product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	products := []Product{product}
	if err := s.decorate(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// GetProductsByIDs retrieves active products keyed by ID; missing ids are absent from the map
func (s *Service) GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]Product, error) {
	result := make(map[uint]Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var products []Product
	err := s.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	if err := s.decorate(ctx, products); err != nil {
		return nil, err
	}

	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// GetCategories returns the distinct categories of active products
func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// decorate attaches active promotions and resolves image URLs in place
func (s *Service) decorate(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uint, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}

	if s.promotions != nil {
		active, err := s.promotions.ActiveForProducts(ctx, ids, s.now())
		if err != nil {
			return err
		}
		for i := range products {
			products[i].Promotion = active[products[i].ID]
		}
	}

	if s.images != nil {
		for i := range products {
			products[i].ImageRefs = append([]string{}, products[i].Images...)
			for j, ref := range products[i].ImageRefs {
				url, err := s.images.ResolveURL(ctx, ref)
				if err != nil {
					s.logger.WithError(err).WithField("product_id", products[i].ID).Warn("failed to resolve product image")
					continue
				}
				products[i].Images[j] = url
			}
		}
	}

	return nil
}

// buildOrderClause maps a storefront sort key to an ORDER BY clause
func buildOrderClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC, id ASC"
	case "price_desc":
		return "price DESC, id ASC"
	case "name":
		return "name ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
