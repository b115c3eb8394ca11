// internal/domain/promotion/service.go
package promotion

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Service handles promotion lookups
type Service struct {
	db *gorm.DB
}

// NewService creates a new promotion service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ActivePromotion is a promotion together with the products it applies to
type ActivePromotion struct {
	Promotion
	ProductIDs []uint `json:"product_ids"`
}

// ActiveForProducts returns the promotion active at now for each product id.
// When several overlap, the one that started last wins.
func (s *Service) ActiveForProducts(ctx context.Context, productIDs []uint, now time.Time) (map[uint]*Promotion, error) {
	result := make(map[uint]*Promotion, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var links []PromotionProduct
	err := s.db.WithContext(ctx).
		Joins("JOIN promotions ON promotions.id = promotion_products.promotion_id").
		Where("promotion_products.product_id IN ?", productIDs).
		Where("promotions.start_date <= ? AND promotions.end_date >= ?", now, now).
		Order("promotions.start_date DESC").
		Preload("Promotion").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve active promotions: %w", err)
	}

	for _, link := range links {
		if link.Promotion == nil || !link.Promotion.IsActiveAt(now) {
			continue
		}
		if _, seen := result[link.ProductID]; !seen {
			result[link.ProductID] = link.Promotion
		}
	}
	return result, nil
}

// ListActive returns every promotion whose window contains now
func (s *Service) ListActive(ctx context.Context, now time.Time) ([]ActivePromotion, error) {
	var promotions []Promotion
	err := s.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("end_date ASC").
		Find(&promotions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve promotions: %w", err)
	}
	promotions = activeAt(promotions, now)
	if len(promotions) == 0 {
		return []ActivePromotion{}, nil
	}

	ids := make([]uint, len(promotions))
	for i, p := range promotions {
		ids[i] = p.ID
	}

	var links []PromotionProduct
	if err := s.db.WithContext(ctx).Where("promotion_id IN ?", ids).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve promotion products: %w", err)
	}

	byPromotion := make(map[uint][]uint, len(promotions))
	for _, link := range links {
		byPromotion[link.PromotionID] = append(byPromotion[link.PromotionID], link.ProductID)
	}

	active := make([]ActivePromotion, len(promotions))
	for i, p := range promotions {
		productIDs := byPromotion[p.ID]
		if productIDs == nil {
			productIDs = []uint{}
		}
		active[i] = ActivePromotion{Promotion: p, ProductIDs: productIDs}
	}
	return active, nil
}

// activeAt keeps the promotions whose window contains now, both ends inclusive
func activeAt(promotions []Promotion, now time.Time) []Promotion {
	kept := promotions[:0]
	for _, p := range promotions {
		if p.IsActiveAt(now) {
			kept = append(kept, p)
		}
	}
	return kept
}
