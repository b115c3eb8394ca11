// internal/domain/promotion/entity.go
package promotion

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the promotion variant tag
type Type string

const (
	TypeTwoForOne   Type = "2x1"
	TypeThreeForOne Type = "3x1"
	TypeThreeForTwo Type = "3x2"
	TypeDiscount    Type = "discount"
)

// Valid reports whether t is a known promotion variant
func (t Type) Valid() bool {
	switch t {
	case TypeTwoForOne, TypeThreeForOne, TypeThreeForTwo, TypeDiscount:
		return true
	}
	return false
}

// QuantityBased reports whether the promotion is a "take N pay M" deal
func (t Type) QuantityBased() bool {
	return t == TypeTwoForOne || t == TypeThreeForOne || t == TypeThreeForTwo
}

// Promotion represents a time-boxed pricing rule
type Promotion struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	Name       string              `gorm:"size:255" json:"name"`
	Type       Type                `gorm:"not null;size:20" json:"type"`
	TotalPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"total_price"` // discount only
	StartDate  time.Time           `gorm:"not null;index" json:"start_date"`
	EndDate    time.Time           `gorm:"not null;index" json:"end_date"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// PromotionProduct associates a promotion with a product
type PromotionProduct struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PromotionID uint       `gorm:"not null;index" json:"promotion_id"`
	ProductID   uint       `gorm:"not null;index" json:"product_id"`
	Promotion   *Promotion `gorm:"foreignKey:PromotionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"promotion,omitempty"`
}

// TableName overrides
func (Promotion) TableName() string        { return "promotions" }
func (PromotionProduct) TableName() string { return "promotion_products" }

// IsActiveAt reports whether now falls inside the promotion window
func (p *Promotion) IsActiveAt(now time.Time) bool {
	return !now.Before(p.StartDate) && !now.After(p.EndDate)
}
