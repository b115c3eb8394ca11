// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

// Product represents a catalog product
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"not null;size:255" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Images       []string        `gorm:"serializer:json;type:jsonb" json:"images"`
	Category     string          `gorm:"size:100;index" json:"category"`
	Colors       []string        `gorm:"serializer:json;type:jsonb" json:"colors"`
	ShippingDays string          `gorm:"size:20" json:"shipping_days"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Attached at read time from the active promotion window
	Promotion *promotion.Promotion `gorm:"-" json:"promotion,omitempty"`

	// Stored image keys; set when Images holds resolved URLs
	ImageRefs []string `gorm:"-" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string { return "products" }

// UnitPrice returns the price a cart charges for one unit of the product
func (p *Product) UnitPrice() decimal.Decimal {
	return promotion.UnitPrice(p.Price, p.Promotion)
}

// PromotionLabel returns the display label of the product's promotion, if any
func (p *Product) PromotionLabel() string {
	return promotion.Label(p.Price, p.Promotion)
}

// ResolvedShippingDays returns the product's shipping-days estimate
func (p *Product) ResolvedShippingDays() string {
	return ResolveShippingDays(p.ShippingDays, p.Description)
}

// HasColor reports whether color is one of the product's variants
func (p *Product) HasColor(color string) bool {
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// PrimaryImage returns the first image, or an empty string
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// StoredImages returns the image references as stored, not the resolved URLs
func (p *Product) StoredImages() []string {
	if p.ImageRefs != nil {
		return p.ImageRefs
	}
	return p.Images
}
