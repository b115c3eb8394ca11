// internal/domain/cart/cart.go
package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/promotion"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidColor    = errors.New("selected color is not available for this product")
)

// Item is a cart line keyed by (product id, selected color)
type Item struct {
	Product       product.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// Subtotal returns unit price times quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the shopping cart owned by a single session
type Cart struct {
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnpricedPromotion marks a line whose promotion is shown but not applied to the total
type UnpricedPromotion struct {
	ProductID uint           `json:"product_id"`
	Type      promotion.Type `json:"type"`
	Label     string         `json:"label"`
}

// Totals is the derived summary of a cart
type Totals struct {
	LineCount          int                 `json:"line_count"`
	ItemCount          int                 `json:"item_count"`
	Total              decimal.Decimal     `json:"total"`
	UnpricedPromotions []UnpricedPromotion `json:"unpriced_promotions,omitempty"`
}

// New returns an empty cart for the session
func New(sessionID string, now time.Time) *Cart {
	return &Cart{
		SessionID: sessionID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem merges into the line with the same product and color, or appends a new one
func (c *Cart) AddItem(p product.Product, quantity int, selectedColor string) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if selectedColor != "" && len(p.Colors) > 0 && !p.HasColor(selectedColor) {
		return ErrInvalidColor
	}

	for i := range c.Items {
		if c.Items[i].Product.ID == p.ID && c.Items[i].SelectedColor == selectedColor {
			c.Items[i].Quantity += quantity
			c.Items[i].Product = p
			return nil
		}
	}

	c.Items = append(c.Items, Item{
		Product:       p,
		Quantity:      quantity,
		SelectedColor: selectedColor,
	})
	return nil
}

// UpdateQuantity sets the quantity of the first line for productID.
// The color is not part of the match. A quantity <= 0 removes that line.
func (c *Cart) UpdateQuantity(productID uint, quantity int) error {
	for i := range c.Items {
		if c.Items[i].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
		c.Items[i].Quantity = quantity
		return nil
	}
	return ErrItemNotFound
}

// RemoveItem deletes every line of productID
func (c *Cart) RemoveItem(productID uint) error {
	kept := c.Items[:0]
	removed := false
	for _, item := range c.Items {
		if item.Product.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept
	if !removed {
		return ErrItemNotFound
	}
	return nil
}

// Toggle flips the cart panel visibility flag
func (c *Cart) Toggle() bool {
	c.IsOpen = !c.IsOpen
	return c.IsOpen
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount returns the sum of quantities
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Lines returns a copy of the cart lines
func (c *Cart) Lines() []Item {
	lines := make([]Item, len(c.Items))
	copy(lines, c.Items)
	return lines
}

// ProductIDs returns the distinct product ids in line order
func (c *Cart) ProductIDs() []uint {
	seen := make(map[uint]bool, len(c.Items))
	ids := make([]uint, 0, len(c.Items))
	for _, item := range c.Items {
		if !seen[item.Product.ID] {
			seen[item.Product.ID] = true
			ids = append(ids, item.Product.ID)
		}
	}
	return ids
}

// Total sums unit price times quantity. Only discount promotions change the unit price.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Totals returns the derived cart summary
func (c *Cart) Totals() Totals {
	t := Totals{
		LineCount: len(c.Items),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
	for _, item := range c.Items {
		promo := item.Product.Promotion
		if promo == nil || !promo.Type.QuantityBased() {
			continue
		}
		t.UnpricedPromotions = append(t.UnpricedPromotions, UnpricedPromotion{
			ProductID: item.Product.ID,
			Type:      promo.Type,
			Label:     item.Product.PromotionLabel(),
		})
	}
	return t
}
