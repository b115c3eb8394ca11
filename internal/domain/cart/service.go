// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

// ErrSessionRequired is returned when a cart operation has no session id
var ErrSessionRequired = errors.New("session ID required for cart")

// Catalog resolves current product data for cart lines
type Catalog interface {
	GetProduct(ctx context.Context, id uint) (*product.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uint) (map[uint]product.Product, error)
}

// Service persists session carts in Redis
type Service struct {
	redisClient *redis.Client
	catalog     Catalog
	ttl         time.Duration
	logger      *logrus.Logger
	now         func() time.Time
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, catalog Catalog, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		redisClient: redisClient,
		catalog:     catalog,
		ttl:         cfg.Cart.SessionTTL,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ItemResponse represents a cart line with display fields
type ItemResponse struct {
	ProductID      uint            `json:"product_id"`
	Name           string          `json:"name"`
	Image          string          `json:"image,omitempty"`
	Price          decimal.Decimal `json:"price"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	PromotionLabel string          `json:"promotion_label,omitempty"`
	SelectedColor  string          `json:"selected_color,omitempty"`
	Quantity       int             `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ShippingDays   string          `json:"shipping_days"`
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	SessionID string         `json:"session_id"`
	Items     []ItemResponse `json:"items"`
	IsOpen    bool           `json:"is_open"`
	Totals    Totals         `json:"totals"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID     uint   `json:"product_id" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required,min=1"`
	SelectedColor string `json:"selected_color"`
}

// UpdateItemRequest represents update cart item request; zero or below removes the line
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// NewResponse builds the API view of a cart
func NewResponse(c *Cart) *CartResponse {
	items := make([]ItemResponse, len(c.Items))
	for i, item := range c.Items {
		p := item.Product
		items[i] = ItemResponse{
			ProductID:      p.ID,
			Name:           p.Name,
			Image:          p.PrimaryImage(),
			Price:          p.Price,
			UnitPrice:      p.UnitPrice(),
			PromotionLabel: p.PromotionLabel(),
			SelectedColor:  item.SelectedColor,
			Quantity:       item.Quantity,
			Subtotal:       item.Subtotal(),
			ShippingDays:   p.ResolvedShippingDays(),
		}
	}
	return &CartResponse{
		SessionID: c.SessionID,
		Items:     items,
		IsOpen:    c.IsOpen,
		Totals:    c.Totals(),
		UpdatedAt: c.UpdatedAt,
	}
}

// Load returns the session cart with product snapshots refreshed from the catalog
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	c, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.refresh(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCart retrieves the session cart
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewResponse(c), nil
}

// AddItem adds a product to the session cart
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	p, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.AddItem(*p, req.Quantity, req.SelectedColor)
	})
}

// UpdateItem sets the quantity of a product line; zero or below removes it
func (s *Service) UpdateItem(ctx context.Context, sessionID string, productID uint, req *UpdateItemRequest) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.UpdateQuantity(productID, req.Quantity)
	})
}

// RemoveItem removes every line of a product
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID uint) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		return c.RemoveItem(productID)
	})
}

// Toggle flips the cart panel flag
func (s *Service) Toggle(ctx context.Context, sessionID string) (*CartResponse, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) error {
		c.Toggle()
		return nil
	})
}

// Clear removes the session cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.redisClient.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// mutate loads, applies fn and saves only when fn succeeds
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(c *Cart) error) (*CartResponse, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	c.UpdatedAt = s.now()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return NewResponse(c), nil
}

// refresh replaces product snapshots with current catalog data and drops lines whose product is gone
func (s *Service) refresh(ctx context.Context, c *Cart) error {
	if c.IsEmpty() {
		return nil
	}

	products, err := s.catalog.GetProductsByIDs(ctx, c.ProductIDs())
	if err != nil {
		return fmt.Errorf("failed to refresh cart products: %w", err)
	}

	kept := c.Items[:0]
	for _, item := range c.Items {
		p, ok := products[item.Product.ID]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"session_id": c.SessionID,
				"product_id": item.Product.ID,
			}).Info("dropping unavailable product from cart")
			continue
		}
		item.Product = p
		kept = append(kept, item)
	}
	c.Items = kept
	return nil
}

func (s *Service) get(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}

	data, err := s.redisClient.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(sessionID, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	// sliding expiry: reads keep the cart alive too
	if err := s.redisClient.Expire(ctx, cartKey(sessionID), s.ttl).Err(); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("failed to extend cart TTL")
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, cartKey(c.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
