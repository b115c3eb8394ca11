// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageResolver turns a stored image reference into a URL the browser can load
type ImageResolver interface {
	ResolveURL(ctx context.Context, ref string) (string, error)
}

// Service handles order business logic
type Service struct {
	db     *gorm.DB
	images ImageResolver
	now    func() time.Time
}

// NewService creates a new order service; images may be nil
func NewService(db *gorm.DB, images ImageResolver) *Service {
	return &Service{
		db:     db,
		images: images,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// OrderListRequest represents the operator order listing filter
type OrderListRequest struct {
	Limit         int
	Status        OrderStatus
	PaymentStatus PaymentStatus
}

// Summary is an order together with its derived display fields
type Summary struct {
	Order
	ItemCount             int        `json:"item_count"`
	EstimatedShippingDays string     `json:"estimated_shipping_days"`
	PaymentPending        bool       `json:"payment_pending"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
	TimeRemaining         string     `json:"time_remaining,omitempty"`
}

// NewSummary derives the display fields of o at now
func NewSummary(o Order, now time.Time) Summary {
	s := Summary{
		Order:                 o,
		ItemCount:             o.ItemCount(),
		EstimatedShippingDays: EstimatedShippingDays(&o),
		PaymentPending:        o.IsPaymentPending(),
	}
	if s.PaymentPending {
		expiresAt := ExpiresAt(o.CreatedAt)
		s.ExpiresAt = &expiresAt
		s.TimeRemaining = TimeRemaining(o.CreatedAt, now)
	}
	return s
}

// Create stores the order and its item snapshots in one transaction
func (s *Service) Create(ctx context.Context, order *Order) error {
	if len(order.Items) == 0 {
		return ErrEmptyOrder
	}
	if !order.PaymentMethod.Valid() {
		return ErrUnsupportedPaymentType
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if err := tx.Omit("Product").Create(&order.Items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		return nil
	})
	return err
}

// ListForUser retrieves a user's orders, newest first, with item products loaded
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	for i := range orders {
		s.ResolveImages(ctx, &orders[i])
	}
	return orders, nil
}

// CompletedForUser returns the orders that are not awaiting online payment
func (s *Service) CompletedForUser(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	orders, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed, _ := Classify(orders)
	return s.summarize(completed), nil
}

// PendingForUser returns the payment-pending orders with their countdown
func (s *Service) PendingForUser(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	orders, err := s.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	_, pending := Classify(orders)
	return s.summarize(pending), nil
}

// GetOrder retrieves one order owned by userID
func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	var order Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	s.ResolveImages(ctx, &order)
	return &order, nil
}

// ResolveImages replaces the stored image keys of o's items with loadable
// URLs. Only the in-memory copy changes; refs that fail to resolve stay as stored.
func (s *Service) ResolveImages(ctx context.Context, o *Order) {
	if s.images == nil {
		return
	}
	for i := range o.Items {
		item := &o.Items[i]
		urls := make([]string, len(item.ProductImages))
		for j, ref := range item.ProductImages {
			url, err := s.images.ResolveURL(ctx, ref)
			if err != nil {
				url = ref
			}
			urls[j] = url
		}
		item.ProductImages = urls
	}
}

// GetSummary retrieves one order owned by userID with its display fields
func (s *Service) GetSummary(ctx context.Context, userID, orderID uuid.UUID) (*Summary, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	summary := NewSummary(*order, s.now())
	return &summary, nil
}

// CancelOrder moves a pending or processing order to cancelled. Cancellation is terminal.
func (s *Service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*Order, error) {
	order, err := s.GetOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanBeCancelled() {
		return nil, ErrNotCancellable
	}

	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status IN ?", order.ID, []OrderStatus{OrderStatusPending, OrderStatusProcessing}).
		Update("status", OrderStatusCancelled)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", result.Error)
	}
	// a concurrent request changed the status first
	if result.RowsAffected == 0 {
		return nil, ErrNotCancellable
	}

	order.Status = OrderStatusCancelled
	return order, nil
}

// UpdateStatus moves an order along its fulfillment lifecycle
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status OrderStatus) (*Order, error) {
	var order Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	order.Status = status
	return &order, nil
}

// UpdatePaymentStatus records the payment outcome reported for an order
func (s *Service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status PaymentStatus) error {
	result := s.db.WithContext(ctx).
		Model(&Order{}).
		Where("id = ?", orderID).
		Update("payment_status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// ListRecent returns the latest orders across all users for operators
func (s *Service) ListRecent(ctx context.Context, req OrderListRequest) ([]Order, error) {
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 50
	}

	query := s.db.WithContext(ctx).
		Model(&Order{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product")
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.PaymentStatus != "" {
		query = query.Where("payment_status = ?", req.PaymentStatus)
	}

	var orders []Order
	if err := query.Order("created_at DESC").Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

func (s *Service) summarize(orders []Order) []Summary {
	now := s.now()
	out := make([]Summary, len(orders))
	for i, o := range orders {
		out[i] = NewSummary(o, now)
	}
	return out
}
