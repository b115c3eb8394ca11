// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/payment"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentUnavailable = errors.New("payment could not be started")
)

// CartStore is the session cart the checkout reads and clears
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// OrderStore persists and loads orders
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error)
	ResolveImages(ctx context.Context, o *order.Order)
}

// PaymentCreator calls the create-payment function
type PaymentCreator interface {
	CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error)
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event order.Event) error
}

// Notifier sends customer emails about orders
type Notifier interface {
	SendOrderConfirmationEmail(ctx context.Context, data email.OrderEmailData) error
	SendOrderCancelledEmail(ctx context.Context, data email.OrderEmailData) error
}

// Customer is the authenticated buyer
type Customer struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// CheckoutRequest represents checkout data
type CheckoutRequest struct {
	PaymentMethod   order.PaymentMethod `json:"payment_method" binding:"required"`
	ShippingAddress order.Address       `json:"shipping_address" binding:"required"`
	Notes           string              `json:"notes" binding:"max=1000"`
}

// CheckoutResult is the created order plus the payment redirect, when one applies
type CheckoutResult struct {
	Order     order.Summary `json:"order"`
	InitPoint string        `json:"init_point,omitempty"`
}

// PaymentMethod describes a payment option offered at checkout
type PaymentMethod struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Available   bool                `json:"available"`
}

// CheckoutSummary previews what placing the order would produce
type CheckoutSummary struct {
	Cart                  *cart.CartResponse `json:"cart"`
	EstimatedShippingDays string             `json:"estimated_shipping_days"`
	Currency              string             `json:"currency"`
	PaymentMethods        []PaymentMethod    `json:"payment_methods"`
}

// PaymentError reports that the order was stored but the payment redirect could not be created
type PaymentError struct {
	OrderID uuid.UUID
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("order %s created but payment could not be started: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() []error { return []error{ErrPaymentUnavailable, e.Err} }

// Service handles checkout and order workflow
type Service struct {
	config    *config.Config
	carts     CartStore
	orders    OrderStore
	payments  PaymentCreator
	publisher EventPublisher
	notifier  Notifier
	logger    *logrus.Logger
	now       func() time.Time
}

// NewService creates a new checkout service
func NewService(cfg *config.Config, carts CartStore, orders OrderStore, payments PaymentCreator, publisher EventPublisher, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		config:    cfg,
		carts:     carts,
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GetCheckoutSummary previews the session cart for checkout
func (s *Service) GetCheckoutSummary(ctx context.Context, sessionID string) (*CheckoutSummary, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	preview := BuildOrder(c, Customer{}, &CheckoutRequest{})
	return &CheckoutSummary{
		Cart:                  cart.NewResponse(c),
		EstimatedShippingDays: order.EstimatedShippingDays(preview),
		Currency:              s.config.App.Currency,
		PaymentMethods:        s.availablePaymentMethods(),
	}, nil
}

// PlaceOrder turns the session cart into an order. For online payment it
// returns the gateway redirect; cash on delivery needs none.
func (s *Service) PlaceOrder(ctx context.Context, customer Customer, sessionID string, req *CheckoutRequest) (*CheckoutResult, error) {
	if !s.paymentMethodAvailable(req.PaymentMethod) {
		return nil, order.ErrUnsupportedPaymentType
	}

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	o := BuildOrder(c, customer, req)
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"order_id":       o.ID,
		"user_id":        customer.UserID,
		"payment_method": o.PaymentMethod,
		"total":          o.Total.String(),
	})
	log.Info("order placed")

	// cleared once the order exists, even if payment setup fails below
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		log.WithError(err).Warn("failed to clear cart after order creation")
	}

	s.publish(ctx, order.EventOrderPlaced, o)
	s.orders.ResolveImages(ctx, o)

	result := &CheckoutResult{}
	if o.PaymentMethod == order.PaymentMethodMercadoPago {
		initPoint, err := s.requestPayment(ctx, o)
		if err != nil {
			log.WithError(err).Error("failed to create payment")
			return nil, &PaymentError{OrderID: o.ID, Err: err}
		}
		result.InitPoint = initPoint
	}

	s.notify(ctx, o, customer, result.InitPoint, s.notifier.SendOrderConfirmationEmail)

	result.Order = order.NewSummary(*o, s.now())
	return result, nil
}

// RetryPayment creates a new payment redirect for a payment-pending order still inside its window
func (s *Service) RetryPayment(ctx context.Context, customer Customer, orderID uuid.UUID) (string, error) {
	o, err := s.orders.GetOrder(ctx, customer.UserID, orderID)
	if err != nil {
		return "", err
	}
	if err := order.EnsurePayable(o, s.now()); err != nil {
		return "", err
	}

	initPoint, err := s.requestPayment(ctx, o)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Error("failed to create payment on retry")
		return "", &PaymentError{OrderID: o.ID, Err: err}
	}
	return initPoint, nil
}

// CancelOrder cancels the customer's order, then notifies and publishes
func (s *Service) CancelOrder(ctx context.Context, customer Customer, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.CancelOrder(ctx, customer.UserID, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": o.ID,
		"user_id":  customer.UserID,
	}).Info("order cancelled")

	s.publish(ctx, order.EventOrderCancelled, o)
	s.notify(ctx, o, customer, "", s.notifier.SendOrderCancelledEmail)
	return o, nil
}

// BuildOrder snapshots the cart lines into a new pending order
func BuildOrder(c *cart.Cart, customer Customer, req *CheckoutRequest) *order.Order {
	items := make([]order.OrderItem, len(c.Items))
	for i, line := range c.Items {
		p := line.Product
		// keys, not presigned URLs: the snapshot outlives any signature
		images := append([]string{}, p.StoredImages()...)
		items[i] = order.OrderItem{
			ProductID:     p.ID,
			ProductName:   p.Name,
			ProductImages: images,
			Price:         p.UnitPrice(),
			Quantity:      line.Quantity,
			SelectedColor: line.SelectedColor,
			Product:       &line.Product,
		}
	}

	return &order.Order{
		UserID:          customer.UserID,
		Email:           customer.Email,
		Total:           c.Total(),
		Status:          order.OrderStatusPending,
		PaymentStatus:   order.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Notes:           strings.TrimSpace(req.Notes),
		Items:           items,
	}
}

// PaymentRequest builds the create-payment payload for an order
func PaymentRequest(o *order.Order) *payment.CreatePaymentRequest {
	items := make([]payment.Item, len(o.Items))
	for i, item := range o.Items {
		items[i] = payment.Item{
			Product: payment.ProductRef{
				ID:    item.ProductID,
				Name:  item.ProductName,
				Price: item.Price,
			},
			Quantity: item.Quantity,
		}
	}
	return &payment.CreatePaymentRequest{
		OrderID: o.ID.String(),
		Items:   items,
		Total:   o.Total,
	}
}

func (s *Service) requestPayment(ctx context.Context, o *order.Order) (string, error) {
	resp, err := s.payments.CreatePayment(ctx, PaymentRequest(o))
	if err != nil {
		return "", err
	}
	s.publish(ctx, order.EventPaymentRequested, o)
	return resp.InitPoint, nil
}

// publish failures never fail the request
func (s *Service) publish(ctx context.Context, t order.EventType, o *order.Order) {
	if err := s.publisher.Publish(ctx, order.NewEvent(t, o, s.now())); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": o.ID,
			"event":    t,
		}).Warn("failed to publish order event")
	}
}

func (s *Service) notify(ctx context.Context, o *order.Order, customer Customer, paymentURL string, send func(context.Context, email.OrderEmailData) error) {
	to := customer.Email
	if to == "" {
		to = o.Email
	}
	if to == "" {
		return
	}
	if err := send(ctx, s.OrderEmailData(o, customer.Name, to, paymentURL)); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Warn("failed to send order email")
	}
}

// OrderEmailData maps an order onto the email template data
func (s *Service) OrderEmailData(o *order.Order, name, to, paymentURL string) email.OrderEmailData {
	if name == "" {
		name = strings.Split(to, "@")[0]
	}

	items := make([]email.OrderItem, len(o.Items))
	for i, item := range o.Items {
		var image string
		if len(item.ProductImages) > 0 {
			image = item.ProductImages[0]
		}
		items[i] = email.OrderItem{
			Name:     item.ProductName,
			Color:    item.SelectedColor,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Total:    item.Subtotal().StringFixed(2),
			ImageURL: image,
		}
	}

	a := o.ShippingAddress
	return email.OrderEmailData{
		EmailTemplateData:     email.EmailTemplateData{UserName: name, UserEmail: to},
		OrderID:               o.ID.String(),
		OrderNumber:           o.ShortID(),
		OrderDate:             o.CreatedAt.Format("02 Jan 2006"),
		OrderTotal:            o.Total.StringFixed(2),
		Currency:              s.config.App.Currency,
		OrderURL:              fmt.Sprintf("%s/orders/%s", strings.TrimRight(s.config.App.SiteURL, "/"), o.ID),
		PaymentMethod:         string(o.PaymentMethod),
		PaymentURL:            paymentURL,
		EstimatedShippingDays: order.EstimatedShippingDays(o),
		Items:                 items,
		ShippingAddress: email.Address{
			FullName:     a.FullName,
			AddressLine1: a.AddressLine1,
			AddressLine2: a.AddressLine2,
			City:         a.City,
			State:        a.State,
			PostalCode:   a.PostalCode,
			Country:      a.Country,
			Phone:        a.Phone,
		},
	}
}

func (s *Service) availablePaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		{
			ID:          order.PaymentMethodMercadoPago,
			Name:        "Mercado Pago",
			Description: "Pay online with card, bank transfer or Mercado Pago balance",
			Available:   s.config.External.Payment.FunctionURL != "",
		},
		{
			ID:          order.PaymentMethodCashOnDelivery,
			Name:        "Cash on Delivery",
			Description: "Pay cash when your order is delivered",
			Available:   true,
		},
	}
}

func (s *Service) paymentMethodAvailable(m order.PaymentMethod) bool {
	for _, pm := range s.availablePaymentMethods() {
		if pm.ID == m {
			return pm.Available
		}
	}
	return false
}
