// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodMercadoPago    PaymentMethod = "mercadopago"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodMercadoPago || m == PaymentMethodCashOnDelivery
}

// Order represents the order entity
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Email           string          `gorm:"size:255" json:"email"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status          OrderStatus     `gorm:"not null;size:20;default:'pending';index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"not null;size:20;default:'pending'" json:"payment_status"`
	PaymentMethod   PaymentMethod   `gorm:"not null;size:30" json:"payment_method"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem is a point-in-time snapshot of a purchased product
type OrderItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	ProductName   string          `gorm:"not null;size:255" json:"product_name"`
	ProductImages []string        `gorm:"serializer:json;type:jsonb" json:"product_images"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	SelectedColor string          `gorm:"size:50" json:"selected_color,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Product *product.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

// Address represents the shipping address snapshot (embedded in Order)
type Address struct {
	FullName     string `gorm:"size:200" json:"full_name" binding:"required"`
	AddressLine1 string `gorm:"size:255" json:"address_line1" binding:"required"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	City         string `gorm:"size:100" json:"city" binding:"required"`
	State        string `gorm:"size:100" json:"state"`
	PostalCode   string `gorm:"size:20" json:"postal_code" binding:"required"`
	Country      string `gorm:"size:2" json:"country"`
	Phone        string `gorm:"size:30" json:"phone"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// BeforeCreate assigns the order id
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Subtotal returns price times quantity for the line
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// ItemCount returns the sum of quantities
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}

// ShortID returns the first block of the order id for display
func (o *Order) ShortID() string {
	return o.ID.String()[:8]
}

var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo reports whether the lifecycle allows moving to status
func (o *Order) CanTransitionTo(status OrderStatus) bool {
	for _, s := range validTransitions[o.Status] {
		if s == status {
			return true
		}
	}
	return false
}
