// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Service builds operator sales reports
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// SalesReport summarises orders placed since a point in time
type SalesReport struct {
	Since         time.Time          `json:"since"`
	TotalOrders   int64              `json:"total_orders"`
	Revenue       decimal.Decimal    `json:"revenue"` // paid orders only
	PaidOrders    int64              `json:"paid_orders"`
	AvgOrderValue decimal.Decimal    `json:"avg_order_value"`
	ByStatus      []StatusData       `json:"by_status"`
	ByMethod      []MethodData       `json:"by_payment_method"`
	Pending       PendingPayments    `json:"pending_payments"`
	TopProducts   []ProductSalesData `json:"top_products"`
}

// StatusData is the order count and value per fulfilment status
type StatusData struct {
	Status order.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
	Value  decimal.Decimal   `json:"value"`
}

// MethodData is the order count and value per payment method
type MethodData struct {
	PaymentMethod order.PaymentMethod `json:"payment_method"`
	Count         int64               `json:"count"`
	Value         decimal.Decimal     `json:"value"`
}

// PendingPayments splits online orders still awaiting payment by whether their window has closed
type PendingPayments struct {
	Open    int64 `json:"open"`
	Expired int64 `json:"expired"`
}

// ProductSalesData is a product's sold units and revenue from order snapshots
type ProductSalesData struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	TotalSold   int64           `json:"total_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int64           `json:"order_count"`
}

// GetSalesReport reports on orders placed in the last days days (30 when days <= 0)
func (s *Service) GetSalesReport(ctx context.Context, days int) (*SalesReport, error) {
	now := s.now()
	report := &SalesReport{Since: reportStart(now, days)}
	db := s.db.WithContext(ctx)

	err := db.Raw(`
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS value
		FROM orders
		WHERE created_at >= ?
		GROUP BY status
		ORDER BY count DESC
	`, report.Since).Scan(&report.ByStatus).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by status: %w", err)
	}

	err = db.Raw(`
		SELECT payment_method, COUNT(*) AS count, COALESCE(SUM(total), 0) AS value
		FROM orders
		WHERE created_at >= ? AND status <> ?
		GROUP BY payment_method
		ORDER BY count DESC
	`, report.Since, order.OrderStatusCancelled).Scan(&report.ByMethod).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get sales by payment method: %w", err)
	}

	var paid struct {
		Count int64
		Value decimal.Decimal
	}
	err = db.Raw(`
		SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS value
		FROM orders
		WHERE created_at >= ? AND payment_status = ? AND status <> ?
	`, report.Since, order.PaymentStatusPaid, order.OrderStatusCancelled).Scan(&paid).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue: %w", err)
	}
	report.PaidOrders = paid.Count
	report.Revenue = paid.Value

	err = db.Raw(`
		SELECT
			COUNT(*) FILTER (WHERE created_at > ?) AS open,
			COUNT(*) FILTER (WHERE created_at <= ?) AS expired
		FROM orders
		WHERE payment_status = ? AND payment_method = ? AND status <> ?
	`, now.Add(-order.PaymentWindow), now.Add(-order.PaymentWindow),
		order.PaymentStatusPending, order.PaymentMethodMercadoPago, order.OrderStatusCancelled,
	).Scan(&report.Pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments: %w", err)
	}

	err = db.Raw(`
		SELECT
			oi.product_id,
			MAX(oi.product_name) AS product_name,
			COALESCE(SUM(oi.quantity), 0) AS total_sold,
			COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue,
			COUNT(DISTINCT o.id) AS order_count
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= ? AND o.status <> ?
		GROUP BY oi.product_id
		ORDER BY revenue DESC
		LIMIT 10
	`, report.Since, order.OrderStatusCancelled).Scan(&report.TopProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}

	report.finalize()
	return report, nil
}

func reportStart(now time.Time, days int) time.Time {
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, -days)
}

func (r *SalesReport) finalize() {
	for _, st := range r.ByStatus {
		r.TotalOrders += st.Count
	}
	if r.PaidOrders > 0 {
		r.AvgOrderValue = r.Revenue.Div(decimal.NewFromInt(r.PaidOrders)).Round(2)
	}
}
