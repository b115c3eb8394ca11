// internal/interfaces/http/handlers/order.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// OrderService reads a customer's orders
type OrderService interface {
	CompletedForUser(ctx context.Context, userID uuid.UUID) ([]order.Summary, error)
	PendingForUser(ctx context.Context, userID uuid.UUID) ([]order.Summary, error)
	GetSummary(ctx context.Context, userID, orderID uuid.UUID) (*order.Summary, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error)
}

// ReceiptGenerator renders an order receipt as PDF
type ReceiptGenerator interface {
	GenerateReceipt(o *order.Order) (*bytes.Buffer, error)
}

// OrderHandler handles order history endpoints
type OrderHandler struct {
	orders   OrderService
	workflow CheckoutService
	receipts ReceiptGenerator
	logger   *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService, workflow CheckoutService, receipts ReceiptGenerator, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		workflow: workflow,
		receipts: receipts,
		logger:   logger,
	}
}

// GetOrders handles GET /orders, the completed bucket
func (h *OrderHandler) GetOrders(c *gin.Context) {
	customer, ok := customerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orders, err := h.orders.CompletedForUser(c.Request.Context(), customer.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetPendingOrders handles GET /orders/pending, orders still awaiting online payment
func (h *OrderHandler) GetPendingOrders(c *gin.Context) {
	customer, ok := customerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	orders, err := h.orders.PendingForUser(c.Request.Context(), customer.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve pending orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customer, orderID, ok := h.orderRequest(c)
	if !ok {
		return
	}

	summary, err := h.orders.GetSummary(c.Request.Context(), customer.UserID, orderID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    summary,
	})
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	customer, orderID, ok := h.orderRequest(c)
	if !ok {
		return
	}

	cancelled, err := h.workflow.CancelOrder(c.Request.Context(), customer, orderID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    cancelled,
	})
}

// PayOrder handles POST /orders/:id/pay
func (h *OrderHandler) PayOrder(c *gin.Context) {
	customer, orderID, ok := h.orderRequest(c)
	if !ok {
		return
	}

	initPoint, err := h.workflow.RetryPayment(c.Request.Context(), customer, orderID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to start payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment started successfully",
		"data": gin.H{
			"order_id":   orderID,
			"init_point": initPoint,
		},
	})
}

// DownloadReceipt handles GET /orders/:id/receipt
func (h *OrderHandler) DownloadReceipt(c *gin.Context) {
	customer, orderID, ok := h.orderRequest(c)
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), customer.UserID, orderID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to retrieve order")
		return
	}

	pdfBuffer, err := h.receipts.GenerateReceipt(o)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate receipt")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.ShortID()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *OrderHandler) orderRequest(c *gin.Context) (customer checkout.Customer, orderID uuid.UUID, ok bool) {
	customer, ok = customerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return customer, uuid.Nil, false
	}

	orderID, ok = parseUUIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return customer, uuid.Nil, false
	}
	return customer, orderID, true
}
