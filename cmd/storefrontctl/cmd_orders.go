package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

var (
	ordersLimit         int
	ordersStatus        string
	ordersPaymentStatus string
)

// ordersCmd groups order maintenance commands
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and update orders",
	Long: `Inspect and update orders.

Available subcommands:
  list       - List recent orders
  set-status - Move an order through its fulfilment states
  mark-paid  - Record a confirmed online payment`,
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent orders",
	RunE:  runOrdersList,
}

var ordersSetStatusCmd = &cobra.Command{
	Use:   "set-status <order-id> <status>",
	Short: "Set the fulfilment status of an order",
	Args:  cobra.ExactArgs(2),
	RunE:  runOrdersSetStatus,
}

var ordersMarkPaidCmd = &cobra.Command{
	Use:   "mark-paid <order-id>",
	Short: "Mark an order as paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersMarkPaid,
}

func init() {
	ordersListCmd.Flags().IntVar(&ordersLimit, "limit", 20, "maximum number of orders")
	ordersListCmd.Flags().StringVar(&ordersStatus, "status", "", "filter by order status")
	ordersListCmd.Flags().StringVar(&ordersPaymentStatus, "payment-status", "", "filter by payment status")

	ordersCmd.AddCommand(ordersListCmd, ordersSetStatusCmd, ordersMarkPaidCmd)
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	req := order.OrderListRequest{Limit: ordersLimit}
	if ordersStatus != "" {
		status, err := parseOrderStatus(ordersStatus)
		if err != nil {
			return err
		}
		req.Status = status
	}
	if ordersPaymentStatus != "" {
		status, err := parsePaymentStatus(ordersPaymentStatus)
		if err != nil {
			return err
		}
		req.PaymentStatus = status
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	orders, err := order.NewService(db.GetDB(), nil).ListRecent(cmd.Context(), req)
	if err != nil {
		return err
	}

	printOrders(cmd.OutOrStdout(), orders, time.Now())
	return nil
}

func runOrdersSetStatus(cmd *cobra.Command, args []string) error {
	orderID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}
	status, err := parseOrderStatus(args[1])
	if err != nil {
		return err
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	updated, err := order.NewService(db.GetDB(), nil).UpdateStatus(cmd.Context(), orderID, status)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", updated.ShortID(), updated.Status)
	return nil
}

func runOrdersMarkPaid(cmd *cobra.Command, args []string) error {
	orderID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := order.NewService(db.GetDB(), nil).UpdatePaymentStatus(cmd.Context(), orderID, order.PaymentStatusPaid); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "order %s marked as paid\n", orderID)
	return nil
}

func parseOrderStatus(s string) (order.OrderStatus, error) {
	switch status := order.OrderStatus(s); status {
	case order.OrderStatusPending, order.OrderStatusProcessing, order.OrderStatusShipped,
		order.OrderStatusDelivered, order.OrderStatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func parsePaymentStatus(s string) (order.PaymentStatus, error) {
	switch status := order.PaymentStatus(s); status {
	case order.PaymentStatusPending, order.PaymentStatusPaid,
		order.PaymentStatusFailed, order.PaymentStatusRefunded:
		return status, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func printOrders(out io.Writer, orders []order.Order, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCREATED\tSTATUS\tPAYMENT\tMETHOD\tTOTAL\tSHIPPING\tWINDOW")
	for _, o := range orders {
		window := "-"
		if o.IsPaymentPending() {
			window = order.TimeRemaining(o.CreatedAt, now)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ShortID(),
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.Status,
			o.PaymentStatus,
			o.PaymentMethod,
			o.Total.StringFixed(2),
			order.EstimatedShippingDays(&o),
			window,
		)
	}
	w.Flush()
}
