package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront-backend/internal/domain/analytics"
)

var statsDays int

// statsCmd prints a sales report
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a sales report for recent orders",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "report window in days")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	db, err := e.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := analytics.NewService(db.GetDB()).GetSalesReport(cmd.Context(), statsDays)
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report, e.cfg.App.Currency)
	return nil
}

func printReport(out io.Writer, r *analytics.SalesReport, currency string) {
	fmt.Fprintf(out, "Orders since %s: %d\n", r.Since.Format("2006-01-02"), r.TotalOrders)
	fmt.Fprintf(out, "Paid revenue: %s %s (%d orders, avg %s)\n",
		currency, r.Revenue.StringFixed(2), r.PaidOrders, r.AvgOrderValue.StringFixed(2))
	fmt.Fprintf(out, "Awaiting online payment: %d open, %d past the window\n\n", r.Pending.Open, r.Pending.Expired)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tORDERS\tVALUE")
	for _, st := range r.ByStatus {
		fmt.Fprintf(w, "%s\t%d\t%s\n", st.Status, st.Count, st.Value.StringFixed(2))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PRODUCT\tSOLD\tREVENUE")
	for _, p := range r.TopProducts {
		fmt.Fprintf(w, "%s\t%d\t%s\n", p.ProductName, p.TotalSold, p.Revenue.StringFixed(2))
	}
	w.Flush()
}
