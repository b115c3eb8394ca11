package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/your-org/storefront-backend/internal/domain/product"
)

// ItemShippingDays resolves the estimate of one order line from its product
func ItemShippingDays(item *OrderItem) string {
	if item.Product == nil {
		return product.DefaultShippingDays
	}
	return item.Product.ResolvedShippingDays()
}

// EstimatedShippingDays returns the common estimate when every item agrees.
// Otherwise it spans the lowest lower bound to the highest upper bound,
// so "3-5" and "7" give "3-7".
func EstimatedShippingDays(o *Order) string {
	if len(o.Items) == 0 {
		return product.DefaultShippingDays
	}

	values := make([]string, len(o.Items))
	allEqual := true
	for i := range o.Items {
		values[i] = ItemShippingDays(&o.Items[i])
		if values[i] != values[0] {
			allEqual = false
		}
	}
	if allEqual {
		return values[0]
	}

	lo, hi, ok := -1, -1, false
	for _, v := range values {
		lower, upper, parsed := parseDaysRange(v)
		if !parsed {
			continue
		}
		if !ok || lower < lo {
			lo = lower
		}
		if !ok || upper > hi {
			hi = upper
		}
		ok = true
	}
	if !ok {
		return product.DefaultShippingDays
	}
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}

// parseDaysRange accepts "N" or "N-M"
func parseDaysRange(v string) (lower, upper int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(v), "-", 2)
	lo, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || lo < 0 {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return lo, lo, true
	}
	hi, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || hi < lo {
		return 0, 0, false
	}
	return lo, hi, true
}
