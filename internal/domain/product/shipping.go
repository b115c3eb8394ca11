package product

import (
	"regexp"
	"strings"
)

// DefaultShippingDays is used when a product carries no estimate at all
const DefaultShippingDays = "3-5"

var legacyShippingDaysPattern = regexp.MustCompile(`\[shipping_days:(\d+)\]`)

// ResolveShippingDays picks the explicit shipping-days value, falls back to the
// legacy "[shipping_days:N]" marker in the description, then to the default.
func ResolveShippingDays(shippingDays, description string) string {
	if v := strings.TrimSpace(shippingDays); v != "" {
		return v
	}
	if m := legacyShippingDaysPattern.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return DefaultShippingDays
}

// StripShippingMarker removes the legacy shipping marker from a description for display
func StripShippingMarker(description string) string {
	return strings.TrimSpace(legacyShippingDaysPattern.ReplaceAllString(description, ""))
}
