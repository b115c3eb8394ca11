package promotion

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UnitPrice returns what one unit costs under promo. Only discount promotions
// override the base price; quantity deals are labelled but not priced.
func UnitPrice(price decimal.Decimal, promo *Promotion) decimal.Decimal {
	if promo == nil || promo.Type != TypeDiscount || !promo.TotalPrice.Valid {
		return price
	}
	return promo.TotalPrice.Decimal
}

// DiscountPercent computes round((1 - totalPrice/price) * 100)
func DiscountPercent(price, totalPrice decimal.Decimal) int64 {
	if !price.IsPositive() {
		return 0
	}
	return decimal.NewFromInt(1).Sub(totalPrice.Div(price)).Mul(hundred).Round(0).IntPart()
}

// Label returns the storefront badge for promo, or "" when there is none
func Label(price decimal.Decimal, promo *Promotion) string {
	if promo == nil {
		return ""
	}
	switch promo.Type {
	case TypeTwoForOne, TypeThreeForOne, TypeThreeForTwo:
		return string(promo.Type)
	case TypeDiscount:
		if !promo.TotalPrice.Valid {
			return ""
		}
		return fmt.Sprintf("%d%% OFF", DiscountPercent(price, promo.TotalPrice.Decimal))
	}
	return ""
}
