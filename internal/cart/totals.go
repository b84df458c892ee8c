package cart

import (
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/pkg/enums"
)

// canonicalExponent is the minor-unit precision of the stored currency
// (Kuwaiti dinar, three decimal places).
const canonicalExponent = 3

// Rules carries the shipping knobs that feed the totals computation.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
}

// computeTotals derives subtotal, shipping, discount and total from a state.
// It is a pure function; callers re-run it after every mutation and on every
// load so persisted totals can never drift.
func computeTotals(state State, rules Rules) Totals {
	subtotal := decimal.Zero
	for _, line := range state.Items {
		price := line.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	subtotal = subtotal.Round(canonicalExponent)

	shipping := decimal.Zero
	if len(state.Items) > 0 && !state.AllDigital() && subtotal.LessThan(rules.FreeShippingThreshold) {
		shipping = rules.FlatShippingFee
	}

	discount := decimal.Zero
	if state.HasPromo() {
		switch state.PromoDiscountType {
		case enums.DiscountTypePercentage:
			discount = subtotal.Mul(state.PromoDiscount).Div(decimal.NewFromInt(100)).Round(canonicalExponent)
		case enums.DiscountTypeFixed:
			discount = state.PromoDiscount
		}
		// clamp to [0, subtotal+shipping]
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		if max := subtotal.Add(shipping); discount.GreaterThan(max) {
			discount = max
		}
	}

	total := subtotal.Add(shipping).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    total.Round(canonicalExponent),
	}
}
