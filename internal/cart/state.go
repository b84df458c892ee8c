package cart

import (
	"github.com/shopspring/decimal"

	"github.com/gamersouq/storefront-backend/pkg/enums"
)

// Line is one cart entry: a product snapshot paired with a quantity. The
// price is captured at add time and never refreshed from the catalog.
type Line struct {
	ID            string                `json:"id"`
	ProductID     string                `json:"product_id"`
	Title         string                `json:"title"`
	TitleEn       string                `json:"title_en"`
	Price         decimal.Decimal       `json:"price"`
	OriginalPrice *decimal.Decimal      `json:"original_price,omitempty"`
	Quantity      int                   `json:"quantity"`
	Image         string                `json:"image"`
	Category      enums.ProductCategory `json:"category"`
	IsDigital     bool                  `json:"is_digital"`
	Badge         *string               `json:"badge,omitempty"`
}

// State is the persisted cart document. Only the inputs are stored; totals
// are derived on every load so they can never go stale.
type State struct {
	Items             []Line             `json:"items"`
	PromoCode         string             `json:"promo_code,omitempty"`
	PromoDiscount     decimal.Decimal    `json:"promo_discount"`
	PromoDiscountType enums.DiscountType `json:"promo_discount_type,omitempty"`
}

// Totals are the derived monetary values of a cart, in the canonical currency.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Snapshot pairs a state with its freshly computed totals.
type Snapshot struct {
	State
	Totals Totals `json:"totals"`
}

func emptyState() State {
	return State{
		Items:         []Line{},
		PromoDiscount: decimal.Zero,
	}
}

// HasPromo reports whether a promo code is currently applied.
func (s State) HasPromo() bool {
	return s.PromoCode != ""
}

// AllDigital reports whether every line in the cart is a digital good. An
// empty cart counts as all-digital: there is nothing to ship.
func (s State) AllDigital() bool {
	for _, line := range s.Items {
		if !line.IsDigital {
			return false
		}
	}
	return true
}

func (s State) findLine(id string) int {
	for i, line := range s.Items {
		if line.ID == id {
			return i
		}
	}
	return -1
}
