package pricing

import (
	"fmt"
	"strings"

	"skullcart/internal/money"

	"github.com/shopspring/decimal"
)

// CouponRule is the static discount policy: a single code giving a
// percentage off once the cart subtotal reaches the minimum.
type CouponRule struct {
	Code               string          `json:"code"`
	DiscountPercentage decimal.Decimal `json:"discountPercentage"`
	MinimumSubtotal    money.Cents     `json:"minimumSubtotal"`
}

// ShippingRule charges a flat fee unless the discounted subtotal
// reaches the free-shipping threshold (or the cart prices to zero).
type ShippingRule struct {
	FlatFee               money.Cents `json:"flatFee"`
	FreeShippingThreshold money.Cents `json:"freeShippingThreshold"`
}

// Ruleset bundles the storefront's pricing configuration. It is loaded
// once at startup and never mutated at runtime.
type Ruleset struct {
	Coupon   CouponRule   `json:"coupon"`
	Shipping ShippingRule `json:"shipping"`
}

// DefaultRuleset returns the built-in Skull Food rules, used when no
// ruleset source is configured or the source cannot be loaded.
func DefaultRuleset() Ruleset {
	return Ruleset{
		Coupon: CouponRule{
			Code:               "SKULL10",
			DiscountPercentage: decimal.New(10, -2),
			MinimumSubtotal:    2000,
		},
		Shipping: ShippingRule{
			FlatFee:               2000,
			FreeShippingThreshold: 6500,
		},
	}
}

// Validate checks that a loaded ruleset is usable.
func (r Ruleset) Validate() error {
	if strings.TrimSpace(r.Coupon.Code) == "" {
		return fmt.Errorf("coupon code is required")
	}
	if r.Coupon.DiscountPercentage.IsNegative() ||
		r.Coupon.DiscountPercentage.GreaterThanOrEqual(decimal.New(1, 0)) {
		return fmt.Errorf("discount percentage must be in [0,1): %s", r.Coupon.DiscountPercentage)
	}
	if r.Coupon.MinimumSubtotal < 0 {
		return fmt.Errorf("minimum subtotal cannot be negative")
	}
	if r.Shipping.FlatFee < 0 {
		return fmt.Errorf("shipping flat fee cannot be negative")
	}
	if r.Shipping.FreeShippingThreshold < 0 {
		return fmt.Errorf("free shipping threshold cannot be negative")
	}
	return nil
}

// normalizedCode returns the rule's code in canonical comparison form.
func (r CouponRule) normalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}
