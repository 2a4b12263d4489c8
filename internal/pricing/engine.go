package pricing

import (
	"fmt"
	"strings"
	"sync"

	"skullcart/internal/model"
	"skullcart/internal/money"

	"github.com/rs/zerolog"
)

// CouponStatus tracks the outcome of the last ApplyCoupon call.
type CouponStatus string

const (
	// CouponNone means no code has been entered this session.
	CouponNone CouponStatus = "none"
	// CouponApplied means the last entered code was accepted. The
	// discount is still re-validated on every evaluation.
	CouponApplied CouponStatus = "applied"
	// CouponRejected means the last entered code was refused. Priced
	// identically to CouponNone; only the message differs.
	CouponRejected CouponStatus = "rejected"
)

// Snapshot is the derived pricing breakdown for the current cart and
// coupon state. It is recomputed on every change and never persisted.
type Snapshot struct {
	Subtotal      money.Cents  `json:"subtotal"`
	Discount      money.Cents  `json:"discount"`
	Shipping      money.Cents  `json:"shipping"`
	Total         money.Cents  `json:"total"`
	CouponStatus  CouponStatus `json:"couponStatus"`
	CouponMessage string       `json:"couponMessage,omitempty"`
}

// Engine computes pricing snapshots under the storefront's business
// rules and holds the coupon state machine.
//
// An applied coupon is re-validated on every Evaluate: if items are
// removed and the subtotal drops below the rule's minimum, the discount
// silently returns to zero. The stored user-facing message is never
// rewritten by evaluation, only by the next ApplyCoupon.
type Engine struct {
	mu          sync.Mutex
	rules       Ruleset
	status      CouponStatus
	appliedCode string
	message     string
	logger      zerolog.Logger
}

// NewEngine creates a pricing engine with the given ruleset.
func NewEngine(rules Ruleset, logger zerolog.Logger) *Engine {
	return &Engine{
		rules:  rules,
		status: CouponNone,
		logger: logger.With().Str("component", "pricing-engine").Logger(),
	}
}

// ApplyCoupon normalizes the entered code (trim, case-fold) and checks
// it against the coupon rule. Success requires both a code match and
// the current subtotal meeting the rule's minimum. Failure clears any
// previously applied coupon. Returns the user-facing message and
// whether the coupon was accepted.
func (e *Engine) ApplyCoupon(code string, items []model.LineItem) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	subtotal := Subtotal(items)

	e.mu.Lock()
	defer e.mu.Unlock()

	if normalized == e.rules.Coupon.normalizedCode() && subtotal >= e.rules.Coupon.MinimumSubtotal {
		e.status = CouponApplied
		e.appliedCode = normalized
		e.message = e.acceptedMessage()

		e.logger.Info().
			Str("code", normalized).
			Str("subtotal", subtotal.String()).
			Msg("coupon applied")
		return e.message, true
	}

	e.status = CouponRejected
	e.appliedCode = ""
	e.message = "Invalid Code or Minimum not met."

	e.logger.Info().
		Str("code", normalized).
		Str("subtotal", subtotal.String()).
		Msg("coupon rejected")
	return e.message, false
}

// Evaluate computes the pricing snapshot for the given cart contents
// and the engine's current coupon state. Pure apart from reading that
// state: it never mutates the cart, the coupon status, or the message.
func (e *Engine) Evaluate(items []model.LineItem) Snapshot {
	subtotal := Subtotal(items)

	e.mu.Lock()
	defer e.mu.Unlock()

	var discount money.Cents
	if e.status == CouponApplied &&
		e.appliedCode == e.rules.Coupon.normalizedCode() &&
		subtotal >= e.rules.Coupon.MinimumSubtotal {
		discount = subtotal.Percent(e.rules.Coupon.DiscountPercentage)
	}

	discounted := subtotal - discount

	var shipping money.Cents
	if discounted > 0 && discounted < e.rules.Shipping.FreeShippingThreshold {
		shipping = e.rules.Shipping.FlatFee
	}

	return Snapshot{
		Subtotal:      subtotal,
		Discount:      discount,
		Shipping:      shipping,
		Total:         discounted + shipping,
		CouponStatus:  e.status,
		CouponMessage: e.message,
	}
}

// Rules returns the engine's ruleset.
func (e *Engine) Rules() Ruleset {
	return e.rules
}

// acceptedMessage renders the acceptance text for the configured
// percentage, e.g. "10% Discount Applied!". Caller holds the lock.
func (e *Engine) acceptedMessage() string {
	pct := e.rules.Coupon.DiscountPercentage.Shift(2)
	return fmt.Sprintf("%s%% Discount Applied!", pct.String())
}

// Subtotal sums unit price times quantity over all line items.
func Subtotal(items []model.LineItem) money.Cents {
	var total money.Cents
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
