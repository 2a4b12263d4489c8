package integration

import (
	"context"
	"path/filepath"
	"testing"

	"skullcart/internal/cart"
	"skullcart/internal/checkout"
	"skullcart/internal/model"
	"skullcart/internal/money"
	"skullcart/internal/pricing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingButton captures every instruction pushed to the payment
// collaborator so the flow can assert on the render sequence.
type recordingButton struct {
	totals  []money.Cents
	removed int
}

func (b *recordingButton) Update(total money.Cents) { b.totals = append(b.totals, total) }
func (b *recordingButton) Remove()                  { b.removed++ }

// TestWidgetFlow walks the storefront's end-to-end scenario: add a
// 30.00 item twice, apply the coupon, check the totals, pay, and watch
// the cart empty out, with every step persisted through file storage.
func TestWidgetFlow(t *testing.T) {
	ctx := context.Background()
	cartPath := filepath.Join(t.TempDir(), "skullfoodCart.json")
	logger := zerolog.Nop()

	storage := cart.NewFileStorage(cartPath, logger)
	store := cart.NewStore(storage, logger)
	store.Load(ctx)

	engine := pricing.NewEngine(pricing.DefaultRuleset(), logger)
	button := &recordingButton{}
	service := checkout.NewService(store, engine, button, logger)

	burger := model.Product{ID: "SK-1", Name: "Skull Burger", UnitPrice: 3000, ImageRef: "img/burger.png"}

	// Add the item twice: one row, quantity 2, subtotal 60.00.
	require.NoError(t, store.Add(ctx, burger))
	require.NoError(t, store.Add(ctx, burger))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	snap := engine.Evaluate(items)
	assert.Equal(t, money.Cents(6000), snap.Subtotal)

	// Apply the coupon: 10% off 60.00.
	msg, applied := engine.ApplyCoupon("SKULL10", store.Items())
	require.True(t, applied)
	assert.Equal(t, "10% Discount Applied!", msg)

	// 60.00 - 6.00 = 54.00, below the 65.00 threshold: shipping 20.00.
	snap = engine.Evaluate(store.Items())
	assert.Equal(t, money.Cents(600), snap.Discount)
	assert.Equal(t, money.Cents(2000), snap.Shipping)
	assert.Equal(t, money.Cents(7400), snap.Total)

	summary := service.Summary()
	assert.True(t, summary.Available)
	assert.Equal(t, money.Cents(7400), summary.Total)

	// A restart at this point restores the same cart from disk.
	restored := cart.NewStore(storage, logger)
	restored.Load(ctx)
	assert.Equal(t, store.Items(), restored.Items())

	// Payment succeeds: cart cleared, badge 0, checkout gone.
	cleared, err := service.CompletePayment(ctx, checkout.OutcomeSuccess)
	require.NoError(t, err)
	assert.True(t, cleared)

	assert.Empty(t, store.Items())
	assert.Zero(t, store.ItemCount())

	summary = service.Summary()
	assert.False(t, summary.Available)
	assert.Equal(t, money.Cents(0), summary.Total)

	// The clear reached the button as a removal, and the empty cart is
	// what a fresh load now sees.
	assert.Positive(t, button.removed)

	emptied := cart.NewStore(storage, logger)
	emptied.Load(ctx)
	assert.Empty(t, emptied.Items())
}

// TestWidgetFlow_CouponRevocationAcrossMutations exercises the coupon
// staying applied while the discount tracks the cart contents.
func TestWidgetFlow_CouponRevocationAcrossMutations(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	store := cart.NewStore(cart.NewMemoryStorage(), logger)
	engine := pricing.NewEngine(pricing.DefaultRuleset(), logger)

	require.NoError(t, store.Add(ctx, model.Product{ID: "A", Name: "Item A", UnitPrice: 1500}))
	require.NoError(t, store.Add(ctx, model.Product{ID: "B", Name: "Item B", UnitPrice: 1000}))

	// Subtotal 25.00: coupon applies, discount 2.50.
	_, applied := engine.ApplyCoupon("SKULL10", store.Items())
	require.True(t, applied)
	snap := engine.Evaluate(store.Items())
	assert.Equal(t, money.Cents(250), snap.Discount)

	// Remove B: subtotal 15.00, discount auto-revoked.
	require.NoError(t, store.Remove(ctx, "B"))
	snap = engine.Evaluate(store.Items())
	assert.Equal(t, money.Cents(0), snap.Discount)
	assert.Equal(t, "10% Discount Applied!", snap.CouponMessage)

	// Add B back: discount returns without re-entering the code.
	require.NoError(t, store.Add(ctx, model.Product{ID: "B", Name: "Item B", UnitPrice: 1000}))
	snap = engine.Evaluate(store.Items())
	assert.Equal(t, money.Cents(250), snap.Discount)
}
