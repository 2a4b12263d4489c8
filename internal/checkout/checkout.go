package checkout

import (
	"context"

	"skullcart/internal/cart"
	"skullcart/internal/money"
	"skullcart/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OutcomeSuccess is the only payment outcome that clears the cart.
// Anything else (failure, cancellation) leaves the cart intact for retry.
const OutcomeSuccess = "success"

// Button is the externally owned payment-button integration. The core
// hands it exactly one number, the current total, and otherwise knows
// nothing about the payment protocol.
type Button interface {
	// Update renders or refreshes the button for the given total.
	Update(total money.Cents)

	// Remove takes the button down. Called whenever the total is not
	// positive, so checkout is never offered for a free or empty cart.
	Remove()
}

// Summary is what the presentation layer needs to decide whether to
// offer checkout.
type Summary struct {
	Total     money.Cents `json:"total"`
	Available bool        `json:"available"`
}

// Service bridges the cart core and the payment collaborator. It
// subscribes to cart changes, pushes the recomputed total to the
// button, and translates the payment outcome back into cart state.
type Service struct {
	store  *cart.Store
	engine *pricing.Engine
	button Button
	logger zerolog.Logger
}

// NewService creates the checkout service and registers it for cart
// change signals so the button stays in sync with the total.
func NewService(store *cart.Store, engine *pricing.Engine, button Button, logger zerolog.Logger) *Service {
	s := &Service{
		store:  store,
		engine: engine,
		button: button,
		logger: logger.With().Str("component", "checkout").Logger(),
	}
	store.OnChange(s.Refresh)
	return s
}

// Refresh recomputes the total and pushes it to the payment button.
// With no button wired (the page has no checkout area) this is a
// silent no-op rather than an error.
func (s *Service) Refresh() {
	if s.button == nil {
		return
	}

	snap := s.engine.Evaluate(s.store.Items())
	if snap.Total > 0 {
		s.button.Update(snap.Total)
	} else {
		s.button.Remove()
	}
}

// Summary returns the current total and whether checkout is available.
func (s *Service) Summary() Summary {
	snap := s.engine.Evaluate(s.store.Items())
	return Summary{
		Total:     snap.Total,
		Available: snap.Total > 0,
	}
}

// CompletePayment handles the collaborator's eventual outcome. Only an
// explicit success clears the cart; every other outcome preserves it.
// Returns whether the cart was cleared.
func (s *Service) CompletePayment(ctx context.Context, outcome string) (bool, error) {
	attemptID := uuid.New()

	if outcome != OutcomeSuccess {
		s.logger.Info().
			Str("attempt_id", attemptID.String()).
			Str("outcome", outcome).
			Msg("payment did not complete, cart preserved")
		return false, nil
	}

	if err := s.store.Clear(ctx); err != nil {
		s.logger.Error().
			Str("attempt_id", attemptID.String()).
			Err(err).
			Msg("failed to clear cart after payment")
		return false, err
	}

	s.logger.Info().
		Str("attempt_id", attemptID.String()).
		Msg("payment completed, cart cleared")
	return true, nil
}

// loggingButton stands in for the storefront's payment SDK bridge when
// none is configured: it just records what the SDK would be told.
type loggingButton struct {
	logger zerolog.Logger
}

// NewLoggingButton creates a Button that logs render instructions.
func NewLoggingButton(logger zerolog.Logger) Button {
	return &loggingButton{
		logger: logger.With().Str("component", "payment-button").Logger(),
	}
}

func (b *loggingButton) Update(total money.Cents) {
	b.logger.Info().Str("total", total.String()).Msg("payment button rendered")
}

func (b *loggingButton) Remove() {
	b.logger.Info().Msg("payment button removed")
}
