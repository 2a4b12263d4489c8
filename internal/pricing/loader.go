package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Loader fetches the pricing ruleset from a configuration source.
type Loader interface {
	// Load reads and validates the ruleset.
	Load(ctx context.Context) (Ruleset, error)
}

// fileLoader reads the ruleset from a local JSON file.
type fileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a file-based ruleset loader.
func NewFileLoader(path string, logger zerolog.Logger) Loader {
	return &fileLoader{
		path:   path,
		logger: logger.With().Str("component", "ruleset-loader").Logger(),
	}
}

// Load reads and parses the ruleset file.
func (l *fileLoader) Load(_ context.Context) (Ruleset, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to read ruleset file %s: %w", l.path, err)
	}

	rules, err := parseRuleset(data)
	if err != nil {
		return Ruleset{}, fmt.Errorf("ruleset file %s: %w", l.path, err)
	}

	l.logger.Info().
		Str("file", l.path).
		Str("coupon_code", rules.Coupon.Code).
		Msg("pricing ruleset loaded")
	return rules, nil
}

// LoadOrDefault loads the ruleset through the given loader and falls
// back to the built-in defaults if the source is missing or invalid.
// Pricing must never prevent the storefront from starting.
func LoadOrDefault(ctx context.Context, loader Loader, logger zerolog.Logger) Ruleset {
	if loader == nil {
		return DefaultRuleset()
	}

	rules, err := loader.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load pricing ruleset, using defaults")
		return DefaultRuleset()
	}
	return rules
}

// parseRuleset decodes and validates a ruleset document.
func parseRuleset(data []byte) (Ruleset, error) {
	var rules Ruleset
	if err := json.Unmarshal(data, &rules); err != nil {
		return Ruleset{}, fmt.Errorf("failed to parse ruleset: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Ruleset{}, fmt.Errorf("invalid ruleset: %w", err)
	}
	return rules, nil
}
