package pricing

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader reads the ruleset JSON from an S3 object, letting the
// storefront team push pricing changes without a redeploy.
type s3Loader struct {
	client *s3.Client
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-based ruleset loader.
func NewS3Loader(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-ruleset-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("key", key).
		Msg("S3 ruleset loader initialised")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// Load fetches and parses the ruleset object.
func (l *s3Loader) Load(ctx context.Context) (Ruleset, error) {
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to get ruleset from S3 (bucket=%s, key=%s): %w", l.bucket, l.key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return Ruleset{}, fmt.Errorf("failed to read ruleset object %s: %w", l.key, err)
	}

	rules, err := parseRuleset(data)
	if err != nil {
		return Ruleset{}, fmt.Errorf("ruleset object %s: %w", l.key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Str("coupon_code", rules.Coupon.Code).
		Msg("pricing ruleset loaded from S3")
	return rules, nil
}

// fallbackLoader tries a primary source first and falls back to a
// secondary one, mirroring the S3-then-local-file setup.
type fallbackLoader struct {
	primary  Loader
	fallback Loader
	logger   zerolog.Logger
}

// NewFallbackLoader creates a loader that tries primary first, then fallback.
func NewFallbackLoader(primary, fallback Loader, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "fallback-ruleset-loader").Logger(),
	}
}

// Load attempts the primary source and falls back on any error.
func (l *fallbackLoader) Load(ctx context.Context) (Ruleset, error) {
	rules, err := l.primary.Load(ctx)
	if err == nil {
		return rules, nil
	}

	l.logger.Warn().Err(err).Msg("primary ruleset source failed, trying fallback")
	return l.fallback.Load(ctx)
}
