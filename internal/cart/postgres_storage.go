package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStorage keeps the cart document as a single row keyed by the
// storage key in a cart_state table.
type postgresStorage struct {
	pool   *pgxpool.Pool
	key    string
	logger zerolog.Logger
}

// NewPostgresStorage creates a PostgreSQL-backed cart storage. It
// ensures the cart_state table exists before returning.
func NewPostgresStorage(ctx context.Context, pool *pgxpool.Pool, key string, logger zerolog.Logger) (Storage, error) {
	s := &postgresStorage{
		pool:   pool,
		key:    key,
		logger: logger.With().Str("component", "postgres-storage").Logger(),
	}

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cart_state (
			storage_key TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure cart_state table: %w", err)
	}

	s.logger.Info().Str("storage_key", key).Msg("postgres cart storage initialised")
	return s, nil
}

// Read returns the saved cart document, or (nil, nil) when no row
// exists for the storage key.
func (s *postgresStorage) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM cart_state WHERE storage_key = $1`, s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Debug().Str("storage_key", s.key).Msg("no saved cart row")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart state: %w", err)
	}
	return data, nil
}

// Write upserts the cart document for the storage key.
func (s *postgresStorage) Write(ctx context.Context, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_state (storage_key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (storage_key)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		s.key, data)
	if err != nil {
		return fmt.Errorf("failed to write cart state: %w", err)
	}

	s.logger.Debug().Str("storage_key", s.key).Int("bytes", len(data)).Msg("cart state written")
	return nil
}
