package cart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileStorage keeps the cart as a single JSON document on disk, the
// server-side analog of the storefront's old localStorage slot.
type fileStorage struct {
	path   string
	logger zerolog.Logger
}

// NewFileStorage creates a file-backed cart storage at the given path.
func NewFileStorage(path string, logger zerolog.Logger) Storage {
	return &fileStorage{
		path:   path,
		logger: logger.With().Str("component", "file-storage").Logger(),
	}
}

// Read returns the saved cart document, or (nil, nil) if the file does
// not exist yet.
func (s *fileStorage) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Debug().Str("path", s.path).Msg("no saved cart file")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart file %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the cart document atomically: the data is written to a
// temporary file in the same directory and renamed over the target, so
// a crash mid-write never leaves a truncated cart behind.
func (s *fileStorage) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cart directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cart file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cart file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cart file %s: %w", s.path, err)
	}

	s.logger.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("cart file written")
	return nil
}
