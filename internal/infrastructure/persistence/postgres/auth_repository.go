package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rezkam/taskdesk/internal/domain"
)

// === Auth Repository Implementation ===
// Implements application/auth.Repository interface

// FindByShortToken retrieves an API key by its short token for validation.
func (s *Store) FindByShortToken(ctx context.Context, shortToken string) (*domain.APIKey, error) {
	row := s.db.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE short_token = $1`, shortToken)

	key, err := scanAPIKey(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: API key", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	return key, nil
}

// UpdateLastUsed updates the last used timestamp for an API key.
// Only updates if the new timestamp is later than the current value (or current value is NULL).
// Returns success (nil) if timestamp is not later (idempotent behavior).
// Returns ErrNotFound if the API key doesn't exist.
func (s *Store) UpdateLastUsed(ctx context.Context, keyID string, timestamp time.Time) error {
	id, err := uuid.Parse(keyID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE api_keys SET last_used_at = $2
		WHERE id = $1 AND (last_used_at IS NULL OR last_used_at < $2)`,
		id.String(), timestamp)
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either key doesn't exist OR timestamp wasn't later
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM api_keys WHERE id = $1)`, id.String()).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check key existence: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: API key", domain.ErrNotFound)
		}
	}

	return nil
}

// Create creates a new API key in storage.
func (s *Store) Create(ctx context.Context, key *domain.APIKey) error {
	id, err := uuid.Parse(key.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidID, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO api_keys (id, worker_id, short_token, long_secret_hash, name, is_active, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id.String(), key.WorkerID, key.ShortToken, key.LongSecretHash, key.Name,
		key.IsActive, key.CreatedAt, key.ExpiresAt)
	if err != nil {
		return wrapWriteError(err, "create API key")
	}

	return nil
}
