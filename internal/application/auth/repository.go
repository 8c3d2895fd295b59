package auth

import (
	"context"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

// Repository defines storage operations for API key authentication.
type Repository interface {
	// FindByShortToken retrieves an active API key by its short token.
	// Returns domain.ErrNotFound if no such key exists.
	FindByShortToken(ctx context.Context, shortToken string) (*domain.APIKey, error)

	// UpdateLastUsed records when a key was last used.
	UpdateLastUsed(ctx context.Context, keyID string, timestamp time.Time) error

	// Create stores a new API key.
	Create(ctx context.Context, key *domain.APIKey) error

	// FindWorkerByID loads the worker a key is bound to, including its position.
	// Returns domain.ErrWorkerNotFound if the worker doesn't exist.
	FindWorkerByID(ctx context.Context, id int64) (*domain.Worker, error)
}
