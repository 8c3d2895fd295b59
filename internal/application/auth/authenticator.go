// Package auth resolves API keys to the workers they act for.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/keygen"
)

// Default configuration values.
const (
	DefaultOperationTimeout = 5 * time.Second
	DefaultUpdateQueueSize  = 1000
)

// Config holds configuration for the Authenticator.
type Config struct {
	OperationTimeout time.Duration // Timeout for storage operations; zero waits indefinitely
	UpdateQueueSize  int           // Buffer size for last_used_at updates
}

type lastUsedUpdate struct {
	keyID     string
	timestamp time.Time
}

// Authenticator validates API keys and turns them into actors.
//
// last_used_at bookkeeping is queued to a single background worker so request
// latency never depends on it. Call Shutdown to drain the queue.
type Authenticator struct {
	repo             Repository
	workerCtx        context.Context
	cancelWorker     context.CancelFunc
	lastUsedUpdates  chan lastUsedUpdate
	shutdownChan     chan struct{}
	shutdownOnce     sync.Once
	wg               sync.WaitGroup
	operationTimeout time.Duration
	now              func() time.Time
}

// NewAuthenticator creates an authenticator and starts its background worker.
// ctx bounds the worker's storage calls; cancelling it aborts in-flight updates.
// Negative OperationTimeout and non-positive UpdateQueueSize get defaults.
func NewAuthenticator(ctx context.Context, repo Repository, config Config) *Authenticator {
	if config.OperationTimeout < 0 {
		config.OperationTimeout = DefaultOperationTimeout
	}
	if config.UpdateQueueSize <= 0 {
		config.UpdateQueueSize = DefaultUpdateQueueSize
	}

	workerCtx, cancel := context.WithCancel(ctx)
	a := &Authenticator{
		repo:             repo,
		workerCtx:        workerCtx,
		cancelWorker:     cancel,
		lastUsedUpdates:  make(chan lastUsedUpdate, config.UpdateQueueSize),
		shutdownChan:     make(chan struct{}),
		operationTimeout: config.OperationTimeout,
		now:              func() time.Time { return time.Now().UTC() },
	}

	a.wg.Add(1)
	go a.processLastUsedUpdates()

	return a
}

func (a *Authenticator) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	if a.operationTimeout == 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.operationTimeout)
}

func (a *Authenticator) processLastUsedUpdates() {
	defer a.wg.Done()

	for {
		select {
		case u := <-a.lastUsedUpdates:
			a.applyLastUsed(u)

		case <-a.shutdownChan:
			for {
				select {
				case u := <-a.lastUsedUpdates:
					a.applyLastUsed(u)
				default:
					return
				}
			}
		}
	}
}

func (a *Authenticator) applyLastUsed(u lastUsedUpdate) {
	ctx, cancel := a.opContext(a.workerCtx)
	defer cancel()

	if err := a.repo.UpdateLastUsed(ctx, u.keyID, u.timestamp); err != nil {
		slog.WarnContext(ctx, "failed to update API key last_used_at",
			slog.String("key_id", u.keyID),
			slog.String("error", err.Error()))
	}
}

// Shutdown stops the background worker after it drains queued updates.
// If ctx expires first, in-flight updates are cancelled and the context error is returned.
// Safe to call more than once.
func (a *Authenticator) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.shutdownOnce.Do(func() {
		close(a.shutdownChan)

		done := make(chan struct{})
		go func() {
			a.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			shutdownErr = fmt.Errorf("shutdown timeout: %w", ctx.Err())
		}
		a.cancelWorker()
	})
	return shutdownErr
}

// ValidateAPIKey checks a raw key and returns the stored key record.
// Every failure (format, unknown, wrong secret, expired, inactive) is domain.ErrUnauthorized.
func (a *Authenticator) ValidateAPIKey(ctx context.Context, rawKey string) (*domain.APIKey, error) {
	parts, err := keygen.Parse(rawKey)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	key, err := a.repo.FindByShortToken(opCtx, parts.ShortToken)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.ErrorContext(ctx, "API key lookup failed", slog.String("error", err.Error()))
		}
		return nil, domain.ErrUnauthorized
	}

	provided := keygen.HashSecret(parts.Secret)
	if subtle.ConstantTimeCompare([]byte(key.LongSecretHash), []byte(provided)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	now := a.now()
	if !key.IsActive || (key.ExpiresAt != nil && key.ExpiresAt.Before(now)) {
		return nil, domain.ErrUnauthorized
	}

	select {
	case a.lastUsedUpdates <- lastUsedUpdate{keyID: key.ID, timestamp: now}:
	default:
		slog.WarnContext(ctx, "dropped last_used_at update due to full queue",
			slog.String("key_id", key.ID))
	}

	return key, nil
}

// Authenticate resolves a raw key to the member it acts for.
// Keys bound to inactive or missing workers are rejected.
func (a *Authenticator) Authenticate(ctx context.Context, rawKey string) (domain.Member, error) {
	key, err := a.ValidateAPIKey(ctx, rawKey)
	if err != nil {
		return domain.Member{}, err
	}

	opCtx, cancel := a.opContext(ctx)
	defer cancel()

	w, err := a.repo.FindWorkerByID(opCtx, key.WorkerID)
	if err != nil {
		if !errors.Is(err, domain.ErrWorkerNotFound) {
			slog.ErrorContext(ctx, "worker lookup failed", slog.Int64("worker_id", key.WorkerID), slog.String("error", err.Error()))
		}
		return domain.Member{}, domain.ErrUnauthorized
	}
	if !w.IsActive {
		return domain.Member{}, domain.ErrUnauthorized
	}
	return domain.MemberFromWorker(w), nil
}

// CreateAPIKey issues a key for a worker and returns the full key.
// The full key is never stored and cannot be recovered later.
func CreateAPIKey(ctx context.Context, repo Repository, workerID int64, name string, expiresAt *time.Time) (string, error) {
	if _, err := repo.FindWorkerByID(ctx, workerID); err != nil {
		return "", fmt.Errorf("failed to load worker %d: %w", workerID, err)
	}

	k, err := keygen.Generate(keygen.DefaultPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate key ID: %w", err)
	}

	err = repo.Create(ctx, &domain.APIKey{
		ID:             id.String(),
		WorkerID:       workerID,
		ShortToken:     k.ShortToken,
		LongSecretHash: keygen.HashSecret(k.Secret),
		Name:           name,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create API key: %w", err)
	}

	return k.Full, nil
}
