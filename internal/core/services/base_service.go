package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_settlement/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_settlement/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_settlement/internal/middleware"
)

// DefaultConflictRetryLimit is how many times a conflicting unit of work is
// retried with fresh reads before the conflict is returned.
const DefaultConflictRetryLimit = 3

// BaseService provides common functionality for all services
type BaseService struct {
	ConflictRetryLimit int
	// Now is the clock used for audit fields and entry numbers.
	Now func() time.Time
}

func newBaseService() BaseService {
	return BaseService{
		ConflictRetryLimit: DefaultConflictRetryLimit,
		Now:                func() time.Time { return time.Now().UTC() },
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// retryOnConflict calls fn until it succeeds, fails with a non-retryable
// error, or has been retried ConflictRetryLimit times. fn must redo its reads.
func (s *BaseService) retryOnConflict(ctx context.Context, op string, fn func() error) error {
	limit := s.ConflictRetryLimit
	if limit < 0 {
		limit = 0
	}

	var err error
	for attempt := 0; attempt <= limit; attempt++ {
		if attempt > 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%s: %w", op, ctxErr)
			}
			s.LogWarn(ctx, "Retrying after concurrent modification",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
		}
		err = fn()
		if err == nil || !apperrors.IsRetryable(err) {
			return err
		}
	}
	s.LogError(ctx, err, "Giving up after repeated conflicts", slog.String("operation", op), slog.Int("retries", limit))
	return err
}

// atomically runs fn as one unit of work with conflict retries.
func (s *BaseService) atomically(ctx context.Context, uow portsrepo.UnitOfWork, op string, fn func(ctx context.Context, tx portsrepo.AtomicTx) error) error {
	return s.retryOnConflict(ctx, op, func() error {
		return uow.RunAtomic(ctx, fn)
	})
}

func requireUserID(userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("UserID", "is required")
	}
	return nil
}
