package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/core/ports"
	"github.com/SscSPs/finance_tracker/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events ports.EventPublisher
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Publish sends an event if a publisher is configured. Failures are logged
// and never surface to the caller.
func (s *BaseService) Publish(ctx context.Context, event ports.TransactionEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish transaction event",
			slog.String("event_type", string(event.Type)),
			slog.Int("transaction_count", len(event.TransactionIDs)))
	}
}
