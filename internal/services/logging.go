package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ServiceLogger{logger: logger.With("service", service)}
}

// LogOperation logs the outcome of one operation. Expected outcomes such as
// validation failures, busy saves and missing resources log below error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			status = "not_found"
			level = slog.LevelInfo
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ContextualLogger times a single operation
type ContextualLogger struct {
	logger     *ServiceLogger
	operation  string
	resourceID string
	startTime  time.Time
	ctx        context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, resourceID interface{}) *ContextualLogger {
	return &ContextualLogger{
		logger:     l,
		operation:  operation,
		resourceID: fmt.Sprint(resourceID),
		startTime:  time.Now(),
		ctx:        ctx,
	}
}

func (cl *ContextualLogger) LogResult(err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.resourceID, time.Since(cl.startTime), err)
}

func (l *ServiceLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}
