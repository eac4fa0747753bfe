package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_ledger/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Guard TenantGuard
	Now   func() time.Time
}

func newBaseService() BaseService {
	return BaseService{Now: func() time.Time { return time.Now().UTC() }}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a rejected request or an audited action
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

// AuthorizeTenant applies the tenant guard to the tenant named in the request path.
func (s *BaseService) AuthorizeTenant(ctx context.Context, caller domain.Caller, tenantID string) error {
	if err := s.Guard.Authorize(caller, tenantID); err != nil {
		s.LogWarn(ctx, "Tenant access denied",
			slog.String("user_id", caller.UserID),
			slog.String("caller_tenant_id", caller.TenantID),
			slog.String("tenant_id", tenantID))
		return err
	}
	return nil
}

// AuthorizeResource applies the tenant guard to a loaded resource. A permitted caller
// addressing the resource under the wrong tenant path gets ErrNotFound.
func (s *BaseService) AuthorizeResource(ctx context.Context, caller domain.Caller, pathTenantID, resourceTenantID, resource string) error {
	if err := s.AuthorizeTenant(ctx, caller, resourceTenantID); err != nil {
		return err
	}
	if resourceTenantID != pathTenantID {
		return notFound(resource)
	}
	return nil
}

func (s *BaseService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// InvalidateReports drops the tenant's cached reports. A failure is logged, not returned:
// the write it follows has already committed.
func (s *BaseService) InvalidateReports(ctx context.Context, cache portsrepo.ReportCache, tenantID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, tenantID); err != nil {
		s.LogError(ctx, err, "Failed to invalidate report cache", slog.String("tenant_id", tenantID))
	}
}
