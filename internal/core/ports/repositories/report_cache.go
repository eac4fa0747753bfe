package repositories

import (
	"context"
	"time"
)

// ReportCache stores built report payloads per tenant. Invalidate makes every
// cached report of the tenant unreachable.
type ReportCache interface {
	FetchJSON(ctx context.Context, tenantID string, key string, ttl time.Duration, dest any, loader func(ctx context.Context) (any, error)) error
	Invalidate(ctx context.Context, tenantID string) error
}
