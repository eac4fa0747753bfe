package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "ledger:reports"

// loadTimeout bounds a shared report build once it no longer follows any caller's context.
const loadTimeout = 30 * time.Second

// ReportCache stores report payloads in Redis under a per-tenant version. Invalidate bumps
// the version so every earlier key of the tenant stops being read and expires on its own.
type ReportCache struct {
	client *redis.Client
	group  singleflight.Group
}

var _ portsrepo.ReportCache = (*ReportCache)(nil)

// NewReportCache instantiates the cache helper.
func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

func versionKey(tenantID string) string {
	return fmt.Sprintf("%s:%s:version", keyPrefix, tenantID)
}

// version returns the tenant's current cache version. A missing key is version 0.
func (c *ReportCache) version(ctx context.Context, tenantID string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(tenantID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// FetchJSON decodes the cached value for key into dest, building it with loader on a miss.
// Concurrent misses for the same key share one loader call. A Redis failure degrades to
// calling loader directly; loader errors are returned as is. The shared call outlives the
// caller that started it, so a cancelled request does not fail the others waiting on it.
func (c *ReportCache) FetchJSON(ctx context.Context, tenantID string, key string, ttl time.Duration, dest any, loader func(ctx context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return load(ctx, loader, dest)
	}

	ver, err := c.version(ctx, tenantID)
	if err != nil {
		slog.WarnContext(ctx, "Report cache unavailable, building report directly", slog.String("error", err.Error()))
		return load(ctx, loader, dest)
	}
	fullKey := fmt.Sprintf("%s:%s:%d:%s", keyPrefix, tenantID, ver, key)

	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		if err := json.Unmarshal(payload, dest); err == nil {
			return nil
		}
		slog.WarnContext(ctx, "Discarding undecodable cached report", slog.String("key", fullKey))
	} else if !errors.Is(err, redis.Nil) {
		slog.WarnContext(ctx, "Report cache read failed", slog.String("key", fullKey), slog.String("error", err.Error()))
		return load(ctx, loader, dest)
	}

	resultChan := c.group.DoChan(fullKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		value, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(loadCtx, fullKey, raw, ttl).Err(); err != nil {
			slog.WarnContext(loadCtx, "Report cache write failed", slog.String("key", fullKey), slog.String("error", err.Error()))
		}
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

// Invalidate bumps the tenant's version.
func (c *ReportCache) Invalidate(ctx context.Context, tenantID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(tenantID)).Err()
}

func load(ctx context.Context, loader func(ctx context.Context) (any, error), dest any) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
