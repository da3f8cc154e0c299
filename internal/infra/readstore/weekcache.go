package readstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const calendarVersionKey = "calendar:ver"

// RedisWeekCache caches assembled week views under a calendar version.
// Commands bump the version on every committed mutation, so a cached
// entry can never show pre-mutation occupancy; redis failures degrade to
// cache misses.
type RedisWeekCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisWeekCache(rdb *redis.Client, cfg config.RedisConfig) *RedisWeekCache {
	return &RedisWeekCache{rdb: rdb, ttl: cfg.WeekTTL}
}

func (c *RedisWeekCache) Get(ctx context.Context, clientID uuid.UUID, weekStart time.Time) (*queries.WeekView, bool) {
	if c.rdb == nil {
		return nil, false
	}
	key, err := c.key(ctx, clientID, weekStart)
	if err != nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var view queries.WeekView
	if err := json.Unmarshal(raw, &view); err != nil {
		return nil, false
	}
	return &view, true
}

func (c *RedisWeekCache) Set(ctx context.Context, clientID uuid.UUID, weekStart time.Time, view *queries.WeekView) {
	if c.rdb == nil {
		return
	}
	key, err := c.key(ctx, clientID, weekStart)
	if err != nil {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		slog.Warn("week cache set failed", "error", err.Error())
	}
}

// Invalidate bumps the calendar version, orphaning every cached week
// view at once. Orphans expire with their TTL.
func (c *RedisWeekCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, calendarVersionKey).Err(); err != nil {
		slog.Warn("calendar cache invalidation failed", "error", err.Error())
	}
}

func (c *RedisWeekCache) key(ctx context.Context, clientID uuid.UUID, weekStart time.Time) (string, error) {
	ver, err := c.rdb.Get(ctx, calendarVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("calendar:%d:%s:%s", ver, weekStart.Format("2006-01-02"), clientID.String()), nil
}

// NopWeekCache disables caching when redis is not configured.
type NopWeekCache struct{}

func (NopWeekCache) Get(context.Context, uuid.UUID, time.Time) (*queries.WeekView, bool) {
	return nil, false
}
func (NopWeekCache) Set(context.Context, uuid.UUID, time.Time, *queries.WeekView) {}
func (NopWeekCache) Invalidate(context.Context)                                   {}
