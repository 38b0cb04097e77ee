// Package cache provides a read-through Redis cache for session principals.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yourusername/helm-collect/models"
)

// DefaultPrincipalTTL bounds how long a deleted or re-roled user keeps the
// cached principal.
const DefaultPrincipalTTL = time.Minute

// PrincipalLoader resolves a user id to its session principal.
type PrincipalLoader interface {
	Principal(ctx context.Context, id uint) (*models.Principal, error)
}

// Principals wraps a loader with a Redis read-through cache. Redis failures
// are logged and fall back to the loader.
type Principals struct {
	rdb    *redis.Client
	loader PrincipalLoader
	ttl    time.Duration
}

// NewPrincipals returns loader unchanged when rdb is nil.
func NewPrincipals(rdb *redis.Client, loader PrincipalLoader, ttl time.Duration) PrincipalLoader {
	if rdb == nil {
		return loader
	}
	if ttl <= 0 {
		ttl = DefaultPrincipalTTL
	}
	return &Principals{rdb: rdb, loader: loader, ttl: ttl}
}

func principalKey(id uint) string {
	return fmt.Sprintf("principal:%d", id)
}

func (p *Principals) Principal(ctx context.Context, id uint) (*models.Principal, error) {
	key := principalKey(id)

	cached, err := p.rdb.Get(ctx, key).Result()
	if err == nil {
		var principal models.Principal
		if json.Unmarshal([]byte(cached), &principal) == nil {
			return &principal, nil
		}
		slog.Warn("Failed to unmarshal cached principal", "user_id", id)
	} else if !errors.Is(err, redis.Nil) {
		slog.Error("Redis GET failed", "error", err, "user_id", id)
	}

	principal, err := p.loader.Principal(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(principal)
	if err != nil {
		slog.Error("Failed to marshal principal for caching", "error", err, "user_id", id)
		return principal, nil
	}
	if err := p.rdb.Set(ctx, key, data, p.ttl).Err(); err != nil {
		slog.Error("Redis SET failed", "error", err, "user_id", id)
	}
	return principal, nil
}
