// README: Redis-backed route cache and a provider wrapper that deduplicates concurrent lookups.
package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"taxi/internal/observability"
)

const routeKeyPrefix = "route:%s|%s"

type RouteCache interface {
	Get(ctx context.Context, key string) (Estimate, bool, error)
	Set(ctx context.Context, key string, est Estimate) error
}

type RedisRouteCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisRouteCache(redis *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{redis: redis, ttl: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (Estimate, bool, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Estimate{}, false, nil
	}
	if err != nil {
		return Estimate{}, false, err
	}
	var est Estimate
	if err := json.Unmarshal(raw, &est); err != nil {
		return Estimate{}, false, fmt.Errorf("decode cached route: %w", err)
	}
	return est, true, nil
}

func (c *RedisRouteCache) Set(ctx context.Context, key string, est Estimate) error {
	raw, err := json.Marshal(est)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, raw, c.ttl).Err()
}

// CachingProvider serves repeated origin/destination pairs from a RouteCache and lets
// only one lookup per pair reach the upstream provider at a time. Cache failures are
// logged and fall through to the provider.
type CachingProvider struct {
	next  Provider
	cache RouteCache
	log   logrus.FieldLogger
	group singleflight.Group
}

func NewCachingProvider(next Provider, cache RouteCache, log logrus.FieldLogger) *CachingProvider {
	return &CachingProvider{next: next, cache: cache, log: log}
}

func (p *CachingProvider) Route(ctx context.Context, origin, destination string) (Estimate, error) {
	key := routeKey(origin, destination)

	est, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.WithError(err).WithField("key", key).Warn("route cache read failed")
	} else if ok {
		observability.RouteLookupsTotal.WithLabelValues("ok", "true").Inc()
		return est, nil
	}

	// The shared lookup outlives any single caller; RouteService bounds it with its own timeout.
	shared := context.WithoutCancel(ctx)
	ch := p.group.DoChan(key, func() (any, error) {
		est, err := p.next.Route(shared, origin, destination)
		if err != nil {
			return Estimate{}, err
		}
		if err := p.cache.Set(shared, key, est); err != nil {
			p.log.WithError(err).WithField("key", key).Warn("route cache write failed")
		}
		return est, nil
	})
	select {
	case <-ctx.Done():
		return Estimate{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Estimate{}, res.Err
		}
		return res.Val.(Estimate), nil
	}
}

func routeKey(origin, destination string) string {
	norm := func(s string) string { return strings.ToLower(strings.Join(strings.Fields(s), " ")) }
	return fmt.Sprintf(routeKeyPrefix, norm(origin), norm(destination))
}
