// Package orm holds small helpers shared by the repositories: bounded query
// contexts, error classification and cache-aside reads.
package orm

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/pkg/cache"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
)

// Bounded returns ctx limited to d. Every store call made for a request runs
// under one of these so a stuck database cannot hold the request forever.
func Bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// IsNotFound reports whether err means no row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation. Driver
// error types differ, so the check is on the message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"unique constraint", "duplicate entry", "duplicate key", "unique index"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Remember returns the cached value under key, or runs load, stores the
// result for ttl and returns it. Cache failures fall through to load.
func Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, load func() error) error {
	if err := cache.Get(ctx, key, dest); err == nil {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return nil
	}
	if cache.Available() {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
	}

	if err := load(); err != nil {
		return err
	}
	_ = cache.Set(ctx, key, dest, ttl)
	return nil
}

// Forget drops cached keys.
func Forget(ctx context.Context, keys ...string) {
	_ = cache.Del(ctx, keys...)
}
