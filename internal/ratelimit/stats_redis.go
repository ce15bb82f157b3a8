package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder records admission decisions in Redis: cumulative totals plus
// minute buckets with a TTL. Useful when several instances should share one
// view of allow/deny traffic; admission itself stays process-local.
type RedisRecorder struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisRecorder.
type RedisOption func(*RedisRecorder)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisRecorder) { s.prefix = strings.Trim(prefix, ":") }
}

// WithTTL overrides the minute-bucket TTL. The cumulative total never
// expires.
func WithTTL(d time.Duration) RedisOption {
	return func(s *RedisRecorder) { s.ttl = d }
}

// NewRedisRecorder returns a recorder writing under "ratelimit:stats".
func NewRedisRecorder(rdb *redis.Client, opts ...RedisOption) *RedisRecorder {
	s := &RedisRecorder{
		rdb:    rdb,
		prefix: "ratelimit:stats",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record implements Recorder.
func (s *RedisRecorder) Record(ctx context.Context, ev Event) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.prefix+":total", field, 1)

	bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
	pipe.HIncrBy(ctx, bucketKey, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, bucketKey, s.ttl)
	}

	if ev.Method != "" || ev.Path != "" {
		routeField := strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
		if routeField != "" {
			pipe.HIncrBy(ctx, s.prefix+":route", routeField+":"+field, 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}
