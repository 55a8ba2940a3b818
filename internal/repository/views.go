package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	viewsKey = "portfolio:views"
	ipsKey   = "portfolio:ips"
)

// redisAPI is the minimal Redis surface required by Views. *redis.Client,
// *redis.ClusterClient and *redis.Ring all satisfy it.
type redisAPI interface {
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// VisitRecorder defines the view-counter operations consumed by the
// handler.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, ip string) (isNewVisitor bool, views int64, err error)
	TotalViews(ctx context.Context) (int64, error)
}

// Views tracks unique page views in a remote key-value store: a counter
// plus a set of previously seen visitor IPs. The counter equals the
// set's cardinality; both change only on a first-seen IP.
type Views struct {
	api redisAPI
}

// NewViews creates a view counter over the given Redis client.
func NewViews(api redisAPI) (*Views, error) {
	if api == nil {
		return nil, errors.New("repository: redis api must not be nil")
	}
	return &Views{api: api}, nil
}

// RecordVisit membership-checks ip against the seen set. A first-seen IP
// is added to the set and the counter incremented; a returning IP leaves
// both untouched. The two writes are separate commands, so a race
// between simultaneous first visits from one IP is bounded by the
// store's own consistency, not re-verified here.
func (v *Views) RecordVisit(ctx context.Context, ip string) (bool, int64, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = "unknown"
	}

	seen, err := v.api.SIsMember(ctx, ipsKey, ip).Result()
	if err != nil {
		return false, 0, fmt.Errorf("repository: check visitor: %w", err)
	}

	if !seen {
		if err := v.api.SAdd(ctx, ipsKey, ip).Err(); err != nil {
			return false, 0, fmt.Errorf("repository: add visitor: %w", err)
		}
		views, err := v.api.Incr(ctx, viewsKey).Result()
		if err != nil {
			return false, 0, fmt.Errorf("repository: increment views: %w", err)
		}
		return true, views, nil
	}

	views, err := v.TotalViews(ctx)
	if err != nil {
		return false, 0, err
	}
	return false, views, nil
}

// TotalViews returns the current counter value; a missing key reads as
// zero.
func (v *Views) TotalViews(ctx context.Context) (int64, error) {
	views, err := v.api.Get(ctx, viewsKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("repository: read views: %w", err)
	}
	return views, nil
}
