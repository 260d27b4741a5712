// internal/popularity/popularity.go
//
// Page-view counters for songs and hymns.
//
// Context
// -------
// Each lyrics page view bumps a per-kind sorted set in Redis
// (`views:song`, `views:hymn`) keyed by serial number.  The catalog API reads
// the top N back for the “popular” strip.  When Redis is not configured the
// Noop counter keeps handlers unaware of the difference.
//
// Notes
// -----
// • Counting is best effort; callers log and ignore Incr errors.
// • Serial numbers are stored as decimal strings.
package popularity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/go-redis/redis/v8"

	"github.com/choristercorner/chorister/internal/catalog"
)

// Entry is one item and its view count.
type Entry struct {
	Serial int   `json:"serialNumber"`
	Views  int64 `json:"views"`
}

// Counter records and ranks views.
type Counter interface {
	Incr(ctx context.Context, ref catalog.Ref) error
	Top(ctx context.Context, kind catalog.Kind, n int) ([]Entry, error)
}

// zsetClient is the subset of *redis.Client used here.
type zsetClient interface {
	ZIncrBy(ctx context.Context, key string, increment float64, member string) *redis.FloatCmd
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
}

// Redis counts in sorted sets.
type Redis struct {
	c zsetClient
}

// Options mirrors config.Redis without importing it.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis dials Redis and pings it once.
func NewRedis(ctx context.Context, o Options) (*Redis, *redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := cli.Ping(ctx).Err(); err != nil {
		cli.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", o.Addr, err)
	}
	return &Redis{c: cli}, cli, nil
}

func key(k catalog.Kind) string { return "views:" + string(k) }

// Incr adds one view for ref.
func (r *Redis) Incr(ctx context.Context, ref catalog.Ref) error {
	return r.c.ZIncrBy(ctx, key(ref.Kind), 1, strconv.Itoa(ref.Serial)).Err()
}

// Top returns up to n entries, most viewed first.
func (r *Redis) Top(ctx context.Context, kind catalog.Kind, n int) ([]Entry, error) {
	if n < 1 {
		return []Entry{}, nil
	}
	zs, err := r.c.ZRevRangeWithScores(ctx, key(kind), 0, int64(n-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return []Entry{}, nil
		}
		return nil, err
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		m, _ := z.Member.(string)
		serial, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, Entry{Serial: serial, Views: int64(z.Score)})
	}
	return out, nil
}

// Noop discards views.
type Noop struct{}

func (Noop) Incr(context.Context, catalog.Ref) error { return nil }

func (Noop) Top(context.Context, catalog.Kind, int) ([]Entry, error) { return []Entry{}, nil }
