// Package presence counts live chat connections per account in Redis, so
// every instance of the service sees the same online state.
package presence

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a counter survives an instance that died
// without leaving.
const DefaultTTL = 24 * time.Hour

type Presence struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func New(rdb redis.UniversalClient, ttl time.Duration) *Presence {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Presence{rdb: rdb, ttl: ttl}
}

func key(id int64) string { return "chat:presence:" + strconv.FormatInt(id, 10) }

func (p *Presence) Join(ctx context.Context, id int64) error {
	_, err := p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key(id))
		pipe.Expire(ctx, key(id), p.ttl)
		return nil
	})
	return err
}

// Leave drops one connection and clears the counter once none remain.
func (p *Presence) Leave(ctx context.Context, id int64) error {
	n, err := p.rdb.Decr(ctx, key(id)).Result()
	if err != nil {
		return err
	}
	if n <= 0 {
		return p.rdb.Del(ctx, key(id)).Err()
	}
	return nil
}

func (p *Presence) Online(ctx context.Context, id int64) (bool, error) {
	n, err := p.rdb.Get(ctx, key(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
