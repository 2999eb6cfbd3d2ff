// AngelaMos | 2026
// redis.go

package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The counter key expires one window after the last recorded attempt, which
// gives the same rolling semantics as Memory without a sweeper.
var allowScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return {0, current, redis.call('PTTL', KEYS[1])}
end
current = redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[2])
return {1, current, 0}
`)

type Redis struct {
	client redis.Scripter
	cfg    Config
	prefix string
}

func NewRedis(client redis.Scripter, cfg Config) *Redis {
	return &Redis{
		client: client,
		cfg:    cfg.normalize(),
		prefix: "limiter:",
	}
}

func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	vals, err := allowScript.Run(
		ctx,
		r.client,
		[]string{r.prefix + key},
		r.cfg.Attempts,
		r.cfg.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("redis limiter: %w", err)
	}

	if len(vals) != 3 {
		return Result{}, fmt.Errorf("redis limiter: unexpected reply %v", vals)
	}

	res := Result{
		Allowed: vals[0] == 1,
		Count:   int(vals[1]),
	}
	if !res.Allowed && vals[2] > 0 {
		res.RetryAfter = time.Duration(vals[2]) * time.Millisecond
	}
	return res, nil
}
