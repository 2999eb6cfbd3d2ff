// AngelaMos | 2026
// limiter.go

package limiter

import (
	"context"
	"time"
)

const (
	DefaultAttempts = 5
	DefaultWindow   = time.Minute
)

// Result describes one attempt. Count is the number of attempts recorded in
// the current window, including this one when Allowed is true.
type Result struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

// Limiter counts attempts per key in a window anchored at the last recorded
// attempt. Denied attempts are not recorded and do not extend the window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

type Config struct {
	Attempts int
	Window   time.Duration
}

func (c Config) normalize() Config {
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}
