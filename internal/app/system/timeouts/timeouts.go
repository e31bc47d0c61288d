// Package timeouts provides centralized timeout values for upstream calls.
//
// Values start at their defaults and can be overridden at startup with
// Configure. Guidelines:
//   - Read: GET /attendances and GET /registrations
//   - Auth: the OTP, login and registration endpoints
//   - Short: in-process work bounded by a request, such as building an export
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultRead  = 10 * time.Second
	DefaultAuth  = 30 * time.Second
	DefaultShort = 5 * time.Second
)

var mu sync.RWMutex

var (
	read  = DefaultRead
	auth  = DefaultAuth
	short = DefaultShort
)

// Read returns the timeout for the dashboard's data fetches.
func Read() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return read
}

// Auth returns the timeout for authentication calls.
func Auth() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return auth
}

// Short returns the timeout for request-bounded local work.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Read  time.Duration
	Auth  time.Duration
	Short time.Duration
}

// Configure sets custom timeout values. Zero values in the config are
// ignored, keeping the current values. Call during startup.
//
//	timeouts.Configure(timeouts.Config{Read: appCfg.ReadTimeout, Auth: appCfg.AuthTimeout})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Read > 0 {
		read = cfg.Read
	}
	if cfg.Auth > 0 {
		auth = cfg.Auth
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	read = DefaultRead
	auth = DefaultAuth
	short = DefaultShort
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Read: read, Auth: auth, Short: short}
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the context ended because its deadline passed.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Read(), c.log, "fetch attendances")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
