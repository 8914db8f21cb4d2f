package common

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RetryableFunc defines a function that can be retried.
type RetryableFunc func() error

// Config holds the configuration for retry behavior.
type Config struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
}

// Option is a functional option for configuring retry behavior.
type Option func(*Config)

// WithMaxRetries sets the maximum number of retry attempts. Default is 3.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithInitialDelay sets the delay before the first retry. Default is 1s.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithMaxDelay caps the delay between retries. Default is 30s.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.maxDelay = d
		}
	}
}

// WithMultiplier sets the exponential backoff multiplier. Default is 2.0.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.multiplier = m
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		maxRetries:   3,
		initialDelay: 1 * time.Second,
		maxDelay:     30 * time.Second,
		multiplier:   2.0,
	}
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that Do stops retrying and returns it as is.
// Used for 4xx answers from GitHub where another attempt cannot succeed.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do executes fn with exponential backoff.
//
// The first attempt runs immediately. Failed attempts are retried up to
// maxRetries times unless the error is Permanent or ctx is done.
//
//	err := common.Do(ctx, func() error {
//	    _, _, err := client.Search.Repositories(ctx, q, opts)
//	    return err
//	}, common.WithMaxRetries(2))
func Do(ctx context.Context, fn RetryableFunc, opts ...Option) error {
	if fn == nil {
		return errors.New("retry: function cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	lastErr := fn()
	if lastErr == nil {
		return nil
	}
	if IsPermanent(lastErr) {
		return lastErr
	}

	for attempt := 1; attempt <= cfg.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt, ctx.Err())
		default:
		}

		delay := calculateDelay(attempt, cfg.initialDelay, cfg.maxDelay, cfg.multiplier)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted during backoff (attempt %d/%d): %w", attempt, cfg.maxRetries, ctx.Err())
		case <-timer.C:
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.maxRetries+1, lastErr)
}

// calculateDelay returns initialDelay * multiplier^(attempt-1), capped at maxDelay.
func calculateDelay(attempt int, initialDelay, maxDelay time.Duration, multiplier float64) time.Duration {
	delay := float64(initialDelay) * math.Pow(multiplier, float64(attempt-1))
	if time.Duration(delay) > maxDelay {
		return maxDelay
	}
	return time.Duration(delay)
}
