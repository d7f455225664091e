package ratelimit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/astro-web3/jwt-validator/pkg/logger"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	defaultPrefix = "jwt-validator:ratelimit"
)

var ErrUnknownStore = errors.New("unknown rate limit store")

type Options struct {
	RequestsPerMinute int64
	Store             string
	Prefix            string
}

// NewLimiter builds a per-client limiter. client is only used by the redis store.
func NewLimiter(opts Options, client *redis.Client) (*limiter.Limiter, error) {
	if opts.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("requests per minute must be positive, got %d", opts.RequestsPerMinute)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	storeOpts := limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
		MaxRetry:        3,
	}

	var store limiter.Store
	switch opts.Store {
	case StoreMemory, "":
		store = memory.NewStoreWithOptions(storeOpts)
	case StoreRedis:
		if client == nil {
			return nil, errors.New("redis store requires a redis client")
		}
		s, err := sredis.NewStoreWithOptions(client, storeOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, opts.Store)
	}

	rate := limiter.Rate{
		Period: time.Minute,
		Limit:  opts.RequestsPerMinute,
	}
	return limiter.New(store, rate), nil
}

// Middleware rejects clients over their limit with 429. Store failures yield 503.
func Middleware(l *limiter.Limiter) gin.HandlerFunc {
	mw := mgin.NewMiddleware(l,
		mgin.WithLimitReachedHandler(limitReached),
		mgin.WithErrorHandler(storeFailed),
	)
	return mw
}

func limitReached(c *gin.Context) {
	logger.WarnContext(c.Request.Context(), "rate limit exceeded",
		slog.String("client_ip", c.ClientIP()),
		slog.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":             "rate_limit_exceeded",
		"error_description": "Too many requests",
	})
}

func storeFailed(c *gin.Context, err error) {
	logger.ErrorContext(c.Request.Context(), "rate limit store failed", slog.Any("error", err))
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":             "rate_limit_unavailable",
		"error_description": "Rate limiter is unavailable",
	})
}
