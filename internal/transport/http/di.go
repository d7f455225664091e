package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/astro-web3/jwt-validator/internal/app/validation"
	"github.com/astro-web3/jwt-validator/internal/config"
	"github.com/astro-web3/jwt-validator/internal/infra/metrics"
	"github.com/astro-web3/jwt-validator/internal/infra/ratelimit"
	rpctransport "github.com/astro-web3/jwt-validator/internal/transport/grpc"
)

type Server struct {
	httpServer  *http.Server
	redisClient *redis.Client
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = "jwt-validator"
)

// NewServer builds the HTTP API. gatherer backs /metrics and may be nil.
func NewServer(cfg *config.Config, appService validation.Service, gatherer prometheus.Gatherer) (*Server, error) {
	opts := RouterOptions{
		RPCHandler: rpctransport.NewHandler(appService),
	}

	if cfg.Observability.MetricsEnabled && gatherer != nil {
		opts.Metrics = metrics.Handler(gatherer)
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Store == ratelimit.StoreRedis {
			client, err := ratelimit.NewRedisClient(cfg.Redis.URL, cfg.Redis.PoolSize)
			if err != nil {
				return nil, fmt.Errorf("failed to create redis client: %w", err)
			}
			redisClient = client
		}

		l, err := ratelimit.NewLimiter(ratelimit.Options{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			Store:             cfg.RateLimit.Store,
		}, redisClient)
		if err != nil {
			if redisClient != nil {
				_ = redisClient.Close()
			}
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		opts.RateLimit = ratelimit.Middleware(l)
	}

	handler := NewHandler(appService)
	router := NewRouter(handler, cfg, opts)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer:  httpServer,
		redisClient: redisClient,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.redisClient != nil {
		err = errors.Join(err, s.redisClient.Close())
	}
	return err
}
