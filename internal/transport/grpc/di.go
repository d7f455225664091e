package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/astro-web3/jwt-validator/internal/app/validation"
	"github.com/astro-web3/jwt-validator/internal/config"
	"github.com/astro-web3/jwt-validator/pkg/logger"
)

type Server struct {
	httpServer *http.Server
}

const idleTimeoutMultiplier = 2

var errPanic = errors.New("internal error")

func NewServer(cfg *config.Config, appService validation.Service) *Server {
	mux := http.NewServeMux()
	mux.Handle(NewValidatorHandler(NewHandler(appService), Interceptors()))

	httpServer := &http.Server{
		Addr:         cfg.RPC.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Interceptors is the standard interceptor chain for validator handlers.
func Interceptors() connect.HandlerOption {
	return connect.WithInterceptors(
		recoveryInterceptor(),
		loggingInterceptor(),
	)
}

func recoveryInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered", slog.Any("panic", r))
					resp = nil
					err = connect.NewError(connect.CodeInternal, errPanic)
				}
			}()
			return next(ctx, req)
		}
	}
}

func loggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "request failed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
					slog.String("error", err.Error()),
				)
			} else {
				logger.InfoContext(ctx, "request completed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
				)
			}

			return resp, err
		}
	}
}
