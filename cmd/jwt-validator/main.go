package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appvalidation "github.com/astro-web3/jwt-validator/internal/app/validation"
	"github.com/astro-web3/jwt-validator/internal/config"
	rpctransport "github.com/astro-web3/jwt-validator/internal/transport/grpc"
	httptransport "github.com/astro-web3/jwt-validator/internal/transport/http"
	"github.com/astro-web3/jwt-validator/pkg/logger"
	"github.com/astro-web3/jwt-validator/pkg/otel"
	"github.com/astro-web3/jwt-validator/pkg/tracer"
)

const (
	shutdownTimeoutSeconds = 10
	serviceName            = "jwt-validator"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type server interface {
	Addr() string
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

func main() {
	cfg := config.MustLoad()

	logger.Init(logger.Options{
		Level:     cfg.Observability.LogLevel,
		Format:    cfg.Observability.Format,
		AddSource: cfg.Observability.LogSource,
	})

	ctx := context.Background()

	otelCfg := otel.DefaultConfig(serviceName)
	otelCfg.ServiceVersion = version
	otelCfg.EndpointURL = cfg.Observability.TracingEndpointURL
	otelCfg.Enabled = cfg.Observability.TraceEnabled
	if err := tracer.InitTracer(ctx, serviceName, otelCfg); err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	appService, err := appvalidation.NewServiceFromConfig(cfg, reg)
	if err != nil {
		log.Fatalf("Failed to create validation service: %v", err)
	}

	httpServer, err := httptransport.NewServer(cfg, appService, reg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	servers := []server{httpServer}
	if cfg.RPC.Enabled {
		servers = append(servers, rpctransport.NewServer(cfg, appService))
	}

	serverErrChan := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv server) {
			logger.InfoContext(ctx, "Starting server",
				slog.String("addr", srv.Addr()),
				slog.String("mode", cfg.Server.Mode),
				slog.String("version", version),
			)
			if listenErr := srv.ListenAndServe(); listenErr != nil &&
				!errors.Is(listenErr, http.ErrServerClosed) {
				logger.ErrorContext(ctx, "Server failed", slog.String("error", listenErr.Error()))
				serverErrChan <- listenErr
			}
		}(srv)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.InfoContext(ctx, "Shutting down servers...")
	case serverErr := <-serverErrChan:
		logger.ErrorContext(ctx, "Server error, shutting down", slog.String("error", serverErr.Error()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		shutdownTimeoutSeconds*time.Second,
	)
	defer shutdownCancel()

	for _, srv := range servers {
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.ErrorContext(ctx, "Server forced to shutdown",
				slog.String("addr", srv.Addr()),
				slog.String("error", shutdownErr.Error()),
			)
		} else {
			logger.InfoContext(ctx, "Server stopped gracefully", slog.String("addr", srv.Addr()))
		}
	}

	if shutdownErr := otel.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.ErrorContext(ctx, "Failed to shutdown tracer provider", slog.String("error", shutdownErr.Error()))
	} else {
		logger.InfoContext(ctx, "Tracer provider stopped gracefully")
	}
}
