package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/astro-web3/jwt-validator/internal/config"
	rpctransport "github.com/astro-web3/jwt-validator/internal/transport/grpc"
)

// RouterOptions carries optional collaborators. Nil fields disable the feature.
type RouterOptions struct {
	RateLimit  gin.HandlerFunc
	Metrics    http.Handler
	RPCHandler *rpctransport.Handler
}

func NewRouter(handler *Handler, cfg *config.Config, opts RouterOptions) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	if cfg.Observability.TraceEnabled {
		router.Use(otelgin.Middleware(serviceName))
	}
	router.Use(loggingMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	api := router.Group("/api/jwt")
	if opts.RateLimit != nil {
		api.Use(opts.RateLimit)
	}
	api.POST("/validate", handler.Validate)
	api.POST("/extract-claims", handler.ExtractClaims)

	if opts.RPCHandler != nil {
		rpcPath, rpcHandler := rpctransport.NewValidatorHandler(opts.RPCHandler, rpctransport.Interceptors())
		rpc := router.Group(rpcPath)
		if opts.RateLimit != nil {
			rpc.Use(opts.RateLimit)
		}
		rpc.POST("/*method", gin.WrapH(rpcHandler))
	}

	return router
}
