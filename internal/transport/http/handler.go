package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/astro-web3/jwt-validator/internal/app/validation"
	"github.com/astro-web3/jwt-validator/pkg/logger"
	"github.com/astro-web3/jwt-validator/pkg/tracer"
)

type Handler struct {
	appService validation.Service
}

func NewHandler(appService validation.Service) *Handler {
	return &Handler{
		appService: appService,
	}
}

// JWTRequest is the body of both API operations. A missing or null jwt is
// treated as blank.
type JWTRequest struct {
	JWT string `json:"jwt"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

const errInvalidBody = "invalid request body"

func (h *Handler) Validate(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.Validate")
	defer span.End()

	var req JWTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.WarnContext(ctx, "failed to decode request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	valid := h.appService.Validate(ctx, req.JWT)
	span.SetAttributes(attribute.Bool("jwt.valid", valid))

	c.JSON(http.StatusOK, ValidateResponse{Valid: valid})
}

func (h *Handler) ExtractClaims(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.ExtractClaims")
	defer span.End()

	var req JWTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		logger.WarnContext(ctx, "failed to decode request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return
	}

	result := h.appService.ExtractClaims(ctx, req.JWT)
	span.SetAttributes(attribute.Bool("jwt.valid", result.OK()))

	c.JSON(http.StatusOK, result)
}
