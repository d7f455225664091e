package validation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/astro-web3/jwt-validator/internal/domain/validation"
	"github.com/astro-web3/jwt-validator/pkg/tracer"
)

type Service interface {
	Validate(ctx context.Context, jwt string) bool
	ExtractClaims(ctx context.Context, jwt string) validation.ExtractionResult
}

type service struct {
	domainService validation.Service
}

func NewService(domainService validation.Service) Service {
	return &service{
		domainService: domainService,
	}
}

func (s *service) Validate(ctx context.Context, jwt string) bool {
	ctx, span := tracer.Start(ctx, "app.validation.ValidateToken")
	defer span.End()

	span.SetAttributes(attribute.String("jwt.prefix", getTokenPrefix(jwt)))

	valid := s.domainService.ValidateToken(ctx, jwt)
	span.SetAttributes(attribute.Bool("jwt.valid", valid))

	return valid
}

func (s *service) ExtractClaims(ctx context.Context, jwt string) validation.ExtractionResult {
	ctx, span := tracer.Start(ctx, "app.validation.ExtractClaims")
	defer span.End()

	span.SetAttributes(attribute.String("jwt.prefix", getTokenPrefix(jwt)))

	result := s.domainService.ExtractClaims(ctx, jwt)
	span.SetAttributes(
		attribute.Bool("jwt.valid", result.OK()),
		attribute.Int("jwt.claims", len(result.Claims)),
	)

	return result
}

const tokenPrefixLength = 8

func getTokenPrefix(jwt string) string {
	if len(jwt) > tokenPrefixLength {
		return jwt[:tokenPrefixLength] + "..."
	}
	return "***"
}
