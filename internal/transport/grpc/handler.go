package grpc

import (
	"context"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/astro-web3/jwt-validator/internal/app/validation"
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

func (h *Handler) Validate(
	ctx context.Context,
	req *connect.Request[ValidateRequest],
) (*connect.Response[ValidateResponse], error) {
	ctx, span := tracer.Start(ctx, "transport.rpc.Validate")
	defer span.End()

	valid := h.appService.Validate(ctx, req.Msg.JWT)
	span.SetAttributes(attribute.Bool("jwt.valid", valid))

	return connect.NewResponse(&ValidateResponse{Valid: valid}), nil
}

func (h *Handler) ExtractClaims(
	ctx context.Context,
	req *connect.Request[ExtractClaimsRequest],
) (*connect.Response[ExtractClaimsResponse], error) {
	ctx, span := tracer.Start(ctx, "transport.rpc.ExtractClaims")
	defer span.End()

	result := h.appService.ExtractClaims(ctx, req.Msg.JWT)
	span.SetAttributes(attribute.Bool("jwt.valid", result.OK()))

	if !result.OK() {
		return connect.NewResponse(&ExtractClaimsResponse{Error: result.Err}), nil
	}
	return connect.NewResponse(&ExtractClaimsResponse{Claims: result.Claims}), nil
}
