package grpc

import (
	"net/http"

	"connectrpc.com/connect"
)

// NewValidatorHandler returns the service path prefix and its handler,
// in the shape of generated connect constructors.
func NewValidatorHandler(h *Handler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ValidateProcedure, connect.NewUnaryHandler(ValidateProcedure, h.Validate, opts...))
	mux.Handle(ExtractClaimsProcedure, connect.NewUnaryHandler(ExtractClaimsProcedure, h.ExtractClaims, opts...))

	return "/" + ServiceName + "/", mux
}
