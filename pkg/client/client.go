// Package client is a typed client for the jwt-validator HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"

	pkghttp "github.com/astro-web3/jwt-validator/pkg/http"
)

const (
	ValidatePath      = "/api/jwt/validate"
	ExtractClaimsPath = "/api/jwt/extract-claims"
)

// ErrInvalidToken is returned by ExtractClaims when the server rejects the token.
var ErrInvalidToken = errors.New("invalid token")

type Client struct {
	http *pkghttp.Client
}

func New(baseURL string, opts ...pkghttp.ClientOption) *Client {
	opts = append([]pkghttp.ClientOption{pkghttp.WithBaseURL(baseURL)}, opts...)
	return &Client{http: pkghttp.New(opts...)}
}

type jwtRequest struct {
	JWT string `json:"jwt"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error"`
}

func (c *Client) Validate(ctx context.Context, jwt string) (bool, error) {
	var out validateResponse
	resp, err := c.http.Post(ctx, ValidatePath,
		pkghttp.WithBody(jwtRequest{JWT: jwt}),
		pkghttp.WithResult(&out),
	)
	if err != nil {
		return false, fmt.Errorf("validate request failed: %w", err)
	}
	if resp.IsError() {
		return false, &StatusError{Code: resp.StatusCode(), Message: out.Error}
	}
	return out.Valid, nil
}

// ExtractClaims returns the verified claims of jwt. A token the server
// cannot verify yields ErrInvalidToken wrapping the server's message.
func (c *Client) ExtractClaims(ctx context.Context, jwt string) (map[string]string, error) {
	var out map[string]string
	resp, err := c.http.Post(ctx, ExtractClaimsPath,
		pkghttp.WithBody(jwtRequest{JWT: jwt}),
		pkghttp.WithResult(&out),
	)
	if err != nil {
		return nil, fmt.Errorf("extract claims request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Message: out["error"]}
	}
	if msg, ok := out["error"]; ok && len(out) == 1 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, msg)
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}
