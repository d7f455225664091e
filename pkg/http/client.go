package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetry   = 2
)

var (
	//nolint:gochecknoglobals // shared client for callers without their own
	defaultClient *Client
	//nolint:gochecknoglobals // guards defaultClient
	once sync.Once
)

// Client is a JSON resty client with client spans and trace propagation.
type Client struct {
	rc *resty.Client
}

type ClientOption func(*resty.Client)

func WithBaseURL(url string) ClientOption {
	return func(c *resty.Client) {
		c.SetBaseURL(url)
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

func WithRetry(count int) ClientOption {
	return func(c *resty.Client) {
		c.SetRetryCount(count)
	}
}

// WithTransport replaces the underlying round tripper, e.g. with an httptest server's.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *resty.Client) {
		c.SetTransport(rt)
	}
}

func New(opts ...ClientOption) *Client {
	rc := resty.New().
		SetTimeout(DefaultTimeout).
		SetRetryCount(DefaultRetry).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	for _, opt := range opts {
		opt(rc)
	}
	return &Client{rc: rc}
}

// Default returns the shared client instance.
func Default() *Client {
	once.Do(func() {
		defaultClient = New()
	})
	return defaultClient
}

type RequestOption func(*resty.Request)

func WithBody(body any) RequestOption {
	return func(r *resty.Request) {
		r.SetBody(body)
	}
}

func WithResult(result any) RequestOption {
	return func(r *resty.Request) {
		if result != nil {
			r.SetResult(result).SetError(result)
		}
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

func (c *Client) Request(ctx context.Context, method, url string, opts ...RequestOption) (*resty.Response, error) {
	ctx, span := startClientSpan(ctx, "http.Request", method, url)
	defer span.End()

	request := c.rc.R().SetContext(ctx)

	for _, opt := range opts {
		opt(request)
	}

	injectTracingHeaders(ctx, request)

	resp, err := request.Execute(method, url)

	recordSpan(span, resp, err)
	return resp, err
}

func (c *Client) Get(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	return c.Request(ctx, http.MethodGet, url, opts...)
}

func (c *Client) Post(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	return c.Request(ctx, http.MethodPost, url, opts...)
}
