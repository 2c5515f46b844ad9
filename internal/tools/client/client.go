package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"bitbucket.org/crgw/transfers-web/internal/tools/requesting"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is a thin JSON over HTTP client shared by the remote API clients.
type Client struct {
	baseURL     string
	destination string
	httpClient  *http.Client
}

func New(logger *zerolog.Logger, destination string, optionFuncs ...OptionFunc) (*Client, error) {
	options, err := NewOptions(optionFuncs...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", destination, err)
	}

	httpClient := &http.Client{
		Timeout: options.Timeout(),
		Transport: &requesting.InterceptorTransport{
			Transport: otelhttp.NewTransport(options.Transport()),
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewHeadersTransportMiddleware(fmt.Sprintf("%s-client via %s", destination, options.Name())),
				requesting.NewMetricsTransportMiddleware(destination),
				requesting.NewLoggingTransportMiddleware(logger, destination),
			},
		},
	}

	return &Client{
		baseURL:     strings.TrimRight(options.BaseURL(), "/"),
		destination: destination,
		httpClient:  httpClient,
	}, nil
}

type RequestOption func(req *http.Request)

func WithBearer(token string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func WithHeader(key string, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func WithQuery(query url.Values) RequestOption {
	return func(req *http.Request) {
		req.URL.RawQuery = query.Encode()
	}
}

// Do sends body as JSON and decodes a successful answer into destination.
// Non 2xx answers come back as schema.APIError. There are no retries.
func (c *Client) Do(ctx context.Context, method string, path string, body any, destination any, requestOptions ...RequestOption) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode %s request: %w", c.destination, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, requestOption := range requestOptions {
		requestOption(req)
	}

	res, err := requesting.RequestErrors(c.httpClient.Do(req))
	if err != nil {
		return err
	}

	return requesting.DecodeJSON(res, destination)
}

func (c *Client) Get(ctx context.Context, path string, destination any, requestOptions ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, destination, requestOptions...)
}

func (c *Client) Post(ctx context.Context, path string, body any, destination any, requestOptions ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, destination, requestOptions...)
}

func (c *Client) Put(ctx context.Context, path string, body any, destination any, requestOptions ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, destination, requestOptions...)
}

func (c *Client) Patch(ctx context.Context, path string, body any, destination any, requestOptions ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, body, destination, requestOptions...)
}

func (c *Client) Delete(ctx context.Context, path string, requestOptions ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, requestOptions...)
}

// PathEscape joins escaped segments onto a path.
func PathEscape(segments ...string) string {
	var builder strings.Builder
	for _, segment := range segments {
		builder.WriteString("/")
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

