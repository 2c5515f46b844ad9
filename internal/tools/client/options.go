package client

import (
	"errors"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

var ErrMissingBaseURL = errors.New("client base url is not configured")

type OptionFunc func(o *Options)

type Options struct {
	// Name of the caller service, used for the user agent
	name string

	// BaseURL - full URL to the service including protocol
	baseURL string

	// Timeout - if not set, then default timeout is used
	timeout time.Duration

	// Transport - innermost transport, defaults to http.DefaultTransport
	transport http.RoundTripper
}

func WithBaseURL(baseURL string) OptionFunc {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(o *Options) {
		o.timeout = timeout
	}
}

func WithName(name string) OptionFunc {
	return func(o *Options) {
		o.name = name
	}
}

func WithTransport(transport http.RoundTripper) OptionFunc {
	return func(o *Options) {
		o.transport = transport
	}
}

func NewOptions(optionFuncs ...OptionFunc) (*Options, error) {
	options := &Options{
		name: "transfers-web",
	}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	if options.baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	return options, nil
}

func (o *Options) Name() string {
	return o.name
}

func (o *Options) BaseURL() string {
	return o.baseURL
}

func (o *Options) Timeout() time.Duration {
	if o.timeout != 0 {
		return o.timeout
	}
	return DefaultTimeout
}

func (o *Options) Transport() http.RoundTripper {
	if o.transport != nil {
		return o.transport
	}
	return http.DefaultTransport
}
