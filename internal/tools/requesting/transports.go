package requesting

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/metrics"
	"github.com/rs/zerolog"
)

type TransportMiddleware func(http.RoundTripper) http.RoundTripper

type InterceptorTransport struct {
	Transport   http.RoundTripper
	Middlewares []TransportMiddleware
}

func (t *InterceptorTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	transport := t.Transport
	for _, middleware := range t.Middlewares {
		transport = middleware(transport)
	}

	resp, err := transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

type LoggingTransportMiddleware struct {
	Transport   http.RoundTripper
	destination string
	log         *zerolog.Logger
}

func NewLoggingTransportMiddleware(log *zerolog.Logger, destination string) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &LoggingTransportMiddleware{
			log:         log,
			destination: destination,
			Transport:   rt,
		}
	}
}

// requestLogger prefers the request scoped logger carried by the context so the
// line gets the caller's correlation id.
func (t *LoggingTransportMiddleware) requestLogger(req *http.Request) *zerolog.Logger {
	log := zerolog.Ctx(req.Context())
	if log.GetLevel() == zerolog.Disabled {
		return t.log
	}

	return log
}

func (t *LoggingTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	message := t.requestLogger(req).Info().
		Str("label", "outgoing-request").
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("destination", t.destination)

	defer func() {
		message.
			Float64("duration", time.Since(startTime).Seconds()).
			Msg("")
	}()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		message.Str("error", err.Error()).Int("code", 0)
		return nil, err
	}

	message.Int("code", resp.StatusCode)

	return resp, nil
}

type HeadersTransportMiddleware struct {
	Transport http.RoundTripper
	userAgent string
}

// NewHeadersTransportMiddleware sets the user agent and forwards the correlation id.
func NewHeadersTransportMiddleware(userAgent string) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &HeadersTransportMiddleware{
			Transport: rt,
			userAgent: userAgent,
		}
	}
}

func (h *HeadersTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", h.userAgent)

	if correlationId := CorrelationId(req.Context()); correlationId != "" {
		req.Header.Set("x-correlation-id", correlationId)
	}

	return h.Transport.RoundTrip(req)
}

type MetricsTransportMiddleware struct {
	Transport   http.RoundTripper
	destination string
}

func NewMetricsTransportMiddleware(destination string) TransportMiddleware {
	return func(rt http.RoundTripper) http.RoundTripper {
		return &MetricsTransportMiddleware{
			Transport:   rt,
			destination: destination,
		}
	}
}

func (m *MetricsTransportMiddleware) RoundTrip(req *http.Request) (*http.Response, error) {
	startTime := time.Now()

	resp, err := m.Transport.RoundTrip(req)

	code := "0"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	metrics.OutgoingRequests.WithLabelValues(m.destination, code).Inc()
	metrics.OutgoingRequestDuration.WithLabelValues(m.destination).Observe(time.Since(startTime).Seconds())

	return resp, err
}
