package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
	"github.com/palanikalyan/K-MATO/pkg/metrics"
)

// TokenProvider supplies the current bearer token, or "" when logged out.
// The session store is the usual provider.
type TokenProvider func() string

// Client talks to the K-MATO backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenProvider
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTokenProvider sets the bearer token source.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) {
		c.token = tp
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the backend at baseURL (e.g.
// "https://api.kmato.example/api").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Tracer resolves from the global provider, as configured in main().
	c.tracer = otel.Tracer("kmato.api")
	c.logger = c.logger.With("component", "api")
	return c
}

// StatusError is an HTTP-level failure, carrying whatever message the
// backend attached so callers can surface it verbatim.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Endpoint, e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, http.StatusText(e.Status))
}

// do performs one request/response cycle: marshal body, attach auth, execute,
// normalize the envelope, decode into out (which may be nil).
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "kmato.api."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("kmato.endpoint", endpoint),
		),
	)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return kmerr.FromError(err, "KM4001")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return kmerr.FromError(err, "KM4001")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordAPIError(endpoint)
		c.logger.Warn("request failed", "endpoint", endpoint, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return kmerr.FromError(err, "KM4001")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordAPIError(endpoint)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return kmerr.FromError(err, "KM4001")
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.metrics.RecordAPIRequest(endpoint, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= 400 {
		statusErr := &StatusError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  backendMessage(respBody),
		}
		c.metrics.RecordAPIError(endpoint)
		c.logger.Warn("backend error", "endpoint", endpoint, "status", resp.StatusCode)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	payload, err := normalize(respBody)
	if err != nil {
		c.metrics.RecordAPIError(endpoint)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			c.metrics.RecordAPIError(endpoint)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return kmerr.FromError(err, "KM4003")
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// backendMessage extracts the message from an error body, envelope or not.
func backendMessage(body []byte) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
