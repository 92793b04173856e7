// Package sourcegraph implements the outbound ports against a Sourcegraph
// instance: the GraphQL API for repository lookup and context search, the
// streaming completions endpoint, and the LLM model listing.
package sourcegraph

import (
	"bytes"
	"codycli/internal/application/common/slogger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "codycli/sourcegraph"

// Operation names used in logs, spans and metrics.
const (
	operationResolveRepositories = "resolve_repositories"
	operationSearchContext       = "search_context"
	operationStreamCompletion    = "stream_completion"
	operationListModels          = "list_models"
)

// ClientConfig holds the configuration for the Sourcegraph client.
type ClientConfig struct {
	GraphQLURL        string
	CompletionsURL    string
	ModelsURL         string
	AccessToken       string
	UserAgent         string
	Model             string
	MaxTokensToSample int
	Temperature       float64
	TopK              int
	TopP              int
	// Timeout bounds each HTTP call including the streamed body. Zero disables it.
	Timeout time.Duration
}

// Validate validates the client configuration.
func (c *ClientConfig) Validate() error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return errors.New("access token cannot be empty")
	}
	for name, value := range map[string]string{
		"GraphQL URL":     c.GraphQLURL,
		"completions URL": c.CompletionsURL,
	} {
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("%s must have http:// or https:// scheme, got %q", name, value)
		}
	}
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}
	return nil
}

// Client talks to a Sourcegraph instance. Requests are issued one at a time by
// the caller; the client holds no per-request state.
type Client struct {
	config     ClientConfig
	headers    http.Header
	httpClient *http.Client
	metrics    *RequestMetrics
	tracer     trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// NewClient creates a new Sourcegraph client. It fails if the configuration
// is invalid or the access token cannot be carried in a header.
func NewClient(config *ClientConfig, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	headers, err := buildHeaders(config.AccessToken, config.UserAgent)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:     *config,
		headers:    headers,
		httpClient: &http.Client{Timeout: config.Timeout},
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// send encodes payload as JSON (when non-nil) and performs the request. The
// caller owns the response body.
func (c *Client) send(ctx context.Context, operation, method, url string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header = c.headers.Clone()
	if operation == operationStreamCompletion {
		req.Header.Set(headerAccept, acceptEventsJSON)
	} else {
		req.Header.Set(headerAccept, contentTypeJSON)
	}
	requestID := uuid.New().String()
	req.Header.Set(headerRequestID, requestID)

	slogger.Debug(ctx, "Sending Sourcegraph request", slogger.Fields{
		"operation":  operation,
		"method":     method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordRequest(ctx, operation, statusCode, duration, err)

	if err != nil {
		slogger.ErrorWithError(ctx, err, "Sourcegraph request failed", slogger.Fields2(
			"operation", operation,
			"request_id", requestID,
		))
		return nil, err
	}

	slogger.Debug(ctx, "Sourcegraph response received", slogger.Fields{
		"operation":   operation,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
		"request_id":  requestID,
	})

	return resp, nil
}

// degrade logs a non-success status on a best-effort call.
func (c *Client) degrade(ctx context.Context, operation string, resp *http.Response) {
	slogger.Warn(ctx, "Sourcegraph request returned non-success status; continuing without its result", slogger.Fields3(
		"operation", operation,
		"status_code", resp.StatusCode,
		"status", resp.Status,
	))
	c.metrics.RecordDegraded(ctx, operation, resp.StatusCode)
}

func (c *Client) startSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "sourcegraph."+operation, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func isSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// closeBody drains and closes a response body so the connection can be reused.
func closeBody(ctx context.Context, resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if err := resp.Body.Close(); err != nil {
		slogger.Debug(ctx, "Failed to close response body", slogger.Field("error", err.Error()))
	}
}

// readErrorBody returns a trimmed prefix of an error response body.
func readErrorBody(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySnippet))
	return strings.TrimSpace(string(data))
}
