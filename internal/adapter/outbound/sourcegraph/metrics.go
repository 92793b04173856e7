package sourcegraph

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by the Sourcegraph client.
const (
	RequestCounterName       = "sourcegraph_requests_total"
	RequestDurationName      = "sourcegraph_request_duration_seconds"
	DegradedCounterName      = "sourcegraph_degraded_total"
	StreamEventsCounterName  = "sourcegraph_stream_events_total"
	meterName                = "codycli/sourcegraph"
	streamEventKindCompleted = "completion"
	streamEventKindSkipped   = "skipped"
)

// Attribute keys for request metrics.
const (
	AttrOperation  = "operation"
	AttrStatusCode = "status_code"
	AttrResult     = "result"
	AttrEventKind  = "event_kind"
)

// RequestMetrics records request counts, latencies, degraded calls and stream
// events. A nil *RequestMetrics records nothing.
type RequestMetrics struct {
	requestCounter   metric.Int64Counter
	durationHist     metric.Float64Histogram
	degradedCounter  metric.Int64Counter
	streamEventCount metric.Int64Counter
}

// NewRequestMetrics creates the instruments on provider, or on the global
// meter provider when provider is nil.
func NewRequestMetrics(provider metric.MeterProvider) (*RequestMetrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(meterName)

	requestCounter, err := meter.Int64Counter(RequestCounterName,
		metric.WithDescription("Total number of requests sent to Sourcegraph"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(RequestDurationName,
		metric.WithDescription("Time until Sourcegraph response headers arrive, in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	degradedCounter, err := meter.Int64Counter(DegradedCounterName,
		metric.WithDescription("Total number of context calls that degraded on a non-success status"),
	)
	if err != nil {
		return nil, err
	}

	streamEventCount, err := meter.Int64Counter(StreamEventsCounterName,
		metric.WithDescription("Total number of completion stream data lines by kind"),
	)
	if err != nil {
		return nil, err
	}

	return &RequestMetrics{
		requestCounter:   requestCounter,
		durationHist:     durationHist,
		degradedCounter:  degradedCounter,
		streamEventCount: streamEventCount,
	}, nil
}

// RecordRequest records one HTTP exchange. statusCode is 0 when no response arrived.
func (m *RequestMetrics) RecordRequest(
	ctx context.Context,
	operation string,
	statusCode int,
	duration time.Duration,
	err error,
) {
	if m == nil {
		return
	}

	result := "success"
	switch {
	case err != nil:
		result = "transport_error"
	case !isSuccess(statusCode):
		result = "http_error"
	}

	attrs := metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatusCode, strconv.Itoa(statusCode)),
		attribute.String(AttrResult, result),
	)
	m.requestCounter.Add(ctx, 1, attrs)
	m.durationHist.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrOperation, operation),
	))
}

// RecordDegraded records a context call that continued without its result.
func (m *RequestMetrics) RecordDegraded(ctx context.Context, operation string, statusCode int) {
	if m == nil {
		return
	}
	m.degradedCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, operation),
		attribute.String(AttrStatusCode, strconv.Itoa(statusCode)),
	))
}

// RecordStreamEvents records the decoded and skipped data lines of one stream.
func (m *RequestMetrics) RecordStreamEvents(ctx context.Context, completions, skipped int) {
	if m == nil {
		return
	}
	if completions > 0 {
		m.streamEventCount.Add(ctx, int64(completions), metric.WithAttributes(
			attribute.String(AttrEventKind, streamEventKindCompleted),
		))
	}
	if skipped > 0 {
		m.streamEventCount.Add(ctx, int64(skipped), metric.WithAttributes(
			attribute.String(AttrEventKind, streamEventKindSkipped),
		))
	}
}
