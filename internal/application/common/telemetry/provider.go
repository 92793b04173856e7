// Package telemetry owns the in-process OpenTelemetry meter provider. Metrics
// are collected on demand with a manual reader; nothing is exported.
package telemetry

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider wraps an SDK meter provider and the reader used to collect it.
type Provider struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// MetricPoint is one collected data point in a flat, printable form.
type MetricPoint struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
	// Value is the counter total, or the sum of observations for a histogram.
	Value float64 `json:"value"`
	// Count is the number of observations for a histogram, zero otherwise.
	Count uint64 `json:"count,omitempty"`
}

// NewProvider creates a meter provider tagged with the service name and version.
func NewProvider(ctx context.Context, serviceName, serviceVersion string) (*Provider, error) {
	if serviceName == "" {
		return nil, errors.New("service name cannot be empty")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewManualReader()
	return &Provider{
		provider: sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(reader),
		),
		reader: reader,
	}, nil
}

// MeterProvider returns the provider instruments should be created on.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.provider
}

// Snapshot collects every metric recorded so far, sorted by name.
func (p *Provider) Snapshot(ctx context.Context) ([]MetricPoint, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return nil, err
	}

	var points []MetricPoint
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, MetricPoint{
						Name:       m.Name,
						Attributes: attributeMap(dp.Attributes),
						Value:      float64(dp.Value),
					})
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					points = append(points, MetricPoint{
						Name:       m.Name,
						Attributes: attributeMap(dp.Attributes),
						Value:      dp.Value,
					})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					points = append(points, MetricPoint{
						Name:       m.Name,
						Attributes: attributeMap(dp.Attributes),
						Value:      dp.Sum,
						Count:      dp.Count,
					})
				}
			}
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Name < points[j].Name
	})
	return points, nil
}

// Shutdown releases the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

func attributeMap(set attribute.Set) map[string]string {
	if set.Len() == 0 {
		return nil
	}
	attrs := make(map[string]string, set.Len())
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	return attrs
}
