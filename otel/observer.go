// Package otel provides OpenTelemetry integration for tool invocations.
package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/dhippley/ado-mcp/tools"
)

// ToolObserver records tool invocation outcomes as OpenTelemetry
// metrics and spans.
type ToolObserver struct {
	tracer trace.Tracer

	invocations metric.Int64Counter
	retries     metric.Int64Counter
	latency     metric.Float64Histogram
}

// NewToolObserver creates a tool observer bound to the provided meter
// and tracer.
func NewToolObserver(meter metric.Meter, tracer trace.Tracer) (*ToolObserver, error) {
	invocations, err := meter.Int64Counter(
		"adomcp.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	retries, err := meter.Int64Counter(
		"adomcp.client.retries",
		metric.WithDescription("Number of transient-failure retries"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"adomcp.tool.latency",
		metric.WithDescription("Tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ToolObserver{
		tracer:      tracer,
		invocations: invocations,
		retries:     retries,
		latency:     latency,
	}, nil
}

// ObserveRetry records one transient-failure retry of an HTTP request.
func (o *ToolObserver) ObserveRetry(method string, statusCode, attempt int) {
	if o == nil {
		return
	}
	o.retries.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", statusCode),
		attribute.Int("attempt", attempt),
	))
}

// ObserveInvoke records one invocation result.
func (o *ToolObserver) ObserveInvoke(observation tools.InvokeObservation) {
	if o == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool", observation.Tool),
		attribute.Bool("success", observation.Success),
	}
	if observation.ErrorCode != "" {
		attrs = append(attrs, attribute.String("error_code", observation.ErrorCode))
	}

	ctx := context.Background()
	options := metric.WithAttributes(attrs...)
	o.invocations.Add(ctx, 1, options)
	o.latency.Record(ctx, float64(time.Duration(observation.DurationMS)*time.Millisecond)/float64(time.Second), options)

	if o.tracer == nil {
		return
	}
	spanAttrs := append(attrs, attribute.String("request_id", observation.RequestID))
	_, span := o.tracer.Start(ctx, "tool.invoke", trace.WithAttributes(spanAttrs...))
	if !observation.Success {
		span.SetStatus(codes.Error, observation.ErrorCode)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

var _ tools.Observer = (*ToolObserver)(nil)
