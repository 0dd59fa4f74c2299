package otel

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type MeterProvider = sdkmetric.MeterProvider

// Turn statuses recorded on chat.turns
const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

//go:generate mockgen -source=otel.go -destination=../mocks/otel.go -package=mocks
type OpenTelemetry interface {
	RecordTokenUsage(ctx context.Context, provider, model string, promptTokens, completionTokens, totalTokens int64)
	RecordLLMLatency(ctx context.Context, provider, model string, milliseconds float64)
	RecordToolCall(ctx context.Context, tool string, success bool)
	RecordTurn(ctx context.Context, status string, iterations int)
	RecordRequestDuration(ctx context.Context, method, route string, status int, milliseconds float64)
	Handler() http.Handler
	Shutdown(ctx context.Context) error
}

type OpenTelemetryImpl struct {
	meterProvider *MeterProvider
	registry      *prometheus.Registry

	// Token counters
	promptCounter metric.Int64Counter
	compCounter   metric.Int64Counter
	totalCounter  metric.Int64Counter

	llmLatency      metric.Float64Histogram
	toolCalls       metric.Int64Counter
	turns           metric.Int64Counter
	iterations      metric.Int64Histogram
	requestDuration metric.Float64Histogram
}

// Init creates the meter provider and registers every instrument. Metrics are
// exposed in the Prometheus text format through Handler.
func Init(serviceName string) (*OpenTelemetryImpl, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)

	otel.SetMeterProvider(mp)

	o := &OpenTelemetryImpl{
		meterProvider: mp,
		registry:      registry,
	}

	meter := mp.Meter(serviceName)

	var errs []error
	o.promptCounter, err = meter.Int64Counter(
		"llm.usage.prompt_tokens",
		metric.WithDescription("Number of prompt tokens used"),
	)
	errs = append(errs, err)

	o.compCounter, err = meter.Int64Counter(
		"llm.usage.completion_tokens",
		metric.WithDescription("Number of completion tokens used"),
	)
	errs = append(errs, err)

	o.totalCounter, err = meter.Int64Counter(
		"llm.usage.total_tokens",
		metric.WithDescription("Total number of tokens used"),
	)
	errs = append(errs, err)

	// Times are recorded in miliseconds
	timeUnit := "ms"

	o.llmLatency, err = meter.Float64Histogram(
		"llm.latency.total_time",
		metric.WithDescription("Total time from request to response"),
		metric.WithUnit(timeUnit),
	)
	errs = append(errs, err)

	o.toolCalls, err = meter.Int64Counter(
		"mcp.tool.calls",
		metric.WithDescription("Number of MCP tool calls by tool and outcome"),
	)
	errs = append(errs, err)

	o.turns, err = meter.Int64Counter(
		"chat.turns",
		metric.WithDescription("Number of chat turns by final state"),
	)
	errs = append(errs, err)

	o.iterations, err = meter.Int64Histogram(
		"chat.relay.iterations",
		metric.WithDescription("LLM calls needed to finish a chat turn"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 8, 10),
	)
	errs = append(errs, err)

	o.requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("Duration of HTTP requests"),
		metric.WithUnit(timeUnit),
	)
	errs = append(errs, err)

	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}

	return o, nil
}

func (o *OpenTelemetryImpl) RecordTokenUsage(ctx context.Context, provider, model string, promptTokens, completionTokens, totalTokens int64) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
	)

	o.promptCounter.Add(ctx, promptTokens, attrs)
	o.compCounter.Add(ctx, completionTokens, attrs)
	o.totalCounter.Add(ctx, totalTokens, attrs)
}

func (o *OpenTelemetryImpl) RecordLLMLatency(ctx context.Context, provider, model string, milliseconds float64) {
	o.llmLatency.Record(ctx, milliseconds, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
	))
}

func (o *OpenTelemetryImpl) RecordToolCall(ctx context.Context, tool string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	o.toolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
}

func (o *OpenTelemetryImpl) RecordTurn(ctx context.Context, status string, iterations int) {
	o.turns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	o.iterations.Record(ctx, int64(iterations), metric.WithAttributes(attribute.String("status", status)))
}

func (o *OpenTelemetryImpl) RecordRequestDuration(ctx context.Context, method, route string, status int, milliseconds float64) {
	o.requestDuration.Record(ctx, milliseconds, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}

func (o *OpenTelemetryImpl) Handler() http.Handler {
	return promhttp.HandlerFor(o.registry, promhttp.HandlerOpts{})
}

func (o *OpenTelemetryImpl) Shutdown(ctx context.Context) error {
	return o.meterProvider.Shutdown(ctx)
}

// NoopTelemetry is used when telemetry is disabled
type NoopTelemetry struct{}

func (NoopTelemetry) RecordTokenUsage(context.Context, string, string, int64, int64, int64) {}
func (NoopTelemetry) RecordLLMLatency(context.Context, string, string, float64)            {}
func (NoopTelemetry) RecordToolCall(context.Context, string, bool)                         {}
func (NoopTelemetry) RecordTurn(context.Context, string, int)                              {}
func (NoopTelemetry) RecordRequestDuration(context.Context, string, string, int, float64)  {}
func (NoopTelemetry) Handler() http.Handler                                                { return http.NotFoundHandler() }
func (NoopTelemetry) Shutdown(context.Context) error                                       { return nil }
