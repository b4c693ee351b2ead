package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.25.0"
)

const (
	otelShutdownTimeout = 5 * time.Second
	defaultServiceName  = "googleauth"
	defaultSampleRatio  = 0.1
)

// tracing is the OTLP export setup resolved from config and the OTEL_* variables.
// The only span this service emits is the Google token exchange.
type tracing struct {
	endpoint string
	insecure bool
	service  string
	version  string
	ratio    float64
}

// tracingFromConfig reports false when neither the config nor the environment asks
// for tracing.
func tracingFromConfig(cfg auth_fields.AuthConfig) (tracing, bool) {
	t := tracing{
		endpoint: firstNonEmpty(cfg.OtelEndpoint, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		insecure: cfg.OtelInsecure,
		service:  firstNonEmpty(cfg.OtelServiceName, os.Getenv("OTEL_SERVICE_NAME"), defaultServiceName),
		version:  cfg.OtelServiceVersion,
		ratio:    sampleRatio(cfg.OtelSampleRate),
	}
	return t, cfg.OtelEnabled || t.endpoint != ""
}

func (t tracing) exporterOptions() []otlptracegrpc.Option {
	var opts []otlptracegrpc.Option
	if t.endpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.endpoint))
	}
	if t.insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	return opts
}

// initOTel installs the global tracer provider the Google client picks up and returns
// its shutdown func, or nil when tracing stays off.
func initOTel(ctx context.Context, cfg auth_fields.AuthConfig, logger *logrus.Logger) func(context.Context) error {
	t, ok := tracingFromConfig(cfg)
	if !ok {
		return nil
	}

	exporter, err := otlptracegrpc.New(ctx, t.exporterOptions()...)
	if err != nil {
		logger.WithError(err).Warn("trace exporter unavailable, google exchanges are not traced")
		return nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(t.service),
		semconv.ServiceVersion(t.version),
	))
	if err != nil {
		logger.WithError(err).Warn("trace resource incomplete")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.ratio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.WithFields(logrus.Fields{
		"endpoint": t.endpoint,
		"ratio":    t.ratio,
		"service":  t.service,
	}).Info("tracing google token exchanges")
	return tp.Shutdown
}

// sampleRatio keeps a tenth of root traces unless configured, and never more than all.
func sampleRatio(v float64) float64 {
	switch {
	case v <= 0:
		return defaultSampleRatio
	case v > 1:
		return 1
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
