package observability

import (
	"context"
	"sync"

	"spotfinder/internal/config"
	contextutils "spotfinder/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Metric instrument names
const (
	MetricAPIRequests      = "spotfinder.api.requests"
	MetricReviewsSubmitted = "spotfinder.reviews.submitted"
)

var (
	instrumentsMu    sync.RWMutex
	apiRequests      otelmetric.Int64Counter
	reviewsSubmitted otelmetric.Int64Counter
)

// InitMetrics initializes OpenTelemetry metrics
func InitMetrics(cfg *config.OpenTelemetryConfig) (result0 *metric.MeterProvider, err error) {
	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var exporter metric.Exporter
	switch cfg.Protocol {
	case "grpc":
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
			otlpmetricgrpc.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp grpc metric exporter: %w", err)
		}
		exporter = exp
	case "http":
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(cfg.Endpoint),
			otlpmetrichttp.WithHeaders(cfg.Headers),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp http metric exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "unsupported otel protocol: %s", cfg.Protocol)
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	)
	return mp, nil
}

// InitInstruments creates the counters against the global meter provider.
// Until it is called the Record helpers are no-ops.
func InitInstruments() error {
	meter := otel.GetMeterProvider().Meter("spotfinder")

	requests, err := meter.Int64Counter(MetricAPIRequests,
		otelmetric.WithDescription("Calls made to the study spot backend"),
		otelmetric.WithUnit("{request}"))
	if err != nil {
		return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create %s counter: %w", MetricAPIRequests, err)
	}

	reviews, err := meter.Int64Counter(MetricReviewsSubmitted,
		otelmetric.WithDescription("Reviews accepted by the study spot backend"),
		otelmetric.WithUnit("{review}"))
	if err != nil {
		return contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create %s counter: %w", MetricReviewsSubmitted, err)
	}

	instrumentsMu.Lock()
	apiRequests, reviewsSubmitted = requests, reviews
	instrumentsMu.Unlock()
	return nil
}

// RecordAPIRequest counts one backend call; outcome is "ok" or "error"
func RecordAPIRequest(ctx context.Context, op string, err error) {
	instrumentsMu.RLock()
	counter := apiRequests
	instrumentsMu.RUnlock()
	if counter == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	counter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

// RecordReviewSubmitted counts one review accepted by the backend
func RecordReviewSubmitted(ctx context.Context, spotID int) {
	instrumentsMu.RLock()
	counter := reviewsSubmitted
	instrumentsMu.RUnlock()
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, otelmetric.WithAttributes(attribute.Int("spot.id", spotID)))
}
