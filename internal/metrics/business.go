package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("dishcraft/business")

	// Dish flow metrics
	BrainstormsTotal   metric.Int64Counter
	RecipeFetchesTotal metric.Int64Counter
	ParseEmptyTotal    metric.Int64Counter
	DishesPerList      metric.Int64Histogram

	// Completion metrics
	CompletionDuration metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter
)

func Init() error {
	var err error

	BrainstormsTotal, err = meter.Int64Counter(
		"dish.brainstorms.total",
		metric.WithDescription("Total number of dish idea requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeFetchesTotal, err = meter.Int64Counter(
		"dish.recipes.total",
		metric.WithDescription("Total number of recipe fetches"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ParseEmptyTotal, err = meter.Int64Counter(
		"dish.parse.empty.total",
		metric.WithDescription("Completions that yielded no parseable dish lines"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	DishesPerList, err = meter.Int64Histogram(
		"dish.list.size",
		metric.WithDescription("Number of dishes parsed per brainstorm"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 8, 12),
	)
	if err != nil {
		return err
	}

	CompletionDuration, err = meter.Float64Histogram(
		"completion.duration",
		metric.WithDescription("Duration of LLM completion calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

// The helpers below are no-ops until Init has run, so packages can record
// unconditionally and tests need no meter setup.

// RecordCompletion records one provider call.
func RecordCompletion(ctx context.Context, provider, model, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
		attribute.String("status", status),
	)
	if CompletionDuration != nil {
		CompletionDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
}

// RecordFallback records a switch from primary to fallback provider.
func RecordFallback(ctx context.Context, primary, fallback, reason string) {
	if ProviderFallbackTotal == nil {
		return
	}
	ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("primary", primary),
		attribute.String("fallback", fallback),
		attribute.String("reason", reason),
	))
}

// RecordBrainstorm records a finished dish-idea request and its list size.
func RecordBrainstorm(ctx context.Context, status string, dishes int) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	if BrainstormsTotal != nil {
		BrainstormsTotal.Add(ctx, 1, attrs)
	}
	if status != "success" {
		return
	}
	if DishesPerList != nil {
		DishesPerList.Record(ctx, int64(dishes))
	}
	if dishes == 0 && ParseEmptyTotal != nil {
		ParseEmptyTotal.Add(ctx, 1)
	}
}

// RecordRecipeFetch records a recipe request outcome.
func RecordRecipeFetch(ctx context.Context, status string) {
	if RecipeFetchesTotal == nil {
		return
	}
	RecipeFetchesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
