package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "account-auth-service"

var (
	metricsOnce       sync.Once
	authEvents        metric.Int64Counter
	verificationCodes metric.Int64Counter
	repositoryOps     metric.Int64Counter
)

func initMetrics() {
	meter := otel.GetMeterProvider().Meter(meterName)
	authEvents, _ = meter.Int64Counter("auth_events_total",
		metric.WithDescription("Auth flow outcomes by flow and result"))
	verificationCodes, _ = meter.Int64Counter("verification_events_total",
		metric.WithDescription("Verification code issue/confirm outcomes"))
	repositoryOps, _ = meter.Int64Counter("repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
}

// RecordAuthEvent counts one orchestrator flow outcome, e.g.
// ("login_email", "incorrect_password").
func RecordAuthEvent(ctx context.Context, flow, outcome string) {
	metricsOnce.Do(initMetrics)
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	))
}

func RecordVerificationEvent(ctx context.Context, channel, action, outcome string) {
	metricsOnce.Do(initMetrics)
	verificationCodes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	metricsOnce.Do(initMetrics)
	repositoryOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
