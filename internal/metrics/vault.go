package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/imageguard/internal/errors"
)

// Outcome labels of a vault operation.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeUnauthorized = "unauthorized"
	OutcomeInvalid      = "invalid_input"
	OutcomeError        = "error"
)

// Outcome classifies err into one of the outcome labels. A wrong master password
// and a missing vault are counted apart from internal errors.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.Is(err, apperrors.ErrNotFound):
		return OutcomeNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		return OutcomeConflict
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return OutcomeUnauthorized
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// VaultMetrics records how vault operations end and how long they take.
//
// Operation examples: "exists", "create", "unlock", "update".
type VaultMetrics interface {
	RecordOperation(ctx context.Context, operation, outcome string, duration time.Duration)
}

type vaultMetrics struct {
	operations metric.Int64Counter
	durations  metric.Float64Histogram
}

// NewVaultMetrics creates the vault operation counter and duration histogram,
// both prefixed with namespace.
func NewVaultMetrics(meterProvider metric.MeterProvider, namespace string) (VaultMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_vault_operations_total", namespace),
		metric.WithDescription("Vault operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault operation counter: %w", err)
	}

	// Unlock and create include a slow verifier, so the buckets reach a few seconds.
	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_vault_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of vault operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault duration histogram: %w", err)
	}

	return &vaultMetrics{operations: operations, durations: durations}, nil
}

func (v *vaultMetrics) RecordOperation(ctx context.Context, operation, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	v.operations.Add(ctx, 1, attrs)
	v.durations.Record(ctx, duration.Seconds(), attrs)
}

// NoOpVaultMetrics discards everything. The container uses it when metrics are disabled.
type NoOpVaultMetrics struct{}

// NewNoOpVaultMetrics returns a VaultMetrics that records nothing.
func NewNoOpVaultMetrics() VaultMetrics {
	return NoOpVaultMetrics{}
}

// RecordOperation does nothing.
func (NoOpVaultMetrics) RecordOperation(context.Context, string, string, time.Duration) {}
