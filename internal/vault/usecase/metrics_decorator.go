package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	"github.com/allisson/imageguard/internal/metrics"
	vaultDomain "github.com/allisson/imageguard/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.VaultMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.VaultMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	v.metrics.RecordOperation(ctx, operation, metrics.Outcome(err), time.Since(start))
}

// Exists records metrics for vault existence checks.
func (v *vaultUseCaseWithMetrics) Exists(ctx context.Context, imageHash string) (bool, error) {
	start := time.Now()
	exists, err := v.next.Exists(ctx, imageHash)
	v.record(ctx, "exists", start, err)
	return exists, err
}

// Create records metrics for vault creation.
func (v *vaultUseCaseWithMetrics) Create(ctx context.Context, input *vaultDomain.CreateVaultInput) error {
	start := time.Now()
	err := v.next.Create(ctx, input)
	v.record(ctx, "create", start, err)
	return err
}

// Unlock records metrics for vault unlocks.
func (v *vaultUseCaseWithMetrics) Unlock(
	ctx context.Context,
	imageHash, masterPassword string,
) (*cryptoDomain.EncryptedPackage, error) {
	start := time.Now()
	pkg, err := v.next.Unlock(ctx, imageHash, masterPassword)
	v.record(ctx, "unlock", start, err)
	return pkg, err
}

// Update records metrics for vault updates.
func (v *vaultUseCaseWithMetrics) Update(ctx context.Context, input *vaultDomain.UpdateVaultInput) error {
	start := time.Now()
	err := v.next.Update(ctx, input)
	v.record(ctx, "update", start, err)
	return err
}
