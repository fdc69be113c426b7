package usecase

import (
	"context"
	"time"

	"github.com/allisson/secretsmanager/internal/metrics"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

func (s *secretUseCaseWithMetrics) CreateSecret(ctx context.Context, in CreateSecretInput) (*domain.Secret, *domain.SecretVersion, error) {
	start := time.Now()
	secret, version, err := s.next.CreateSecret(ctx, in)
	s.record(ctx, "create_secret", start, err)
	return secret, version, err
}

func (s *secretUseCaseWithMetrics) GetSecretValue(ctx context.Context, in GetSecretValueInput) (*domain.Secret, *domain.SecretVersion, error) {
	start := time.Now()
	secret, version, err := s.next.GetSecretValue(ctx, in)
	s.record(ctx, "get_secret_value", start, err)
	return secret, version, err
}

func (s *secretUseCaseWithMetrics) PutSecretValue(ctx context.Context, in PutSecretValueInput) (*domain.Secret, *domain.SecretVersion, error) {
	start := time.Now()
	secret, version, err := s.next.PutSecretValue(ctx, in)
	s.record(ctx, "put_secret_value", start, err)
	return secret, version, err
}

func (s *secretUseCaseWithMetrics) UpdateSecret(ctx context.Context, in UpdateSecretInput) (*domain.Secret, *domain.SecretVersion, error) {
	start := time.Now()
	secret, version, err := s.next.UpdateSecret(ctx, in)
	s.record(ctx, "update_secret", start, err)
	return secret, version, err
}

func (s *secretUseCaseWithMetrics) DeleteSecret(ctx context.Context, in DeleteSecretInput) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.DeleteSecret(ctx, in)
	s.record(ctx, "delete_secret", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) RestoreSecret(ctx context.Context, secretID string) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.RestoreSecret(ctx, secretID)
	s.record(ctx, "restore_secret", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) DescribeSecret(ctx context.Context, secretID string) (*domain.Secret, []*domain.SecretVersion, error) {
	start := time.Now()
	secret, versions, err := s.next.DescribeSecret(ctx, secretID)
	s.record(ctx, "describe_secret", start, err)
	return secret, versions, err
}

func (s *secretUseCaseWithMetrics) ListSecrets(ctx context.Context, in ListSecretsInput) (ListSecretsOutput, error) {
	start := time.Now()
	out, err := s.next.ListSecrets(ctx, in)
	s.record(ctx, "list_secrets", start, err)
	return out, err
}

func (s *secretUseCaseWithMetrics) ListSecretVersionIds(ctx context.Context, in ListSecretVersionIdsInput) (ListSecretVersionIdsOutput, error) {
	start := time.Now()
	out, err := s.next.ListSecretVersionIds(ctx, in)
	s.record(ctx, "list_secret_version_ids", start, err)
	return out, err
}

func (s *secretUseCaseWithMetrics) BatchGetSecretValue(ctx context.Context, in BatchGetSecretValueInput) (BatchGetSecretValueOutput, error) {
	start := time.Now()
	out, err := s.next.BatchGetSecretValue(ctx, in)
	s.record(ctx, "batch_get_secret_value", start, err)
	return out, err
}

func (s *secretUseCaseWithMetrics) UpdateSecretVersionStage(ctx context.Context, in UpdateSecretVersionStageInput) (*domain.Secret, error) {
	start := time.Now()
	secret, err := s.next.UpdateSecretVersionStage(ctx, in)
	s.record(ctx, "update_secret_version_stage", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) TagResource(ctx context.Context, secretID string, tags []domain.Tag) error {
	start := time.Now()
	err := s.next.TagResource(ctx, secretID, tags)
	s.record(ctx, "tag_resource", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) UntagResource(ctx context.Context, secretID string, tagKeys []string) error {
	start := time.Now()
	err := s.next.UntagResource(ctx, secretID, tagKeys)
	s.record(ctx, "untag_resource", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) GetRandomPassword(ctx context.Context, in GetRandomPasswordInput) (string, error) {
	start := time.Now()
	password, err := s.next.GetRandomPassword(ctx, in)
	s.record(ctx, "get_random_password", start, err)
	return password, err
}
