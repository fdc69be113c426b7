// Package usecase implements the 14 action handlers (GetRandomPassword among them):
// orchestration between the secret repository and the domain invariants
// governing stage labels, idempotent writes, and soft delete.
package usecase

import (
	"context"
	"time"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
)

// CreateSecretInput carries the CreateSecret action's parameters.
type CreateSecretInput struct {
	Name               string
	Description        string
	KmsKeyID           string
	SecretString       *string
	SecretBinary       []byte
	ClientRequestToken string
	Tags               []domain.Tag
}

// PutSecretValueInput carries the PutSecretValue action's parameters.
type PutSecretValueInput struct {
	SecretID           string
	SecretString       *string
	SecretBinary       []byte
	ClientRequestToken string
	VersionStages      []string
}

// UpdateSecretInput carries the UpdateSecret action's parameters.
type UpdateSecretInput struct {
	SecretID           string
	Description        *string
	KmsKeyID           *string
	SecretString       *string
	SecretBinary       []byte
	HasValue           bool
	ClientRequestToken string
}

// DeleteSecretInput carries the DeleteSecret action's parameters.
type DeleteSecretInput struct {
	SecretID                   string
	RecoveryWindowInDays       *int
	ForceDeleteWithoutRecovery bool
}

// GetSecretValueInput carries the GetSecretValue action's parameters.
type GetSecretValueInput struct {
	SecretID     string
	VersionID    string
	VersionStage string
}

// UpdateSecretVersionStageInput carries that action's parameters.
type UpdateSecretVersionStageInput struct {
	SecretID            string
	VersionStage        string
	RemoveFromVersionID string
	MoveToVersionID     string
}

// ListSecretsInput carries the ListSecrets action's parameters.
type ListSecretsInput struct {
	Filter     repository.ListFilter
	MaxResults int
	NextToken  string
	SortOrder  string
}

// ListSecretsOutput bundles the matched page and the token for the next one.
type ListSecretsOutput struct {
	Secrets   []*domain.Secret
	NextToken string
}

// ListSecretVersionIdsInput carries that action's parameters.
type ListSecretVersionIdsInput struct {
	SecretID          string
	MaxResults        int
	NextToken         string
	IncludeDeprecated bool
}

// ListSecretVersionIdsOutput bundles the matched page and next token.
type ListSecretVersionIdsOutput struct {
	Versions  []*domain.SecretVersion
	NextToken string
}

// BatchGetSecretValueInput carries that action's parameters.
type BatchGetSecretValueInput struct {
	SecretIDList []string
	Filter       *repository.ListFilter
	MaxResults   int
	NextToken    string
}

// BatchGetSecretValueResult is a per-secret success entry.
type BatchGetSecretValueResult struct {
	Secret  *domain.Secret
	Version *domain.SecretVersion
}

// BatchGetSecretValueError is a per-secret failure entry; errors do not
// abort the batch.
type BatchGetSecretValueError struct {
	SecretID  string
	ErrorCode string
	Message   string
}

// BatchGetSecretValueOutput bundles successes and per-secret errors.
type BatchGetSecretValueOutput struct {
	Values    []BatchGetSecretValueResult
	Errors    []BatchGetSecretValueError
	NextToken string
}

// GetRandomPasswordInput carries the GetRandomPassword action's parameters.
type GetRandomPasswordInput struct {
	PasswordLength          int
	ExcludeCharacters       string
	ExcludeLowercase        bool
	ExcludeUppercase        bool
	ExcludeNumbers          bool
	ExcludePunctuation      bool
	IncludeSpace            bool
	RequireEachIncludedType bool
}

// SecretUseCase implements the full action surface §4.3/§4.2 describe.
type SecretUseCase interface {
	CreateSecret(ctx context.Context, in CreateSecretInput) (*domain.Secret, *domain.SecretVersion, error)
	GetSecretValue(ctx context.Context, in GetSecretValueInput) (*domain.Secret, *domain.SecretVersion, error)
	PutSecretValue(ctx context.Context, in PutSecretValueInput) (*domain.Secret, *domain.SecretVersion, error)
	UpdateSecret(ctx context.Context, in UpdateSecretInput) (*domain.Secret, *domain.SecretVersion, error)
	DeleteSecret(ctx context.Context, in DeleteSecretInput) (*domain.Secret, error)
	RestoreSecret(ctx context.Context, secretID string) (*domain.Secret, error)
	DescribeSecret(ctx context.Context, secretID string) (*domain.Secret, []*domain.SecretVersion, error)
	ListSecrets(ctx context.Context, in ListSecretsInput) (ListSecretsOutput, error)
	ListSecretVersionIds(ctx context.Context, in ListSecretVersionIdsInput) (ListSecretVersionIdsOutput, error)
	BatchGetSecretValue(ctx context.Context, in BatchGetSecretValueInput) (BatchGetSecretValueOutput, error)
	UpdateSecretVersionStage(ctx context.Context, in UpdateSecretVersionStageInput) (*domain.Secret, error)
	TagResource(ctx context.Context, secretID string, tags []domain.Tag) error
	UntagResource(ctx context.Context, secretID string, tagKeys []string) error
	GetRandomPassword(ctx context.Context, in GetRandomPasswordInput) (string, error)
}

// clock abstracts time.Now for deterministic tests.
type clock func() time.Time
