// Package repository implements the secret repository against the encrypted
// SQLite store: CRUD over secrets, versions, stage labels, and tags, with
// the DB invariants from the data model enforced at the SQL/transaction
// boundary.
package repository

import (
	"context"
	"time"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// ListFilter describes the predicate ListSecrets and BatchGetSecretValue
// (filter mode) apply, mirroring §4.3's filter semantics: each non-empty
// field is OR'd across its values, and AND'd with the other fields.
type ListFilter struct {
	Name          []string
	Description   []string
	TagKey        []string
	TagValue      []string
	All           []string
	IncludeDeleted bool
}

// SecretRepository is the sole writer of persistent secret state.
type SecretRepository interface {
	CreateSecret(ctx context.Context, secret *domain.Secret) error
	GetSecretByName(ctx context.Context, name string) (*domain.Secret, error)
	GetSecretByARN(ctx context.Context, arn string) (*domain.Secret, error)
	UpdateSecretMetadata(ctx context.Context, secret *domain.Secret) error
	TouchLastAccessed(ctx context.Context, arn string, at time.Time) error
	SoftDeleteSecret(ctx context.Context, arn string, deletedAt time.Time, recoveryWindowDays int) error
	RestoreSecret(ctx context.Context, arn string) error
	HardDeleteSecret(ctx context.Context, arn string) error
	ListSecrets(ctx context.Context, filter ListFilter) ([]*domain.Secret, error)

	CreateVersion(ctx context.Context, version *domain.SecretVersion) (created bool, err error)
	GetVersionByID(ctx context.Context, arn, versionID string) (*domain.SecretVersion, error)
	GetVersionByStage(ctx context.Context, arn, stage string) (*domain.SecretVersion, error)
	ListVersions(ctx context.Context, arn string, includeDeprecated bool) ([]*domain.SecretVersion, error)

	RemoveStageAny(ctx context.Context, arn, stage string) error
	AddStage(ctx context.Context, arn, versionID, stage string) error
	GetStageHolder(ctx context.Context, arn, stage string) (versionID string, ok bool, err error)

	SetTag(ctx context.Context, arn, key, value string) error
	DeleteTag(ctx context.Context, arn, key string) error
	ListTags(ctx context.Context, arn string) ([]domain.Tag, error)
	CountTags(ctx context.Context, arn string) (int, error)
}
