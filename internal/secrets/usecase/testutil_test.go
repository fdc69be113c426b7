package usecase

import (
	"context"
	"strings"
	"time"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
)

// fakeTxManager runs fn directly with the caller's context, without
// any real locking or rollback — sufficient for exercising usecase
// orchestration logic against fakeRepository.
type fakeTxManager struct{}

func (fakeTxManager) WithWriteTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) WithReadTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRepository is an in-memory stand-in for repository.SecretRepository,
// used so usecase tests exercise real orchestration logic without a SQLite
// database.
type fakeRepository struct {
	secrets  map[string]*domain.Secret // by ARN
	byName   map[string]string         // name -> ARN
	versions map[string]map[string]*domain.SecretVersion
	stages   map[string]map[string]string // arn -> stage -> versionID
	tags     map[string]map[string]string // arn -> key -> value
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		secrets:  map[string]*domain.Secret{},
		byName:   map[string]string{},
		versions: map[string]map[string]*domain.SecretVersion{},
		stages:   map[string]map[string]string{},
		tags:     map[string]map[string]string{},
	}
}

func (f *fakeRepository) CreateSecret(ctx context.Context, secret *domain.Secret) error {
	if _, ok := f.byName[secret.Name]; ok {
		return domain.ErrNameInUse
	}
	cp := *secret
	f.secrets[secret.ARN] = &cp
	f.byName[secret.Name] = secret.ARN
	f.versions[secret.ARN] = map[string]*domain.SecretVersion{}
	f.stages[secret.ARN] = map[string]string{}
	f.tags[secret.ARN] = map[string]string{}
	return nil
}

func (f *fakeRepository) GetSecretByName(ctx context.Context, name string) (*domain.Secret, error) {
	arn, ok := f.byName[name]
	if !ok {
		return nil, domain.ErrSecretNotFound
	}
	return f.GetSecretByARN(ctx, arn)
}

func (f *fakeRepository) GetSecretByARN(ctx context.Context, arn string) (*domain.Secret, error) {
	secret, ok := f.secrets[arn]
	if !ok {
		return nil, domain.ErrSecretNotFound
	}
	cp := *secret
	var tags []domain.Tag
	for k, v := range f.tags[arn] {
		tags = append(tags, domain.Tag{Key: k, Value: v})
	}
	cp.Tags = tags
	return &cp, nil
}

func (f *fakeRepository) UpdateSecretMetadata(ctx context.Context, secret *domain.Secret) error {
	existing, ok := f.secrets[secret.ARN]
	if !ok {
		return domain.ErrSecretNotFound
	}
	existing.Description = secret.Description
	existing.KmsKeyID = secret.KmsKeyID
	existing.LastChangedDate = secret.LastChangedDate
	return nil
}

func (f *fakeRepository) TouchLastAccessed(ctx context.Context, arn string, at time.Time) error {
	return nil
}

func (f *fakeRepository) SoftDeleteSecret(ctx context.Context, arn string, deletedAt time.Time, recoveryWindowDays int) error {
	secret, ok := f.secrets[arn]
	if !ok {
		return domain.ErrSecretNotFound
	}
	secret.DeletedAt = &deletedAt
	secret.RecoveryWindowInDays = &recoveryWindowDays
	return nil
}

func (f *fakeRepository) RestoreSecret(ctx context.Context, arn string) error {
	secret, ok := f.secrets[arn]
	if !ok {
		return domain.ErrSecretNotFound
	}
	secret.DeletedAt = nil
	secret.RecoveryWindowInDays = nil
	return nil
}

func (f *fakeRepository) HardDeleteSecret(ctx context.Context, arn string) error {
	secret, ok := f.secrets[arn]
	if !ok {
		return nil
	}
	delete(f.secrets, arn)
	delete(f.byName, secret.Name)
	delete(f.versions, arn)
	delete(f.stages, arn)
	delete(f.tags, arn)
	return nil
}

func (f *fakeRepository) ListSecrets(ctx context.Context, filter repository.ListFilter) ([]*domain.Secret, error) {
	var out []*domain.Secret
	for _, secret := range f.secrets {
		if !filter.IncludeDeleted && secret.IsDeleted() {
			continue
		}
		if len(filter.Name) > 0 && !matchesAny(secret.Name, filter.Name) {
			continue
		}
		cp := *secret
		out = append(out, &cp)
	}
	return out, nil
}

func matchesAny(value string, filters []string) bool {
	for _, f := range filters {
		negate := strings.HasPrefix(f, "!")
		f = strings.TrimPrefix(f, "!")
		matches := strings.HasPrefix(strings.ToLower(value), strings.ToLower(f))
		if negate {
			matches = !matches
		}
		if matches {
			return true
		}
	}
	return false
}

func (f *fakeRepository) CreateVersion(ctx context.Context, version *domain.SecretVersion) (bool, error) {
	versions := f.versions[version.SecretARN]
	if _, ok := versions[version.VersionID]; ok {
		return false, nil
	}
	cp := *version
	versions[version.VersionID] = &cp
	return true, nil
}

func (f *fakeRepository) GetVersionByID(ctx context.Context, arn, versionID string) (*domain.SecretVersion, error) {
	version, ok := f.versions[arn][versionID]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	return f.withStages(arn, version), nil
}

func (f *fakeRepository) GetVersionByStage(ctx context.Context, arn, stage string) (*domain.SecretVersion, error) {
	versionID, ok := f.stages[arn][stage]
	if !ok {
		return nil, domain.ErrVersionNotFound
	}
	return f.GetVersionByID(ctx, arn, versionID)
}

func (f *fakeRepository) withStages(arn string, version *domain.SecretVersion) *domain.SecretVersion {
	cp := *version
	var stages []string
	for stage, vid := range f.stages[arn] {
		if vid == version.VersionID {
			stages = append(stages, stage)
		}
	}
	cp.Stages = stages
	return &cp
}

func (f *fakeRepository) ListVersions(ctx context.Context, arn string, includeDeprecated bool) ([]*domain.SecretVersion, error) {
	var out []*domain.SecretVersion
	for _, version := range f.versions[arn] {
		withStages := f.withStages(arn, version)
		if !includeDeprecated && len(withStages.Stages) == 0 {
			continue
		}
		out = append(out, withStages)
	}
	return out, nil
}

func (f *fakeRepository) RemoveStageAny(ctx context.Context, arn, stage string) error {
	delete(f.stages[arn], stage)
	return nil
}

func (f *fakeRepository) AddStage(ctx context.Context, arn, versionID, stage string) error {
	f.stages[arn][stage] = versionID
	return nil
}

func (f *fakeRepository) GetStageHolder(ctx context.Context, arn, stage string) (string, bool, error) {
	versionID, ok := f.stages[arn][stage]
	return versionID, ok, nil
}

func (f *fakeRepository) SetTag(ctx context.Context, arn, key, value string) error {
	f.tags[arn][key] = value
	return nil
}

func (f *fakeRepository) DeleteTag(ctx context.Context, arn, key string) error {
	delete(f.tags[arn], key)
	return nil
}

func (f *fakeRepository) ListTags(ctx context.Context, arn string) ([]domain.Tag, error) {
	var out []domain.Tag
	for k, v := range f.tags[arn] {
		out = append(out, domain.Tag{Key: k, Value: v})
	}
	return out, nil
}

func (f *fakeRepository) CountTags(ctx context.Context, arn string) (int, error) {
	return len(f.tags[arn]), nil
}
