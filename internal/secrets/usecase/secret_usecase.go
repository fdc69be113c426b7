// Package usecase implements business logic orchestration for secret
// management: the 14 AWS-API-compatible actions, GetRandomPassword included,
// composed from repository calls under the stage-label and soft-delete
// invariants.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/secretsmanager/internal/cryptoutil"
	"github.com/allisson/secretsmanager/internal/database"
	apperrors "github.com/allisson/secretsmanager/internal/errors"
	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
	"github.com/allisson/secretsmanager/internal/secrets/repository"
)

const (
	defaultRecoveryWindowDays = 30
	minRecoveryWindowDays     = 7
	maxRecoveryWindowDays     = 30
)

// secretUseCase implements SecretUseCase against the SQLite-backed
// repository.
type secretUseCase struct {
	txManager   database.TxManager
	repo        repository.SecretRepository
	arnRegion   string
	arnAccount  string
	paginateKey []byte
	now         clock
}

// NewSecretUseCase creates a new secret use case instance. arnRegion and
// arnAccount are embedded verbatim into synthetic ARNs; paginateKey signs
// pagination tokens.
func NewSecretUseCase(
	txManager database.TxManager,
	repo repository.SecretRepository,
	arnRegion, arnAccount string,
	paginateKey []byte,
) SecretUseCase {
	return &secretUseCase{
		txManager:   txManager,
		repo:        repo,
		arnRegion:   arnRegion,
		arnAccount:  arnAccount,
		paginateKey: paginateKey,
		now:         time.Now,
	}
}

// newARN allocates a synthetic ARN of the form
// arn:aws:secretsmanager:<region>:<account>:secret:<name>-<6 random alphanumerics>.
func (s *secretUseCase) newARN(name string) (string, error) {
	suffix, err := cryptoutil.GenerateRandomPassword(cryptoutil.PasswordOptions{
		Length:                  6,
		ExcludePunctuation:      true,
		RequireEachIncludedType: false,
	})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to generate arn suffix")
	}
	return fmt.Sprintf("arn:aws:secretsmanager:%s:%s:secret:%s-%s", s.arnRegion, s.arnAccount, name, suffix), nil
}

func newVersionID() string {
	return uuid.New().String()
}

// resolveSecret loads a secret by ARN or name (§6: SecretId is either). A
// secret whose recovery window has lapsed behaves as not found, since it is
// eligible for permanent deletion even if the sweep that performs it hasn't
// run yet.
func (s *secretUseCase) resolveSecret(ctx context.Context, secretID string) (*domain.Secret, error) {
	var secret *domain.Secret
	var err error
	if looksLikeARN(secretID) {
		secret, err = s.repo.GetSecretByARN(ctx, secretID)
	} else {
		secret, err = s.repo.GetSecretByName(ctx, secretID)
	}
	if err != nil {
		return nil, err
	}
	if secret.IsDeleted() && secret.RecoveryWindowInDays != nil {
		expiresAt := secret.DeletedAt.AddDate(0, 0, *secret.RecoveryWindowInDays)
		if !s.now().Before(expiresAt) {
			return nil, domain.ErrSecretNotFound
		}
	}
	return secret, nil
}

func looksLikeARN(secretID string) bool {
	return len(secretID) > 4 && secretID[:4] == "arn:"
}

func requireLive(secret *domain.Secret) error {
	if secret.IsDeleted() {
		return domain.ErrSoftDeleted
	}
	return nil
}

// CreateSecret implements §4.3's CreateSecret semantics, including the
// exact-match-vs-conflicting-payload idempotent replay rule.
func (s *secretUseCase) CreateSecret(ctx context.Context, in CreateSecretInput) (*domain.Secret, *domain.SecretVersion, error) {
	if in.SecretString != nil && in.SecretBinary != nil {
		return nil, nil, domain.ErrInvalidRequest
	}

	var resultSecret *domain.Secret
	var resultVersion *domain.SecretVersion

	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetSecretByName(ctx, in.Name)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if existing != nil {
			if existing.IsDeleted() {
				return domain.ErrSoftDeleted
			}

			token := in.ClientRequestToken
			if token == "" {
				token = newVersionID()
			}

			existingVersion, verr := s.repo.GetVersionByID(ctx, existing.ARN, token)
			if verr == nil {
				if !existingVersion.SamePayload(in.SecretString, in.SecretBinary) {
					return domain.ErrClientTokenConflict
				}
				resultSecret = existing
				resultVersion = existingVersion
				return nil
			}
			if !apperrors.Is(verr, apperrors.ErrNotFound) {
				return verr
			}

			if _, ok, err := s.repo.GetStageHolder(ctx, existing.ARN, domain.StageAWSCURRENT); err != nil {
				return err
			} else if ok {
				return domain.ErrNameInUse
			}

			version := &domain.SecretVersion{
				SecretARN:    existing.ARN,
				VersionID:    token,
				SecretString: in.SecretString,
				SecretBinary: in.SecretBinary,
				CreatedAt:    s.now().UTC(),
			}
			if err := s.putVersion(ctx, existing.ARN, version, []string{domain.StageAWSCURRENT}); err != nil {
				return err
			}
			resultSecret = existing
			resultVersion = version
			return nil
		}

		arn, err := s.newARN(in.Name)
		if err != nil {
			return err
		}

		token := in.ClientRequestToken
		if token == "" {
			token = newVersionID()
		}

		now := s.now().UTC()
		secret := &domain.Secret{
			ARN:             arn,
			Name:            in.Name,
			Description:     in.Description,
			KmsKeyID:        in.KmsKeyID,
			CreatedAt:       now,
			LastChangedDate: now,
			Tags:            in.Tags,
		}
		if err := s.repo.CreateSecret(ctx, secret); err != nil {
			return err
		}
		for _, tag := range in.Tags {
			if err := s.repo.SetTag(ctx, arn, tag.Key, tag.Value); err != nil {
				return err
			}
		}

		resultSecret = secret

		if in.SecretString != nil || in.SecretBinary != nil {
			version := &domain.SecretVersion{
				SecretARN:    arn,
				VersionID:    token,
				SecretString: in.SecretString,
				SecretBinary: in.SecretBinary,
				CreatedAt:    now,
			}
			if err := s.putVersion(ctx, arn, version, []string{domain.StageAWSCURRENT}); err != nil {
				return err
			}
			resultVersion = version
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resultSecret, resultVersion, nil
}

// GetSecretValue implements §4.3's GetSecretValue semantics.
func (s *secretUseCase) GetSecretValue(ctx context.Context, in GetSecretValueInput) (*domain.Secret, *domain.SecretVersion, error) {
	if in.VersionID != "" && in.VersionStage != "" {
		return nil, nil, domain.ErrInvalidParameter
	}

	var secret *domain.Secret
	var version *domain.SecretVersion

	err := s.txManager.WithReadTx(ctx, func(ctx context.Context) error {
		var err error
		secret, err = s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}

		if in.VersionID != "" {
			version, err = s.repo.GetVersionByID(ctx, secret.ARN, in.VersionID)
			return err
		}
		stage := in.VersionStage
		if stage == "" {
			stage = domain.StageAWSCURRENT
		}
		version, err = s.repo.GetVersionByStage(ctx, secret.ARN, stage)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if werr := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		return s.repo.TouchLastAccessed(ctx, secret.ARN, midnightUTC(s.now()))
	}); werr != nil {
		return nil, nil, werr
	}

	return secret, version, nil
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PutSecretValue implements §4.3's PutSecretValue semantics, including the
// exact stage-transition ordering restored in §4.3d.
func (s *secretUseCase) PutSecretValue(ctx context.Context, in PutSecretValueInput) (*domain.Secret, *domain.SecretVersion, error) {
	if in.SecretString != nil && in.SecretBinary != nil {
		return nil, nil, domain.ErrInvalidRequest
	}
	if in.SecretString == nil && in.SecretBinary == nil {
		return nil, nil, domain.ErrInvalidRequest
	}

	var resultSecret *domain.Secret
	var resultVersion *domain.SecretVersion

	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}
		resultSecret = secret

		token := in.ClientRequestToken
		if token == "" {
			token = newVersionID()
		}

		if existingVersion, verr := s.repo.GetVersionByID(ctx, secret.ARN, token); verr == nil {
			if !existingVersion.SamePayload(in.SecretString, in.SecretBinary) {
				return domain.ErrClientTokenConflict
			}
			resultVersion = existingVersion
			return nil
		} else if !apperrors.Is(verr, apperrors.ErrNotFound) {
			return verr
		}

		stages := in.VersionStages
		if len(stages) == 0 {
			stages = []string{domain.StageAWSCURRENT}
		}

		version := &domain.SecretVersion{
			SecretARN:    secret.ARN,
			VersionID:    token,
			SecretString: in.SecretString,
			SecretBinary: in.SecretBinary,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.putVersion(ctx, secret.ARN, version, stages); err != nil {
			return err
		}
		resultVersion = version
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resultSecret, resultVersion, nil
}

// putVersion inserts version and applies stages in the exact order §4.3d
// restores from the original implementation: (1) the version row already
// exists by the time this is called; (2) for each requested stage, remove
// it from wherever it currently sits; (3) if AWSCURRENT is requested, move
// AWSPREVIOUS off its current holder and onto whichever version currently
// holds AWSCURRENT (captured before reassignment); (4) add the requested
// stage to the new version.
func (s *secretUseCase) putVersion(ctx context.Context, arn string, version *domain.SecretVersion, stages []string) error {
	created, err := s.repo.CreateVersion(ctx, version)
	if err != nil {
		return err
	}
	if !created {
		return domain.ErrClientTokenConflict
	}

	for _, stage := range stages {
		previousCurrentVersionID, hadCurrent := "", false
		if stage == domain.StageAWSCURRENT {
			var err error
			previousCurrentVersionID, hadCurrent, err = s.repo.GetStageHolder(ctx, arn, domain.StageAWSCURRENT)
			if err != nil {
				return err
			}
		}

		if err := s.repo.RemoveStageAny(ctx, arn, stage); err != nil {
			return err
		}

		if stage == domain.StageAWSCURRENT {
			if err := s.repo.RemoveStageAny(ctx, arn, domain.StageAWSPREVIOUS); err != nil {
				return err
			}
			if hadCurrent && previousCurrentVersionID != version.VersionID {
				if err := s.repo.AddStage(ctx, arn, previousCurrentVersionID, domain.StageAWSPREVIOUS); err != nil {
					return err
				}
			}
		}

		if err := s.repo.AddStage(ctx, arn, version.VersionID, stage); err != nil {
			return err
		}
	}
	version.Stages = append([]string(nil), stages...)
	return nil
}

// UpdateSecret implements §4.3's UpdateSecret semantics: metadata update in
// place, falling through to PutSecretValue semantics when a new value is
// supplied.
func (s *secretUseCase) UpdateSecret(ctx context.Context, in UpdateSecretInput) (*domain.Secret, *domain.SecretVersion, error) {
	if in.SecretString != nil && in.SecretBinary != nil {
		return nil, nil, domain.ErrInvalidRequest
	}

	var resultSecret *domain.Secret
	var resultVersion *domain.SecretVersion

	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}

		if in.Description != nil {
			secret.Description = *in.Description
		}
		if in.KmsKeyID != nil {
			secret.KmsKeyID = *in.KmsKeyID
		}
		secret.LastChangedDate = s.now().UTC()
		if err := s.repo.UpdateSecretMetadata(ctx, secret); err != nil {
			return err
		}
		resultSecret = secret

		if !in.HasValue {
			return nil
		}

		token := in.ClientRequestToken
		if token == "" {
			token = newVersionID()
		}
		if existingVersion, verr := s.repo.GetVersionByID(ctx, secret.ARN, token); verr == nil {
			if !existingVersion.SamePayload(in.SecretString, in.SecretBinary) {
				return domain.ErrClientTokenConflict
			}
			resultVersion = existingVersion
			return nil
		} else if !apperrors.Is(verr, apperrors.ErrNotFound) {
			return verr
		}

		version := &domain.SecretVersion{
			SecretARN:    secret.ARN,
			VersionID:    token,
			SecretString: in.SecretString,
			SecretBinary: in.SecretBinary,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.putVersion(ctx, secret.ARN, version, []string{domain.StageAWSCURRENT}); err != nil {
			return err
		}
		resultVersion = version
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resultSecret, resultVersion, nil
}

// DeleteSecret implements §4.3's DeleteSecret semantics: mutually exclusive
// force/recovery-window flags, soft delete by default.
func (s *secretUseCase) DeleteSecret(ctx context.Context, in DeleteSecretInput) (*domain.Secret, error) {
	if in.ForceDeleteWithoutRecovery && in.RecoveryWindowInDays != nil {
		return nil, domain.ErrInvalidParameter
	}
	if in.RecoveryWindowInDays != nil {
		days := *in.RecoveryWindowInDays
		if days < minRecoveryWindowDays || days > maxRecoveryWindowDays {
			return nil, domain.ErrInvalidParameter
		}
	}

	var resultSecret *domain.Secret
	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		if secret.IsDeleted() {
			return domain.ErrSoftDeleted
		}
		resultSecret = secret

		if in.ForceDeleteWithoutRecovery {
			return s.repo.HardDeleteSecret(ctx, secret.ARN)
		}

		days := defaultRecoveryWindowDays
		if in.RecoveryWindowInDays != nil {
			days = *in.RecoveryWindowInDays
		}
		deletedAt := s.now().UTC()
		secret.DeletedAt = &deletedAt
		secret.RecoveryWindowInDays = &days
		return s.repo.SoftDeleteSecret(ctx, secret.ARN, deletedAt, days)
	})
	if err != nil {
		return nil, err
	}
	return resultSecret, nil
}

// RestoreSecret implements §4.3's RestoreSecret semantics.
func (s *secretUseCase) RestoreSecret(ctx context.Context, secretID string) (*domain.Secret, error) {
	var resultSecret *domain.Secret
	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, secretID)
		if err != nil {
			return err
		}
		if !secret.IsDeleted() {
			return domain.ErrNotSoftDeleted
		}
		if err := s.repo.RestoreSecret(ctx, secret.ARN); err != nil {
			return err
		}
		secret.DeletedAt = nil
		secret.RecoveryWindowInDays = nil
		resultSecret = secret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultSecret, nil
}

// DescribeSecret implements §4.3's DescribeSecret semantics: metadata plus
// every version that carries at least one stage.
func (s *secretUseCase) DescribeSecret(ctx context.Context, secretID string) (*domain.Secret, []*domain.SecretVersion, error) {
	var secret *domain.Secret
	var versions []*domain.SecretVersion

	err := s.txManager.WithReadTx(ctx, func(ctx context.Context) error {
		var err error
		secret, err = s.resolveSecret(ctx, secretID)
		if err != nil {
			return err
		}
		versions, err = s.repo.ListVersions(ctx, secret.ARN, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return secret, versions, nil
}
