package usecase

import (
	"context"

	domain "github.com/allisson/secretsmanager/internal/secrets/domain"
)

// UpdateSecretVersionStage implements §4.3's UpdateSecretVersionStage
// semantics: exactly one of RemoveFromVersionID/MoveToVersionID for a pure
// remove/add, both together for a move. Moving AWSCURRENT promotes its
// previous holder to AWSPREVIOUS, evicting whatever held AWSPREVIOUS
// before. Removing AWSCURRENT without moving it would leave no version
// holding AWSCURRENT, violating invariant 1, and is rejected.
func (s *secretUseCase) UpdateSecretVersionStage(ctx context.Context, in UpdateSecretVersionStageInput) (*domain.Secret, error) {
	if in.RemoveFromVersionID == "" && in.MoveToVersionID == "" {
		return nil, domain.ErrInvalidParameter
	}

	var resultSecret *domain.Secret
	err := s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, in.SecretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}
		resultSecret = secret

		if in.MoveToVersionID == "" {
			if in.VersionStage == domain.StageAWSCURRENT {
				return domain.ErrInvalidStageTransition
			}
			return s.repo.RemoveStageAny(ctx, secret.ARN, in.VersionStage)
		}

		if _, err := s.repo.GetVersionByID(ctx, secret.ARN, in.MoveToVersionID); err != nil {
			return err
		}

		if in.VersionStage == domain.StageAWSCURRENT {
			previousCurrentVersionID, hadCurrent, err := s.repo.GetStageHolder(ctx, secret.ARN, domain.StageAWSCURRENT)
			if err != nil {
				return err
			}
			if err := s.repo.RemoveStageAny(ctx, secret.ARN, domain.StageAWSPREVIOUS); err != nil {
				return err
			}
			if hadCurrent && previousCurrentVersionID != in.MoveToVersionID {
				if err := s.repo.AddStage(ctx, secret.ARN, previousCurrentVersionID, domain.StageAWSPREVIOUS); err != nil {
					return err
				}
			}
		}

		if err := s.repo.RemoveStageAny(ctx, secret.ARN, in.VersionStage); err != nil {
			return err
		}
		return s.repo.AddStage(ctx, secret.ARN, in.MoveToVersionID, in.VersionStage)
	})
	if err != nil {
		return nil, err
	}
	return resultSecret, nil
}

// TagResource implements §4.3's TagResource semantics: upsert by key, 50
// tags per secret max, enforced here since the repository has no concept
// of a per-secret tag budget.
func (s *secretUseCase) TagResource(ctx context.Context, secretID string, tags []domain.Tag) error {
	const maxTagsPerSecret = 50

	return s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, secretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}

		existing, err := s.repo.CountTags(ctx, secret.ARN)
		if err != nil {
			return err
		}
		newKeys := map[string]bool{}
		for _, t := range tags {
			newKeys[t.Key] = true
		}
		if existing+len(newKeys) > maxTagsPerSecret {
			current, err := s.repo.ListTags(ctx, secret.ARN)
			if err != nil {
				return err
			}
			currentKeys := map[string]bool{}
			for _, t := range current {
				currentKeys[t.Key] = true
			}
			additions := 0
			for k := range newKeys {
				if !currentKeys[k] {
					additions++
				}
			}
			if existing+additions > maxTagsPerSecret {
				return domain.ErrInvalidParameter
			}
		}

		for _, tag := range tags {
			if err := s.repo.SetTag(ctx, secret.ARN, tag.Key, tag.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// UntagResource implements §4.3's UntagResource semantics.
func (s *secretUseCase) UntagResource(ctx context.Context, secretID string, tagKeys []string) error {
	return s.txManager.WithWriteTx(ctx, func(ctx context.Context) error {
		secret, err := s.resolveSecret(ctx, secretID)
		if err != nil {
			return err
		}
		if err := requireLive(secret); err != nil {
			return err
		}
		for _, key := range tagKeys {
			if err := s.repo.DeleteTag(ctx, secret.ARN, key); err != nil {
				return err
			}
		}
		return nil
	})
}
